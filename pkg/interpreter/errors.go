package interpreter

import (
	"fmt"

	"rinha/interpreter-go/pkg/ast"
)

// ErrorKind classifies evaluation failures.
type ErrorKind string

const (
	ErrUnboundVariable ErrorKind = "UnboundVariable"
	ErrTypeMismatch    ErrorKind = "TypeMismatch"
	ErrNotCallable     ErrorKind = "NotCallable"
	ErrArityMismatch   ErrorKind = "ArityMismatch"
	ErrDivisionByZero  ErrorKind = "DivisionByZero"
	ErrStackExhausted  ErrorKind = "StackExhausted"
	ErrMalformedTree   ErrorKind = "MalformedTree"
)

// EvalError is the typed failure every evaluation aborts with. The first
// error ends the whole run; print output already emitted stands.
type EvalError struct {
	Kind    ErrorKind
	Loc     ast.Loc
	Message string
}

func (e *EvalError) Error() string {
	if e.Loc == (ast.Loc{}) {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Loc, e.Kind, e.Message)
}

func newError(kind ErrorKind, loc ast.Loc, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Loc: loc, Message: fmt.Sprintf(format, args...)}
}
