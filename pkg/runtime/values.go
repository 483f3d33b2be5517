package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"rinha/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindStr
	KindTuple
	KindClosure
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindStr:
		return "string"
	case KindTuple:
		return "tuple"
	case KindClosure:
		return "closure"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values. Values are immutable
// once constructed.
type Value interface {
	Kind() Kind
}

// Integers are 64-bit two's complement; arithmetic wraps on overflow.
type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type StrValue struct {
	Val string
}

func (v StrValue) Kind() Kind { return KindStr }

type TupleValue struct {
	First  Value
	Second Value
}

func (v TupleValue) Kind() Kind { return KindTuple }

// ClosureValue pairs a function literal with the environment active at its
// definition site. The environment is shared, never copied: bindings visible
// there stay visible for as long as the closure is reachable.
type ClosureValue struct {
	Fn  *ast.Function
	Env *Environment
}

func (v *ClosureValue) Kind() Kind { return KindClosure }

// Render returns the canonical textual form of a value, as used by print and
// by string concatenation. Closures render as an opaque placeholder; captured
// state is never expanded.
func Render(v Value) string {
	switch val := v.(type) {
	case IntValue:
		return strconv.FormatInt(val.Val, 10)
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case StrValue:
		return val.Val
	case TupleValue:
		return "(" + Render(val.First) + ", " + Render(val.Second) + ")"
	case *ClosureValue:
		return "<#closure>"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// Equal reports structural equality between two values of the same kind.
// Comparing across kinds, or comparing closures, is an error rather than a
// silent false.
func Equal(a, b Value) (bool, error) {
	if a.Kind() != b.Kind() {
		return false, fmt.Errorf("cannot compare %s with %s", a.Kind(), b.Kind())
	}
	switch av := a.(type) {
	case IntValue:
		return av.Val == b.(IntValue).Val, nil
	case BoolValue:
		return av.Val == b.(BoolValue).Val, nil
	case StrValue:
		return av.Val == b.(StrValue).Val, nil
	case TupleValue:
		bv := b.(TupleValue)
		firstEq, err := Equal(av.First, bv.First)
		if err != nil {
			return false, err
		}
		if !firstEq {
			return false, nil
		}
		return Equal(av.Second, bv.Second)
	default:
		return false, fmt.Errorf("%s values cannot be compared", a.Kind())
	}
}

// Compare orders two values: ints numerically, strings lexicographically.
// Every other pairing is an error.
func Compare(a, b Value) (int, error) {
	switch av := a.(type) {
	case IntValue:
		if bv, ok := b.(IntValue); ok {
			switch {
			case av.Val < bv.Val:
				return -1, nil
			case av.Val > bv.Val:
				return 1, nil
			default:
				return 0, nil
			}
		}
	case StrValue:
		if bv, ok := b.(StrValue); ok {
			return strings.Compare(av.Val, bv.Val), nil
		}
	}
	return 0, fmt.Errorf("cannot order %s against %s", a.Kind(), b.Kind())
}
