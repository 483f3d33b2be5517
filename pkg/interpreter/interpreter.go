package interpreter

import (
	"fmt"
	"io"
	"os"

	"rinha/interpreter-go/pkg/ast"
	"rinha/interpreter-go/pkg/runtime"
)

// DefaultMaxDepth bounds recursive evaluation steps. Tree-walking consumes
// one native frame per nested term and per language-level call, so the limit
// surfaces deep recursion as a StackExhausted error instead of a crash.
const DefaultMaxDepth = 100_000

// Config adjusts an Interpreter. The zero value selects stdout and the
// default depth limit.
type Config struct {
	Output   io.Writer
	MaxDepth int
}

// Interpreter drives recursive evaluation of Rinha AST terms.
type Interpreter struct {
	out      io.Writer
	maxDepth int
	depth    int
	global   *runtime.Environment
}

// New returns an interpreter with an empty global environment.
func New() *Interpreter {
	return NewWithConfig(Config{})
}

// NewWithConfig returns an interpreter honoring the provided configuration.
func NewWithConfig(cfg Config) *Interpreter {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Interpreter{
		out:      out,
		maxDepth: maxDepth,
		global:   runtime.NewEnvironment(nil),
	}
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// EvaluateFile executes a whole program in a fresh scope under the global
// environment and returns its final value.
func (i *Interpreter) EvaluateFile(file *ast.File) (runtime.Value, error) {
	if file == nil || file.Expression == nil {
		return nil, newError(ErrMalformedTree, ast.Loc{}, "empty program")
	}
	return i.Evaluate(file.Expression, runtime.NewEnvironment(i.global))
}

// Evaluate resolves a single term against the provided environment.
func (i *Interpreter) Evaluate(term ast.Term, env *runtime.Environment) (runtime.Value, error) {
	return i.evaluateTerm(term, env)
}

func (i *Interpreter) evaluateTerm(term ast.Term, env *runtime.Environment) (runtime.Value, error) {
	if term == nil {
		return nil, newError(ErrMalformedTree, ast.Loc{}, "missing term")
	}
	if i.depth >= i.maxDepth {
		return nil, newError(ErrStackExhausted, term.Location(), "recursion depth exceeded %d", i.maxDepth)
	}
	i.depth++
	defer func() { i.depth-- }()

	switch n := term.(type) {
	case *ast.IntLiteral:
		return runtime.IntValue{Val: n.Value}, nil
	case *ast.StrLiteral:
		return runtime.StrValue{Val: n.Value}, nil
	case *ast.BoolLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.Var:
		val, ok := env.Get(n.Text)
		if !ok {
			return nil, newError(ErrUnboundVariable, n.Location(), "unknown variable '%s'", n.Text)
		}
		return val, nil
	case *ast.Function:
		// The body is not evaluated here; the closure shares the
		// defining environment.
		return &runtime.ClosureValue{Fn: n, Env: env}, nil
	case *ast.Let:
		return i.evaluateLet(n, env)
	case *ast.If:
		return i.evaluateIf(n, env)
	case *ast.Binary:
		return i.evaluateBinary(n, env)
	case *ast.Call:
		return i.evaluateCall(n, env)
	case *ast.Print:
		val, err := i.evaluateTerm(n.Value, env)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(i.out, runtime.Render(val))
		return val, nil
	case *ast.Tuple:
		first, err := i.evaluateTerm(n.First, env)
		if err != nil {
			return nil, err
		}
		second, err := i.evaluateTerm(n.Second, env)
		if err != nil {
			return nil, err
		}
		return runtime.TupleValue{First: first, Second: second}, nil
	case *ast.First:
		val, err := i.evaluateTerm(n.Value, env)
		if err != nil {
			return nil, err
		}
		tup, ok := val.(runtime.TupleValue)
		if !ok {
			return nil, newError(ErrTypeMismatch, n.Location(), "argument to 'first' is %s, not a tuple", val.Kind())
		}
		return tup.First, nil
	case *ast.Second:
		val, err := i.evaluateTerm(n.Value, env)
		if err != nil {
			return nil, err
		}
		tup, ok := val.(runtime.TupleValue)
		if !ok {
			return nil, newError(ErrTypeMismatch, n.Location(), "argument to 'second' is %s, not a tuple", val.Kind())
		}
		return tup.Second, nil
	default:
		return nil, newError(ErrMalformedTree, term.Location(), "unexpected node kind %s", term.NodeType())
	}
}

// evaluateLet binds eagerly into a fresh child frame. A function literal
// bound by let captures the frame holding its own binding, making the name
// visible recursively inside the body; any other bound expression is
// evaluated in the outer environment.
func (i *Interpreter) evaluateLet(node *ast.Let, env *runtime.Environment) (runtime.Value, error) {
	if node.Name == nil || node.Name.Text == "" {
		return nil, newError(ErrMalformedTree, node.Location(), "let binding missing name")
	}
	frame := runtime.NewEnvironment(env)
	if fn, ok := node.Value.(*ast.Function); ok {
		frame.Define(node.Name.Text, &runtime.ClosureValue{Fn: fn, Env: frame})
	} else {
		val, err := i.evaluateTerm(node.Value, env)
		if err != nil {
			return nil, err
		}
		frame.Define(node.Name.Text, val)
	}
	return i.evaluateTerm(node.Next, frame)
}

// evaluateIf evaluates exactly one branch; the untaken branch produces no
// side effects.
func (i *Interpreter) evaluateIf(node *ast.If, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evaluateTerm(node.Condition, env)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(runtime.BoolValue)
	if !ok {
		return nil, newError(ErrTypeMismatch, node.Location(), "condition in 'if' is %s, not bool", cond.Kind())
	}
	if b.Val {
		return i.evaluateTerm(node.Then, env)
	}
	return i.evaluateTerm(node.Otherwise, env)
}

// evaluateBinary evaluates both operands left-to-right before dispatching on
// the operator. This holds for && and || too: logical operators do not
// short-circuit.
func (i *Interpreter) evaluateBinary(node *ast.Binary, env *runtime.Environment) (runtime.Value, error) {
	lhs, err := i.evaluateTerm(node.Lhs, env)
	if err != nil {
		return nil, err
	}
	rhs, err := i.evaluateTerm(node.Rhs, env)
	if err != nil {
		return nil, err
	}
	return i.applyBinary(node, lhs, rhs)
}

func (i *Interpreter) applyBinary(node *ast.Binary, lhs, rhs runtime.Value) (runtime.Value, error) {
	loc := node.Location()
	mismatch := func() *EvalError {
		return newError(ErrTypeMismatch, loc, "invalid operands for '%s': %s, %s",
			node.Op.Token(), runtime.Render(lhs), runtime.Render(rhs))
	}

	switch node.Op {
	case ast.OpAdd:
		switch l := lhs.(type) {
		case runtime.IntValue:
			switch r := rhs.(type) {
			case runtime.IntValue:
				return runtime.IntValue{Val: l.Val + r.Val}, nil
			case runtime.StrValue:
				return runtime.StrValue{Val: runtime.Render(l) + r.Val}, nil
			}
		case runtime.StrValue:
			switch r := rhs.(type) {
			case runtime.IntValue:
				return runtime.StrValue{Val: l.Val + runtime.Render(r)}, nil
			case runtime.StrValue:
				return runtime.StrValue{Val: l.Val + r.Val}, nil
			}
		}
		return nil, mismatch()

	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpRem:
		l, lok := lhs.(runtime.IntValue)
		r, rok := rhs.(runtime.IntValue)
		if !lok || !rok {
			return nil, mismatch()
		}
		switch node.Op {
		case ast.OpSub:
			return runtime.IntValue{Val: l.Val - r.Val}, nil
		case ast.OpMul:
			return runtime.IntValue{Val: l.Val * r.Val}, nil
		case ast.OpDiv:
			if r.Val == 0 {
				return nil, newError(ErrDivisionByZero, loc, "division by zero")
			}
			return runtime.IntValue{Val: floorDiv(l.Val, r.Val)}, nil
		default:
			if r.Val == 0 {
				return nil, newError(ErrDivisionByZero, loc, "remainder by zero")
			}
			return runtime.IntValue{Val: floorMod(l.Val, r.Val)}, nil
		}

	case ast.OpEq, ast.OpNeq:
		eq, err := runtime.Equal(lhs, rhs)
		if err != nil {
			return nil, mismatch()
		}
		if node.Op == ast.OpNeq {
			eq = !eq
		}
		return runtime.BoolValue{Val: eq}, nil

	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		cmp, err := runtime.Compare(lhs, rhs)
		if err != nil {
			return nil, mismatch()
		}
		var result bool
		switch node.Op {
		case ast.OpLt:
			result = cmp < 0
		case ast.OpLte:
			result = cmp <= 0
		case ast.OpGt:
			result = cmp > 0
		default:
			result = cmp >= 0
		}
		return runtime.BoolValue{Val: result}, nil

	case ast.OpAnd, ast.OpOr:
		l, lok := lhs.(runtime.BoolValue)
		r, rok := rhs.(runtime.BoolValue)
		if !lok || !rok {
			return nil, mismatch()
		}
		if node.Op == ast.OpAnd {
			return runtime.BoolValue{Val: l.Val && r.Val}, nil
		}
		return runtime.BoolValue{Val: l.Val || r.Val}, nil

	default:
		return nil, newError(ErrMalformedTree, loc, "unknown operator %q", node.Op)
	}
}

// floorDiv rounds the quotient toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod returns the remainder carrying the divisor's sign, so that
// a == floorDiv(a, b)*b + floorMod(a, b).
func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// evaluateCall evaluates the callee and then the arguments left-to-right in
// the caller's environment. The call frame chains to the closure's captured
// environment, not the caller's: scoping is lexical, not dynamic.
func (i *Interpreter) evaluateCall(node *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateTerm(node.Callee, env)
	if err != nil {
		return nil, err
	}
	closure, ok := callee.(*runtime.ClosureValue)
	if !ok {
		return nil, newError(ErrNotCallable, node.Location(), "'%s' is not callable", runtime.Render(callee))
	}
	if len(node.Arguments) != len(closure.Fn.Parameters) {
		return nil, newError(ErrArityMismatch, node.Location(), "function called with %d arguments (expecting %d)",
			len(node.Arguments), len(closure.Fn.Parameters))
	}
	args := make([]runtime.Value, len(node.Arguments))
	for idx, arg := range node.Arguments {
		val, err := i.evaluateTerm(arg, env)
		if err != nil {
			return nil, err
		}
		args[idx] = val
	}
	frame := runtime.NewEnvironment(closure.Env)
	for idx, param := range closure.Fn.Parameters {
		frame.Define(param.Text, args[idx])
	}
	return i.evaluateTerm(closure.Fn.Value, frame)
}
