package interpreter

import (
	"bytes"
	"math"
	"testing"

	"rinha/interpreter-go/pkg/ast"
	"rinha/interpreter-go/pkg/runtime"
)

func evalTerm(t *testing.T, term ast.Term) (runtime.Value, string) {
	t.Helper()
	var buf bytes.Buffer
	interp := NewWithConfig(Config{Output: &buf})
	val, err := interp.Evaluate(term, runtime.NewEnvironment(interp.GlobalEnvironment()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return val, buf.String()
}

func evalFailure(t *testing.T, term ast.Term) *EvalError {
	t.Helper()
	interp := NewWithConfig(Config{Output: &bytes.Buffer{}})
	_, err := interp.Evaluate(term, runtime.NewEnvironment(interp.GlobalEnvironment()))
	if err == nil {
		t.Fatalf("expected evaluation to fail")
	}
	evalErr, ok := err.(*EvalError)
	if !ok {
		t.Fatalf("expected *EvalError, got %T: %v", err, err)
	}
	return evalErr
}

func TestEvaluateIntLiteral(t *testing.T) {
	val, out := evalTerm(t, ast.Int(42))
	iv, ok := val.(runtime.IntValue)
	if !ok || iv.Val != 42 {
		t.Fatalf("unexpected value %#v", val)
	}
	if out != "" {
		t.Fatalf("literal evaluation produced output %q", out)
	}
}

func TestEvaluateStrAndBoolLiterals(t *testing.T) {
	val, _ := evalTerm(t, ast.Str("hello"))
	if sv, ok := val.(runtime.StrValue); !ok || sv.Val != "hello" {
		t.Fatalf("unexpected value %#v", val)
	}
	val, _ = evalTerm(t, ast.Bool(true))
	if bv, ok := val.(runtime.BoolValue); !ok || !bv.Val {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestUnboundVariable(t *testing.T) {
	loc := ast.Loc{Start: 3, End: 4, Filename: "test.rinha"}
	evalErr := evalFailure(t, ast.NewVar(loc, "x"))
	if evalErr.Kind != ErrUnboundVariable {
		t.Fatalf("expected UnboundVariable, got %s", evalErr.Kind)
	}
	if evalErr.Loc != loc {
		t.Fatalf("error location %v does not match node location %v", evalErr.Loc, loc)
	}
}

func TestLetShadowing(t *testing.T) {
	term := ast.LetExpr("x", ast.Int(1),
		ast.LetExpr("x", ast.Int(2), ast.ID("x")))
	val, _ := evalTerm(t, term)
	if iv, ok := val.(runtime.IntValue); !ok || iv.Val != 2 {
		t.Fatalf("expected shadowed binding 2, got %#v", val)
	}
}

func TestClosureCaptureIsLexical(t *testing.T) {
	// let x = 1; let f = fn() => x; let x = 2; f()
	term := ast.LetExpr("x", ast.Int(1),
		ast.LetExpr("f", ast.Lam(ast.ID("x")),
			ast.LetExpr("x", ast.Int(2),
				ast.CallExpr(ast.ID("f")))))
	val, _ := evalTerm(t, term)
	if iv, ok := val.(runtime.IntValue); !ok || iv.Val != 1 {
		t.Fatalf("closure saw dynamic scope: got %#v, want 1", val)
	}
}

func TestLetOfFunctionIsVisibleRecursively(t *testing.T) {
	// let count = fn(n) => if n == 0 { 0 } else { count(n - 1) }; count(5)
	body := ast.IfExpr(
		ast.Bin(ast.OpEq, ast.ID("n"), ast.Int(0)),
		ast.Int(0),
		ast.CallExpr(ast.ID("count"), ast.Bin(ast.OpSub, ast.ID("n"), ast.Int(1))),
	)
	term := ast.LetExpr("count", ast.Lam(body, "n"),
		ast.CallExpr(ast.ID("count"), ast.Int(5)))
	val, _ := evalTerm(t, term)
	if iv, ok := val.(runtime.IntValue); !ok || iv.Val != 0 {
		t.Fatalf("recursive call failed: %#v", val)
	}
}

func TestIfEvaluatesOnlyTakenBranch(t *testing.T) {
	term := ast.IfExpr(ast.Bool(true),
		ast.PrintExpr(ast.Str("taken")),
		ast.PrintExpr(ast.Str("skipped")))
	val, out := evalTerm(t, term)
	if out != "taken\n" {
		t.Fatalf("untaken branch produced output: %q", out)
	}
	if sv, ok := val.(runtime.StrValue); !ok || sv.Val != "taken" {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestIfConditionMustBeBool(t *testing.T) {
	evalErr := evalFailure(t, ast.IfExpr(ast.Int(1), ast.Int(2), ast.Int(3)))
	if evalErr.Kind != ErrTypeMismatch {
		t.Fatalf("expected TypeMismatch, got %s", evalErr.Kind)
	}
}

func TestAddCoercesStringsAndInts(t *testing.T) {
	cases := []struct {
		lhs, rhs ast.Term
		want     runtime.Value
	}{
		{ast.Int(1), ast.Int(2), runtime.IntValue{Val: 3}},
		{ast.Str("ab"), ast.Str("cd"), runtime.StrValue{Val: "abcd"}},
		{ast.Str("n = "), ast.Int(7), runtime.StrValue{Val: "n = 7"}},
		{ast.Int(7), ast.Str(" = n"), runtime.StrValue{Val: "7 = n"}},
	}
	for _, tc := range cases {
		val, _ := evalTerm(t, ast.Bin(ast.OpAdd, tc.lhs, tc.rhs))
		eq, err := runtime.Equal(val, tc.want)
		if err != nil || !eq {
			t.Fatalf("addition produced %#v, want %#v", val, tc.want)
		}
	}
}

func TestAddRejectsBooleans(t *testing.T) {
	evalErr := evalFailure(t, ast.Bin(ast.OpAdd, ast.Int(1), ast.Bool(true)))
	if evalErr.Kind != ErrTypeMismatch {
		t.Fatalf("expected TypeMismatch, got %s", evalErr.Kind)
	}
}

func TestIntegerArithmetic(t *testing.T) {
	cases := []struct {
		op   ast.BinaryOp
		l, r int64
		want int64
	}{
		{ast.OpSub, 10, 4, 6},
		{ast.OpMul, 6, 7, 42},
		{ast.OpDiv, 7, 2, 3},
		{ast.OpDiv, -7, 2, -4}, // floors toward negative infinity
		{ast.OpDiv, 7, -2, -4},
		{ast.OpDiv, -7, -2, 3},
		{ast.OpRem, 7, 2, 1},
		{ast.OpRem, -7, 2, 1}, // remainder carries the divisor's sign
		{ast.OpRem, 7, -2, -1},
		{ast.OpRem, -7, -2, -1},
	}
	for _, tc := range cases {
		val, _ := evalTerm(t, ast.Bin(tc.op, ast.Int(tc.l), ast.Int(tc.r)))
		iv, ok := val.(runtime.IntValue)
		if !ok || iv.Val != tc.want {
			t.Fatalf("%d %s %d produced %#v, want %d", tc.l, tc.op.Token(), tc.r, val, tc.want)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, op := range []ast.BinaryOp{ast.OpDiv, ast.OpRem} {
		evalErr := evalFailure(t, ast.Bin(op, ast.Int(1), ast.Int(0)))
		if evalErr.Kind != ErrDivisionByZero {
			t.Fatalf("expected DivisionByZero for %s, got %s", op.Token(), evalErr.Kind)
		}
	}
}

func TestIntegerOverflowWraps(t *testing.T) {
	val, _ := evalTerm(t, ast.Bin(ast.OpAdd, ast.Int(math.MaxInt64), ast.Int(1)))
	iv, ok := val.(runtime.IntValue)
	if !ok || iv.Val != math.MinInt64 {
		t.Fatalf("expected wraparound to MinInt64, got %#v", val)
	}
}

func TestOrderingOperators(t *testing.T) {
	cases := []struct {
		op       ast.BinaryOp
		lhs, rhs ast.Term
		want     bool
	}{
		{ast.OpLt, ast.Int(1), ast.Int(2), true},
		{ast.OpLte, ast.Int(2), ast.Int(2), true},
		{ast.OpGt, ast.Int(1), ast.Int(2), false},
		{ast.OpGte, ast.Int(3), ast.Int(2), true},
		{ast.OpLt, ast.Str("abc"), ast.Str("abd"), true},
		{ast.OpGt, ast.Str("b"), ast.Str("a"), true},
	}
	for _, tc := range cases {
		val, _ := evalTerm(t, ast.Bin(tc.op, tc.lhs, tc.rhs))
		bv, ok := val.(runtime.BoolValue)
		if !ok || bv.Val != tc.want {
			t.Fatalf("ordering %s produced %#v, want %v", tc.op.Token(), val, tc.want)
		}
	}
}

func TestOrderingRejectsMixedKinds(t *testing.T) {
	evalErr := evalFailure(t, ast.Bin(ast.OpLt, ast.Int(1), ast.Str("a")))
	if evalErr.Kind != ErrTypeMismatch {
		t.Fatalf("expected TypeMismatch, got %s", evalErr.Kind)
	}
}

func TestEqualityAcrossKindsFails(t *testing.T) {
	evalErr := evalFailure(t, ast.Bin(ast.OpEq, ast.Int(1), ast.Bool(true)))
	if evalErr.Kind != ErrTypeMismatch {
		t.Fatalf("expected TypeMismatch, got %s", evalErr.Kind)
	}
}

func TestEqualityOfClosuresFails(t *testing.T) {
	evalErr := evalFailure(t, ast.Bin(ast.OpEq, ast.Lam(ast.Int(1)), ast.Lam(ast.Int(1))))
	if evalErr.Kind != ErrTypeMismatch {
		t.Fatalf("expected TypeMismatch, got %s", evalErr.Kind)
	}
}

func TestTupleEqualityIsStructural(t *testing.T) {
	term := ast.Bin(ast.OpEq,
		ast.Tup(ast.Int(1), ast.Str("a")),
		ast.Tup(ast.Int(1), ast.Str("a")))
	val, _ := evalTerm(t, term)
	if bv, ok := val.(runtime.BoolValue); !ok || !bv.Val {
		t.Fatalf("expected structural tuple equality, got %#v", val)
	}
}

func TestLogicalOperatorsEvaluateBothSides(t *testing.T) {
	// The right side prints even though the left side already decides the
	// result: logical operators do not short-circuit.
	term := ast.Bin(ast.OpAnd, ast.Bool(false), ast.PrintExpr(ast.Bool(true)))
	val, out := evalTerm(t, term)
	if out != "true\n" {
		t.Fatalf("right operand was not evaluated: output %q", out)
	}
	if bv, ok := val.(runtime.BoolValue); !ok || bv.Val {
		t.Fatalf("expected false, got %#v", val)
	}

	term = ast.Bin(ast.OpOr, ast.Bool(true), ast.PrintExpr(ast.Bool(false)))
	val, out = evalTerm(t, term)
	if out != "false\n" {
		t.Fatalf("right operand was not evaluated: output %q", out)
	}
	if bv, ok := val.(runtime.BoolValue); !ok || !bv.Val {
		t.Fatalf("expected true, got %#v", val)
	}
}

func TestLogicalOperatorsRequireBooleans(t *testing.T) {
	evalErr := evalFailure(t, ast.Bin(ast.OpAnd, ast.Int(1), ast.Bool(true)))
	if evalErr.Kind != ErrTypeMismatch {
		t.Fatalf("expected TypeMismatch, got %s", evalErr.Kind)
	}
}

func TestBinaryOperandsEvaluateLeftToRight(t *testing.T) {
	term := ast.Bin(ast.OpAdd, ast.PrintExpr(ast.Int(1)), ast.PrintExpr(ast.Int(2)))
	val, out := evalTerm(t, term)
	if out != "1\n2\n" {
		t.Fatalf("operand evaluation order wrong: %q", out)
	}
	if iv, ok := val.(runtime.IntValue); !ok || iv.Val != 3 {
		t.Fatalf("unexpected sum %#v", val)
	}
}

func TestCallNotCallable(t *testing.T) {
	evalErr := evalFailure(t, ast.CallExpr(ast.Int(3)))
	if evalErr.Kind != ErrNotCallable {
		t.Fatalf("expected NotCallable, got %s", evalErr.Kind)
	}
}

func TestCallArityMismatch(t *testing.T) {
	fn := ast.Lam(ast.ID("a"), "a", "b")
	evalErr := evalFailure(t, ast.CallExpr(fn, ast.Int(1)))
	if evalErr.Kind != ErrArityMismatch {
		t.Fatalf("expected ArityMismatch, got %s", evalErr.Kind)
	}
}

func TestCallArgumentsEvaluateInCallerEnvironment(t *testing.T) {
	// let x = 10; let f = fn(a) => a; let g = fn(x) => f(x + 1); g(1)
	term := ast.LetExpr("x", ast.Int(10),
		ast.LetExpr("f", ast.Lam(ast.ID("a"), "a"),
			ast.LetExpr("g", ast.Lam(ast.CallExpr(ast.ID("f"), ast.Bin(ast.OpAdd, ast.ID("x"), ast.Int(1))), "x"),
				ast.CallExpr(ast.ID("g"), ast.Int(1)))))
	val, _ := evalTerm(t, term)
	if iv, ok := val.(runtime.IntValue); !ok || iv.Val != 2 {
		t.Fatalf("argument did not see the caller's binding: %#v", val)
	}
}

func TestPrintReturnsItsValue(t *testing.T) {
	term := ast.Bin(ast.OpAdd, ast.PrintExpr(ast.Int(20)), ast.Int(22))
	val, out := evalTerm(t, term)
	if out != "20\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if iv, ok := val.(runtime.IntValue); !ok || iv.Val != 42 {
		t.Fatalf("print is not value-transparent: %#v", val)
	}
}

func TestPrintRendersTuplesAndClosures(t *testing.T) {
	_, out := evalTerm(t, ast.PrintExpr(ast.Tup(ast.Int(1), ast.Tup(ast.Str("a"), ast.Bool(false)))))
	if out != "(1, (a, false))\n" {
		t.Fatalf("unexpected tuple rendering %q", out)
	}
	_, out = evalTerm(t, ast.PrintExpr(ast.Lam(ast.Int(1))))
	if out != "<#closure>\n" {
		t.Fatalf("unexpected closure rendering %q", out)
	}
}

func TestTupleProjection(t *testing.T) {
	tup := ast.Tup(ast.Int(1), ast.Str("b"))
	val, _ := evalTerm(t, ast.Fst(tup))
	if iv, ok := val.(runtime.IntValue); !ok || iv.Val != 1 {
		t.Fatalf("first projection produced %#v", val)
	}
	val, _ = evalTerm(t, ast.Snd(tup))
	if sv, ok := val.(runtime.StrValue); !ok || sv.Val != "b" {
		t.Fatalf("second projection produced %#v", val)
	}
}

func TestProjectionRequiresTuple(t *testing.T) {
	for _, term := range []ast.Term{ast.Fst(ast.Int(1)), ast.Snd(ast.Str("x"))} {
		evalErr := evalFailure(t, term)
		if evalErr.Kind != ErrTypeMismatch {
			t.Fatalf("expected TypeMismatch, got %s", evalErr.Kind)
		}
	}
}

func TestTupleSidesEvaluateFirstThenSecond(t *testing.T) {
	_, out := evalTerm(t, ast.Tup(ast.PrintExpr(ast.Int(1)), ast.PrintExpr(ast.Int(2))))
	if out != "1\n2\n" {
		t.Fatalf("tuple sides evaluated out of order: %q", out)
	}
}

func TestUnboundedRecursionExhaustsStack(t *testing.T) {
	interp := NewWithConfig(Config{Output: &bytes.Buffer{}, MaxDepth: 64})
	// let loop = fn(n) => loop(n); loop(1)
	term := ast.LetExpr("loop", ast.Lam(ast.CallExpr(ast.ID("loop"), ast.ID("n")), "n"),
		ast.CallExpr(ast.ID("loop"), ast.Int(1)))
	_, err := interp.Evaluate(term, runtime.NewEnvironment(interp.GlobalEnvironment()))
	evalErr, ok := err.(*EvalError)
	if !ok {
		t.Fatalf("expected *EvalError, got %T: %v", err, err)
	}
	if evalErr.Kind != ErrStackExhausted {
		t.Fatalf("expected StackExhausted, got %s", evalErr.Kind)
	}
}

func TestDepthCounterResetsBetweenRuns(t *testing.T) {
	var buf bytes.Buffer
	interp := NewWithConfig(Config{Output: &buf, MaxDepth: 64})
	deep := ast.Term(ast.Int(1))
	for i := 0; i < 32; i++ {
		deep = ast.Bin(ast.OpAdd, deep, ast.Int(0))
	}
	for run := 0; run < 4; run++ {
		if _, err := interp.Evaluate(deep, runtime.NewEnvironment(interp.GlobalEnvironment())); err != nil {
			t.Fatalf("run %d failed: %v", run, err)
		}
	}
}

func TestFibEndToEnd(t *testing.T) {
	// let fib = fn(n) => if n < 2 { n } else { fib(n - 1) + fib(n - 2) }; fib(10)
	fibBody := ast.IfExpr(
		ast.Bin(ast.OpLt, ast.ID("n"), ast.Int(2)),
		ast.ID("n"),
		ast.Bin(ast.OpAdd,
			ast.CallExpr(ast.ID("fib"), ast.Bin(ast.OpSub, ast.ID("n"), ast.Int(1))),
			ast.CallExpr(ast.ID("fib"), ast.Bin(ast.OpSub, ast.ID("n"), ast.Int(2))),
		),
	)
	term := ast.LetExpr("fib", ast.Lam(fibBody, "n"),
		ast.CallExpr(ast.ID("fib"), ast.Int(10)))

	val, out := evalTerm(t, term)
	if iv, ok := val.(runtime.IntValue); !ok || iv.Val != 55 {
		t.Fatalf("fib(10) produced %#v, want 55", val)
	}
	if out != "" {
		t.Fatalf("fib(10) produced unexpected output %q", out)
	}
}

func TestEvaluateFileRejectsEmptyProgram(t *testing.T) {
	interp := New()
	_, err := interp.EvaluateFile(nil)
	evalErr, ok := err.(*EvalError)
	if !ok || evalErr.Kind != ErrMalformedTree {
		t.Fatalf("expected MalformedTree, got %v", err)
	}
}

func TestEvaluateFileRunsProgram(t *testing.T) {
	var buf bytes.Buffer
	interp := NewWithConfig(Config{Output: &buf})
	file := ast.FileOf("hello.rinha", ast.PrintExpr(ast.Str("Hello, world")))
	val, err := interp.EvaluateFile(file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "Hello, world\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if sv, ok := val.(runtime.StrValue); !ok || sv.Val != "Hello, world" {
		t.Fatalf("unexpected final value %#v", val)
	}
}
