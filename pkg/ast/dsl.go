package ast

// Terse constructors for building trees in tests and tools. All nodes get a
// zero Loc; serialized programs carry real spans through the decoder instead.

func ID(name string) *Var {
	return NewVar(Loc{}, name)
}

func Int(value int64) *IntLiteral {
	return NewIntLiteral(Loc{}, value)
}

func Str(value string) *StrLiteral {
	return NewStrLiteral(Loc{}, value)
}

func Bool(value bool) *BoolLiteral {
	return NewBoolLiteral(Loc{}, value)
}

func Param(text string) *Parameter {
	return NewParameter(Loc{}, text)
}

func LetExpr(name string, value, next Term) *Let {
	return NewLet(Loc{}, Param(name), value, next)
}

func Lam(body Term, params ...string) *Function {
	parameters := make([]*Parameter, 0, len(params))
	for _, p := range params {
		parameters = append(parameters, Param(p))
	}
	return NewFunction(Loc{}, parameters, body)
}

func IfExpr(condition, then, otherwise Term) *If {
	return NewIf(Loc{}, condition, then, otherwise)
}

func Bin(op BinaryOp, lhs, rhs Term) *Binary {
	return NewBinary(Loc{}, lhs, op, rhs)
}

func CallExpr(callee Term, args ...Term) *Call {
	return NewCall(Loc{}, callee, args)
}

func PrintExpr(value Term) *Print {
	return NewPrint(Loc{}, value)
}

func Tup(first, second Term) *Tuple {
	return NewTuple(Loc{}, first, second)
}

func Fst(value Term) *First {
	return NewFirst(Loc{}, value)
}

func Snd(value Term) *Second {
	return NewSecond(Loc{}, value)
}

func FileOf(name string, expression Term) *File {
	return NewFile(Loc{}, name, expression)
}
