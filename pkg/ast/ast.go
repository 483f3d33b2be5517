package ast

import "fmt"

type NodeType string

const (
	NodeFile      NodeType = "File"
	NodeParameter NodeType = "Parameter"
	NodeLet       NodeType = "Let"
	NodeFunction  NodeType = "Function"
	NodeIf        NodeType = "If"
	NodeBinary    NodeType = "Binary"
	NodeCall      NodeType = "Call"
	NodePrint     NodeType = "Print"
	NodeVar       NodeType = "Var"
	NodeInt       NodeType = "Int"
	NodeStr       NodeType = "Str"
	NodeBool      NodeType = "Bool"
	NodeTuple     NodeType = "Tuple"
	NodeFirst     NodeType = "First"
	NodeSecond    NodeType = "Second"
)

// Loc is the byte span a node occupies in the original source file. It is
// carried for error reporting only and never influences evaluation.
type Loc struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Filename string `json:"filename"`
}

func (l Loc) String() string {
	if l.Filename == "" {
		return fmt.Sprintf("%d..%d", l.Start, l.End)
	}
	return fmt.Sprintf("%s:%d..%d", l.Filename, l.Start, l.End)
}

type Node interface {
	NodeType() NodeType
	Location() Loc
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"kind"`
	Loc  Loc      `json:"location"`
}

func newNodeImpl(kind NodeType, loc Loc) nodeImpl {
	return nodeImpl{Type: kind, Loc: loc}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Location() Loc      { return n.Loc }
func (nodeImpl) isNode()              {}

// Term marks every node usable in expression position. File and Parameter are
// the only nodes that are not terms.
type Term interface {
	Node
	termNode()
}

type termMarker struct{}

func (termMarker) termNode() {}

// BinaryOp names a binary operator the way serialized documents spell it.
type BinaryOp string

const (
	OpAdd BinaryOp = "Add"
	OpSub BinaryOp = "Sub"
	OpMul BinaryOp = "Mul"
	OpDiv BinaryOp = "Div"
	OpRem BinaryOp = "Rem"
	OpEq  BinaryOp = "Eq"
	OpNeq BinaryOp = "Neq"
	OpLt  BinaryOp = "Lt"
	OpGt  BinaryOp = "Gt"
	OpLte BinaryOp = "Lte"
	OpGte BinaryOp = "Gte"
	OpAnd BinaryOp = "And"
	OpOr  BinaryOp = "Or"
)

// Token returns the operator as written in surface syntax, for messages.
func (op BinaryOp) Token() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpRem:
		return "%"
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLte:
		return "<="
	case OpGte:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		return string(op)
	}
}

// File is the root of a program document.
type File struct {
	nodeImpl

	Name       string `json:"name"`
	Expression Term   `json:"expression"`
}

func NewFile(loc Loc, name string, expression Term) *File {
	return &File{nodeImpl: newNodeImpl(NodeFile, loc), Name: name, Expression: expression}
}

// Parameter is a formal parameter name in a function or a let binding.
type Parameter struct {
	nodeImpl

	Text string `json:"text"`
}

func NewParameter(loc Loc, text string) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter, loc), Text: text}
}

type Let struct {
	nodeImpl
	termMarker

	Name  *Parameter `json:"name"`
	Value Term       `json:"value"`
	Next  Term       `json:"next"`
}

func NewLet(loc Loc, name *Parameter, value, next Term) *Let {
	return &Let{nodeImpl: newNodeImpl(NodeLet, loc), Name: name, Value: value, Next: next}
}

type Function struct {
	nodeImpl
	termMarker

	Parameters []*Parameter `json:"parameters"`
	Value      Term         `json:"value"`
}

func NewFunction(loc Loc, parameters []*Parameter, value Term) *Function {
	return &Function{nodeImpl: newNodeImpl(NodeFunction, loc), Parameters: parameters, Value: value}
}

type If struct {
	nodeImpl
	termMarker

	Condition Term `json:"condition"`
	Then      Term `json:"then"`
	Otherwise Term `json:"otherwise"`
}

func NewIf(loc Loc, condition, then, otherwise Term) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf, loc), Condition: condition, Then: then, Otherwise: otherwise}
}

type Binary struct {
	nodeImpl
	termMarker

	Lhs Term     `json:"lhs"`
	Op  BinaryOp `json:"op"`
	Rhs Term     `json:"rhs"`
}

func NewBinary(loc Loc, lhs Term, op BinaryOp, rhs Term) *Binary {
	return &Binary{nodeImpl: newNodeImpl(NodeBinary, loc), Lhs: lhs, Op: op, Rhs: rhs}
}

type Call struct {
	nodeImpl
	termMarker

	Callee    Term   `json:"callee"`
	Arguments []Term `json:"arguments"`
}

func NewCall(loc Loc, callee Term, arguments []Term) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall, loc), Callee: callee, Arguments: arguments}
}

type Print struct {
	nodeImpl
	termMarker

	Value Term `json:"value"`
}

func NewPrint(loc Loc, value Term) *Print {
	return &Print{nodeImpl: newNodeImpl(NodePrint, loc), Value: value}
}

type Var struct {
	nodeImpl
	termMarker

	Text string `json:"text"`
}

func NewVar(loc Loc, text string) *Var {
	return &Var{nodeImpl: newNodeImpl(NodeVar, loc), Text: text}
}

type IntLiteral struct {
	nodeImpl
	termMarker

	Value int64 `json:"value"`
}

func NewIntLiteral(loc Loc, value int64) *IntLiteral {
	return &IntLiteral{nodeImpl: newNodeImpl(NodeInt, loc), Value: value}
}

type StrLiteral struct {
	nodeImpl
	termMarker

	Value string `json:"value"`
}

func NewStrLiteral(loc Loc, value string) *StrLiteral {
	return &StrLiteral{nodeImpl: newNodeImpl(NodeStr, loc), Value: value}
}

type BoolLiteral struct {
	nodeImpl
	termMarker

	Value bool `json:"value"`
}

func NewBoolLiteral(loc Loc, value bool) *BoolLiteral {
	return &BoolLiteral{nodeImpl: newNodeImpl(NodeBool, loc), Value: value}
}

type Tuple struct {
	nodeImpl
	termMarker

	First  Term `json:"first"`
	Second Term `json:"second"`
}

func NewTuple(loc Loc, first, second Term) *Tuple {
	return &Tuple{nodeImpl: newNodeImpl(NodeTuple, loc), First: first, Second: second}
}

type First struct {
	nodeImpl
	termMarker

	Value Term `json:"value"`
}

func NewFirst(loc Loc, value Term) *First {
	return &First{nodeImpl: newNodeImpl(NodeFirst, loc), Value: value}
}

type Second struct {
	nodeImpl
	termMarker

	Value Term `json:"value"`
}

func NewSecond(loc Loc, value Term) *Second {
	return &Second{nodeImpl: newNodeImpl(NodeSecond, loc), Value: value}
}
