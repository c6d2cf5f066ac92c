package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// Every expression form is an Expr. Prototypes and function definitions
// are top-level nodes only; they never appear inside an expression.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

type expr struct{ node }

func (*expr) aExpr() {}

// ----------------------------------------------------------------------------
// Expressions

// NumberLit represents a numeric literal.
type NumberLit struct {
	expr
	Value float64
}

// Name represents a variable reference.
type Name struct {
	expr
	Value string
}

// VarExpr represents: var a = 1, b in Body
type VarExpr struct {
	expr
	Vars []*VarBinding
	Body Expr
}

// VarBinding is one binding of a VarExpr. Init is nil when omitted.
type VarBinding struct {
	node
	Name string
	Init Expr
}

// Operation represents a unary or binary operator application.
// Y is nil for unary operations.
type Operation struct {
	expr
	Op rune
	X  Expr
	Y  Expr
}

// CallExpr represents Callee(Args...).
type CallExpr struct {
	expr
	Callee string
	Args   []Expr
}

// IfExpr represents: if Cond then Then else Else
type IfExpr struct {
	expr
	Cond Expr
	Then Expr
	Else Expr
}

// ForExpr represents: for Var = Start when Cond [inc Step] do Body
// Step is nil when omitted.
type ForExpr struct {
	expr
	Var   string
	Start Expr
	Cond  Expr
	Step  Expr
	Body  Expr
}

// ----------------------------------------------------------------------------
// Top-level nodes

// OpKind classifies a prototype as a plain function or an operator.
type OpKind uint8

const (
	NotOperator OpKind = iota
	UnaryOp
	BinaryOp
)

func (k OpKind) String() string {
	switch k {
	case UnaryOp:
		return "unary"
	case BinaryOp:
		return "binary"
	}
	return "function"
}

// Arity returns the operand count required of an operator kind,
// or -1 for plain functions.
func (k OpKind) Arity() int {
	switch k {
	case UnaryOp:
		return 1
	case BinaryOp:
		return 2
	}
	return -1
}

// Prototype represents a function signature.
//
// For operators Name is the mangled function name ("binary|", "unary!")
// and Prec is the precedence of a binary operator.
type Prototype struct {
	node
	Name   string
	Params []string
	Kind   OpKind
	Prec   int
}

// Operator returns the operator character of an operator prototype.
func (p *Prototype) Operator() rune {
	r := []rune(p.Name)
	return r[len(r)-1]
}

// FuncDecl represents a function definition. Top-level expressions are
// parsed into a FuncDecl with an anonymous zero-parameter prototype.
type FuncDecl struct {
	node
	Proto *Prototype
	Body  Expr
}
