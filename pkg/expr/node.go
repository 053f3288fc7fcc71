// Package expr implements immutable symbolic expression trees.
//
// Trees are built from leaves (Zero, One, Constant, Variable) with the
// builder functions Add, Sub, Mul, Div, Neg, Square, Cube, Sqrt, Sin and
// Cos. Every builder passes the new node through the rewrite rules in
// simplify.go before returning it, so a tree obtained from builders
// never holds a reducible pattern such as x+0 or x*1.
//
// Nodes never change after construction. Evaluating, differentiating
// and rendering are pure and may run concurrently on a shared tree.
package expr

// Node is the interface for all expression tree nodes.
type Node interface {
	// Eval computes the value of the node with variables bound by env.
	Eval(env Env) (float64, error)
	// Deriv returns the simplified derivative with respect to v.
	Deriv(v *Variable) Node
	String() string
	LaTeX() string
	NodeCount() int
	Depth() int
}

// UnaryOp identifies a unary operation.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpSquare
	OpCube
	OpSqrt
	OpSin
	OpCos
)

// BinaryOp identifies a binary operation.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
)

// Zero is the additive identity.
type Zero struct{}

// One is the multiplicative identity.
type One struct{}

// Constant is a numeric literal other than 0 and 1. Use Const to build
// one; it returns Zero or One for those values.
type Constant struct {
	Val float64
}

// UnaryNode applies a unary operation to a child expression.
type UnaryNode struct {
	Op    UnaryOp
	Child Node
}

// BinaryNode applies a binary operation to two child expressions.
type BinaryNode struct {
	Op          BinaryOp
	Left, Right Node
}

var (
	_ Node = Zero{}
	_ Node = One{}
	_ Node = Constant{}
	_ Node = (*Variable)(nil)
	_ Node = (*UnaryNode)(nil)
	_ Node = (*BinaryNode)(nil)
)
