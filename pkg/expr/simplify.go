package expr

import (
	"github.com/pkg/errors"
)

// Const returns the leaf for v: Zero for 0, One for 1, a Constant
// otherwise.
func Const(v float64) Node {
	switch v {
	case 0:
		return Zero{}
	case 1:
		return One{}
	default:
		return Constant{Val: v}
	}
}

func Add(l, r Node) Node { return reduce(&BinaryNode{Op: OpAdd, Left: l, Right: r}) }
func Sub(l, r Node) Node { return reduce(&BinaryNode{Op: OpSub, Left: l, Right: r}) }
func Mul(l, r Node) Node { return reduce(&BinaryNode{Op: OpMul, Left: l, Right: r}) }

// Div builds l / r. A denominator that is symbolically zero is rejected
// with ErrDivisionByZero, including 0/0.
func Div(l, r Node) (Node, error) {
	if isZero(r) {
		return nil, errors.Wrapf(ErrDivisionByZero, "%s / %s", l, r)
	}
	return reduce(&BinaryNode{Op: OpDiv, Left: l, Right: r}), nil
}

// MustDiv is like Div but panics on a zero denominator.
func MustDiv(l, r Node) Node {
	n, err := Div(l, r)
	if err != nil {
		panic(err)
	}
	return n
}

func Neg(x Node) Node    { return Unary(OpNeg, x) }
func Square(x Node) Node { return Unary(OpSquare, x) }
func Cube(x Node) Node   { return Unary(OpCube, x) }
func Sqrt(x Node) Node   { return Unary(OpSqrt, x) }
func Sin(x Node) Node    { return Unary(OpSin, x) }
func Cos(x Node) Node    { return Unary(OpCos, x) }

// Unary builds a simplified unary node for op.
func Unary(op UnaryOp, x Node) Node {
	return reduce(&UnaryNode{Op: op, Child: x})
}

// Binary builds a simplified binary node for op.
func Binary(op BinaryOp, l, r Node) (Node, error) {
	if op == OpDiv {
		return Div(l, r)
	}
	return reduce(&BinaryNode{Op: op, Left: l, Right: r}), nil
}

// Simplify rebuilds n bottom-up through the builders, so every node of
// the result is irreducible. For trees that came from the builders this
// returns an equivalent tree with the same rendering. It fails only if a
// division has a denominator that reduces to zero.
func Simplify(node Node) (Node, error) {
	switch n := node.(type) {
	case Constant:
		return Const(n.Val), nil

	case *UnaryNode:
		child, err := Simplify(n.Child)
		if err != nil {
			return nil, err
		}
		return Unary(n.Op, child), nil

	case *BinaryNode:
		left, err := Simplify(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := Simplify(n.Right)
		if err != nil {
			return nil, err
		}
		return Binary(n.Op, left, right)

	default:
		return node, nil
	}
}

// reduce applies the rewrite rules to the top node only. Children are
// assumed to be reduced already because they came through the builders.
// Right-hand sides that create new nodes go through the builders again.
func reduce(node Node) Node {
	switch n := node.(type) {
	case *UnaryNode:
		return reduceUnary(n)
	case *BinaryNode:
		return reduceBinary(n)
	default:
		return node
	}
}

func reduceUnary(n *UnaryNode) Node {
	if n.Op != OpNeg {
		return n
	}

	// -(-x) = x
	if inner, ok := n.Child.(*UnaryNode); ok && inner.Op == OpNeg {
		return inner.Child
	}
	// -(k) = folded constant; covers -0 = 0
	if k, ok := constValue(n.Child); ok {
		return Const(-k)
	}
	return n
}

func reduceBinary(n *BinaryNode) Node {
	left, right := n.Left, n.Right
	lk, lok := constValue(left)
	rk, rok := constValue(right)

	switch n.Op {
	case OpAdd:
		// 0 + x = x, x + 0 = x
		if isZero(left) {
			return right
		}
		if isZero(right) {
			return left
		}
		if lok && rok {
			return Const(lk + rk)
		}

	case OpSub:
		// x - 0 = x
		if isZero(right) {
			return left
		}
		// 0 - x = -x
		if isZero(left) {
			return Neg(right)
		}

	case OpMul:
		// x * 0 = 0, 0 * x = 0
		if isZero(left) || isZero(right) {
			return Zero{}
		}
		// 1 * x = x, x * 1 = x
		if isOne(left) {
			return right
		}
		if isOne(right) {
			return left
		}
		if lok && rok {
			return Const(lk * rk)
		}

	case OpDiv:
		// 0 / x = 0
		if isZero(left) {
			return Zero{}
		}
		// x / 1 = x
		if isOne(right) {
			return left
		}
	}
	return n
}

// constValue reports the value of a constant leaf.
func constValue(n Node) (float64, bool) {
	switch c := n.(type) {
	case Zero:
		return 0, true
	case One:
		return 1, true
	case Constant:
		return c.Val, true
	default:
		return 0, false
	}
}

func isZero(n Node) bool {
	k, ok := constValue(n)
	return ok && k == 0
}

func isOne(n Node) bool {
	k, ok := constValue(n)
	return ok && k == 1
}
