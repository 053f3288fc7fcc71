package expr

// Diff returns the derivative of n with respect to v.
func Diff(n Node, v *Variable) Node {
	return n.Deriv(v)
}

// DiffN returns the k-th derivative of n with respect to v. DiffN with
// k <= 0 returns n.
func DiffN(n Node, v *Variable, k int) Node {
	for i := 0; i < k; i++ {
		n = n.Deriv(v)
	}
	return n
}

// Gradient returns the partial derivatives of n, one per variable.
func Gradient(n Node, vars ...*Variable) []Node {
	out := make([]Node, len(vars))
	for i, v := range vars {
		out[i] = n.Deriv(v)
	}
	return out
}

func (Zero) Deriv(*Variable) Node { return Zero{} }

func (One) Deriv(*Variable) Node { return Zero{} }

func (Constant) Deriv(*Variable) Node { return Zero{} }

func (v *Variable) Deriv(wrt *Variable) Node {
	if v.Same(wrt) {
		return One{}
	}
	return Zero{}
}

// Deriv applies the chain rule: the derivative of op at the child,
// times the derivative of the child.
func (u *UnaryNode) Deriv(v *Variable) Node {
	x := u.Child
	dx := x.Deriv(v)

	switch u.Op {
	case OpNeg:
		return Neg(dx)
	case OpSquare:
		return Mul(Mul(Const(2), x), dx)
	case OpCube:
		return Mul(Mul(Const(3), Square(x)), dx)
	case OpSqrt:
		// 0.5/sqrt(x) * dx. The denominator is a sqrt node, never Zero.
		return Mul(MustDiv(Const(0.5), Sqrt(x)), dx)
	case OpSin:
		return Mul(Cos(x), dx)
	case OpCos:
		return Mul(Neg(Sin(x)), dx)
	default:
		panic("expr: unknown unary op " + u.Op.String())
	}
}

func (b *BinaryNode) Deriv(v *Variable) Node {
	l, r := b.Left, b.Right
	dl, dr := l.Deriv(v), r.Deriv(v)

	switch b.Op {
	case OpAdd:
		return Add(dl, dr)
	case OpSub:
		return Sub(dl, dr)
	case OpMul:
		return Add(Mul(dl, r), Mul(dr, l))
	case OpDiv:
		// (dl*r - dr*l) / r^2. The denominator is a square node, never
		// Zero, so the division cannot be rejected.
		return MustDiv(Sub(Mul(dl, r), Mul(dr, l)), Square(r))
	default:
		panic("expr: unknown binary op " + b.Op.String())
	}
}
