package check

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/dual"
	"gonum.org/v1/gonum/num/hyperdual"

	"github.com/wildfunctions/symdiff/pkg/expr"
)

// arith is the number system a tree is walked in.
type arith[T any] struct {
	// lift returns x as a number; seed marks the differentiation variable.
	lift func(x float64, seed bool) T

	add, mul                 func(a, b T) T
	neg, inv, sqrt, sin, cos func(a T) T
}

var dualOps = &arith[dual.Number]{
	lift: func(x float64, seed bool) dual.Number {
		if seed {
			return dual.Number{Real: x, Emag: 1}
		}
		return dual.Number{Real: x}
	},
	add: dual.Add,
	mul: dual.Mul,
	neg: func(a dual.Number) dual.Number {
		return dual.Number{Real: -a.Real, Emag: -a.Emag}
	},
	inv:  dual.Inv,
	sqrt: dual.Sqrt,
	sin:  dual.Sin,
	cos:  dual.Cos,
}

var hyperdualOps = &arith[hyperdual.Number]{
	lift: func(x float64, seed bool) hyperdual.Number {
		if seed {
			return hyperdual.Number{Real: x, E1mag: 1, E2mag: 1}
		}
		return hyperdual.Number{Real: x}
	},
	add: hyperdual.Add,
	mul: hyperdual.Mul,
	neg: func(a hyperdual.Number) hyperdual.Number {
		return hyperdual.Number{Real: -a.Real, E1mag: -a.E1mag, E2mag: -a.E2mag, E1E2mag: -a.E1E2mag}
	},
	inv:  hyperdual.Inv,
	sqrt: hyperdual.Sqrt,
	sin:  hyperdual.Sin,
	cos:  hyperdual.Cos,
}

func walk[T any](a *arith[T], node expr.Node, v *expr.Variable, env expr.Env) (T, error) {
	var zero T

	switch n := node.(type) {
	case *expr.Variable:
		x, err := expr.Eval(n, env)
		if err != nil {
			return zero, err
		}
		return a.lift(x, n.Same(v)), nil

	case *expr.UnaryNode:
		x, err := walk(a, n.Child, v, env)
		if err != nil {
			return zero, err
		}
		switch n.Op {
		case expr.OpNeg:
			return a.neg(x), nil
		case expr.OpSquare:
			return a.mul(x, x), nil
		case expr.OpCube:
			return a.mul(a.mul(x, x), x), nil
		case expr.OpSqrt:
			return a.sqrt(x), nil
		case expr.OpSin:
			return a.sin(x), nil
		case expr.OpCos:
			return a.cos(x), nil
		}
		return zero, errors.Errorf("unsupported unary op %s", n.Op)

	case *expr.BinaryNode:
		l, err := walk(a, n.Left, v, env)
		if err != nil {
			return zero, err
		}
		r, err := walk(a, n.Right, v, env)
		if err != nil {
			return zero, err
		}
		switch n.Op {
		case expr.OpAdd:
			return a.add(l, r), nil
		case expr.OpSub:
			return a.add(l, a.neg(r)), nil
		case expr.OpMul:
			return a.mul(l, r), nil
		case expr.OpDiv:
			return a.mul(l, a.inv(r)), nil
		}
		return zero, errors.Errorf("unsupported binary op %s", n.Op)

	default:
		x, err := expr.Eval(node, env)
		if err != nil {
			return zero, err
		}
		return a.lift(x, false), nil
	}
}
