package expr

import (
	"math"

	"github.com/pkg/errors"
)

// Eval evaluates n with variables bound by env. A nil env binds nothing,
// so only self-valued variables (see Double) can be read.
//
// Floating point exceptions are results, not errors: x/0 yields ±Inf or
// NaN and sqrt of a negative value yields NaN. The only error is a
// variable that neither env nor the variable itself can supply.
func Eval(n Node, env Env) (float64, error) {
	if env == nil {
		env = emptyEnv{}
	}
	return n.Eval(env)
}

// EvalSelf evaluates a tree whose variables all carry their own values.
func EvalSelf(n Node) (float64, error) {
	return Eval(n, nil)
}

func (Zero) Eval(Env) (float64, error) { return 0, nil }

func (One) Eval(Env) (float64, error) { return 1, nil }

func (c Constant) Eval(Env) (float64, error) { return c.Val, nil }

func (v *Variable) Eval(env Env) (float64, error) {
	if env == nil {
		env = emptyEnv{}
	}
	x, err := env.Lookup(v.id)
	if err == nil {
		return x, nil
	}
	if v.def != nil {
		return v.def.load(), nil
	}
	if errors.Is(err, ErrUnboundVariable) {
		return 0, errors.Wrapf(err, "variable %s", v.Name())
	}
	return 0, errors.Wrapf(unbound{err}, "variable %s", v.Name())
}

// unbound keeps a foreign environment's lookup error in the chain and
// also matches ErrUnboundVariable.
type unbound struct{ cause error }

func (e unbound) Error() string        { return e.cause.Error() + ": " + ErrUnboundVariable.Error() }
func (e unbound) Unwrap() error        { return e.cause }
func (e unbound) Is(target error) bool { return target == ErrUnboundVariable }

func (u *UnaryNode) Eval(env Env) (float64, error) {
	x, err := u.Child.Eval(env)
	if err != nil {
		return 0, err
	}
	return applyUnary(u.Op, x), nil
}

func (b *BinaryNode) Eval(env Env) (float64, error) {
	l, err := b.Left.Eval(env)
	if err != nil {
		return 0, err
	}
	r, err := b.Right.Eval(env)
	if err != nil {
		return 0, err
	}
	return applyBinary(b.Op, l, r), nil
}

func applyUnary(op UnaryOp, x float64) float64 {
	switch op {
	case OpNeg:
		return -x
	case OpSquare:
		return x * x
	case OpCube:
		return x * x * x
	case OpSqrt:
		return math.Sqrt(x)
	case OpSin:
		return math.Sin(x)
	case OpCos:
		return math.Cos(x)
	default:
		panic("expr: unknown unary op " + op.String())
	}
}

func applyBinary(op BinaryOp, l, r float64) float64 {
	switch op {
	case OpAdd:
		return l + r
	case OpSub:
		return l - r
	case OpMul:
		return l * r
	case OpDiv:
		return l / r
	default:
		panic("expr: unknown binary op " + op.String())
	}
}
