package pool

import (
	"math/rand"

	"github.com/wildfunctions/symdiff/pkg/expr"
)

func init() {
	Register("trig", func() Pool { return &TrigPool{} })
}

// TrigPool extends polynomial with sin and cos, and with half-integer
// constants as leaves.
type TrigPool struct{}

func (p *TrigPool) Name() string { return "trig" }

func (p *TrigPool) RandomLeaf(rng *rand.Rand, vars []*expr.Variable) expr.Node {
	r := rng.Float64()
	switch {
	case r < 0.45:
		return randomVar(rng, vars)
	case r < 0.8:
		return expr.Const(float64(rng.Intn(5) + 1))
	default:
		// 0.5, 1.5, 2.5
		return expr.Const(float64(rng.Intn(3)) + 0.5)
	}
}

var trigUnary = []expr.UnaryOp{
	expr.OpNeg,
	expr.OpSquare,
	expr.OpCube,
	expr.OpSin,
	expr.OpCos,
}

func (p *TrigPool) RandomUnary(rng *rand.Rand) expr.UnaryOp {
	return trigUnary[rng.Intn(len(trigUnary))]
}

var trigBinary = []expr.BinaryOp{
	expr.OpAdd,
	expr.OpSub,
	expr.OpMul,
}

func (p *TrigPool) RandomBinary(rng *rand.Rand) expr.BinaryOp {
	return trigBinary[rng.Intn(len(trigBinary))]
}

func (p *TrigPool) RandomTree(rng *rand.Rand, maxDepth int, vars []*expr.Variable) expr.Node {
	return randomTree(p, rng, maxDepth, vars)
}
