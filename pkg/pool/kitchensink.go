package pool

import (
	"math/rand"

	"github.com/wildfunctions/symdiff/pkg/expr"
)

func init() {
	Register("kitchensink", func() Pool { return &KitchenSinkPool{} })
}

// KitchenSinkPool uses every operation, including division and sqrt.
// Its leaves include zero so that the division guard is exercised.
type KitchenSinkPool struct{}

func (p *KitchenSinkPool) Name() string { return "kitchensink" }

func (p *KitchenSinkPool) RandomLeaf(rng *rand.Rand, vars []*expr.Variable) expr.Node {
	r := rng.Float64()
	switch {
	case r < 0.4:
		return randomVar(rng, vars)
	case r < 0.75:
		return expr.Const(float64(rng.Intn(10) + 1))
	case r < 0.9:
		vals := []float64{0.5, 0.25, 2.5, 3.75}
		return expr.Const(vals[rng.Intn(len(vals))])
	default:
		return expr.Zero{}
	}
}

var kitchenSinkUnary = []expr.UnaryOp{
	expr.OpNeg,
	expr.OpSquare,
	expr.OpCube,
	expr.OpSqrt,
	expr.OpSin,
	expr.OpCos,
}

func (p *KitchenSinkPool) RandomUnary(rng *rand.Rand) expr.UnaryOp {
	return kitchenSinkUnary[rng.Intn(len(kitchenSinkUnary))]
}

var kitchenSinkBinary = []expr.BinaryOp{
	expr.OpAdd,
	expr.OpSub,
	expr.OpMul,
	expr.OpDiv,
}

func (p *KitchenSinkPool) RandomBinary(rng *rand.Rand) expr.BinaryOp {
	return kitchenSinkBinary[rng.Intn(len(kitchenSinkBinary))]
}

func (p *KitchenSinkPool) RandomTree(rng *rand.Rand, maxDepth int, vars []*expr.Variable) expr.Node {
	return randomTree(p, rng, maxDepth, vars)
}
