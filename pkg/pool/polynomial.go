package pool

import (
	"math/rand"

	"github.com/wildfunctions/symdiff/pkg/expr"
)

func init() {
	Register("polynomial", func() Pool { return &PolynomialPool{} })
}

// PolynomialPool provides variables, small integers, negation, square
// and cube, and add/sub/mul. Its trees are polynomials.
type PolynomialPool struct{}

func (p *PolynomialPool) Name() string { return "polynomial" }

func (p *PolynomialPool) RandomLeaf(rng *rand.Rand, vars []*expr.Variable) expr.Node {
	if rng.Float64() < 0.5 {
		return randomVar(rng, vars)
	}
	return expr.Const(float64(rng.Intn(5) + 1))
}

var polynomialUnary = []expr.UnaryOp{
	expr.OpNeg,
	expr.OpSquare,
	expr.OpCube,
}

func (p *PolynomialPool) RandomUnary(rng *rand.Rand) expr.UnaryOp {
	return polynomialUnary[rng.Intn(len(polynomialUnary))]
}

var polynomialBinary = []expr.BinaryOp{
	expr.OpAdd,
	expr.OpSub,
	expr.OpMul,
}

func (p *PolynomialPool) RandomBinary(rng *rand.Rand) expr.BinaryOp {
	return polynomialBinary[rng.Intn(len(polynomialBinary))]
}

func (p *PolynomialPool) RandomTree(rng *rand.Rand, maxDepth int, vars []*expr.Variable) expr.Node {
	return randomTree(p, rng, maxDepth, vars)
}
