// Package pool generates random expression trees for verification runs.
package pool

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/wildfunctions/symdiff/pkg/expr"
)

// Pool provides random building blocks for constructing expression trees.
type Pool interface {
	Name() string
	RandomLeaf(rng *rand.Rand, vars []*expr.Variable) expr.Node
	RandomUnary(rng *rand.Rand) expr.UnaryOp
	RandomBinary(rng *rand.Rand) expr.BinaryOp
	RandomTree(rng *rand.Rand, maxDepth int, vars []*expr.Variable) expr.Node
}

var registry = map[string]func() Pool{}

// Register adds a pool constructor to the registry.
func Register(name string, constructor func() Pool) {
	registry[name] = constructor
}

// Get returns a pool by name.
func Get(name string) (Pool, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("unknown pool: %s", name)
	}
	return ctor(), nil
}

// Names returns all registered pool names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// randomTree is a shared helper for building random trees. Nodes go
// through the builders, so the result is simplified. A division whose
// denominator reduces to zero becomes a multiplication.
func randomTree(p Pool, rng *rand.Rand, maxDepth int, vars []*expr.Variable) expr.Node {
	if maxDepth <= 1 {
		return p.RandomLeaf(rng, vars)
	}
	// Bias toward leaves at shallow depths to keep trees small
	r := rng.Float64()
	switch {
	case r < 0.4:
		return p.RandomLeaf(rng, vars)
	case r < 0.6:
		return expr.Unary(p.RandomUnary(rng), randomTree(p, rng, maxDepth-1, vars))
	default:
		op := p.RandomBinary(rng)
		left := randomTree(p, rng, maxDepth-1, vars)
		right := randomTree(p, rng, maxDepth-1, vars)
		n, err := expr.Binary(op, left, right)
		if err != nil {
			return expr.Mul(left, right)
		}
		return n
	}
}

// randomVar picks one of vars, or a constant when there are none.
func randomVar(rng *rand.Rand, vars []*expr.Variable) expr.Node {
	if len(vars) == 0 {
		return expr.Const(float64(rng.Intn(5) + 1))
	}
	return vars[rng.Intn(len(vars))]
}
