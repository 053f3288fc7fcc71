package expr

import (
	"math"
	"sort"

	"github.com/wildfunctions/symdiff/pkg/param"
)

func (Zero) NodeCount() int { return 1 }
func (One) NodeCount() int { return 1 }
func (Constant) NodeCount() int { return 1 }
func (*Variable) NodeCount() int { return 1 }
func (u *UnaryNode) NodeCount() int { return 1 + u.Child.NodeCount() }
func (b *BinaryNode) NodeCount() int {
	return 1 + b.Left.NodeCount() + b.Right.NodeCount()
}

func (Zero) Depth() int { return 1 }
func (One) Depth() int { return 1 }
func (Constant) Depth() int { return 1 }
func (*Variable) Depth() int { return 1 }
func (u *UnaryNode) Depth() int { return 1 + u.Child.Depth() }
func (b *BinaryNode) Depth() int {
	ld := b.Left.Depth()
	rd := b.Right.Depth()
	if ld > rd {
		return 1 + ld
	}
	return 1 + rd
}

// Weight returns a complexity score with heavier weight for operations
// that are more expensive to evaluate and differentiate.
func Weight(node Node) float64 {
	switch n := node.(type) {
	case Zero, One, *Variable:
		return 1.0
	case Constant:
		v := math.Abs(n.Val)
		if v <= 10 || math.IsInf(v, 0) || math.IsNaN(v) {
			return 1.0
		}
		return 1.0 + math.Log10(v)
	case *UnaryNode:
		return unaryWeight(n.Op) + Weight(n.Child)
	case *BinaryNode:
		return binaryWeight(n.Op) + Weight(n.Left) + Weight(n.Right)
	default:
		return 1.0
	}
}

func unaryWeight(op UnaryOp) float64 {
	switch op {
	case OpNeg:
		return 1.0
	case OpSquare, OpCube:
		return 1.5
	case OpSqrt:
		return 2.0
	case OpSin, OpCos:
		return 3.0
	default:
		return 2.0
	}
}

func binaryWeight(op BinaryOp) float64 {
	switch op {
	case OpAdd, OpSub:
		return 1.0
	default:
		return 1.5
	}
}

// Variables returns the distinct variables referenced by n, ordered by id.
func Variables(n Node) []*Variable {
	byID := map[param.ID]*Variable{}
	collectVars(n, byID)

	out := make([]*Variable, 0, len(byID))
	for _, v := range byID {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func collectVars(node Node, byID map[param.ID]*Variable) {
	switch n := node.(type) {
	case *Variable:
		if _, ok := byID[n.id]; !ok {
			byID[n.id] = n
		}
	case *UnaryNode:
		collectVars(n.Child, byID)
	case *BinaryNode:
		collectVars(n.Left, byID)
		collectVars(n.Right, byID)
	}
}

// Contains reports whether v occurs in n.
func Contains(node Node, v *Variable) bool {
	switch n := node.(type) {
	case *Variable:
		return n.Same(v)
	case *UnaryNode:
		return Contains(n.Child, v)
	case *BinaryNode:
		return Contains(n.Left, v) || Contains(n.Right, v)
	default:
		return false
	}
}
