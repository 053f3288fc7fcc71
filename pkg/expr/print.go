package expr

import (
	"fmt"
	"strconv"
)

var unaryOpNames = map[UnaryOp]string{
	OpNeg:    "neg",
	OpSquare: "square",
	OpCube:   "cube",
	OpSqrt:   "sqrt",
	OpSin:    "sin",
	OpCos:    "cos",
}

var binaryOpSymbols = map[BinaryOp]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
}

func (op UnaryOp) String() string {
	if s, ok := unaryOpNames[op]; ok {
		return s
	}
	return fmt.Sprintf("UnaryOp(%d)", int(op))
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpSymbols[op]; ok {
		return s
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// String methods

func (Zero) String() string { return "0" }

func (One) String() string { return "1" }

func (c Constant) String() string {
	return strconv.FormatFloat(c.Val, 'g', -1, 64)
}

func (v *Variable) String() string { return v.Name() }

func (u *UnaryNode) String() string {
	child := u.Child.String()
	switch u.Op {
	case OpNeg:
		return fmt.Sprintf("(-%s)", child)
	case OpSquare:
		return fmt.Sprintf("%s^2", child)
	case OpCube:
		return fmt.Sprintf("%s^3", child)
	default:
		return fmt.Sprintf("%s(%s)", u.Op, child)
	}
}

func (b *BinaryNode) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

// LaTeX methods

func (Zero) LaTeX() string { return "0" }

func (One) LaTeX() string { return "1" }

func (c Constant) LaTeX() string { return c.String() }

func (v *Variable) LaTeX() string {
	if v.name == "" {
		return fmt.Sprintf("v_{%d}", int64(v.id))
	}
	return v.name
}

func (u *UnaryNode) LaTeX() string {
	child := u.Child.LaTeX()
	switch u.Op {
	case OpNeg:
		return fmt.Sprintf("-{%s}", child)
	case OpSquare:
		return fmt.Sprintf("{%s}^{2}", child)
	case OpCube:
		return fmt.Sprintf("{%s}^{3}", child)
	case OpSqrt:
		return fmt.Sprintf("\\sqrt{%s}", child)
	case OpSin:
		return fmt.Sprintf("\\sin{(%s)}", child)
	case OpCos:
		return fmt.Sprintf("\\cos{(%s)}", child)
	default:
		return child
	}
}

func (b *BinaryNode) LaTeX() string {
	left := b.Left.LaTeX()
	right := b.Right.LaTeX()
	switch b.Op {
	case OpAdd:
		return fmt.Sprintf("\\left({%s} + {%s}\\right)", left, right)
	case OpSub:
		return fmt.Sprintf("\\left({%s} - {%s}\\right)", left, right)
	case OpMul:
		return fmt.Sprintf("{%s} \\cdot {%s}", left, right)
	case OpDiv:
		return fmt.Sprintf("\\frac{%s}{%s}", left, right)
	default:
		return ""
	}
}
