package expr

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/wildfunctions/symdiff/pkg/param"
)

// Variable is a named symbol. Two variables are the same variable iff
// their ids are equal; the name only affects rendering.
type Variable struct {
	id   param.ID
	name string
	def  *valueCell
}

// valueCell stores float64 bits so SetValue and concurrent evaluation
// do not race.
type valueCell struct {
	bits atomic.Uint64
}

func (c *valueCell) load() float64   { return math.Float64frombits(c.bits.Load()) }
func (c *valueCell) store(v float64) { c.bits.Store(math.Float64bits(v)) }

// Var returns a variable with a freshly issued id.
func Var(name string) *Variable {
	return &Variable{id: param.Next(), name: name}
}

// VarAt returns a variable with an explicit id. Positional environments
// (Tuple) look a variable up by using its id as the index.
func VarAt(id param.ID, name string) *Variable {
	return &Variable{id: id, name: name}
}

// VarOf returns a variable bound to the id of p.
func VarOf(p param.Parameter, name string) *Variable {
	return &Variable{id: p.ID(), name: name}
}

// Double returns a fresh variable that carries its own value. The value
// is used whenever the evaluation environment does not bind the
// variable, so EvalSelf can evaluate a tree built from such variables.
func Double(name string, value float64) *Variable {
	v := Var(name)
	v.def = &valueCell{}
	v.def.store(value)
	return v
}

// ID returns the identity used for binding lookup and differentiation.
func (v *Variable) ID() param.ID { return v.id }

// Name returns the display name; unnamed variables render as Var_<id>.
func (v *Variable) Name() string {
	if v.name == "" {
		return fmt.Sprintf("Var_%d", int64(v.id))
	}
	return v.name
}

// Parameter returns the parameter that shares this variable's id.
func (v *Variable) Parameter() param.Parameter { return param.FromID(v.id) }

// Same reports whether v and o are the same variable.
func (v *Variable) Same(o *Variable) bool {
	return o != nil && v.id == o.id
}

// HasValue reports whether the variable carries its own value.
func (v *Variable) HasValue() bool { return v.def != nil }

// Value returns the stored value, or NaN if the variable has none.
func (v *Variable) Value() float64 {
	if v.def == nil {
		return math.NaN()
	}
	return v.def.load()
}

// SetValue updates the stored value in place. It is the only mutation a
// tree ever sees and exists for finite-difference style probing; it
// panics on a variable created without a value.
func (v *Variable) SetValue(value float64) {
	if v.def == nil {
		panic(fmt.Sprintf("expr: variable %s has no stored value", v.Name()))
	}
	v.def.store(value)
}
