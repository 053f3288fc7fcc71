// Package gradient holds numeric values keyed by parameter id.
//
// A Gradient keeps its parameters sorted and unique, so lookups are a
// binary search over the id ordering. It satisfies expr.Env and can be
// used directly as the binding environment of an evaluation.
package gradient

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/wildfunctions/symdiff/pkg/param"
)

var (
	ErrParameterNotFound  = errors.New("parameter not found")
	ErrDuplicateParameter = errors.New("duplicate parameter")
	ErrLengthMismatch     = errors.New("parameter and value counts differ")
)

// Gradient maps parameters to values.
type Gradient struct {
	params []param.Parameter
	values []float64
}

// New pairs params with values. The pairs are reordered by parameter id.
func New(params []param.Parameter, values []float64) (*Gradient, error) {
	if len(params) != len(values) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d parameters, %d values", len(params), len(values))
	}

	idx := make([]int, len(params))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return param.Less(params[idx[a]], params[idx[b]]) })

	g := &Gradient{
		params: make([]param.Parameter, len(params)),
		values: make([]float64, len(values)),
	}
	for i, j := range idx {
		if i > 0 && params[j].ID() == g.params[i-1].ID() {
			return nil, errors.Wrapf(ErrDuplicateParameter, "parameter %s", params[j])
		}
		g.params[i] = params[j]
		g.values[i] = values[j]
	}
	return g, nil
}

func (g *Gradient) search(id param.ID) (int, bool) {
	i := sort.Search(len(g.params), func(i int) bool { return g.params[i].ID() >= id })
	return i, i < len(g.params) && g.params[i].ID() == id
}

// At returns the value stored for id.
func (g *Gradient) At(id param.ID) (float64, error) {
	i, ok := g.search(id)
	if !ok {
		return 0, errors.Wrapf(ErrParameterNotFound, "parameter %s", id)
	}
	return g.values[i], nil
}

// Set replaces the value stored for id. The parameter set is fixed at
// construction; setting an unknown id fails.
func (g *Gradient) Set(id param.ID, v float64) error {
	i, ok := g.search(id)
	if !ok {
		return errors.Wrapf(ErrParameterNotFound, "parameter %s", id)
	}
	g.values[i] = v
	return nil
}

// Lookup makes a Gradient usable as an evaluation environment.
func (g *Gradient) Lookup(id param.ID) (float64, error) {
	return g.At(id)
}

// Parameters returns the parameters in id order.
func (g *Gradient) Parameters() []param.Parameter {
	out := make([]param.Parameter, len(g.params))
	copy(out, g.params)
	return out
}

// Values returns the values in parameter order.
func (g *Gradient) Values() []float64 {
	out := make([]float64, len(g.values))
	copy(out, g.values)
	return out
}

func (g *Gradient) Len() int { return len(g.params) }
