package expr

import (
	"github.com/pkg/errors"

	"github.com/wildfunctions/symdiff/pkg/param"
)

var (
	// ErrDivisionByZero is returned when a division is built with a
	// denominator that is symbolically zero.
	ErrDivisionByZero = errors.New("symbolic division by zero")
	// ErrUnboundVariable is returned when an environment has no value
	// for a variable referenced by the tree.
	ErrUnboundVariable = errors.New("unbound variable")
)

// Env binds variable ids to values at evaluation time.
type Env interface {
	Lookup(id param.ID) (float64, error)
}

// Tuple is a positional environment: variable id i reads element i.
type Tuple []float64

func (t Tuple) Lookup(id param.ID) (float64, error) {
	if id < 0 || int64(id) >= int64(len(t)) {
		return 0, errors.Wrapf(ErrUnboundVariable, "id %d outside tuple of length %d", int64(id), len(t))
	}
	return t[id], nil
}

// Values is a keyed environment.
type Values map[param.ID]float64

func (m Values) Lookup(id param.ID) (float64, error) {
	v, ok := m[id]
	if !ok {
		return 0, errors.Wrapf(ErrUnboundVariable, "id %d", int64(id))
	}
	return v, nil
}

// Bind returns a keyed environment from alternating variables and values.
func Bind(pairs ...any) (Values, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.Errorf("Bind: odd number of arguments (%d)", len(pairs))
	}
	m := make(Values, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		v, ok := pairs[i].(*Variable)
		if !ok {
			return nil, errors.Errorf("Bind: argument %d is %T, want *Variable", i, pairs[i])
		}
		switch x := pairs[i+1].(type) {
		case float64:
			m[v.id] = x
		case int:
			m[v.id] = float64(x)
		default:
			return nil, errors.Errorf("Bind: value for %s is %T, want float64", v.Name(), pairs[i+1])
		}
	}
	return m, nil
}

// With returns a copy of m with v bound to x.
func (m Values) With(v *Variable, x float64) Values {
	out := make(Values, len(m)+1)
	for k, val := range m {
		out[k] = val
	}
	out[v.id] = x
	return out
}

type emptyEnv struct{}

func (emptyEnv) Lookup(id param.ID) (float64, error) {
	return 0, errors.Wrapf(ErrUnboundVariable, "id %d", int64(id))
}
