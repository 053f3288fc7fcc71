package parse

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/wildfunctions/symdiff/pkg/expr"
	"github.com/wildfunctions/symdiff/pkg/param"
)

// Scope interns identifier names to variables. Variables get positional
// ids in first-seen order, so a Tuple built by Bind evaluates them.
type Scope struct {
	vars  []*expr.Variable
	index map[string]int
}

// NewScope returns a scope that already holds names, in order.
func NewScope(names ...string) *Scope {
	s := &Scope{index: make(map[string]int)}
	for _, name := range names {
		s.Var(name)
	}
	return s
}

// Var returns the variable for name, creating it on first use.
func (s *Scope) Var(name string) *expr.Variable {
	if i, ok := s.index[name]; ok {
		return s.vars[i]
	}
	v := expr.VarAt(param.ID(len(s.vars)), name)
	s.index[name] = len(s.vars)
	s.vars = append(s.vars, v)
	return v
}

// Lookup returns the variable for name without creating it.
func (s *Scope) Lookup(name string) (*expr.Variable, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.vars[i], true
}

// Vars returns the variables in id order.
func (s *Scope) Vars() []*expr.Variable {
	out := make([]*expr.Variable, len(s.vars))
	copy(out, s.vars)
	return out
}

// Len returns the number of interned variables.
func (s *Scope) Len() int { return len(s.vars) }

// Bind turns name=value assignments into a positional environment.
// Every variable in the scope must be assigned.
func (s *Scope) Bind(assignments []string) (expr.Tuple, error) {
	values := make(map[string]float64, len(assignments))
	for _, a := range assignments {
		name, raw, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Errorf("assignment %q: want name=value", a)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "assignment %q", a)
		}
		values[name] = v
		s.Var(name)
	}

	env := make(expr.Tuple, len(s.vars))
	for i, v := range s.vars {
		x, ok := values[v.Name()]
		if !ok {
			return nil, errors.Wrapf(expr.ErrUnboundVariable, "no value for %s", v.Name())
		}
		env[i] = x
	}
	return env, nil
}
