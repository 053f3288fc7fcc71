// Package check cross-checks symbolic derivatives against numerical
// ones: finite differences, dual numbers and hyperdual numbers.
package check

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/num/dual"
	"gonum.org/v1/gonum/num/hyperdual"

	"github.com/wildfunctions/symdiff/pkg/expr"
	"github.com/wildfunctions/symdiff/pkg/param"
)

// Forward returns finite difference settings for a one-sided forward
// difference with step eps.
func Forward(eps float64) *fd.Settings {
	return &fd.Settings{Formula: fd.Forward, Step: eps}
}

// Central returns settings for a central difference with step eps. A
// zero step uses the formula's default.
func Central(eps float64) *fd.Settings {
	return &fd.Settings{Formula: fd.Central, Step: eps}
}

// FiniteDiff estimates dn/dv at the point bound by env. Nil settings use
// a central difference.
func FiniteDiff(n expr.Node, v *expr.Variable, env expr.Env, settings *fd.Settings) (float64, error) {
	x0, err := expr.Eval(v, env)
	if err != nil {
		return 0, err
	}
	if _, err := expr.Eval(n, env); err != nil {
		return 0, err
	}
	if settings == nil {
		settings = Central(0)
	}

	f := func(x float64) float64 {
		y, err := expr.Eval(n, shift(env, v, x))
		if err != nil {
			return math.NaN()
		}
		return y
	}
	return fd.Derivative(f, x0, settings), nil
}

// Dual evaluates n in forward mode, seeding v. The Emag part of the
// result is dn/dv.
func Dual(n expr.Node, v *expr.Variable, env expr.Env) (dual.Number, error) {
	return walk(dualOps, n, v, env)
}

// HyperDual evaluates n seeding v in both infinitesimal parts. E1mag is
// dn/dv and E1E2mag is the second derivative.
func HyperDual(n expr.Node, v *expr.Variable, env expr.Env) (hyperdual.Number, error) {
	return walk(hyperdualOps, n, v, env)
}

// Result reports one comparison of a symbolic derivative.
type Result struct {
	Variable string
	At       float64
	Value    float64

	Symbolic   float64
	Dual       float64
	FiniteDiff float64

	Second    float64
	HyperDual float64

	// RelErr is the largest scaled disagreement between the symbolic
	// derivatives and the dual estimates.
	RelErr float64
	// FiniteDiffErr is reported only; truncation error makes it too
	// noisy to decide OK.
	FiniteDiffErr float64

	// Skipped is set when the function itself is not finite at the
	// point, so its derivative is undefined there.
	Skipped bool
	OK      bool
}

// Derivatives holds the symbolic first and second derivatives of a
// tree with respect to one variable, so they can be compared at many
// points without being rebuilt.
type Derivatives struct {
	Func   expr.Node
	Var    *expr.Variable
	First  expr.Node
	Second expr.Node
}

// Prepare differentiates n with respect to v once and twice.
func Prepare(n expr.Node, v *expr.Variable) *Derivatives {
	d1 := expr.Diff(n, v)
	return &Derivatives{Func: n, Var: v, First: d1, Second: expr.Diff(d1, v)}
}

// Compare differentiates n with respect to v symbolically, once and
// twice, and compares the results at env against dual and hyperdual
// evaluation. OK is set when the scaled error is at most tol, or when
// the comparison is skipped.
func Compare(n expr.Node, v *expr.Variable, env expr.Env, tol float64) (Result, error) {
	return Prepare(n, v).Compare(env, tol)
}

// Compare evaluates the prepared derivatives at env. See Compare.
func (d *Derivatives) Compare(env expr.Env, tol float64) (Result, error) {
	n, v := d.Func, d.Var
	res := Result{Variable: v.Name()}

	var err error
	if res.At, err = expr.Eval(v, env); err != nil {
		return res, err
	}
	if res.Value, err = expr.Eval(n, env); err != nil {
		return res, err
	}

	if res.Symbolic, err = expr.Eval(d.First, env); err != nil {
		return res, errors.Wrapf(err, "first derivative %s", d.First)
	}
	if res.Second, err = expr.Eval(d.Second, env); err != nil {
		return res, errors.Wrap(err, "second derivative")
	}

	dn, err := Dual(n, v, env)
	if err != nil {
		return res, err
	}
	res.Dual = dn.Emag

	hn, err := HyperDual(n, v, env)
	if err != nil {
		return res, err
	}
	res.HyperDual = hn.E1E2mag

	if res.FiniteDiff, err = FiniteDiff(n, v, env, nil); err != nil {
		return res, err
	}

	if math.IsNaN(res.Value) || math.IsInf(res.Value, 0) {
		res.Skipped = true
		res.OK = true
		return res, nil
	}

	res.RelErr = math.Max(scaledErr(res.Symbolic, res.Dual), scaledErr(res.Second, res.HyperDual))
	res.FiniteDiffErr = scaledErr(res.Symbolic, res.FiniteDiff)
	res.OK = res.RelErr <= tol
	return res, nil
}

// scaledErr is |a-b| relative to max(1, |a|). Matching non-finite values
// count as agreement.
func scaledErr(a, b float64) float64 {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		if math.IsNaN(a) && math.IsNaN(b) {
			return 0
		}
		return math.Inf(1)
	case math.IsInf(a, 0) || math.IsInf(b, 0):
		if a == b {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(a-b) / math.Max(1, math.Abs(a))
}

// shifted binds v to x and defers everything else to base.
type shifted struct {
	base expr.Env
	id   param.ID
	x    float64
}

func shift(base expr.Env, v *expr.Variable, x float64) expr.Env {
	return shifted{base: base, id: v.ID(), x: x}
}

func (s shifted) Lookup(id param.ID) (float64, error) {
	if id == s.id {
		return s.x, nil
	}
	if s.base == nil {
		return 0, errors.Wrapf(expr.ErrUnboundVariable, "id %d", int64(id))
	}
	return s.base.Lookup(id)
}
