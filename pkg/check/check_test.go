package check

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/symdiff/pkg/expr"
)

func TestFiniteDiff(t *testing.T) {
	x := expr.VarAt(0, "x")

	got, err := FiniteDiff(expr.Sin(x), x, expr.Tuple{0.5}, nil)
	require.NoError(t, err)
	assert.InDelta(t, math.Cos(0.5), got, 1e-6)

	got, err = FiniteDiff(expr.Square(x), x, expr.Tuple{3}, Central(1e-3))
	require.NoError(t, err)
	assert.InDelta(t, 6, got, 1e-8)
}

func TestFiniteDiffForwardOrbit(t *testing.T) {
	x := expr.Double("x", 6628.14)
	y := expr.Double("y", 398600.44)
	f := expr.Sqrt(expr.MustDiv(expr.Cube(x), y))

	tests := []struct {
		name  string
		v     *expr.Variable
		delta float64
	}{
		{"x", x, 1e-5},
		{"y", y, 1e-8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			numeric, err := FiniteDiff(f, tc.v, nil, Forward(0.1))
			require.NoError(t, err)

			symbolic, err := expr.EvalSelf(expr.Diff(f, tc.v))
			require.NoError(t, err)
			assert.InDelta(t, symbolic, numeric, tc.delta)
		})
	}

	// stored values are untouched by the finite difference
	assert.Equal(t, 6628.14, x.Value())
	assert.Equal(t, 398600.44, y.Value())
}

func TestPrepare(t *testing.T) {
	x := expr.VarAt(0, "x")
	y := expr.VarAt(1, "y")
	f := expr.Mul(expr.Sin(x), expr.Cube(y))

	d := Prepare(f, x)
	assert.Equal(t, expr.Diff(f, x).String(), d.First.String())
	assert.Equal(t, expr.Diff(expr.Diff(f, x), x).String(), d.Second.String())

	for _, env := range []expr.Tuple{{0.2, 1.1}, {1.4, -0.6}, {2.5, 0.9}} {
		got, err := d.Compare(env, 1e-9)
		require.NoError(t, err)
		want, err := Compare(f, x, env, 1e-9)
		require.NoError(t, err)

		assert.Equal(t, want, got)
		assert.True(t, got.OK)
	}
}

func TestDual(t *testing.T) {
	x := expr.VarAt(0, "x")
	y := expr.VarAt(1, "y")
	env := expr.Tuple{1, 2}

	d, err := Dual(expr.Mul(expr.Sin(x), expr.Cos(y)), x, env)
	require.NoError(t, err)
	assert.InDelta(t, math.Sin(1)*math.Cos(2), d.Real, 1e-15)
	assert.InDelta(t, math.Cos(1)*math.Cos(2), d.Emag, 1e-15)

	d, err = Dual(expr.Sub(x, y), y, env)
	require.NoError(t, err)
	assert.Equal(t, -1.0, d.Real)
	assert.Equal(t, -1.0, d.Emag)

	d, err = Dual(expr.MustDiv(x, y), y, env)
	require.NoError(t, err)
	assert.InDelta(t, -0.25, d.Emag, 1e-15)
}

func TestHyperDual(t *testing.T) {
	x := expr.VarAt(0, "x")

	h, err := HyperDual(expr.Cube(x), x, expr.Tuple{2})
	require.NoError(t, err)
	assert.InDelta(t, 8, h.Real, 1e-12)
	assert.InDelta(t, 12, h.E1mag, 1e-12)
	assert.InDelta(t, 12, h.E1E2mag, 1e-12)

	h, err = HyperDual(expr.Neg(expr.Sin(x)), x, expr.Tuple{0.3})
	require.NoError(t, err)
	assert.InDelta(t, -math.Cos(0.3), h.E1mag, 1e-15)
	assert.InDelta(t, math.Sin(0.3), h.E1E2mag, 1e-15)
}

func TestCompare(t *testing.T) {
	x := expr.VarAt(0, "x")
	y := expr.VarAt(1, "y")
	env := expr.Tuple{1.3, 0.7}

	trees := map[string]expr.Node{
		"product":   expr.Mul(expr.Sin(x), expr.Cos(y)),
		"quotient":  expr.MustDiv(expr.Square(x), expr.Add(y, expr.Const(2))),
		"sqrt":      expr.Sqrt(expr.MustDiv(expr.Cube(x), y)),
		"nested":    expr.Cos(expr.Mul(x, expr.Sin(expr.Sub(x, y)))),
		"negation":  expr.Neg(expr.Cube(expr.Add(x, y))),
		"constant":  expr.Const(4),
		"unrelated": expr.Sin(y),
	}

	for name, n := range trees {
		t.Run(name, func(t *testing.T) {
			for _, v := range []*expr.Variable{x, y} {
				res, err := Compare(n, v, env, 1e-9)
				require.NoError(t, err)
				assert.True(t, res.OK, "%s d/d%s: %+v", n, v.Name(), res)
				assert.Equal(t, v.Name(), res.Variable)
				assert.Less(t, res.FiniteDiffErr, 1e-4)
			}
		})
	}
}

func TestCompareUnbound(t *testing.T) {
	x := expr.Var("x")
	y := expr.Var("y")

	_, err := Compare(expr.Add(x, y), x, expr.Values{x.ID(): 1}, 1e-9)
	assert.ErrorIs(t, err, expr.ErrUnboundVariable)

	_, err = Dual(y, x, nil)
	assert.ErrorIs(t, err, expr.ErrUnboundVariable)
}

func TestScaledErr(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"equal", 2, 2, 0},
		{"small values absolute", 0.001, 0.002, 0.001},
		{"large values relative", 100, 101, 0.01},
		{"both nan", math.NaN(), math.NaN(), 0},
		{"one nan", math.NaN(), 1, math.Inf(1)},
		{"same inf", math.Inf(-1), math.Inf(-1), 0},
		{"opposite inf", math.Inf(1), math.Inf(-1), math.Inf(1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := scaledErr(tc.a, tc.b)
			if math.IsInf(tc.want, 1) {
				assert.True(t, math.IsInf(got, 1), "got %v", got)
				return
			}
			assert.InDelta(t, tc.want, got, 1e-15)
		})
	}
}

func TestCompareSkipsUndefinedPoints(t *testing.T) {
	x := expr.VarAt(0, "x")

	res, err := Compare(expr.Add(x, expr.Sqrt(x)), x, expr.Tuple{-1}, 1e-9)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.True(t, res.OK)

	res, err = Compare(expr.Add(x, expr.Sqrt(x)), x, expr.Tuple{4}, 1e-9)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.True(t, res.OK)
	assert.InDelta(t, 1.25, res.Symbolic, 1e-15)
}
