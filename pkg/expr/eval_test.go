package expr

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/symdiff/pkg/gradient"
	"github.com/wildfunctions/symdiff/pkg/param"
)

func assertEval(t *testing.T, node Node, env Env, want float64) {
	t.Helper()
	got, err := Eval(node, env)
	require.NoError(t, err, "Eval(%s)", node)
	assert.InDelta(t, want, got, 1e-12, "Eval(%s)", node)
}

func TestEvalOps(t *testing.T) {
	a := VarAt(0, "a")
	b := VarAt(1, "b")
	env := Tuple{9, 4}

	tests := []struct {
		name string
		node Node
		want float64
	}{
		{"zero", Zero{}, 0},
		{"one", One{}, 1},
		{"constant", Const(2.5), 2.5},
		{"variable", a, 9},
		{"add", Add(a, b), 13},
		{"sub", Sub(a, b), 5},
		{"mul", Mul(a, b), 36},
		{"div", MustDiv(a, b), 2.25},
		{"neg", Neg(a), -9},
		{"square", Square(b), 16},
		{"cube", Cube(b), 64},
		{"sqrt", Sqrt(a), 3},
		{"sin", Sin(b), math.Sin(4)},
		{"cos", Cos(b), math.Cos(4)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertEval(t, tc.node, env, tc.want)
		})
	}
}

func TestEvalFloatingPointResults(t *testing.T) {
	x := VarAt(0, "x")

	got, err := Eval(MustDiv(One{}, x), Tuple{0})
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))

	got, err = Eval(Sqrt(x), Tuple{-1})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestEvalEnvironments(t *testing.T) {
	x := Var("x")
	y := Var("y")
	f := Sub(Mul(x, x), y)

	values, err := Bind(x, 3.0, y, 1)
	require.NoError(t, err)
	assertEval(t, f, values, 8)
	assertEval(t, f, values.With(y, 4), 5)

	g, err := gradient.New([]param.Parameter{y.Parameter(), x.Parameter()}, []float64{2, 5})
	require.NoError(t, err)
	assertEval(t, f, g, 23)
}

func TestEvalUnbound(t *testing.T) {
	x := Var("x")
	y := Var("y")
	f := Add(x, y)

	_, err := Eval(f, Values{x.ID(): 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnboundVariable)
	assert.Contains(t, err.Error(), "variable y")

	_, err = Eval(VarAt(3, "w"), Tuple{1, 2})
	assert.ErrorIs(t, err, ErrUnboundVariable)

	_, err = EvalSelf(f)
	assert.ErrorIs(t, err, ErrUnboundVariable)

	g, err := gradient.New([]param.Parameter{x.Parameter()}, []float64{1})
	require.NoError(t, err)
	_, err = Eval(f, g)
	assert.ErrorIs(t, err, ErrUnboundVariable)
	assert.ErrorIs(t, err, gradient.ErrParameterNotFound)
	assert.Contains(t, err.Error(), "variable y")
}

func TestBindErrors(t *testing.T) {
	x := Var("x")

	_, err := Bind(x)
	assert.Error(t, err)
	_, err = Bind("x", 1.0)
	assert.Error(t, err)
	_, err = Bind(x, "one")
	assert.Error(t, err)
}

func TestDoubleVariables(t *testing.T) {
	a := Double("a", 2)
	f := Mul(a, a)

	assert.True(t, a.HasValue())
	assertEval(t, f, nil, 4)

	a.SetValue(3)
	got, err := EvalSelf(f)
	require.NoError(t, err)
	assert.Equal(t, 9.0, got)

	// An environment binding takes precedence over the stored value.
	assertEval(t, f, Values{a.ID(): 5}, 25)

	plain := Var("p")
	assert.False(t, plain.HasValue())
	assert.True(t, math.IsNaN(plain.Value()))
	assert.Panics(t, func() { plain.SetValue(1) })
}

func TestVariableIdentity(t *testing.T) {
	x := Var("x")
	alias := VarAt(x.ID(), "other")

	assert.True(t, x.Same(alias))
	assert.False(t, x.Same(Var("x")))
	assert.False(t, x.Same(nil))
	assert.Equal(t, x.ID(), x.Parameter().ID())

	p := param.New()
	assert.Equal(t, p.ID(), VarOf(p, "q").ID())
}

func TestConcurrentEval(t *testing.T) {
	x := VarAt(0, "x")
	y := VarAt(1, "y")
	f := Add(Mul(Sin(x), Cos(y)), Sqrt(Square(y)))
	df := Diff(f, x)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			env := Tuple{float64(i), 2}
			for j := 0; j < 500; j++ {
				v, err := Eval(f, env)
				if err != nil {
					errs <- err
					return
				}
				if math.Abs(v-(math.Sin(float64(i))*math.Cos(2)+2)) > 1e-12 {
					errs <- assert.AnError
					return
				}
				if _, err := Eval(df, env); err != nil {
					errs <- err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
