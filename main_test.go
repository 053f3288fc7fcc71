package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/symdiff/pkg/expr"
	"github.com/wildfunctions/symdiff/pkg/parse"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"simplified", []string{"eval", "x * 1 + 0 * y", "x=2", "y=5"}, "x = 2\n"},
		{"constant", []string{"eval", "2 * 3 + 1"}, "7 = 7\n"},
		{"functions", []string{"eval", "sin(x)^2 + cos(x)^2", "x=0"}, "(sin(x)^2 + cos(x)^2) = 1\n"},
		{"latex", []string{"eval", "--format", "latex", "1 / x^2", "x=2"}, "\\frac{1}{{x}^{2}}\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	_, err := execute(t, "eval", "x / 0", "x=1")
	assert.ErrorIs(t, err, expr.ErrDivisionByZero)

	_, err = execute(t, "eval", "x + y", "x=1")
	assert.ErrorIs(t, err, expr.ErrUnboundVariable)

	_, err = execute(t, "eval", "x +", "x=1")
	assert.ErrorIs(t, err, parse.ErrSyntax)

	_, err = execute(t, "eval")
	assert.Error(t, err)

	_, err = execute(t, "--format", "xml", "eval", "1")
	assert.Error(t, err)
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"single variable", []string{"diff", "x^3"}, "d/dx x^3 = (3 * x^2)\n"},
		{"fourth order", []string{"diff", "sin(x)", "--order", "4"}, "d^4/dx^4 sin(x) = sin(x)\n"},
		{"absent variable", []string{"diff", "x^2", "--wrt", "z"}, "d/dz x^2 = 0\n"},
		{"absent among several", []string{"diff", "x * y", "--wrt", "z"}, "d/dz (x * y) = 0\n"},
		{"absent with values", []string{"diff", "x * y", "--wrt", "z", "x=2", "y=3"}, "d/dz (x * y) = 0\nvalue = 0\n"},
		{"with value", []string{"diff", "x^2", "x=3"}, "d/dx x^2 = (2 * x)\nvalue = 6\n"},
		{"partial", []string{"diff", "x * y", "--wrt", "y"}, "d/dy (x * y) = x\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestDiffProductValue(t *testing.T) {
	out, err := execute(t, "diff", "sin(x) * cos(y)", "--wrt", "x", "x=1", "y=2")
	require.NoError(t, err)
	assert.Contains(t, out, "d/dx (sin(x) * cos(y)) = (cos(x) * cos(y))")
	assert.Contains(t, out, "value = -0.2248")
}

func TestDiffJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "diff", "sqrt(x)", "x=4")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "sqrt(x)", got["expr"])
	assert.Equal(t, "x", got["variable"])
	assert.Equal(t, "(0.5 / sqrt(x))", got["derivative"])
	assert.EqualValues(t, 0.25, got["value"])
}

func TestDiffErrors(t *testing.T) {
	_, err := execute(t, "diff", "x * y")
	assert.ErrorContains(t, err, "choose one with --wrt")

	_, err = execute(t, "diff", "3")
	assert.Error(t, err)

	_, err = execute(t, "diff", "x", "--order", "0")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	out, err := execute(t, "verify", "--pool", "polynomial", "--trees", "10", "--max-depth", "3",
		"--seed", "1", "--workers", "2", "--tolerance", "1e-6", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "VERIFICATION RESULT")
	assert.Contains(t, out, "Trees:     10")
	assert.Contains(t, out, "Failed:    0")
}

func TestVerifyWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symdiff.yaml")
	cfg := "pool: trig\ntrees: 5\nmax_depth: 3\nseed: 3\ntolerance: 1.0e-6\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	out, err := execute(t, "--config", path, "--format", "json", "verify")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.EqualValues(t, 5, got["trees"])
	assert.EqualValues(t, 3, got["seed"])
	assert.EqualValues(t, 0, got["failed"])
}

func TestVerifyBadConfig(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "verify")
	assert.Error(t, err)

	_, err = execute(t, "verify", "--pool", "nope")
	assert.Error(t, err)
}
