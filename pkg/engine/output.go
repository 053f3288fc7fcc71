package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/wildfunctions/symdiff/pkg/expr"
)

// Float is a float64 that encodes NaN and infinities as JSON strings.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

func floats(t expr.Tuple) []Float {
	out := make([]Float, len(t))
	for i, v := range t {
		out[i] = Float(v)
	}
	return out
}

// Failure is one comparison whose symbolic and numerical derivatives
// disagree, or that could not be evaluated.
type Failure struct {
	Tree       int     `json:"tree"`
	Expr       string  `json:"expr"`
	Variable   string  `json:"variable"`
	Point      []Float `json:"point"`
	Symbolic   Float   `json:"symbolic"`
	Dual       Float   `json:"dual"`
	FiniteDiff Float   `json:"finite_diff"`
	Second     Float   `json:"second"`
	HyperDual  Float   `json:"hyperdual"`
	RelErr     Float   `json:"rel_err"`
	Error      string  `json:"error,omitempty"`
}

// TreeResult summarizes the checks of one generated tree.
type TreeResult struct {
	Index     int       `json:"index"`
	Expr      string    `json:"expr"`
	LaTeX     string    `json:"latex"`
	NodeCount int       `json:"node_count"`
	Depth     int       `json:"depth"`
	Weight    float64   `json:"weight"`
	Checks    int       `json:"checks"`
	Passed    int       `json:"passed"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
	MaxRelErr Float     `json:"max_rel_err"`
	Failures  []Failure `json:"-"`
}

// Report summarizes the entire run.
type Report struct {
	Config    Config       `json:"config"`
	Seed      int64        `json:"seed"`
	Trees     int          `json:"trees"`
	Checks    int          `json:"checks"`
	Passed    int          `json:"passed"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
	MaxRelErr Float        `json:"max_rel_err"`
	Elapsed   string       `json:"elapsed"`
	Timestamp time.Time    `json:"timestamp"`
	Worst     []TreeResult `json:"worst,omitempty"`
	Failures  []Failure    `json:"failures,omitempty"`
}

// OK reports whether every comparison agreed.
func (r Report) OK() bool { return r.Failed == 0 }

// sortByError returns a copy of results sorted by MaxRelErr descending.
// NaN sorts first.
func sortByError(results []TreeResult) []TreeResult {
	sorted := make([]TreeResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := float64(sorted[i].MaxRelErr), float64(sorted[j].MaxRelErr)
		if math.IsNaN(a) || math.IsNaN(b) {
			return math.IsNaN(a) && !math.IsNaN(b)
		}
		if a != b {
			return a > b
		}
		return sorted[i].Weight > sorted[j].Weight
	})
	return sorted
}

// WriteWorst writes the trees with the largest errors.
func WriteWorst(w io.Writer, worst []TreeResult) {
	fmt.Fprintln(w, "\n--- Largest errors ---")
	for i, tr := range worst {
		fmt.Fprintf(w, "  #%d: [tree %d, %d nodes] %9.3g | %s\n",
			i+1, tr.Index, tr.NodeCount, float64(tr.MaxRelErr), tr.Expr)
	}
}

// WriteFailure writes a single failed comparison.
func WriteFailure(w io.Writer, f Failure) {
	if f.Error != "" {
		fmt.Fprintf(w, "  tree %d d/d%s: %s | %s\n", f.Tree, f.Variable, f.Error, f.Expr)
		return
	}
	fmt.Fprintf(w, "  tree %d d/d%s at %v: symbolic %g, dual %g, second %g, hyperdual %g | %s\n",
		f.Tree, f.Variable, f.Point, float64(f.Symbolic), float64(f.Dual),
		float64(f.Second), float64(f.HyperDual), f.Expr)
}

// WriteText writes the report in human-readable format.
func WriteText(w io.Writer, r Report) {
	if len(r.Worst) > 0 {
		WriteWorst(w, r.Worst)
	}
	if len(r.Failures) > 0 {
		fmt.Fprintln(w, "\n--- Failures ---")
		for _, f := range r.Failures {
			WriteFailure(w, f)
		}
	}
	fmt.Fprintln(w, "\n========== VERIFICATION RESULT ==========")
	fmt.Fprintf(w, "Pool:      %s\n", r.Config.Pool)
	fmt.Fprintf(w, "Seed:      %d\n", r.Seed)
	fmt.Fprintf(w, "Trees:     %d\n", r.Trees)
	fmt.Fprintf(w, "Checks:    %d\n", r.Checks)
	fmt.Fprintf(w, "Passed:    %d\n", r.Passed)
	fmt.Fprintf(w, "Failed:    %d\n", r.Failed)
	fmt.Fprintf(w, "Skipped:   %d\n", r.Skipped)
	fmt.Fprintf(w, "Max error: %.3g\n", float64(r.MaxRelErr))
	fmt.Fprintf(w, "Elapsed:   %s\n", r.Elapsed)
	fmt.Fprintln(w, "=========================================")
}

// WriteJSON writes the report as JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Write dispatches on format: text, json or latex.
func Write(w io.Writer, r Report, format string) error {
	switch format {
	case "", "text":
		WriteText(w, r)
		return nil
	case "json":
		return WriteJSON(w, r)
	case "latex":
		WriteLatex(w, r)
		return nil
	default:
		return errors.Errorf("unknown format %q", format)
	}
}

// latexEscape escapes underscores and other special chars for LaTeX text mode.
func latexEscape(s string) string {
	return strings.ReplaceAll(s, "_", `\_`)
}

// WriteLatex writes a compilable LaTeX document listing the trees with
// the largest errors.
func WriteLatex(w io.Writer, r Report) {
	fmt.Fprintln(w, `\documentclass{article}`)
	fmt.Fprintln(w, `\usepackage{amsmath}`)
	fmt.Fprintln(w, `\usepackage{geometry}`)
	fmt.Fprintln(w, `\geometry{margin=1in}`)
	fmt.Fprintf(w, "\\title{Derivative verification --- Pool: \\texttt{%s}}\n", latexEscape(r.Config.Pool))
	fmt.Fprintln(w, `\date{\today}`)
	fmt.Fprintln(w, `\begin{document}`)
	fmt.Fprintln(w, `\maketitle`)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "\\noindent Trees: %d, Max depth: %d, Variables: %d, Points: %d, Seed: %d\\\\\n",
		r.Trees, r.Config.MaxDepth, r.Config.Variables, r.Config.Points, r.Seed)
	fmt.Fprintf(w, "Checks: %d, Passed: %d, Failed: %d, Skipped: %d\\\\\n",
		r.Checks, r.Passed, r.Failed, r.Skipped)
	fmt.Fprintf(w, "Tolerance: \\verb|%g|, Max error: \\verb|%.3g|\n\n", r.Config.Tolerance, float64(r.MaxRelErr))

	for i, tr := range r.Worst {
		fmt.Fprintf(w, "\\subsection*{\\#%d --- tree %d (%d nodes, error %.3g)}\n",
			i+1, tr.Index, tr.NodeCount, float64(tr.MaxRelErr))
		fmt.Fprintln(w, `\[`)
		fmt.Fprintf(w, "  %s\n", tr.LaTeX)
		fmt.Fprintln(w, `\]`)
	}

	fmt.Fprintln(w, `\end{document}`)
}
