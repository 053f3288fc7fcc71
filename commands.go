package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wildfunctions/symdiff/pkg/engine"
	"github.com/wildfunctions/symdiff/pkg/expr"
	"github.com/wildfunctions/symdiff/pkg/param"
	"github.com/wildfunctions/symdiff/pkg/parse"
	"github.com/wildfunctions/symdiff/pkg/pool"
)

// result is what eval and diff print.
type result struct {
	Expr            string        `json:"expr"`
	LaTeX           string        `json:"latex"`
	Variable        string        `json:"variable,omitempty"`
	Order           int           `json:"order,omitempty"`
	Derivative      string        `json:"derivative,omitempty"`
	DerivativeLaTeX string        `json:"derivative_latex,omitempty"`
	Value           *engine.Float `json:"value,omitempty"`
}

func (a *app) newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval EXPR [name=value...]",
		Short: "Simplify and evaluate an expression",
		Example: `  symdiff eval "x * 1 + 0 * y" x=2 y=5
  symdiff eval "sqrt(x^3 / y)" x=6628.14 y=398600.44`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runEval,
	}
}

func (a *app) runEval(cmd *cobra.Command, args []string) error {
	scope := parse.NewScope()
	n, err := parse.Parse(args[0], scope)
	if err != nil {
		return err
	}
	env, err := scope.Bind(args[1:])
	if err != nil {
		return err
	}
	v, err := expr.Eval(n, env)
	if err != nil {
		return err
	}
	a.log.Debug("evaluated", "expr", n.String(), "nodes", n.NodeCount())

	value := engine.Float(v)
	return a.write(cmd.OutOrStdout(), result{Expr: n.String(), LaTeX: n.LaTeX(), Value: &value})
}

func (a *app) newDiffCmd() *cobra.Command {
	var (
		wrt   string
		order int
	)
	cmd := &cobra.Command{
		Use:   "diff EXPR [name=value...]",
		Short: "Differentiate an expression",
		Long: `Differentiate an expression with respect to one variable. When values
are given for every variable, the derivative is also evaluated.`,
		Example: `  symdiff diff "sin(x) * cos(y)" --wrt x
  symdiff diff "sin(x)" --order 4 x=0.5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDiff(cmd, args, wrt, order)
		},
	}
	cmd.Flags().StringVar(&wrt, "wrt", "", "variable to differentiate with respect to (default: the only variable)")
	cmd.Flags().IntVar(&order, "order", 1, "order of the derivative")
	return cmd
}

func (a *app) runDiff(cmd *cobra.Command, args []string, wrt string, order int) error {
	if order < 1 {
		return errors.Errorf("order must be positive, got %d", order)
	}

	scope := parse.NewScope()
	n, err := parse.Parse(args[0], scope)
	if err != nil {
		return err
	}

	v, err := pickVariable(scope, wrt)
	if err != nil {
		return err
	}

	d := expr.DiffN(n, v, order)
	a.log.Debug("differentiated", "expr", n.String(), "wrt", v.Name(), "order", order, "nodes", d.NodeCount())

	res := result{
		Expr:            n.String(),
		LaTeX:           n.LaTeX(),
		Variable:        v.Name(),
		Order:           order,
		Derivative:      d.String(),
		DerivativeLaTeX: d.LaTeX(),
	}
	if len(args) > 1 {
		env, err := scope.Bind(args[1:])
		if err != nil {
			return err
		}
		x, err := expr.Eval(d, env)
		if err != nil {
			return err
		}
		value := engine.Float(x)
		res.Value = &value
	}
	return a.write(cmd.OutOrStdout(), res)
}

// pickVariable resolves --wrt. A name that does not occur in the
// expression gets the next positional id past the scope without being
// interned, so it cannot alias a scope variable and the derivative is
// zero.
func pickVariable(scope *parse.Scope, wrt string) (*expr.Variable, error) {
	if wrt != "" {
		if v, ok := scope.Lookup(wrt); ok {
			return v, nil
		}
		return expr.VarAt(param.ID(scope.Len()), wrt), nil
	}

	vars := scope.Vars()
	switch len(vars) {
	case 1:
		return vars[0], nil
	case 0:
		return nil, errors.New("expression has no variables; use --wrt")
	default:
		names := make([]string, len(vars))
		for i, v := range vars {
			names[i] = v.Name()
		}
		return nil, errors.Errorf("expression has variables %s; choose one with --wrt", strings.Join(names, ", "))
	}
}

func (a *app) write(w io.Writer, r result) error {
	switch a.cfg.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)

	case "latex":
		if r.Variable != "" {
			fmt.Fprintln(w, r.DerivativeLaTeX)
		} else {
			fmt.Fprintln(w, r.LaTeX)
		}
		return nil
	}

	if r.Variable == "" {
		fmt.Fprintf(w, "%s = %g\n", r.Expr, float64(*r.Value))
		return nil
	}
	fmt.Fprintf(w, "%s %s = %s\n", derivativeLabel(r.Variable, r.Order), r.Expr, r.Derivative)
	if r.Value != nil {
		fmt.Fprintf(w, "value = %g\n", float64(*r.Value))
	}
	return nil
}

func derivativeLabel(v string, order int) string {
	if order == 1 {
		return "d/d" + v
	}
	return fmt.Sprintf("d^%d/d%s^%d", order, v, order)
}

func (a *app) newVerifyCmd() *cobra.Command {
	d := engine.DefaultConfig()
	var (
		poolName  string
		trees     int
		maxDepth  int
		variables int
		points    int
		seed      int64
		workers   int
		tolerance float64
		outDir    string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check derivatives of random expressions numerically",
		Long: `Generate random expressions from a pool and compare every partial
derivative against dual, hyperdual and finite-difference estimates at
random points. Exits non-zero if any comparison disagrees.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			flags := cmd.Flags()
			if flags.Changed("pool") {
				cfg.Pool = poolName
			}
			if flags.Changed("trees") {
				cfg.Trees = trees
			}
			if flags.Changed("max-depth") {
				cfg.MaxDepth = maxDepth
			}
			if flags.Changed("variables") {
				cfg.Variables = variables
			}
			if flags.Changed("points") {
				cfg.Points = points
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("tolerance") {
				cfg.Tolerance = tolerance
			}
			if flags.Changed("out-dir") {
				cfg.OutDir = outDir
			}

			e, err := engine.New(cfg, a.log)
			if err != nil {
				return err
			}
			report, runErr := e.Run(cmd.Context())
			if err := engine.Write(cmd.OutOrStdout(), report, cfg.Format); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}
			if !report.OK() {
				return errors.Errorf("%d of %d derivative checks failed", report.Failed, report.Checks)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&poolName, "pool", d.Pool, "expression pool ("+strings.Join(pool.Names(), ", ")+")")
	f.IntVar(&trees, "trees", d.Trees, "number of random expressions")
	f.IntVar(&maxDepth, "max-depth", d.MaxDepth, "max tree depth")
	f.IntVar(&variables, "variables", d.Variables, "number of variables")
	f.IntVar(&points, "points", d.Points, "sample points per expression")
	f.Int64Var(&seed, "seed", d.Seed, "random seed (0 = random)")
	f.IntVar(&workers, "workers", d.Workers, "number of parallel workers")
	f.Float64Var(&tolerance, "tolerance", d.Tolerance, "largest accepted scaled error")
	f.StringVar(&outDir, "out-dir", d.OutDir, "directory for the LaTeX report")
	return cmd
}
