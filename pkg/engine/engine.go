package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/wildfunctions/symdiff/pkg/check"
	"github.com/wildfunctions/symdiff/pkg/expr"
	"github.com/wildfunctions/symdiff/pkg/param"
	"github.com/wildfunctions/symdiff/pkg/pool"
)

// Engine generates random trees and verifies their derivatives.
type Engine struct {
	cfg  Config
	pool pool.Pool
	vars []*expr.Variable
	seed int64
	rng  *rand.Rand
	log  *slog.Logger
}

// New creates a new engine from the given config. A nil logger uses
// slog.Default.
func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := pool.Get(cfg.Pool)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	return &Engine{
		cfg:  cfg,
		pool: p,
		vars: variables(cfg.Variables),
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
		log:  logger,
	}, nil
}

var varNames = []string{"x", "y", "z", "w"}

// variables returns n positional variables named x, y, z, w, x4, x5...
func variables(n int) []*expr.Variable {
	vars := make([]*expr.Variable, n)
	for i := range vars {
		name := fmt.Sprintf("x%d", i)
		if i < len(varNames) {
			name = varNames[i]
		}
		vars[i] = expr.VarAt(param.ID(i), name)
	}
	return vars
}

// Seed returns the seed the engine's generator was started with.
func (e *Engine) Seed() int64 { return e.seed }

// Run generates the configured number of trees and checks every partial
// derivative of each tree at random points. Trees are verified in
// parallel. Disagreements are collected in the report; only context
// cancellation returns an error, together with the partial report.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	e.log.Info("starting verification",
		"pool", e.cfg.Pool, "trees", e.cfg.Trees, "max_depth", e.cfg.MaxDepth,
		"variables", e.cfg.Variables, "points", e.cfg.Points,
		"workers", e.workers(), "seed", e.seed)

	// Generation is sequential so a seed reproduces the same run.
	trees := make([]expr.Node, e.cfg.Trees)
	points := make([][]expr.Tuple, e.cfg.Trees)
	for i := range trees {
		trees[i] = e.pool.RandomTree(e.rng, e.cfg.MaxDepth, e.vars)
		points[i] = e.samplePoints()
	}

	results := make([]*TreeResult, len(trees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())

	for i := range trees {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.verifyTree(i, trees[i], points[i])
			return nil
		})
	}
	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	report := e.buildReport(results, time.Since(start))
	if runErr != nil {
		e.log.Warn("verification interrupted", "completed", report.Trees, "error", runErr)
		return report, errors.Wrap(runErr, "verification interrupted")
	}

	e.log.Info("verification finished",
		"checks", report.Checks, "passed", report.Passed, "failed", report.Failed,
		"skipped", report.Skipped, "max_rel_err", float64(report.MaxRelErr), "elapsed", report.Elapsed)

	if e.cfg.OutDir != "" {
		path, err := e.writeLatex(report)
		if err != nil {
			e.log.Error("writing LaTeX report", "error", err)
		} else {
			e.log.Info("wrote LaTeX report", "path", path)
		}
	}
	return report, nil
}

func (e *Engine) workers() int {
	if e.cfg.Workers <= 0 {
		return 1
	}
	return e.cfg.Workers
}

func (e *Engine) samplePoints() []expr.Tuple {
	span := e.cfg.SampleMax - e.cfg.SampleMin
	pts := make([]expr.Tuple, e.cfg.Points)
	for i := range pts {
		pt := make(expr.Tuple, len(e.vars))
		for j := range pt {
			pt[j] = e.cfg.SampleMin + span*e.rng.Float64()
		}
		pts[i] = pt
	}
	return pts
}

// verifyTree compares every partial derivative of tree at every point.
func (e *Engine) verifyTree(idx int, tree expr.Node, points []expr.Tuple) *TreeResult {
	res := &TreeResult{
		Index:     idx,
		Expr:      tree.String(),
		LaTeX:     tree.LaTeX(),
		NodeCount: tree.NodeCount(),
		Depth:     tree.Depth(),
		Weight:    expr.Weight(tree),
	}

	derivs := make([]*check.Derivatives, len(e.vars))
	for i, v := range e.vars {
		derivs[i] = check.Prepare(tree, v)
	}

	for _, pt := range points {
		for i, v := range e.vars {
			res.Checks++
			cmp, err := derivs[i].Compare(pt, e.cfg.Tolerance)
			if err != nil {
				res.Failed++
				res.Failures = append(res.Failures, newFailure(idx, tree, pt, cmp, err))
				e.log.Debug("comparison error", "tree", idx, "expr", res.Expr, "variable", v.Name(), "error", err)
				continue
			}
			switch {
			case cmp.Skipped:
				res.Skipped++
			case cmp.OK:
				res.Passed++
			default:
				res.Failed++
				res.Failures = append(res.Failures, newFailure(idx, tree, pt, cmp, nil))
				e.log.Debug("derivative mismatch", "tree", idx, "expr", res.Expr,
					"variable", v.Name(), "symbolic", cmp.Symbolic, "dual", cmp.Dual, "rel_err", cmp.RelErr)
			}
			if !cmp.Skipped && (cmp.RelErr > float64(res.MaxRelErr) || math.IsNaN(cmp.RelErr)) {
				res.MaxRelErr = Float(cmp.RelErr)
			}
		}
	}
	return res
}

func newFailure(idx int, tree expr.Node, pt expr.Tuple, cmp check.Result, err error) Failure {
	f := Failure{
		Tree:       idx,
		Expr:       tree.String(),
		Variable:   cmp.Variable,
		Point:      floats(pt),
		Symbolic:   Float(cmp.Symbolic),
		Dual:       Float(cmp.Dual),
		FiniteDiff: Float(cmp.FiniteDiff),
		Second:     Float(cmp.Second),
		HyperDual:  Float(cmp.HyperDual),
		RelErr:     Float(cmp.RelErr),
	}
	if err != nil {
		f.Error = err.Error()
	}
	return f
}

func (e *Engine) buildReport(results []*TreeResult, elapsed time.Duration) Report {
	r := Report{
		Config:    e.cfg,
		Seed:      e.seed,
		Elapsed:   elapsed.Round(time.Millisecond).String(),
		Timestamp: time.Now().UTC(),
	}
	r.Config.Seed = e.seed

	done := make([]TreeResult, 0, len(results))
	for _, tr := range results {
		if tr == nil {
			continue
		}
		done = append(done, *tr)
		r.Trees++
		r.Checks += tr.Checks
		r.Passed += tr.Passed
		r.Failed += tr.Failed
		r.Skipped += tr.Skipped
		r.Failures = append(r.Failures, tr.Failures...)
		if tr.MaxRelErr > r.MaxRelErr || math.IsNaN(float64(tr.MaxRelErr)) {
			r.MaxRelErr = tr.MaxRelErr
		}
	}

	worst := sortByError(done)
	if len(worst) > e.cfg.Worst {
		worst = worst[:e.cfg.Worst]
	}
	r.Worst = worst
	return r
}

func (e *Engine) writeLatex(r Report) (string, error) {
	dir, err := filepath.Abs(e.cfg.OutDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("symdiff_%s_%d.tex", e.cfg.Pool, e.seed))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	WriteLatex(f, r)
	return path, f.Close()
}
