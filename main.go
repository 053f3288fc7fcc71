package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wildfunctions/symdiff/pkg/engine"
	"github.com/wildfunctions/symdiff/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	format     string

	cfg engine.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "symdiff",
		Short: "Symbolic differentiation of real-valued expressions",
		Long: `symdiff parses, simplifies, evaluates and differentiates expressions
built from +, -, *, /, negation, square, cube, sqrt, sin and cos.
The verify command cross-checks derivatives of random expressions
against dual-number and finite-difference estimates.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.format, "format", "", "output format (text, json, latex)")

	root.AddCommand(a.newEvalCmd(), a.newDiffCmd(), a.newVerifyCmd())
	return root
}

// setup loads the config file, applies flag overrides and installs the
// logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg := engine.DefaultConfig()
	if a.configPath != "" {
		loaded, err := engine.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.format != "" {
		cfg.Format = a.format
	}
	switch cfg.Format {
	case "text", "json", "latex":
	default:
		return errors.Errorf("unknown format %q", cfg.Format)
	}

	a.cfg = cfg
	a.log = logging.New(cfg.Log, cmd.ErrOrStderr())
	slog.SetDefault(a.log)
	return nil
}
