package engine

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wildfunctions/symdiff/pkg/logging"
	"github.com/wildfunctions/symdiff/pkg/pool"
)

// Config holds all parameters for a verification run.
type Config struct {
	Pool      string  `json:"pool" yaml:"pool"`
	Trees     int     `json:"trees" yaml:"trees"`
	MaxDepth  int     `json:"max_depth" yaml:"max_depth"`
	Variables int     `json:"variables" yaml:"variables"`
	Points    int     `json:"points" yaml:"points"` // sample points per tree
	SampleMin float64 `json:"sample_min" yaml:"sample_min"`
	SampleMax float64 `json:"sample_max" yaml:"sample_max"`
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
	Seed      int64   `json:"seed" yaml:"seed"` // 0 = random
	Workers   int     `json:"workers" yaml:"workers"`
	Format    string  `json:"format" yaml:"format"` // "text", "json" or "latex"
	Worst     int     `json:"worst" yaml:"worst"`   // trees listed by error
	OutDir    string  `json:"out_dir,omitempty" yaml:"out_dir"`

	Log logging.Config `json:"log" yaml:"log"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Pool:      "kitchensink",
		Trees:     200,
		MaxDepth:  4,
		Variables: 2,
		Points:    3,
		SampleMin: 0.5,
		SampleMax: 2.0,
		Tolerance: 1e-8,
		Seed:      0,
		Workers:   runtime.NumCPU(),
		Format:    "text",
		Worst:     5,
		Log:       logging.DefaultConfig(),
	}
}

// LoadConfig overlays the YAML file at path on DefaultConfig. Keys
// missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if _, err := pool.Get(c.Pool); err != nil {
		return errors.Wrapf(err, "available pools: %v", pool.Names())
	}
	switch {
	case c.Trees < 1:
		return errors.Errorf("trees must be positive, got %d", c.Trees)
	case c.MaxDepth < 1:
		return errors.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	case c.Variables < 1:
		return errors.Errorf("variables must be positive, got %d", c.Variables)
	case c.Points < 1:
		return errors.Errorf("points must be positive, got %d", c.Points)
	case !(c.SampleMin < c.SampleMax):
		return errors.Errorf("sample range [%g, %g] is empty", c.SampleMin, c.SampleMax)
	case !(c.Tolerance > 0):
		return errors.Errorf("tolerance must be positive, got %g", c.Tolerance)
	case c.Workers < 0:
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	case c.Worst < 0:
		return errors.Errorf("worst must not be negative, got %d", c.Worst)
	}
	switch c.Format {
	case "text", "json", "latex":
	default:
		return errors.Errorf("unknown format %q", c.Format)
	}
	return nil
}
