package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// PlanPath is the test plan file to load (.yaml, .json, or .hcl).
	PlanPath string
	// OutputDir receives report artifacts after an executed run.
	OutputDir string

	// MaxParallel caps concurrent suites; zero means use the plan's
	// execution setting.
	MaxParallel int
	// Workers sizes the worker pool; zero derives it from the effective
	// parallelism ceiling.
	Workers int
	// FailFast forces fail-fast behavior regardless of the plan setting.
	FailFast bool
	// Execute runs the suites; when false the computed schedule is printed
	// and nothing runs.
	Execute bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PlanPath == "" {
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	}
	if cfg.MaxParallel < 0 {
		return nil, errors.New("MaxParallel cannot be negative")
	}
	if cfg.Workers < 0 {
		return nil, errors.New("Workers cannot be negative")
	}
	return &cfg, nil
}
