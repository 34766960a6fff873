// Package app wires the application together: it loads the plan, builds
// the dependency graph, and either prints the computed schedule or drives
// a full run through the executor, aggregation, criteria validation, and
// report emission.
package app

import (
	"io"
	"log/slog"
	"os"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. Logs go to
// stderr; user-facing output goes to outW.
func NewApp(outW io.Writer, config *Config) *App {
	return NewAppWithLogOutput(outW, os.Stderr, config)
}

// NewAppWithLogOutput is NewApp with an explicit log destination, for
// tests that need to capture log output.
func NewAppWithLogOutput(outW, logW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logW:   logW,
		logger: logger,
		config: config,
	}
}
