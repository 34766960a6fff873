// Package cli parses command-line arguments into an application config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/Danservfinn/horde-test/internal/app"
)

// Version is the CLI version string, overridable at build time via
// -ldflags.
var Version = "dev"

// ExitError carries an exit code and a message for main to report.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Parse turns command-line arguments into a validated app config. The
// second return value is true when the program should exit successfully
// without running (help or version output).
func Parse(args []string, outW io.Writer) (*app.Config, bool, error) {
	fs := flag.NewFlagSet("horde", flag.ContinueOnError)
	fs.SetOutput(outW)
	fs.Usage = func() {
		fmt.Fprintf(outW, "Usage: horde --plan <file> [options]\n\n")
		fmt.Fprintf(outW, "Schedules and runs a test plan's suites in dependency order.\n\n")
		fmt.Fprintf(outW, "Options:\n")
		fs.PrintDefaults()
	}

	var (
		planPath    = fs.String("plan", "", "path to the test plan file (.yaml, .json, or .hcl)")
		outputDir   = fs.String("out", "reports", "directory for report artifacts")
		maxParallel = fs.Int("max-parallel", 0, "cap on concurrent suites (0 = plan setting)")
		workers     = fs.Int("workers", 0, "worker pool size (0 = derived from max-parallel)")
		failFast    = fs.Bool("fail-fast", false, "stop dispatching after the first failure")
		run         = fs.Bool("run", false, "execute the suites instead of printing the schedule")
		envFile     = fs.String("env-file", "", "load environment variables from this file before reading defaults")
		logLevel    = fs.String("log-level", "", "log level: debug, info, warn, error (default HORDE_LOG_LEVEL or info)")
		logFormat   = fs.String("log-format", "", "log format: text or json (default HORDE_LOG_FORMAT or text)")
		version     = fs.Bool("version", false, "print the version and exit")
	)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if *version {
		fmt.Fprintf(outW, "horde %s\n", Version)
		return nil, true, nil
	}

	if *envFile != "" {
		if err := godotenv.Overload(*envFile); err != nil {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("failed to load env file: %v", err)}
		}
	}

	if *logLevel == "" {
		*logLevel = envOr("HORDE_LOG_LEVEL", "info")
	}
	if *logFormat == "" {
		*logFormat = envOr("HORDE_LOG_FORMAT", "text")
	}

	cfg, err := app.NewConfig(app.Config{
		PlanPath:    *planPath,
		OutputDir:   *outputDir,
		MaxParallel: *maxParallel,
		Workers:     *workers,
		FailFast:    *failFast,
		Execute:     *run,
		LogLevel:    *logLevel,
		LogFormat:   *logFormat,
	})
	if err != nil {
		fs.Usage()
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, false, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
