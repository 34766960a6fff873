// Package result collects per-suite execution results and merges them into
// a single aggregate with summary statistics and combined coverage.
package result

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Terminal statuses for suites and individual tests.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// TestResult is the outcome of a single test within a suite.
type TestResult struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Duration   int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
	StackTrace string `json:"stack_trace,omitempty"`
}

// SuiteResult is the outcome of one suite execution.
type SuiteResult struct {
	Name     string       `json:"name"`
	Category string       `json:"category"`
	Status   string       `json:"status"`
	Duration int64        `json:"duration_ms"`
	Tests    []TestResult `json:"tests,omitempty"`
	// Coverage holds per-kind percentages keyed "line", "branch",
	// "function"; empty when the suite reported none.
	Coverage     map[string]float64 `json:"coverage,omitempty"`
	ErrorMessage string             `json:"error_message,omitempty"`
}

// Summary is the roll-up of suite and test counts for a run.
type Summary struct {
	TotalSuites  int     `json:"total_suites"`
	PassedSuites int     `json:"passed_suites"`
	FailedSuites int     `json:"failed_suites"`
	TotalTests   int     `json:"total_tests"`
	PassedTests  int     `json:"passed_tests"`
	FailedTests  int     `json:"failed_tests"`
	SkippedTests int     `json:"skipped_tests"`
	PassRate     float64 `json:"pass_rate"`
}

// CoverageSummary is coverage merged across every suite that reported it.
type CoverageSummary struct {
	Line     float64 `json:"line"`
	Branch   float64 `json:"branch"`
	Function float64 `json:"function"`
}

// Results is the complete outcome of one scheduling run.
type Results struct {
	ExecutionID string          `json:"execution_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Duration    int64           `json:"duration_ms"`
	Summary     Summary         `json:"summary"`
	Suites      []SuiteResult   `json:"suites"`
	Coverage    CoverageSummary `json:"coverage"`
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
}

// Aggregator accumulates suite results as the orchestrator reports them.
// It is driven by the executor's single coordinating goroutine and is not
// itself safe for concurrent use.
type Aggregator struct {
	suites []SuiteResult
	errors []string
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add records a completed suite result.
func (a *Aggregator) Add(r SuiteResult) {
	a.suites = append(a.suites, r)
}

// AddError records a suite that failed to execute at all, synthesizing an
// error-status result so the roll-up still accounts for it.
func (a *Aggregator) AddError(suiteName string, err error) {
	a.errors = append(a.errors, fmt.Sprintf("%s: %v", suiteName, err))
	a.suites = append(a.suites, SuiteResult{
		Name:         suiteName,
		Category:     "unknown",
		Status:       StatusError,
		ErrorMessage: err.Error(),
	})
}

// Summary computes the roll-up over everything recorded so far.
func (a *Aggregator) Summary() Summary {
	var s Summary
	s.TotalSuites = len(a.suites)
	for _, suite := range a.suites {
		switch suite.Status {
		case StatusPassed:
			s.PassedSuites++
		case StatusFailed, StatusError:
			s.FailedSuites++
		}
		s.TotalTests += len(suite.Tests)
		for _, test := range suite.Tests {
			switch test.Status {
			case StatusPassed:
				s.PassedTests++
			case StatusFailed:
				s.FailedTests++
			case StatusSkipped:
				s.SkippedTests++
			}
		}
	}
	if s.TotalTests > 0 {
		s.PassRate = float64(s.PassedTests) / float64(s.TotalTests) * 100
	}
	return s
}

// MergeCoverage combines per-suite coverage into one summary, weighting
// each reporting suite by its test count.
func (a *Aggregator) MergeCoverage() CoverageSummary {
	totalTests := 0
	for _, suite := range a.suites {
		if len(suite.Coverage) > 0 {
			totalTests += len(suite.Tests)
		}
	}
	if totalTests == 0 {
		return CoverageSummary{}
	}

	var merged CoverageSummary
	for _, suite := range a.suites {
		if len(suite.Coverage) == 0 {
			continue
		}
		weight := float64(len(suite.Tests)) / float64(totalTests)
		merged.Line += suite.Coverage["line"] * weight
		merged.Branch += suite.Coverage["branch"] * weight
		merged.Function += suite.Coverage["function"] * weight
	}
	merged.Line = round2(merged.Line)
	merged.Branch = round2(merged.Branch)
	merged.Function = round2(merged.Function)
	return merged
}

// Build assembles the final Results for the run.
func (a *Aggregator) Build(started time.Time, duration time.Duration) Results {
	summary := a.Summary()
	success := summary.FailedSuites == 0 && len(a.errors) == 0 &&
		(summary.TotalTests == 0 || summary.PassRate >= 95)

	var message string
	if success {
		message = fmt.Sprintf("All tests passed (%d/%d)", summary.PassedTests, summary.TotalTests)
	} else {
		message = fmt.Sprintf("Tests failed: %d failed, %d skipped", summary.FailedTests, summary.SkippedTests)
		if len(a.errors) > 0 {
			message += fmt.Sprintf(", %d execution errors", len(a.errors))
		}
	}

	return Results{
		ExecutionID: uuid.NewString(),
		Timestamp:   started,
		Duration:    duration.Milliseconds(),
		Summary:     summary,
		Suites:      a.suites,
		Coverage:    a.MergeCoverage(),
		Success:     success,
		Message:     message,
	}
}

// FailedTests lists every failed test as suite/test name pairs with the
// failure message, for report emission.
func (a *Aggregator) FailedTests() [][3]string {
	var failed [][3]string
	for _, suite := range a.suites {
		for _, test := range suite.Tests {
			if test.Status == StatusFailed {
				failed = append(failed, [3]string{suite.Name, test.Name, test.Message})
			}
		}
	}
	return failed
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}
