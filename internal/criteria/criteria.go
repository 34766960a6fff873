// Package criteria validates aggregated run results against a plan's
// success criteria: minimum pass rate, critical suites, security failures,
// and coverage targets.
package criteria

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Danservfinn/horde-test/internal/plan"
	"github.com/Danservfinn/horde-test/internal/result"
)

// slowTestThresholdMS is the duration beyond which a test is reported as a
// warning.
const slowTestThresholdMS = 5000

// Outcome is the verdict of validating run results against the criteria.
type Outcome struct {
	Passed   bool
	Checks   map[string]bool
	Failures []string
	Warnings []string
}

// Validator checks results against a plan's success criteria. Targets is
// optional; when nil, coverage checks are skipped.
type Validator struct {
	Criteria plan.Criteria
	Targets  *plan.CoverageTargets
}

// New returns a Validator for the given criteria.
func New(criteria plan.Criteria, targets *plan.CoverageTargets) *Validator {
	return &Validator{Criteria: criteria, Targets: targets}
}

// Validate runs every configured check against the results.
func (v *Validator) Validate(results result.Results) Outcome {
	out := Outcome{Checks: make(map[string]bool)}

	passRateOK := results.Summary.PassRate >= v.Criteria.MinPassRate
	out.Checks["pass_rate"] = passRateOK
	if !passRateOK {
		out.Failures = append(out.Failures, fmt.Sprintf(
			"Pass rate %.1f%% below minimum %.1f%%",
			results.Summary.PassRate, v.Criteria.MinPassRate))
	}

	failedCritical := v.failedCriticalSuites(results)
	out.Checks["critical_suites"] = len(failedCritical) == 0
	if len(failedCritical) > 0 {
		out.Failures = append(out.Failures, fmt.Sprintf(
			"Critical suites failed: %s", strings.Join(failedCritical, ", ")))
	}

	if v.Criteria.NoCriticalFailures {
		ok := securitySuitesPassed(results)
		out.Checks["no_critical_failures"] = ok
		if !ok {
			out.Failures = append(out.Failures, "Critical test failures detected")
		}
	}

	if v.Targets != nil {
		coverageFailures := v.coverageFailures(results.Coverage)
		out.Checks["coverage"] = len(coverageFailures) == 0
		out.Failures = append(out.Failures, coverageFailures...)
	} else {
		out.Checks["coverage"] = true
	}

	if warning := slowTestWarning(results); warning != "" {
		out.Warnings = append(out.Warnings, warning)
	}

	out.Passed = true
	for _, ok := range out.Checks {
		if !ok {
			out.Passed = false
			break
		}
	}
	return out
}

// failedCriticalSuites returns every configured critical suite that did not
// pass, including those missing from the results entirely.
func (v *Validator) failedCriticalSuites(results result.Results) []string {
	if len(v.Criteria.CriticalSuites) == 0 {
		return nil
	}

	statusByName := make(map[string]string, len(results.Suites))
	for _, s := range results.Suites {
		statusByName[s.Name] = s.Status
	}

	var failed []string
	for _, name := range v.Criteria.CriticalSuites {
		status, found := statusByName[name]
		switch {
		case !found:
			failed = append(failed, name+" (not found)")
		case status != result.StatusPassed:
			failed = append(failed, name)
		}
	}
	return failed
}

// securitySuitesPassed reports whether every security-category suite
// passed. Security suites are always treated as critical.
func securitySuitesPassed(results result.Results) bool {
	for _, s := range results.Suites {
		if s.Category == "security" && s.Status != result.StatusPassed {
			return false
		}
	}
	return true
}

func (v *Validator) coverageFailures(cov result.CoverageSummary) []string {
	var failures []string
	if cov.Line < v.Targets.Line {
		failures = append(failures, fmt.Sprintf(
			"Line coverage %.1f%% below target %.1f%%", cov.Line, v.Targets.Line))
	}
	if cov.Branch < v.Targets.Branch {
		failures = append(failures, fmt.Sprintf(
			"Branch coverage %.1f%% below target %.1f%%", cov.Branch, v.Targets.Branch))
	}
	if cov.Function < v.Targets.Function {
		failures = append(failures, fmt.Sprintf(
			"Function coverage %.1f%% below target %.1f%%", cov.Function, v.Targets.Function))
	}
	return failures
}

// slowTestWarning names the three slowest tests over the threshold, or
// returns the empty string when none qualify.
func slowTestWarning(results result.Results) string {
	type slow struct {
		suite    string
		test     string
		duration int64
	}

	var slowTests []slow
	for _, suite := range results.Suites {
		for _, test := range suite.Tests {
			if test.Duration > slowTestThresholdMS {
				slowTests = append(slowTests, slow{suite.Name, test.Name, test.Duration})
			}
		}
	}
	if len(slowTests) == 0 {
		return ""
	}

	sort.Slice(slowTests, func(i, j int) bool {
		return slowTests[i].duration > slowTests[j].duration
	})
	if len(slowTests) > 3 {
		slowTests = slowTests[:3]
	}

	parts := make([]string, len(slowTests))
	for i, s := range slowTests {
		parts[i] = fmt.Sprintf("%s.%s (%.1fs)", s.suite, s.test, float64(s.duration)/1000)
	}
	return "Slow tests detected: " + strings.Join(parts, ", ")
}

// Report renders a human-readable validation summary.
func Report(results result.Results, outcome Outcome) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	b.WriteString(rule + "\n")
	b.WriteString("SUCCESS CRITERIA VALIDATION\n")
	b.WriteString(rule + "\n\n")

	if outcome.Passed {
		b.WriteString("Overall: PASSED\n\n")
	} else {
		b.WriteString("Overall: FAILED\n\n")
	}

	b.WriteString("Checks:\n")
	for _, name := range sortedCheckNames(outcome.Checks) {
		mark := "ok  "
		if !outcome.Checks[name] {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "  [%s] %s\n", mark, name)
	}

	if len(outcome.Failures) > 0 {
		b.WriteString("\nFailures:\n")
		for _, failure := range outcome.Failures {
			fmt.Fprintf(&b, "  - %s\n", failure)
		}
	}
	if len(outcome.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, warning := range outcome.Warnings {
			fmt.Fprintf(&b, "  - %s\n", warning)
		}
	}

	b.WriteString("\nSummary:\n")
	fmt.Fprintf(&b, "  Suites: %d/%d passed\n", results.Summary.PassedSuites, results.Summary.TotalSuites)
	fmt.Fprintf(&b, "  Tests: %d/%d passed\n", results.Summary.PassedTests, results.Summary.TotalTests)
	fmt.Fprintf(&b, "  Pass Rate: %.1f%%\n", results.Summary.PassRate)

	if results.Coverage.Line > 0 {
		b.WriteString("\nCoverage:\n")
		fmt.Fprintf(&b, "  Line: %.1f%%\n", results.Coverage.Line)
		fmt.Fprintf(&b, "  Branch: %.1f%%\n", results.Coverage.Branch)
		fmt.Fprintf(&b, "  Function: %.1f%%\n", results.Coverage.Function)
	}

	b.WriteString(rule + "\n")
	return b.String()
}

func sortedCheckNames(checks map[string]bool) []string {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
