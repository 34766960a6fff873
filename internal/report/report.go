// Package report renders aggregated run results into Markdown and HTML
// reports plus a machine-readable coverage JSON file.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/Danservfinn/horde-test/internal/ctxlog"
	"github.com/Danservfinn/horde-test/internal/result"
)

// Generator writes report artifacts into an output directory.
type Generator struct {
	outputDir string
}

// NewGenerator creates the output directory if needed and returns a
// Generator rooted there.
func NewGenerator(outputDir string) (*Generator, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &Generator{outputDir: outputDir}, nil
}

// GenerateAll writes every report format and returns artifact names mapped
// to their paths.
func (g *Generator) GenerateAll(ctx context.Context, results result.Results) (map[string]string, error) {
	logger := ctxlog.FromContext(ctx)

	artifacts := map[string]string{
		"report_markdown": filepath.Join(g.outputDir, "report.md"),
		"report_html":     filepath.Join(g.outputDir, "report.html"),
		"coverage_json":   filepath.Join(g.outputDir, "coverage.json"),
	}

	if err := os.WriteFile(artifacts["report_markdown"], []byte(Markdown(results)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write markdown report: %w", err)
	}
	htmlOut, err := HTML(results)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(artifacts["report_html"], []byte(htmlOut), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write html report: %w", err)
	}
	coverage, err := CoverageJSON(results)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(artifacts["coverage_json"], coverage, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write coverage report: %w", err)
	}

	logger.Debug("Reports written.", "dir", g.outputDir, "artifacts", len(artifacts))
	return artifacts, nil
}

// Markdown renders the results as a Markdown report.
func Markdown(results result.Results) string {
	var b strings.Builder

	status := "PASSED"
	if !results.Success {
		status = "FAILED"
	}
	fmt.Fprintf(&b, "# Test Report\n\n**%s** — %s\n\n", status, results.Message)

	b.WriteString("## Summary\n\n| Metric | Value |\n|--------|-------|\n")
	s := results.Summary
	fmt.Fprintf(&b, "| Total Suites | %d |\n", s.TotalSuites)
	fmt.Fprintf(&b, "| Passed Suites | %d |\n", s.PassedSuites)
	fmt.Fprintf(&b, "| Failed Suites | %d |\n", s.FailedSuites)
	fmt.Fprintf(&b, "| Total Tests | %d |\n", s.TotalTests)
	fmt.Fprintf(&b, "| Passed Tests | %d |\n", s.PassedTests)
	fmt.Fprintf(&b, "| Failed Tests | %d |\n", s.FailedTests)
	fmt.Fprintf(&b, "| Skipped Tests | %d |\n", s.SkippedTests)
	fmt.Fprintf(&b, "| Pass Rate | %.1f%% |\n\n", s.PassRate)

	if results.Coverage.Line > 0 {
		b.WriteString("## Coverage\n\n| Type | Coverage |\n|------|----------|\n")
		fmt.Fprintf(&b, "| Line | %.1f%% |\n", results.Coverage.Line)
		fmt.Fprintf(&b, "| Branch | %.1f%% |\n", results.Coverage.Branch)
		fmt.Fprintf(&b, "| Function | %.1f%% |\n\n", results.Coverage.Function)
	}

	b.WriteString("## Test Suites\n\n")
	for _, suite := range results.Suites {
		fmt.Fprintf(&b, "### %s (%s)\n\n", suite.Name, suite.Category)
		fmt.Fprintf(&b, "- **Status**: %s\n", suite.Status)
		fmt.Fprintf(&b, "- **Duration**: %dms\n", suite.Duration)
		if line, ok := suite.Coverage["line"]; ok {
			fmt.Fprintf(&b, "- **Coverage**: Line %.1f%%\n", line)
		}
		if suite.ErrorMessage != "" {
			fmt.Fprintf(&b, "- **Error**: %s\n", suite.ErrorMessage)
		}
		b.WriteString("\n")

		failed := failedTests(suite)
		if len(failed) > 0 {
			b.WriteString("Failed tests:\n\n")
			for _, test := range failed {
				fmt.Fprintf(&b, "- `%s`: %s\n", test.Name, test.Message)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func failedTests(suite result.SuiteResult) []result.TestResult {
	var failed []result.TestResult
	for _, test := range suite.Tests {
		if test.Status == result.StatusFailed {
			failed = append(failed, test)
		}
	}
	return failed
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Test Report - {{.ExecutionID}}</title>
<style>
body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; max-width: 1100px; margin: 0 auto; padding: 20px; }
.status { font-size: 22px; font-weight: bold; padding: 8px 16px; border-radius: 4px; display: inline-block; color: white; }
.success { background: #4caf50; }
.failure { background: #f44336; }
.suite { border-left: 4px solid #ccc; padding: 12px 16px; margin: 12px 0; }
.suite-passed { border-color: #4caf50; }
.suite-failed, .suite-error { border-color: #f44336; }
table { width: 100%; border-collapse: collapse; margin-top: 8px; }
th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #ddd; }
.test-passed { color: #4caf50; }
.test-failed { color: #f44336; }
.test-skipped { color: #ff9800; }
</style>
</head>
<body>
<h1>Test Report</h1>
<div class="status {{if .Success}}success{{else}}failure{{end}}">{{if .Success}}PASSED{{else}}FAILED{{end}}</div>
<p>Execution ID: {{.ExecutionID}}</p>
<p>Timestamp: {{.Timestamp.Format "2006-01-02 15:04:05"}}</p>
<p>Duration: {{.Duration}}ms</p>
<p>{{.Message}}</p>
<h2>Summary</h2>
<table>
<tr><th>Total Suites</th><th>Passed Suites</th><th>Failed Suites</th><th>Pass Rate</th></tr>
<tr><td>{{.Summary.TotalSuites}}</td><td>{{.Summary.PassedSuites}}</td><td>{{.Summary.FailedSuites}}</td><td>{{printf "%.1f" .Summary.PassRate}}%</td></tr>
</table>
<h2>Test Suites</h2>
{{range .Suites}}
<div class="suite suite-{{.Status}}">
<h3>{{.Name}} ({{.Category}})</h3>
<p>Status: {{.Status}} | Duration: {{.Duration}}ms</p>
{{if .Tests}}
<table>
<tr><th>Test</th><th>Status</th><th>Duration</th><th>Message</th></tr>
{{range .Tests}}
<tr class="test-{{.Status}}"><td>{{.Name}}</td><td>{{.Status}}</td><td>{{.Duration}}ms</td><td>{{if .Message}}{{.Message}}{{else}}-{{end}}</td></tr>
{{end}}
</table>
{{end}}
{{if .ErrorMessage}}<p>Error: {{.ErrorMessage}}</p>{{end}}
</div>
{{else}}
<p>No test suites executed</p>
{{end}}
</body>
</html>
`))

// HTML renders the results as a self-contained HTML page.
func HTML(results result.Results) (string, error) {
	var b strings.Builder
	if err := htmlTemplate.Execute(&b, results); err != nil {
		return "", fmt.Errorf("failed to render html report: %w", err)
	}
	return b.String(), nil
}

// CoverageJSON renders the merged coverage summary plus per-suite coverage
// as indented JSON.
func CoverageJSON(results result.Results) ([]byte, error) {
	type suiteCoverage struct {
		Name     string             `json:"name"`
		Coverage map[string]float64 `json:"coverage"`
	}
	payload := struct {
		ExecutionID string                 `json:"execution_id"`
		Summary     result.CoverageSummary `json:"summary"`
		Suites      []suiteCoverage        `json:"suites"`
	}{
		ExecutionID: results.ExecutionID,
		Summary:     results.Coverage,
	}
	for _, suite := range results.Suites {
		if len(suite.Coverage) == 0 {
			continue
		}
		payload.Suites = append(payload.Suites, suiteCoverage{Name: suite.Name, Coverage: suite.Coverage})
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal coverage report: %w", err)
	}
	return out, nil
}
