package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danservfinn/horde-test/internal/result"
)

func sampleResults() result.Results {
	return result.Results{
		ExecutionID: "exec-123",
		Timestamp:   time.Date(2026, 3, 14, 1, 59, 26, 0, time.UTC),
		Duration:    4200,
		Summary: result.Summary{
			TotalSuites: 2, PassedSuites: 1, FailedSuites: 1,
			TotalTests: 3, PassedTests: 2, FailedTests: 1, PassRate: 66.7,
		},
		Suites: []result.SuiteResult{
			{
				Name: "unit", Category: "unit", Status: result.StatusPassed, Duration: 1000,
				Tests:    []result.TestResult{{Name: "t1", Status: result.StatusPassed, Duration: 10}},
				Coverage: map[string]float64{"line": 88.5, "branch": 70, "function": 92},
			},
			{
				Name: "api", Category: "integration", Status: result.StatusFailed, Duration: 3200,
				Tests: []result.TestResult{
					{Name: "t2", Status: result.StatusPassed, Duration: 20},
					{Name: "t3", Status: result.StatusFailed, Duration: 30, Message: "want 200, got <500>"},
				},
			},
		},
		Coverage: result.CoverageSummary{Line: 88.5, Branch: 70, Function: 92},
		Success:  false,
		Message:  "Tests failed: 1 failed, 0 skipped",
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleResults())

	assert.Contains(t, md, "# Test Report")
	assert.Contains(t, md, "**FAILED**")
	assert.Contains(t, md, "| Total Suites | 2 |")
	assert.Contains(t, md, "| Pass Rate | 66.7% |")
	assert.Contains(t, md, "### unit (unit)")
	assert.Contains(t, md, "- **Coverage**: Line 88.5%")
	assert.Contains(t, md, "- `t3`: want 200, got <500>")
	assert.NotContains(t, md, "`t2`", "passing tests are not listed as failures")
}

func TestHTML(t *testing.T) {
	out, err := HTML(sampleResults())
	require.NoError(t, err)

	assert.Contains(t, out, "<title>Test Report - exec-123</title>")
	assert.Contains(t, out, `class="status failure"`)
	assert.Contains(t, out, "api (integration)")
	// Template escaping must neutralize markup in test messages.
	assert.Contains(t, out, "want 200, got &lt;500&gt;")
	assert.NotContains(t, out, "got <500>")
}

func TestCoverageJSON(t *testing.T) {
	out, err := CoverageJSON(sampleResults())
	require.NoError(t, err)

	var decoded struct {
		ExecutionID string `json:"execution_id"`
		Summary     struct {
			Line float64 `json:"line"`
		} `json:"summary"`
		Suites []struct {
			Name string `json:"name"`
		} `json:"suites"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "exec-123", decoded.ExecutionID)
	assert.Equal(t, 88.5, decoded.Summary.Line)
	// Only suites that reported coverage appear.
	require.Len(t, decoded.Suites, 1)
	assert.Equal(t, "unit", decoded.Suites[0].Name)
}

func TestGenerateAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	gen, err := NewGenerator(dir)
	require.NoError(t, err)

	artifacts, err := gen.GenerateAll(context.Background(), sampleResults())
	require.NoError(t, err)
	require.Len(t, artifacts, 3)

	for name, path := range artifacts {
		info, err := os.Stat(path)
		require.NoError(t, err, "artifact %q", name)
		assert.Positive(t, info.Size(), "artifact %q must not be empty", name)
	}
}
