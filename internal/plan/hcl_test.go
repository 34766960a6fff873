package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hclPlanSrc = `
plan_id = "release-gate"
version = "1.0"

context = {
  branch  = "release/4.2"
  attempt = 1
  tags    = ["nightly", "gate"]
}

suite "unit-core" {
  category = "unit"
  files    = ["tests/core_test.sh"]
}

suite "e2e-checkout" {
  category   = "e2e"
  depends_on = ["unit-core"]

  config {
    timeout  = 900
    parallel = false
  }
}

execution {
  max_parallel_suites = 3
  fail_fast           = true
}

coverage {
  targets {
    line = 85
  }
}

success_criteria {
  min_pass_rate   = 99
  critical_suites = ["e2e-checkout"]
}
`

func TestParseHCL(t *testing.T) {
	p, err := ParseHCL([]byte(hclPlanSrc), "plan.hcl")
	require.NoError(t, err)

	assert.Equal(t, "release-gate", p.ID)
	assert.Equal(t, "1.0", p.Version)

	t.Run("context object converts to native Go values", func(t *testing.T) {
		require.NotNil(t, p.Context)
		assert.Equal(t, "release/4.2", p.Context["branch"])
		assert.Equal(t, float64(1), p.Context["attempt"])
		assert.Equal(t, []any{"nightly", "gate"}, p.Context["tags"])
	})

	t.Run("suite blocks decode with defaults applied", func(t *testing.T) {
		require.Len(t, p.Suites, 2)

		core := p.Suites[0]
		assert.Equal(t, "unit-core", core.Name)
		assert.Equal(t, "unit", core.Category)
		assert.Equal(t, 300*time.Second, core.Config.Timeout)
		assert.True(t, core.Config.Parallel)

		e2e := p.Suites[1]
		assert.Equal(t, []string{"unit-core"}, e2e.DependsOn)
		assert.Equal(t, 900*time.Second, e2e.Config.Timeout)
		assert.False(t, e2e.Config.Parallel)
	})

	t.Run("nested blocks merge with defaults", func(t *testing.T) {
		assert.Equal(t, 3, p.Execution.MaxParallel)
		assert.True(t, p.Execution.FailFast)
		assert.True(t, p.Execution.ContinueOnFailure)

		assert.Equal(t, 85.0, p.Coverage.Targets.Line)
		assert.Equal(t, 70.0, p.Coverage.Targets.Branch)

		assert.Equal(t, 99.0, p.Criteria.MinPassRate)
		assert.Equal(t, []string{"e2e-checkout"}, p.Criteria.CriticalSuites)
	})
}

func TestParseHCLErrors(t *testing.T) {
	t.Run("syntax error surfaces diagnostics", func(t *testing.T) {
		_, err := ParseHCL([]byte(`suite "x" {`), "broken.hcl")
		assert.ErrorContains(t, err, "failed to parse HCL")
	})

	t.Run("missing required attribute", func(t *testing.T) {
		_, err := ParseHCL([]byte(`version = "1"`), "partial.hcl")
		assert.ErrorContains(t, err, "failed to decode HCL")
	})

	t.Run("non-object context is rejected", func(t *testing.T) {
		src := `
plan_id = "p"
version = "1"
context = "not-an-object"
`
		_, err := ParseHCL([]byte(src), "plan.hcl")
		assert.ErrorContains(t, err, "context must be an object")
	})
}
