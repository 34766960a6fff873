package plan

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Categories a suite may declare.
var validCategories = map[string]struct{}{
	"unit":          {},
	"integration":   {},
	"e2e":           {},
	"performance":   {},
	"security":      {},
	"accessibility": {},
}

// Plan is the unified, format-agnostic representation of a test plan.
type Plan struct {
	ID      string
	Version string
	// Context and Scope are opaque passthrough data for report emission;
	// the scheduler never interprets them.
	Context map[string]any
	Scope   map[string]any

	Suites    []*Suite
	Execution Execution
	Coverage  Coverage
	Criteria  Criteria
}

// Suite is one named unit of work and its declared dependencies.
type Suite struct {
	Name      string
	Category  string
	Files     []string
	DependsOn []string
	Config    SuiteConfig
}

// SuiteConfig carries per-suite execution settings.
type SuiteConfig struct {
	Timeout  time.Duration
	Retries  int
	Parallel bool
	Coverage bool
}

// Execution carries plan-wide execution settings.
type Execution struct {
	MaxParallel       int
	FailFast          bool
	ContinueOnFailure bool
	Timeout           time.Duration
}

// CoverageTargets are the minimum acceptable coverage percentages.
type CoverageTargets struct {
	Line     float64
	Branch   float64
	Function float64
}

// Coverage carries plan-wide coverage settings.
type Coverage struct {
	Enabled      bool
	Targets      CoverageTargets
	FailOnMissed bool
}

// Criteria are the success criteria the aggregated results are validated
// against after a run.
type Criteria struct {
	MinPassRate        float64
	CriticalSuites     []string
	NoCriticalFailures bool
}

func defaultSuiteConfig() SuiteConfig {
	return SuiteConfig{Timeout: 300 * time.Second, Parallel: true, Coverage: true}
}

func defaultExecution() Execution {
	return Execution{MaxParallel: 4, ContinueOnFailure: true, Timeout: 1800 * time.Second}
}

func defaultCoverage() Coverage {
	return Coverage{
		Enabled:      true,
		Targets:      CoverageTargets{Line: 80, Branch: 70, Function: 90},
		FailOnMissed: true,
	}
}

func defaultCriteria() Criteria {
	return Criteria{MinPassRate: 95, NoCriticalFailures: true}
}

// SuiteByName returns the suite with the given name, if declared.
func (p *Plan) SuiteByName(name string) (*Suite, bool) {
	for _, s := range p.Suites {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// validate checks descriptor shape: required identity fields and known
// suite categories.
func (p *Plan) validate() error {
	if p.ID == "" {
		return fmt.Errorf("plan: missing required field plan_id")
	}
	if p.Version == "" {
		return fmt.Errorf("plan: missing required field version")
	}
	for _, s := range p.Suites {
		if s.Name == "" {
			return fmt.Errorf("plan: suite with empty name")
		}
		if _, ok := validCategories[s.Category]; !ok {
			return fmt.Errorf("plan: suite %q has invalid category %q, must be one of: %s",
				s.Name, s.Category, strings.Join(categoryNames(), ", "))
		}
	}
	return nil
}

func categoryNames() []string {
	names := make([]string, 0, len(validCategories))
	for name := range validCategories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
