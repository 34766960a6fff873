package plan

import "time"

// Wire structs for the YAML and JSON plan formats. Defaultable scalars are
// pointers so an absent field is distinguishable from an explicit zero;
// fromWire resolves them against the documented defaults.

type wirePlan struct {
	ID        string         `yaml:"plan_id" json:"plan_id"`
	Version   string         `yaml:"version" json:"version"`
	Context   map[string]any `yaml:"context" json:"context"`
	Scope     map[string]any `yaml:"scope" json:"scope"`
	Suites    []*wireSuite   `yaml:"suites" json:"suites"`
	Execution *wireExecution `yaml:"execution" json:"execution"`
	Coverage  *wireCoverage  `yaml:"coverage" json:"coverage"`
	Criteria  *wireCriteria  `yaml:"success_criteria" json:"success_criteria"`
}

type wireSuite struct {
	Name         string           `yaml:"name" json:"name"`
	Category     string           `yaml:"category" json:"category"`
	Files        []string         `yaml:"files" json:"files"`
	Dependencies []string         `yaml:"dependencies" json:"dependencies"`
	Config       *wireSuiteConfig `yaml:"config" json:"config"`
}

type wireSuiteConfig struct {
	Timeout  *int  `yaml:"timeout" json:"timeout"`
	Retries  *int  `yaml:"retries" json:"retries"`
	Parallel *bool `yaml:"parallel" json:"parallel"`
	Coverage *bool `yaml:"coverage" json:"coverage"`
}

type wireExecution struct {
	MaxParallel       *int  `yaml:"max_parallel_suites" json:"max_parallel_suites"`
	FailFast          *bool `yaml:"fail_fast" json:"fail_fast"`
	ContinueOnFailure *bool `yaml:"continue_on_failure" json:"continue_on_failure"`
	Timeout           *int  `yaml:"timeout" json:"timeout"`
}

type wireCoverage struct {
	Enabled      *bool        `yaml:"enabled" json:"enabled"`
	Targets      *wireTargets `yaml:"targets" json:"targets"`
	FailOnMissed *bool        `yaml:"fail_on_missed" json:"fail_on_missed"`
}

type wireTargets struct {
	Line     *float64 `yaml:"line" json:"line"`
	Branch   *float64 `yaml:"branch" json:"branch"`
	Function *float64 `yaml:"function" json:"function"`
}

type wireCriteria struct {
	MinPassRate        *float64 `yaml:"min_pass_rate" json:"min_pass_rate"`
	CriticalSuites     []string `yaml:"critical_suites" json:"critical_suites"`
	NoCriticalFailures *bool    `yaml:"no_critical_failures" json:"no_critical_failures"`
}

// fromWire resolves a decoded wire plan into the clean model, applying
// defaults for absent fields, and validates the result.
func fromWire(w *wirePlan) (*Plan, error) {
	p := &Plan{
		ID:        w.ID,
		Version:   w.Version,
		Context:   w.Context,
		Scope:     w.Scope,
		Execution: resolveExecution(w.Execution),
		Coverage:  resolveCoverage(w.Coverage),
		Criteria:  resolveCriteria(w.Criteria),
	}
	for _, ws := range w.Suites {
		p.Suites = append(p.Suites, &Suite{
			Name:      ws.Name,
			Category:  ws.Category,
			Files:     ws.Files,
			DependsOn: ws.Dependencies,
			Config:    resolveSuiteConfig(ws.Config),
		})
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func resolveSuiteConfig(w *wireSuiteConfig) SuiteConfig {
	c := defaultSuiteConfig()
	if w == nil {
		return c
	}
	if w.Timeout != nil {
		c.Timeout = time.Duration(*w.Timeout) * time.Second
	}
	if w.Retries != nil {
		c.Retries = *w.Retries
	}
	if w.Parallel != nil {
		c.Parallel = *w.Parallel
	}
	if w.Coverage != nil {
		c.Coverage = *w.Coverage
	}
	return c
}

func resolveExecution(w *wireExecution) Execution {
	e := defaultExecution()
	if w == nil {
		return e
	}
	if w.MaxParallel != nil {
		e.MaxParallel = *w.MaxParallel
	}
	if w.FailFast != nil {
		e.FailFast = *w.FailFast
	}
	if w.ContinueOnFailure != nil {
		e.ContinueOnFailure = *w.ContinueOnFailure
	}
	if w.Timeout != nil {
		e.Timeout = time.Duration(*w.Timeout) * time.Second
	}
	return e
}

func resolveCoverage(w *wireCoverage) Coverage {
	c := defaultCoverage()
	if w == nil {
		return c
	}
	if w.Enabled != nil {
		c.Enabled = *w.Enabled
	}
	if w.FailOnMissed != nil {
		c.FailOnMissed = *w.FailOnMissed
	}
	if w.Targets != nil {
		if w.Targets.Line != nil {
			c.Targets.Line = *w.Targets.Line
		}
		if w.Targets.Branch != nil {
			c.Targets.Branch = *w.Targets.Branch
		}
		if w.Targets.Function != nil {
			c.Targets.Function = *w.Targets.Function
		}
	}
	return c
}

func resolveCriteria(w *wireCriteria) Criteria {
	c := defaultCriteria()
	if w == nil {
		return c
	}
	if w.MinPassRate != nil {
		c.MinPassRate = *w.MinPassRate
	}
	if w.CriticalSuites != nil {
		c.CriticalSuites = w.CriticalSuites
	}
	if w.NoCriticalFailures != nil {
		c.NoCriticalFailures = *w.NoCriticalFailures
	}
	return c
}
