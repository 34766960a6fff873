package plan

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// HCL plan schema. Labels and attribute names mirror the YAML/JSON field
// names so a plan translates mechanically between formats.
type hclPlan struct {
	ID        string         `hcl:"plan_id"`
	Version   string         `hcl:"version"`
	Context   hcl.Expression `hcl:"context,optional"`
	Scope     hcl.Expression `hcl:"scope,optional"`
	Suites    []*hclSuite    `hcl:"suite,block"`
	Execution *hclExecution  `hcl:"execution,block"`
	Coverage  *hclCoverage   `hcl:"coverage,block"`
	Criteria  *hclCriteria   `hcl:"success_criteria,block"`
}

type hclSuite struct {
	Name      string          `hcl:"name,label"`
	Category  string          `hcl:"category"`
	Files     []string        `hcl:"files,optional"`
	DependsOn []string        `hcl:"depends_on,optional"`
	Config    *hclSuiteConfig `hcl:"config,block"`
}

type hclSuiteConfig struct {
	Timeout  *int  `hcl:"timeout,optional"`
	Retries  *int  `hcl:"retries,optional"`
	Parallel *bool `hcl:"parallel,optional"`
	Coverage *bool `hcl:"coverage,optional"`
}

type hclExecution struct {
	MaxParallel       *int  `hcl:"max_parallel_suites,optional"`
	FailFast          *bool `hcl:"fail_fast,optional"`
	ContinueOnFailure *bool `hcl:"continue_on_failure,optional"`
	Timeout           *int  `hcl:"timeout,optional"`
}

type hclCoverage struct {
	Enabled      *bool       `hcl:"enabled,optional"`
	FailOnMissed *bool       `hcl:"fail_on_missed,optional"`
	Targets      *hclTargets `hcl:"targets,block"`
}

type hclTargets struct {
	Line     *float64 `hcl:"line,optional"`
	Branch   *float64 `hcl:"branch,optional"`
	Function *float64 `hcl:"function,optional"`
}

type hclCriteria struct {
	MinPassRate        *float64 `hcl:"min_pass_rate,optional"`
	CriticalSuites     []string `hcl:"critical_suites,optional"`
	NoCriticalFailures *bool    `hcl:"no_critical_failures,optional"`
}

// ParseHCL decodes an HCL plan document. filename is used for diagnostics
// only.
func ParseHCL(content []byte, filename string) (*Plan, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("plan: failed to parse HCL: %s", diags.Error())
	}

	var raw hclPlan
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("plan: failed to decode HCL: %s", diags.Error())
	}

	p := &Plan{
		ID:        raw.ID,
		Version:   raw.Version,
		Execution: resolveExecution((*wireExecution)(raw.Execution)),
		Coverage:  resolveHCLCoverage(raw.Coverage),
		Criteria:  resolveCriteria((*wireCriteria)(raw.Criteria)),
	}

	var err error
	if p.Context, err = attrMap(raw.Context, "context"); err != nil {
		return nil, err
	}
	if p.Scope, err = attrMap(raw.Scope, "scope"); err != nil {
		return nil, err
	}

	for _, s := range raw.Suites {
		p.Suites = append(p.Suites, &Suite{
			Name:      s.Name,
			Category:  s.Category,
			Files:     s.Files,
			DependsOn: s.DependsOn,
			Config:    resolveSuiteConfig((*wireSuiteConfig)(s.Config)),
		})
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func resolveHCLCoverage(w *hclCoverage) Coverage {
	if w == nil {
		return defaultCoverage()
	}
	wc := &wireCoverage{Enabled: w.Enabled, FailOnMissed: w.FailOnMissed}
	if w.Targets != nil {
		wc.Targets = (*wireTargets)(w.Targets)
	}
	return resolveCoverage(wc)
}

// attrMap statically evaluates an optional object-valued attribute into a
// plain Go map.
func attrMap(expr hcl.Expression, name string) (map[string]any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("plan: failed to evaluate %s: %s", name, diags.Error())
	}
	if val.IsNull() {
		return nil, nil
	}
	native, err := ctyToNative(val)
	if err != nil {
		return nil, fmt.Errorf("plan: invalid %s value: %w", name, err)
	}
	m, ok := native.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("plan: %s must be an object", name)
	}
	return m, nil
}

// ctyToNative recursively converts a cty.Value to its most natural Go
// counterpart, for passthrough fields with no fixed schema.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			m[key.AsString()] = native
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
