package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Danservfinn/horde-test/internal/ctxlog"
)

// Load reads and decodes a plan file, dispatching on its extension:
// .yaml/.yml, .json, or .hcl.
func Load(ctx context.Context, path string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading plan file.", "path", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p *Plan
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		p, err = ParseYAML(content)
	case ".json":
		p, err = ParseJSON(content)
	case ".hcl":
		p, err = ParseHCL(content, path)
	default:
		return nil, fmt.Errorf("plan: unsupported plan format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan file %s: %w", path, err)
	}

	logger.Debug("Plan loaded.", "plan_id", p.ID, "suite_count", len(p.Suites))
	return p, nil
}

// ParseYAML decodes a YAML plan document.
func ParseYAML(content []byte) (*Plan, error) {
	var w wirePlan
	if err := yaml.Unmarshal(content, &w); err != nil {
		return nil, fmt.Errorf("plan: invalid YAML: %w", err)
	}
	return fromWire(&w)
}

// ParseJSON decodes a JSON plan document.
func ParseJSON(content []byte) (*Plan, error) {
	var w wirePlan
	if err := json.Unmarshal(content, &w); err != nil {
		return nil, fmt.Errorf("plan: invalid JSON: %w", err)
	}
	return fromWire(&w)
}
