package dag

import (
	"context"

	"github.com/Danservfinn/horde-test/internal/ctxlog"
)

// SuiteSpec describes one schedulable unit: a unique name plus the names of
// suites that must complete before it may run. Any further descriptor fields
// (category, files, config) are opaque to this package.
type SuiteSpec struct {
	Name      string
	DependsOn []string
}

// Graph holds the validated dependency graph for a single scheduling run.
// It is immutable once Build returns; mutable execution state is layered on
// top by a Tracker.
type Graph struct {
	nodes map[string]*node
	// order preserves descriptor input order so traversals and the computed
	// schedule are deterministic instead of map-iteration dependent.
	order []string
}

// node is un-exported to enforce interaction with the graph via the public
// API (using suite names), not by direct struct manipulation.
type node struct {
	// name is the unique identifier for the node.
	name string
	// deps holds the set of suites this node depends on (predecessors).
	deps map[string]struct{}
	// dependents holds the set of suites that depend on this node
	// (successors), maintained as the exact inverse of deps for O(1)
	// fan-out when a suite completes.
	dependents map[string]struct{}
}

// Build constructs a complete, validated dependency graph from an ordered
// list of suite specs. Every referenced dependency must exist in the same
// input set, duplicate names are rejected, and the result is proven acyclic
// before any scheduling query is permitted.
func Build(ctx context.Context, specs []SuiteSpec) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting graph construction.", "suite_count", len(specs))

	g := &Graph{nodes: make(map[string]*node, len(specs))}

	// First pass: create one node per descriptor.
	for _, s := range specs {
		if _, exists := g.nodes[s.Name]; exists {
			return nil, &DuplicateSuiteError{Name: s.Name}
		}
		g.nodes[s.Name] = &node{
			name:       s.Name,
			deps:       make(map[string]struct{}),
			dependents: make(map[string]struct{}),
		}
		g.order = append(g.order, s.Name)
	}
	logger.Debug("Build: node creation complete.", "node_count", len(g.nodes))

	// Second pass: link forward and reverse edges.
	for _, s := range specs {
		n := g.nodes[s.Name]
		for _, depName := range s.DependsOn {
			dep, ok := g.nodes[depName]
			if !ok {
				return nil, &UnknownDependencyError{Suite: s.Name, Missing: depName}
			}
			n.deps[depName] = struct{}{}
			dep.dependents[s.Name] = struct{}{}
		}
	}
	logger.Debug("Build: node linking complete.")

	if err := g.detectCycles(); err != nil {
		return nil, err
	}
	logger.Debug("Build: cycle detection passed.")

	return g, nil
}

// Len returns the number of suites in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Suites returns all suite names in descriptor input order.
func (g *Graph) Suites() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Contains reports whether a suite with the given name is in the graph.
func (g *Graph) Contains(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Dependencies returns the names of the suites the given suite depends on,
// in descriptor input order.
func (g *Graph) Dependencies(name string) ([]string, error) {
	n, ok := g.nodes[name]
	if !ok {
		return nil, &UnknownSuiteError{Name: name}
	}
	return g.ordered(n.deps), nil
}

// Dependents returns the names of the suites that depend on the given
// suite, in descriptor input order.
func (g *Graph) Dependents(name string) ([]string, error) {
	n, ok := g.nodes[name]
	if !ok {
		return nil, &UnknownSuiteError{Name: name}
	}
	return g.ordered(n.dependents), nil
}

// ordered filters the input-order name list down to the members of set.
func (g *Graph) ordered(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for _, name := range g.order {
		if _, ok := set[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
