package dag

import "sync"

// Status is the terminal outcome reported for a suite. A status is ordinary
// data, not an error: by policy a failed dependency does not block its
// dependents from becoming ready.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Stats is a point-in-time summary of execution progress.
type Stats struct {
	Total    int
	Executed int
	Pending  int
	Levels   int
}

// Tracker overlays mutable execution state on an immutable Graph. It is
// safe for concurrent use: completion reports from parallel workers are
// serialized on a single lock, and read operations observe a consistent
// snapshot under the same lock in shared mode.
type Tracker struct {
	graph *Graph

	mu       sync.RWMutex
	statuses map[string]Status
	// executed counts completed suites incrementally so Stats never
	// rescans the graph.
	executed int
	// levelCount is cached at construction; the graph cannot change
	// between calls.
	levelCount int
}

// NewTracker creates a tracker for the given graph. The static level count
// reported by Stats is computed once here.
func NewTracker(g *Graph) (*Tracker, error) {
	levels, err := g.Levels()
	if err != nil {
		return nil, err
	}
	return &Tracker{
		graph:      g,
		statuses:   make(map[string]Status, g.Len()),
		levelCount: len(levels),
	}, nil
}

// MarkExecuted records the terminal status for a suite and flips its
// execution flag. Every suite may be reported exactly once; a repeat report
// returns AlreadyExecutedError and a name outside the graph returns
// UnknownSuiteError. The transition is monotonic: a suite is never
// un-executed.
func (t *Tracker) MarkExecuted(name string, status Status) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.graph.Contains(name) {
		return &UnknownSuiteError{Name: name}
	}
	if _, done := t.statuses[name]; done {
		return &AlreadyExecutedError{Name: name}
	}

	t.statuses[name] = status
	t.executed++
	return nil
}

// IsReady reports whether a suite is unexecuted with every one of its
// declared dependencies executed. Readiness depends only on a dependency
// having executed, not on it having passed. Unknown names are never ready.
func (t *Tracker) IsReady(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.isReadyLocked(name)
}

func (t *Tracker) isReadyLocked(name string) bool {
	n, ok := t.graph.nodes[name]
	if !ok {
		return false
	}
	if _, done := t.statuses[name]; done {
		return false
	}
	for dep := range n.deps {
		if _, done := t.statuses[dep]; !done {
			return false
		}
	}
	return true
}

// ReadySuites returns every currently-ready, not-yet-executed suite in
// descriptor input order, for orchestrators that dispatch at a finer grain
// than whole-level batches.
func (t *Tracker) ReadySuites() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var ready []string
	for _, name := range t.graph.order {
		if t.isReadyLocked(name) {
			ready = append(ready, name)
		}
	}
	return ready
}

// StatusOf returns the terminal status recorded for a suite, if any.
func (t *Tracker) StatusOf(name string) (Status, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.statuses[name]
	return s, ok
}

// Stats returns total/executed/pending suite counts and the number of
// levels in the static plan.
func (t *Tracker) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := t.graph.Len()
	return Stats{
		Total:    total,
		Executed: t.executed,
		Pending:  total - t.executed,
		Levels:   t.levelCount,
	}
}
