package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidParallelism reports a non-positive concurrency ceiling passed to
// LimitParallelism.
var ErrInvalidParallelism = errors.New("dag: max parallel must be a positive integer")

// UnknownDependencyError reports a descriptor that names a dependency absent
// from the suite set. Detected at build time; the graph is unusable.
type UnknownDependencyError struct {
	Suite   string
	Missing string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("dag: suite %q depends on unknown suite %q", e.Suite, e.Missing)
}

// DuplicateSuiteError reports two descriptors sharing the same name. Later
// duplicates are rejected rather than overwriting, since earlier descriptors
// may already reference the name.
type DuplicateSuiteError struct {
	Name string
}

func (e *DuplicateSuiteError) Error() string {
	return fmt.Sprintf("dag: duplicate suite %q", e.Name)
}

// UnknownSuiteError reports an operation against a name that is not in the
// graph, e.g. marking a suite the plan never declared.
type UnknownSuiteError struct {
	Name string
}

func (e *UnknownSuiteError) Error() string {
	return fmt.Sprintf("dag: unknown suite %q", e.Name)
}

// CycleError reports a circular dependency. Path is the ordered closed loop
// with the first and last element equal, so consecutive pairs read as real
// edges of the graph: A -> B -> C -> A.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dag: circular dependency detected: %s", strings.Join(e.Path, " -> "))
}

// IncompleteScheduleError reports suites the leveler could not place. After
// a clean cycle check this can only come from an implementation defect, so
// it is surfaced as a consistency failure rather than swallowed.
type IncompleteScheduleError struct {
	Unscheduled []string
}

func (e *IncompleteScheduleError) Error() string {
	return fmt.Sprintf("dag: could not schedule all suites, unscheduled: %s", strings.Join(e.Unscheduled, ", "))
}

// AlreadyExecutedError reports a second completion report for the same
// suite. Results must be reported exactly once per suite.
type AlreadyExecutedError struct {
	Name string
}

func (e *AlreadyExecutedError) Error() string {
	return fmt.Sprintf("dag: suite %q already marked executed", e.Name)
}
