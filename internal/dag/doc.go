// Package dag is the scheduling core of the application. It turns an ordered
// list of suite descriptors into a validated dependency graph, proves the
// graph acyclic, computes a level-based parallel execution order, and tracks
// per-suite completion state while an orchestrator drives the run.
//
// The package never executes suites itself; it only orders and tracks
// completion of opaque named units.
package dag
