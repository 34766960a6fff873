// Package plan loads and validates test plans. A plan declares the suites
// to run, their dependency edges, and execution, coverage, and success
// criteria settings. Plans may be written in YAML, JSON, or HCL; every
// format decodes into the same Plan model.
//
// The package validates descriptor shape only (required fields, known
// categories). Dependency existence and cycle freedom are the dag package's
// responsibility; dependency names pass through here opaquely.
package plan
