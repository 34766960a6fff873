// Package executor drives suite execution over the dependency graph. It
// dispatches ready suites to a bounded worker pool and reports every
// completion back into the runtime tracker exactly once. The scheduling
// core decides what is ready; this package only moves work.
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Danservfinn/horde-test/internal/ctxlog"
	"github.com/Danservfinn/horde-test/internal/dag"
	"github.com/Danservfinn/horde-test/internal/plan"
	"github.com/Danservfinn/horde-test/internal/result"
)

// Runner executes a single suite and reports its outcome. Implementations
// must honor ctx cancellation; the executor applies the suite's configured
// timeout before calling Run.
type Runner interface {
	Run(ctx context.Context, suite *plan.Suite) result.SuiteResult
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, suite *plan.Suite) result.SuiteResult

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, suite *plan.Suite) result.SuiteResult {
	return f(ctx, suite)
}

// Executor coordinates one run of a plan's suites.
type Executor struct {
	tracker  *dag.Tracker
	runner   Runner
	workers  int
	failFast bool
	suites   map[string]*plan.Suite
}

// New creates an executor over the given tracker. workers bounds concurrent
// suite executions; values below one fall back to the plan's max parallel
// setting.
func New(tracker *dag.Tracker, p *plan.Plan, runner Runner, workers int) *Executor {
	if workers < 1 {
		workers = p.Execution.MaxParallel
	}
	if workers < 1 {
		workers = 1
	}

	suites := make(map[string]*plan.Suite, len(p.Suites))
	for _, s := range p.Suites {
		suites[s.Name] = s
	}

	return &Executor{
		tracker:  tracker,
		runner:   runner,
		workers:  workers,
		failFast: p.Execution.FailFast,
		suites:   suites,
	}
}

// Run executes every suite the tracker reports ready, in dependency order,
// until all suites have a terminal status. A single coordinating loop owns
// all tracker mutation, so completion reports are serialized no matter how
// many workers finish at once. The returned slice holds one result per
// suite in completion order.
func (e *Executor) Run(ctx context.Context) ([]result.SuiteResult, error) {
	logger := ctxlog.FromContext(ctx)

	total := e.tracker.Stats().Pending
	if total == 0 {
		logger.Warn("No suites to execute.")
		return nil, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	readyChan := make(chan *plan.Suite, total)
	doneChan := make(chan result.SuiteResult, total)

	var wg sync.WaitGroup
	logger.Debug("Starting worker pool.", "workers", e.workers)
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			e.worker(runCtx, workerID, readyChan, doneChan)
		}(i)
	}

	dispatched := make(map[string]bool, total)
	dispatch := func() int {
		count := 0
		for _, name := range e.tracker.ReadySuites() {
			if dispatched[name] {
				continue
			}
			dispatched[name] = true
			readyChan <- e.suites[name]
			count++
		}
		return count
	}

	var results []result.SuiteResult
	inFlight := dispatch()
	logger.Debug("Dispatched root suites.", "count", inFlight)
	stopDispatch := false

	for inFlight > 0 {
		res := <-doneChan
		inFlight--

		if err := e.tracker.MarkExecuted(res.Name, trackerStatus(res.Status)); err != nil {
			// A rejected completion report is a programming-contract
			// violation, not a suite failure.
			close(readyChan)
			wg.Wait()
			return results, fmt.Errorf("completion report rejected: %w", err)
		}
		results = append(results, res)
		logger.Debug("Suite completed.", "suite", res.Name, "status", res.Status)

		failed := res.Status == result.StatusFailed || res.Status == result.StatusError
		if failed && e.failFast && !stopDispatch {
			logger.Warn("Fail-fast triggered, halting further dispatch.", "suite", res.Name)
			stopDispatch = true
			cancel()
		}
		if runCtx.Err() != nil {
			stopDispatch = true
		}

		if !stopDispatch {
			inFlight += dispatch()
		}
	}

	close(readyChan)
	wg.Wait()

	// Anything never dispatched is recorded as skipped so every suite ends
	// with exactly one terminal status.
	for name := range e.suites {
		if _, done := e.tracker.StatusOf(name); done {
			continue
		}
		if err := e.tracker.MarkExecuted(name, dag.StatusSkipped); err != nil {
			return results, fmt.Errorf("completion report rejected: %w", err)
		}
		suite := e.suites[name]
		results = append(results, result.SuiteResult{
			Name:         name,
			Category:     suite.Category,
			Status:       result.StatusSkipped,
			ErrorMessage: "skipped: execution halted before dispatch",
		})
		logger.Debug("Suite skipped.", "suite", name)
	}

	return results, ctx.Err()
}

// worker pulls suites off the ready channel and runs them until the
// channel closes.
func (e *Executor) worker(ctx context.Context, workerID int, readyChan <-chan *plan.Suite, doneChan chan<- result.SuiteResult) {
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)

	for suite := range readyChan {
		if ctx.Err() != nil {
			doneChan <- result.SuiteResult{
				Name:         suite.Name,
				Category:     suite.Category,
				Status:       result.StatusSkipped,
				ErrorMessage: "skipped: " + ctx.Err().Error(),
			}
			continue
		}

		logger.Debug("Worker picked up suite.", "suite", suite.Name)
		suiteCtx := ctx
		cancel := context.CancelFunc(func() {})
		if suite.Config.Timeout > 0 {
			suiteCtx, cancel = context.WithTimeout(ctx, suite.Config.Timeout)
		}

		started := time.Now()
		res := e.runner.Run(suiteCtx, suite)
		cancel()

		res.Name = suite.Name
		res.Category = suite.Category
		if res.Duration == 0 {
			res.Duration = time.Since(started).Milliseconds()
		}
		doneChan <- res
	}
}

func trackerStatus(status string) dag.Status {
	switch status {
	case result.StatusPassed:
		return dag.StatusPassed
	case result.StatusFailed:
		return dag.StatusFailed
	case result.StatusSkipped:
		return dag.StatusSkipped
	default:
		return dag.StatusError
	}
}
