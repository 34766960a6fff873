package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Danservfinn/horde-test/internal/criteria"
	"github.com/Danservfinn/horde-test/internal/ctxlog"
	"github.com/Danservfinn/horde-test/internal/dag"
	"github.com/Danservfinn/horde-test/internal/executor"
	"github.com/Danservfinn/horde-test/internal/plan"
	"github.com/Danservfinn/horde-test/internal/report"
	"github.com/Danservfinn/horde-test/internal/result"
)

// ErrCriteriaNotMet reports a completed run whose results failed the
// plan's success criteria. It is not an execution error; the reports are
// still written.
var ErrCriteriaNotMet = errors.New("success criteria not met")

// Run executes the main application logic based on the App's configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	p, err := plan.Load(ctx, a.config.PlanPath)
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}

	specs := make([]dag.SuiteSpec, len(p.Suites))
	for i, s := range p.Suites {
		specs[i] = dag.SuiteSpec{Name: s.Name, DependsOn: s.DependsOn}
	}

	graph, err := dag.Build(ctx, specs)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "suite_count", graph.Len())

	levels, err := graph.Levels()
	if err != nil {
		return fmt.Errorf("failed to compute execution order: %w", err)
	}

	maxParallel := a.config.MaxParallel
	if maxParallel == 0 {
		maxParallel = p.Execution.MaxParallel
	}
	stages, err := dag.LimitParallelism(levels, maxParallel)
	if err != nil {
		return err
	}

	if !a.config.Execute {
		a.printSchedule(p, stages, maxParallel)
		return nil
	}
	return a.execute(ctx, p, graph, maxParallel)
}

// printSchedule writes the static plan to the user-facing output.
func (a *App) printSchedule(p *plan.Plan, stages [][]string, maxParallel int) {
	fmt.Fprintf(a.outW, "Execution plan %s (%d suites, %d stages, max parallel %d)\n",
		p.ID, len(p.Suites), len(stages), maxParallel)
	for i, stage := range stages {
		fmt.Fprintf(a.outW, "  stage %d:", i+1)
		for _, name := range stage {
			fmt.Fprintf(a.outW, " %s", name)
		}
		fmt.Fprintln(a.outW)
	}
}

// execute drives a full run: executor, aggregation, criteria validation,
// and report emission.
func (a *App) execute(ctx context.Context, p *plan.Plan, graph *dag.Graph, maxParallel int) error {
	tracker, err := dag.NewTracker(graph)
	if err != nil {
		return fmt.Errorf("failed to initialize runtime tracker: %w", err)
	}

	if a.config.FailFast {
		p.Execution.FailFast = true
	}
	workers := a.config.Workers
	if workers == 0 {
		workers = maxParallel
	}

	a.logger.Info("Starting suite execution.",
		"plan_id", p.ID, "suites", len(p.Suites), "workers", workers, "fail_fast", p.Execution.FailFast)

	exec := executor.New(tracker, p, &executor.CommandRunner{}, workers)
	started := time.Now()
	suiteResults, err := exec.Run(ctx)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	stats := tracker.Stats()
	a.logger.Info("Execution finished.",
		"executed", stats.Executed, "levels", stats.Levels, "duration", time.Since(started).Round(time.Millisecond))

	agg := result.NewAggregator()
	for _, r := range suiteResults {
		agg.Add(r)
	}
	results := agg.Build(started, time.Since(started))

	// Coverage targets only apply when at least one suite reported
	// coverage; otherwise there is nothing to measure against.
	var targets *plan.CoverageTargets
	if p.Coverage.Enabled && p.Coverage.FailOnMissed && results.Coverage != (result.CoverageSummary{}) {
		targets = &p.Coverage.Targets
	}
	outcome := criteria.New(p.Criteria, targets).Validate(results)
	fmt.Fprint(a.outW, criteria.Report(results, outcome))

	gen, err := report.NewGenerator(a.config.OutputDir)
	if err != nil {
		return err
	}
	artifacts, err := gen.GenerateAll(ctx, results)
	if err != nil {
		return err
	}
	for name, path := range artifacts {
		a.logger.Debug("Report artifact written.", "artifact", name, "path", path)
	}

	if !outcome.Passed {
		return ErrCriteriaNotMet
	}
	return nil
}
