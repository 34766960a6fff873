package dag

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diamondTracker(t *testing.T) *Tracker {
	t.Helper()
	g, err := Build(context.Background(), []SuiteSpec{
		{Name: "a"},
		{Name: "b", DependsOn: []string{"a"}},
		{Name: "c", DependsOn: []string{"a"}},
		{Name: "d", DependsOn: []string{"b", "c"}},
	})
	require.NoError(t, err)

	tracker, err := NewTracker(g)
	require.NoError(t, err)
	return tracker
}

func TestTrackerReadiness(t *testing.T) {
	t.Run("roots are ready immediately", func(t *testing.T) {
		tracker := diamondTracker(t)
		assert.True(t, tracker.IsReady("a"))
		assert.False(t, tracker.IsReady("b"))
		assert.False(t, tracker.IsReady("d"))
		assert.Equal(t, []string{"a"}, tracker.ReadySuites())
	})

	t.Run("readiness flips when the last dependency executes", func(t *testing.T) {
		tracker := diamondTracker(t)
		require.NoError(t, tracker.MarkExecuted("a", StatusPassed))
		require.NoError(t, tracker.MarkExecuted("b", StatusPassed))

		// c is still pending, so d must not be ready yet.
		assert.False(t, tracker.IsReady("d"))

		require.NoError(t, tracker.MarkExecuted("c", StatusPassed))
		assert.True(t, tracker.IsReady("d"))
		assert.Equal(t, []string{"d"}, tracker.ReadySuites())
	})

	t.Run("executed suites are no longer ready", func(t *testing.T) {
		tracker := diamondTracker(t)
		require.NoError(t, tracker.MarkExecuted("a", StatusPassed))
		assert.False(t, tracker.IsReady("a"))
	})

	t.Run("a failed dependency does not block dependents", func(t *testing.T) {
		tracker := diamondTracker(t)
		require.NoError(t, tracker.MarkExecuted("a", StatusFailed))

		// Continue-on-failure semantics: b and c become ready regardless
		// of a's terminal status.
		assert.True(t, tracker.IsReady("b"))
		assert.True(t, tracker.IsReady("c"))
	})

	t.Run("unknown names are never ready", func(t *testing.T) {
		tracker := diamondTracker(t)
		assert.False(t, tracker.IsReady("dne"))
	})
}

func TestTrackerMarkExecuted(t *testing.T) {
	t.Run("repeat report is rejected", func(t *testing.T) {
		tracker := diamondTracker(t)
		require.NoError(t, tracker.MarkExecuted("a", StatusPassed))

		err := tracker.MarkExecuted("a", StatusFailed)
		var alreadyErr *AlreadyExecutedError
		require.ErrorAs(t, err, &alreadyErr)
		assert.Equal(t, "a", alreadyErr.Name)

		// The original status must survive the rejected re-mark.
		status, ok := tracker.StatusOf("a")
		require.True(t, ok)
		assert.Equal(t, StatusPassed, status)
	})

	t.Run("unknown suite is rejected", func(t *testing.T) {
		tracker := diamondTracker(t)

		err := tracker.MarkExecuted("dne", StatusPassed)
		var unknownErr *UnknownSuiteError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, "dne", unknownErr.Name)
	})

	t.Run("concurrent reports record each suite exactly once", func(t *testing.T) {
		g, err := Build(context.Background(), []SuiteSpec{
			{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"},
		})
		require.NoError(t, err)
		tracker, err := NewTracker(g)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for _, name := range g.Suites() {
			name := name
			for i := 0; i < 4; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					// Errors are expected for all but one report per suite.
					_ = tracker.MarkExecuted(name, StatusPassed)
				}()
			}
		}
		wg.Wait()

		stats := tracker.Stats()
		assert.Equal(t, 5, stats.Executed)
		assert.Zero(t, stats.Pending)
	})
}

func TestTrackerStats(t *testing.T) {
	tracker := diamondTracker(t)

	stats := tracker.Stats()
	assert.Equal(t, Stats{Total: 4, Executed: 0, Pending: 4, Levels: 3}, stats)

	require.NoError(t, tracker.MarkExecuted("a", StatusPassed))
	require.NoError(t, tracker.MarkExecuted("b", StatusError))

	stats = tracker.Stats()
	assert.Equal(t, Stats{Total: 4, Executed: 2, Pending: 2, Levels: 3}, stats)
}
