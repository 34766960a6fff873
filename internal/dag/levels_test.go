package dag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	t.Run("diamond schedules into three levels", func(t *testing.T) {
		g, err := Build(context.Background(), []SuiteSpec{
			{Name: "a"},
			{Name: "b", DependsOn: []string{"a"}},
			{Name: "c", DependsOn: []string{"a"}},
			{Name: "d", DependsOn: []string{"b", "c"}},
		})
		require.NoError(t, err)

		levels, err := g.Levels()
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"a"}, {"b", "c"}, {"d"}}, levels)
	})

	t.Run("independent suites share level zero", func(t *testing.T) {
		g, err := Build(context.Background(), []SuiteSpec{
			{Name: "a"},
			{Name: "b"},
			{Name: "c"},
		})
		require.NoError(t, err)

		levels, err := g.Levels()
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"a", "b", "c"}}, levels)
	})

	t.Run("empty graph yields no levels", func(t *testing.T) {
		g, err := Build(context.Background(), nil)
		require.NoError(t, err)

		levels, err := g.Levels()
		require.NoError(t, err)
		assert.Empty(t, levels)
	})

	t.Run("every suite appears exactly once, after its dependencies", func(t *testing.T) {
		specs := []SuiteSpec{
			{Name: "lint"},
			{Name: "unit-core"},
			{Name: "unit-api", DependsOn: []string{"lint"}},
			{Name: "integration", DependsOn: []string{"unit-core", "unit-api"}},
			{Name: "e2e", DependsOn: []string{"integration"}},
			{Name: "perf", DependsOn: []string{"integration"}},
			{Name: "report", DependsOn: []string{"e2e", "perf"}},
		}
		g, err := Build(context.Background(), specs)
		require.NoError(t, err)

		levels, err := g.Levels()
		require.NoError(t, err)

		levelOf := make(map[string]int)
		for i, level := range levels {
			for _, name := range level {
				_, seen := levelOf[name]
				require.False(t, seen, "suite %q scheduled twice", name)
				levelOf[name] = i
			}
		}
		assert.Len(t, levelOf, len(specs))

		// Strict ordering by level index: never the same level as a
		// dependency, never earlier.
		for _, s := range specs {
			for _, dep := range s.DependsOn {
				assert.Greater(t, levelOf[s.Name], levelOf[dep],
					"%q must be scheduled strictly after %q", s.Name, dep)
			}
		}
	})
}

func TestLimitParallelism(t *testing.T) {
	t.Run("oversized group splits into fixed-size chunks", func(t *testing.T) {
		level := []string{"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9"}

		chunked, err := LimitParallelism([][]string{level}, 4)
		require.NoError(t, err)
		require.Len(t, chunked, 3)
		assert.Equal(t, []string{"s0", "s1", "s2", "s3"}, chunked[0])
		assert.Equal(t, []string{"s4", "s5", "s6", "s7"}, chunked[1])
		assert.Equal(t, []string{"s8", "s9"}, chunked[2])
	})

	t.Run("chunks never cross a level boundary", func(t *testing.T) {
		levels := [][]string{
			{"a", "b", "c"},
			{"d"},
			{"e", "f", "g", "h", "i"},
		}

		chunked, err := LimitParallelism(levels, 2)
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"a", "b"}, {"c"},
			{"d"},
			{"e", "f"}, {"g", "h"}, {"i"},
		}, chunked)
	})

	t.Run("ceiling of one serializes the diamond", func(t *testing.T) {
		g, err := Build(context.Background(), []SuiteSpec{
			{Name: "a"},
			{Name: "b", DependsOn: []string{"a"}},
			{Name: "c", DependsOn: []string{"a"}},
			{Name: "d", DependsOn: []string{"b", "c"}},
		})
		require.NoError(t, err)

		levels, err := g.Levels()
		require.NoError(t, err)

		chunked, err := LimitParallelism(levels, 1)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}, {"d"}}, chunked)
	})

	t.Run("groups within the ceiling pass through unchanged", func(t *testing.T) {
		levels := [][]string{{"a", "b"}, {"c"}}

		chunked, err := LimitParallelism(levels, 8)
		require.NoError(t, err)
		assert.Equal(t, levels, chunked)
	})

	t.Run("non-positive ceiling is a configuration error", func(t *testing.T) {
		_, err := LimitParallelism([][]string{{"a"}}, 0)
		assert.ErrorIs(t, err, ErrInvalidParallelism)

		_, err = LimitParallelism([][]string{{"a"}}, -3)
		assert.ErrorIs(t, err, ErrInvalidParallelism)
	})
}
