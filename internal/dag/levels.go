package dag

// Levels computes the maximal-parallelism static schedule via iterative
// peeling (Kahn's algorithm): an ordered sequence of groups in which every
// suite's dependencies live in strictly earlier groups. Suites within one
// group are mutually independent and may run in any order or concurrently;
// callers must not rely on a particular relative order inside a group.
func (g *Graph) Levels() ([][]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for name, n := range g.nodes {
		inDegree[name] = len(n.deps)
	}

	// Seed the frontier with every root. Input order keeps the result
	// deterministic.
	var frontier []string
	for _, name := range g.order {
		if inDegree[name] == 0 {
			frontier = append(frontier, name)
		}
	}

	var levels [][]string
	scheduled := 0

	for len(frontier) > 0 {
		levels = append(levels, frontier)
		scheduled += len(frontier)

		var next []string
		for _, name := range frontier {
			for _, dependent := range g.ordered(g.nodes[name].dependents) {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		frontier = next
	}

	if scheduled != len(g.nodes) {
		// Unreachable after a clean cycle check; surfaced as a defect
		// signal rather than silently dropping suites.
		var unscheduled []string
		for _, name := range g.order {
			if inDegree[name] > 0 {
				unscheduled = append(unscheduled, name)
			}
		}
		return nil, &IncompleteScheduleError{Unscheduled: unscheduled}
	}

	return levels, nil
}

// LimitParallelism rewrites a level schedule so that no group exceeds max
// suites. Oversized groups split into consecutive fixed-size chunks (the
// last chunk may be shorter) preserving intra-group order; chunks never mix
// suites from two different dependency levels, so every suite still appears
// only after all chunks containing its dependencies.
func LimitParallelism(levels [][]string, max int) ([][]string, error) {
	if max <= 0 {
		return nil, ErrInvalidParallelism
	}

	var out [][]string
	for _, level := range levels {
		for start := 0; start < len(level); start += max {
			end := min(start+max, len(level))
			out = append(out, level[start:end:end])
		}
	}
	return out, nil
}
