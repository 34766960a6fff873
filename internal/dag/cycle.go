package dag

// Traversal colors for cycle detection.
const (
	white = iota // not yet visited
	gray         // on the current traversal path
	black        // fully explored, known cycle-free
)

// frame pairs a node with a cursor over its remaining dependency edges,
// forming one entry of the explicit traversal stack.
type frame struct {
	name string
	rest []string
}

// detectCycles proves the dependency relation acyclic or returns a
// CycleError carrying the ordered loop. The traversal keeps its own frame
// stack so graph depth never translates into call-stack depth; a chain of
// many thousands of suites must not risk stack exhaustion.
func (g *Graph) detectCycles() error {
	color := make(map[string]int, len(g.nodes))
	for _, name := range g.order {
		if color[name] != white {
			continue
		}
		if err := g.visit(name, color); err != nil {
			return err
		}
	}
	return nil
}

// visit runs an iterative depth-first traversal from root, following
// dependency edges.
func (g *Graph) visit(root string, color map[string]int) error {
	color[root] = gray
	stack := []*frame{{name: root, rest: g.depsOf(root)}}
	// path mirrors the gray nodes on the stack, in entry order, so a back
	// edge can be reconstructed into the full loop for the error payload.
	path := []string{root}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if len(top.rest) == 0 {
			color[top.name] = black
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
			continue
		}

		next := top.rest[0]
		top.rest = top.rest[1:]

		switch color[next] {
		case gray:
			// Back edge: next is already on the traversal path, so the
			// slice of path from its first occurrence through the current
			// node, closed with next itself, is the cycle.
			start := 0
			for i, name := range path {
				if name == next {
					start = i
					break
				}
			}
			cycle := make([]string, 0, len(path)-start+1)
			cycle = append(cycle, path[start:]...)
			cycle = append(cycle, next)
			return &CycleError{Path: cycle}
		case white:
			color[next] = gray
			stack = append(stack, &frame{name: next, rest: g.depsOf(next)})
			path = append(path, next)
		}
	}
	return nil
}

// depsOf returns a node's dependencies in descriptor input order so cycle
// reports are stable across runs.
func (g *Graph) depsOf(name string) []string {
	return g.ordered(g.nodes[name].deps)
}
