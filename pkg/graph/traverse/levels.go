package traverse

import (
	"slices"

	"github.com/matzehuels/linegraph/pkg/graph"
)

// Levels returns hop distances from start computed frontier by frontier,
// -1 for unreachable vertices.
//
// It shares no code with the queue-based walker and is used to cross-check
// path lengths.
func Levels(g *graph.Graph, start int) ([]int, error) {
	if err := checkIndex(g, "start", start); err != nil {
		return nil, err
	}

	dist := make([]int, g.VertexCount())
	for i := range dist {
		dist[i] = -1
	}
	dist[start] = 0

	frontier := []int{start}
	for level := 1; len(frontier) > 0; level++ {
		var next []int
		for _, v := range frontier {
			for _, nbr := range g.Neighbors(v) {
				if dist[nbr] < 0 {
					dist[nbr] = level
					next = append(next, nbr)
				}
			}
		}
		frontier = next
	}
	return dist, nil
}

// Components returns the connected components of g. Each component is sorted
// ascending and components are ordered by their smallest vertex. Isolated
// vertices form singleton components.
func Components(g *graph.Graph) [][]int {
	n := g.VertexCount()
	comp := make([]int, n)
	for i := range comp {
		comp[i] = -1
	}

	var out [][]int
	for s := 0; s < n; s++ {
		if comp[s] >= 0 {
			continue
		}
		id := len(out)
		comp[s] = id
		members := []int{s}
		queue := []int{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, nbr := range g.Neighbors(v) {
				if comp[nbr] < 0 {
					comp[nbr] = id
					members = append(members, nbr)
					queue = append(queue, nbr)
				}
			}
		}
		out = append(out, members)
	}

	for _, c := range out {
		slices.Sort(c)
	}
	return out
}

// Connected reports whether g has at most one component.
func Connected(g *graph.Graph) bool {
	return len(Components(g)) <= 1
}
