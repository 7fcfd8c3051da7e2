// Package bipartite two-colors a [graph.Graph] by breadth-first search.
//
// Components are seeded in ascending vertex order, so a disconnected graph is
// colored component by component. The check stops at the first edge whose
// endpoints share a color.
package bipartite

import (
	"github.com/matzehuels/linegraph/pkg/geom"
	"github.com/matzehuels/linegraph/pkg/graph"
)

// Uncolored marks a vertex the check never reached.
const Uncolored = -1

// Result is the outcome of Check.
type Result struct {
	// Bipartite is true when every edge joins vertices of different colors.
	Bipartite bool `json:"bipartite"`

	// Colors holds 0 or 1 per vertex. After a failed check it is the partial
	// coloring at the moment of failure; unreached vertices are Uncolored.
	Colors []int `json:"colors"`

	// SetA and SetB list the vertices colored 0 and 1, ascending. Both are
	// nil when the graph is not bipartite.
	SetA []int `json:"set_a,omitempty"`
	SetB []int `json:"set_b,omitempty"`

	// Conflict is the same-colored edge that ended a failed check.
	Conflict *graph.Edge `json:"conflict,omitempty"`
}

// Points returns the coordinates of SetA and SetB.
func (r *Result) Points(g *graph.Graph) (a, b []geom.Point) {
	for _, v := range r.SetA {
		a = append(a, g.Point(v))
	}
	for _, v := range r.SetB {
		b = append(b, g.Point(v))
	}
	return a, b
}

// Check two-colors g. Each uncolored vertex seeds a new BFS with color 0 and
// neighbors take the opposite color of the vertex that discovered them.
// Isolated vertices are color 0.
func Check(g *graph.Graph) *Result {
	n := g.VertexCount()
	colors := make([]int, n)
	for i := range colors {
		colors[i] = Uncolored
	}

	res := &Result{Colors: colors}
	for seed := 0; seed < n; seed++ {
		if colors[seed] != Uncolored {
			continue
		}
		if e, ok := colorComponent(g, colors, seed); !ok {
			res.Conflict = &e
			return res
		}
	}

	res.Bipartite = true
	for v, c := range colors {
		if c == 0 {
			res.SetA = append(res.SetA, v)
		} else {
			res.SetB = append(res.SetB, v)
		}
	}
	return res
}

// colorComponent colors everything reachable from seed. It returns the
// offending edge and false on the first conflict.
func colorComponent(g *graph.Graph, colors []int, seed int) (graph.Edge, bool) {
	colors[seed] = 0
	queue := []int{seed}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, nbr := range g.Neighbors(v) {
			switch colors[nbr] {
			case Uncolored:
				colors[nbr] = 1 - colors[v]
				queue = append(queue, nbr)
			case colors[v]:
				u, w := v, nbr
				if u > w {
					u, w = w, u
				}
				return graph.Edge{U: u, V: w}, false
			}
		}
	}
	return graph.Edge{}, true
}
