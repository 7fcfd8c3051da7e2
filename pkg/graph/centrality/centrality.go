// Package centrality scores the vertices of a [graph.Graph] by betweenness and
// closeness.
//
// Both measures run one breadth-first traversal per source vertex and read the
// shortest path to every target off the resulting BFS tree. That is the same
// path [traverse.ShortestPath] returns for the pair, so each score counts
// exactly one shortest path per ordered pair, chosen by adjacency insertion
// order. Both are O(V·(V+E)).
//
// Every result carries raw scores and their min–max normalization to [0, 1].
package centrality

import (
	"math"

	"github.com/matzehuels/linegraph/pkg/graph"
	"github.com/matzehuels/linegraph/pkg/graph/traverse"
)

// Scores holds one value per vertex.
type Scores struct {
	Raw        []float64 `json:"raw"`
	Normalized []float64 `json:"normalized"`
}

func newScores(raw []float64) Scores {
	return Scores{Raw: raw, Normalized: Normalize(raw)}
}

// Max returns the index of the highest raw score, -1 when empty. Ties resolve
// to the lowest index.
func (s Scores) Max() int {
	best := -1
	for i, v := range s.Raw {
		if best < 0 || v > s.Raw[best] {
			best = i
		}
	}
	return best
}

// Betweenness counts, for every vertex, how many ordered pairs (s, t) with
// s ≠ t route their shortest path through it as an interior vertex.
// Endpoints are never credited and unreachable pairs contribute nothing.
func Betweenness(g *graph.Graph) Scores {
	n := g.VertexCount()
	raw := make([]float64, n)
	below := make([]int, n)

	for s := 0; s < n; s++ {
		res, _ := traverse.BFS(g, s)

		// Interior vertices of the path s→t are the ancestors of t in the BFS
		// tree other than s, so v is credited once per proper descendant.
		for i := range below {
			below[i] = 0
		}
		for i := len(res.Order) - 1; i > 0; i-- {
			v := res.Order[i]
			if p := res.Parent[v]; p != s {
				below[p] += below[v] + 1
			}
		}
		for _, v := range res.Order[1:] {
			raw[v] += float64(below[v])
		}
	}
	return newScores(raw)
}

// Closeness scores each vertex by the inverse of its summed distance to every
// other reachable vertex. Distances are hop counts or, when weighted is set,
// Euclidean lengths along the same hop-minimal paths. A vertex that reaches
// nothing scores 0.
func Closeness(g *graph.Graph, weighted bool) Scores {
	n := g.VertexCount()
	raw := make([]float64, n)
	dist := make([]float64, n)

	for s := 0; s < n; s++ {
		res, _ := traverse.BFS(g, s)

		var sum float64
		dist[s] = 0
		for _, v := range res.Order[1:] {
			if weighted {
				p := res.Parent[v]
				dist[v] = dist[p] + g.Weight(p, v)
			} else {
				dist[v] = float64(res.Depth[v])
			}
			sum += dist[v]
		}
		if sum > 0 {
			raw[s] = 1 / sum
		}
	}
	return newScores(raw)
}

// Normalize maps values linearly so the minimum becomes 0 and the maximum 1.
// When every value is equal, including the empty and single-value cases, all
// normalized values are 0. NaN inputs normalize to 0.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	span := hi - lo
	if !(span > 0) || math.IsInf(span, 0) {
		return out
	}
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		out[i] = (v - lo) / span
	}
	return out
}
