// Package traverse provides breadth-first traversal over a [graph.Graph]:
// shortest hop-count paths, reachability, level distances and connected
// components.
//
// BFS explores neighbors in adjacency insertion order and records the parent
// of each vertex at its first discovery. Among several shortest paths, the one
// returned is therefore fixed by the order in which edges were inserted.
//
// An unreachable target is not an error: [ShortestPath] returns an empty
// [Path]. Out-of-range indices fail with [ErrInvalidIndex].
package traverse

import (
	"errors"

	apperrors "github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/graph"
)

// ErrInvalidIndex is returned when a start or end vertex is out of range.
// The returned error also carries the INVALID_INDEX code.
var ErrInvalidIndex = errors.New("traverse: invalid vertex index")

func checkIndex(g *graph.Graph, role string, v int) error {
	if err := g.Valid(v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidIndex, ErrInvalidIndex,
			"%s vertex %d out of range [0, %d)", role, v, g.VertexCount())
	}
	return nil
}

// Path is a sequence of vertex indices in which every consecutive pair is an
// edge. An empty Path means no path exists.
type Path []int

// Empty reports whether p holds no vertices.
func (p Path) Empty() bool { return len(p) == 0 }

// Hops returns the number of edges in p, 0 for an empty path.
func (p Path) Hops() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Interior returns the vertices of p excluding both endpoints.
func (p Path) Interior() []int {
	if len(p) < 3 {
		return nil
	}
	return p[1 : len(p)-1]
}

// Length returns the Euclidean length of p measured on g's coordinates.
func (p Path) Length(g *graph.Graph) float64 {
	var sum float64
	for i := 0; i+1 < len(p); i++ {
		sum += g.Weight(p[i], p[i+1])
	}
	return sum
}

// Edges returns the edges traversed by p, normalized so that U < V.
func (p Path) Edges() []graph.Edge {
	if len(p) < 2 {
		return nil
	}
	out := make([]graph.Edge, 0, len(p)-1)
	for i := 0; i+1 < len(p); i++ {
		u, v := p[i], p[i+1]
		if u > v {
			u, v = v, u
		}
		out = append(out, graph.Edge{U: u, V: v})
	}
	return out
}
