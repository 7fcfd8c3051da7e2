package graph

import (
	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/geom"
	"github.com/matzehuels/linegraph/pkg/weld"
)

// Edge is an undirected edge between two distinct vertices. Edges produced
// by a Graph always satisfy U < V.
type Edge struct {
	U int `json:"u"`
	V int `json:"v"`
}

func newEdge(u, v int) Edge {
	if u > v {
		u, v = v, u
	}
	return Edge{U: u, V: v}
}

// Other returns the endpoint of e that is not v.
func (e Edge) Other(v int) int {
	if e.U == v {
		return e.V
	}
	return e.U
}

// Graph is an undirected, immutable adjacency-list graph whose vertices carry
// 3D coordinates. Edge weights are not stored; they are derived on demand
// from the coordinates of the endpoints (see [Graph.Weight]).
//
// A Graph has no mutation API and is safe for concurrent readers.
type Graph struct {
	points []geom.Point
	adj    [][]int
	edges  []Edge
}

// New builds a graph over points from undirected index pairs.
//
// Self-loops are skipped and repeated pairs (in either direction) are
// inserted once. Every index must address a point; otherwise New returns an
// INVALID_INDEX error.
func New(points []geom.Point, pairs [][2]int) (*Graph, error) {
	n := len(points)
	g := &Graph{
		points: append([]geom.Point(nil), points...),
		adj:    make([][]int, n),
	}

	seen := make(map[Edge]struct{}, len(pairs))
	for i, p := range pairs {
		u, v := p[0], p[1]
		if err := errors.ValidateIndex(u, n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidIndex, err, "pair %d", i)
		}
		if err := errors.ValidateIndex(v, n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidIndex, err, "pair %d", i)
		}
		if u == v {
			continue
		}
		e := newEdge(u, v)
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		g.adj[u] = append(g.adj[u], v)
		g.adj[v] = append(g.adj[v], u)
		g.edges = append(g.edges, e)
	}
	return g, nil
}

// FromSegments welds segments and builds the graph over the welded vertices.
// The weld result is returned alongside so callers can map input segments to
// vertex indices.
func FromSegments(segments []geom.Segment, opts ...weld.Option) (*Graph, *weld.Result, error) {
	res, err := weld.Weld(segments, opts...)
	if err != nil {
		return nil, nil, err
	}
	g, err := New(res.Vertices, res.Pairs)
	if err != nil {
		return nil, nil, err
	}
	return g, res, nil
}

// VertexCount returns the number of vertices, including isolated ones.
func (g *Graph) VertexCount() int { return len(g.points) }

// EdgeCount returns the number of unique undirected edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Neighbors returns the vertices adjacent to v in insertion order, or nil if
// v is out of range. The returned slice is shared with the graph and must not
// be modified.
func (g *Graph) Neighbors(v int) []int {
	if v < 0 || v >= len(g.adj) {
		return nil
	}
	a := g.adj[v]
	return a[:len(a):len(a)]
}

// Degree returns the number of neighbors of v.
func (g *Graph) Degree(v int) int {
	return len(g.Neighbors(v))
}

// HasEdge reports whether u and v are adjacent. Out-of-range indices report
// false.
func (g *Graph) HasEdge(u, v int) bool {
	if u < 0 || v < 0 || u >= len(g.adj) || v >= len(g.adj) {
		return false
	}
	a, b := g.adj[u], v
	if len(g.adj[v]) < len(a) {
		a, b = g.adj[v], u
	}
	for _, w := range a {
		if w == b {
			return true
		}
	}
	return false
}

// Edges returns the unique edges ordered by first insertion.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Point returns the coordinate of vertex v.
func (g *Graph) Point(v int) geom.Point { return g.points[v] }

// Points returns a copy of all vertex coordinates.
func (g *Graph) Points() []geom.Point {
	return append([]geom.Point(nil), g.points...)
}

// Weight returns the Euclidean distance between the coordinates of u and v.
// It does not require u and v to be adjacent.
func (g *Graph) Weight(u, v int) float64 {
	return geom.Distance(g.points[u], g.points[v])
}

// Segment returns the line segment spanned by e.
func (g *Graph) Segment(e Edge) geom.Segment {
	return geom.Seg(g.points[e.U], g.points[e.V])
}

// Valid returns an INVALID_INDEX error if v does not address a vertex.
func (g *Graph) Valid(v int) error {
	return errors.ValidateIndex(v, len(g.points))
}
