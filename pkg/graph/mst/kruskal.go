// Package mst builds minimum spanning trees over a [graph.Graph] with
// Kruskal's algorithm, weighting each edge by the Euclidean distance between
// its endpoint coordinates.
//
// A disconnected graph has no spanning tree. Kruskal is run to completion over
// every edge instead, which yields the minimum spanning forest: one tree per
// connected component. [Forest] enumerates those trees and reports whether
// the result spans the whole graph.
package mst

import (
	"sort"

	"github.com/matzehuels/linegraph/pkg/geom"
	"github.com/matzehuels/linegraph/pkg/graph"
)

// Forest is the result of Kruskal.
type Forest struct {
	// Edges are the chosen edges in selection order (ascending weight).
	Edges []graph.Edge `json:"edges"`

	// Weight is the total Euclidean length of Edges.
	Weight float64 `json:"weight"`

	// Trees lists the vertex set of each tree, sorted ascending and ordered by
	// smallest vertex. Isolated vertices are singleton trees.
	Trees [][]int `json:"trees"`

	// Spanning is true when the forest is a single tree covering every
	// vertex.
	Spanning bool `json:"spanning"`
}

// Segments returns the chosen edges as line segments on g's coordinates.
func (f *Forest) Segments(g *graph.Graph) []geom.Segment {
	out := make([]geom.Segment, len(f.Edges))
	for i, e := range f.Edges {
		out[i] = g.Segment(e)
	}
	return out
}

// Contains reports whether the edge u-v was chosen.
func (f *Forest) Contains(u, v int) bool {
	if u > v {
		u, v = v, u
	}
	for _, e := range f.Edges {
		if e.U == u && e.V == v {
			return true
		}
	}
	return false
}

type weightedEdge struct {
	edge   graph.Edge
	weight float64
}

// Kruskal returns the minimum spanning forest of g.
//
// Edges are taken from g.Edges(), so each undirected pair is considered once.
// They are stable-sorted by length, which keeps insertion order among equal
// lengths. An edge is chosen when its endpoints lie in different sets; the
// scan stops after V-1 edges or when edges run out.
//
// Complexity: O(E log E + E·α(V)).
func Kruskal(g *graph.Graph) *Forest {
	n := g.VertexCount()

	edges := g.Edges()
	weighted := make([]weightedEdge, len(edges))
	for i, e := range edges {
		weighted[i] = weightedEdge{edge: e, weight: g.Weight(e.U, e.V)}
	}
	sort.SliceStable(weighted, func(i, j int) bool {
		return weighted[i].weight < weighted[j].weight
	})

	ds := newDisjointSet(n)
	f := &Forest{}
	for _, we := range weighted {
		if len(f.Edges) >= n-1 {
			break
		}
		if ds.union(we.edge.U, we.edge.V) {
			f.Edges = append(f.Edges, we.edge)
			f.Weight += we.weight
		}
	}

	f.Trees = trees(ds, n)
	f.Spanning = len(f.Trees) <= 1
	return f
}

// trees groups vertices by their disjoint-set root. Visiting v in ascending
// order keeps each tree sorted and orders trees by their smallest member.
func trees(ds *disjointSet, n int) [][]int {
	index := make(map[int]int)
	var out [][]int
	for v := 0; v < n; v++ {
		root := ds.find(v)
		i, ok := index[root]
		if !ok {
			i = len(out)
			index[root] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], v)
	}
	return out
}
