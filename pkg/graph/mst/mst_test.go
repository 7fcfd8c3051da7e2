package mst

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/linegraph/pkg/geom"
	"github.com/matzehuels/linegraph/pkg/graph"
	"github.com/matzehuels/linegraph/pkg/graph/graphtest"
)

func TestKruskalSquareTieBreak(t *testing.T) {
	g := graphtest.Square(t)
	f := Kruskal(g)

	// All sides have length 1, so insertion order decides and the closing
	// edge 3-0 is dropped.
	assert.Equal(t, []graph.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3}}, f.Edges)
	assert.InDelta(t, 3.0, f.Weight, 1e-12)
	assert.True(t, f.Spanning)
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, f.Trees)
	assert.False(t, f.Contains(3, 0))
	assert.True(t, f.Contains(2, 1))
}

func TestKruskalDropsLongest(t *testing.T) {
	// A 2×1 rectangle: the two long sides have length 2.
	g := graphtest.FromSegments(t, []geom.Segment{
		geom.Seg(geom.P(0, 0, 0), geom.P(2, 0, 0)),
		geom.Seg(geom.P(2, 0, 0), geom.P(2, 1, 0)),
		geom.Seg(geom.P(2, 1, 0), geom.P(0, 1, 0)),
		geom.Seg(geom.P(0, 1, 0), geom.P(0, 0, 0)),
	})
	f := Kruskal(g)

	require.Len(t, f.Edges, 3)
	// Short sides first, then the first long side by insertion order.
	assert.Equal(t, []graph.Edge{{U: 1, V: 2}, {U: 0, V: 3}, {U: 0, V: 1}}, f.Edges)
	assert.InDelta(t, 4.0, f.Weight, 1e-12)
}

func TestKruskalConnected(t *testing.T) {
	graphs := map[string]*graph.Graph{
		"grid":  graphtest.Grid(t, 5, 4),
		"ring":  graphtest.Ring(t, 9),
		"star":  graphtest.Star(t, 6),
		"line":  graphtest.Line(t, 5, 3, 1, 4, 1),
		"cycle": graphtest.Square(t),
	}

	for name, g := range graphs {
		t.Run(name, func(t *testing.T) {
			f := Kruskal(g)
			assert.Len(t, f.Edges, g.VertexCount()-1)
			assert.True(t, f.Spanning)

			// Replaying the chosen edges never joins two vertices that are
			// already connected.
			ds := newDisjointSet(g.VertexCount())
			for _, e := range f.Edges {
				assert.True(t, g.HasEdge(e.U, e.V))
				assert.True(t, ds.union(e.U, e.V), "edge %v closes a cycle", e)
			}
		})
	}
}

func TestKruskalMinimalWeight(t *testing.T) {
	// Triangle with side lengths 1, 2 and sqrt(5).
	g := graphtest.New(t,
		[]geom.Point{geom.P(0, 0, 0), geom.P(1, 0, 0), geom.P(0, 2, 0)},
		[][2]int{{1, 2}, {0, 2}, {0, 1}},
	)
	f := Kruskal(g)
	assert.Equal(t, []graph.Edge{{U: 0, V: 1}, {U: 0, V: 2}}, f.Edges)
	assert.InDelta(t, 3.0, f.Weight, 1e-12)

	// Brute force over every pair of edges confirms the minimum.
	edges := g.Edges()
	best := math.Inf(1)
	for i := range edges {
		for j := i + 1; j < len(edges); j++ {
			w := g.Weight(edges[i].U, edges[i].V) + g.Weight(edges[j].U, edges[j].V)
			best = math.Min(best, w)
		}
	}
	assert.InDelta(t, best, f.Weight, 1e-12)
}

func TestKruskalForest(t *testing.T) {
	g := graphtest.TwoTriangles(t)
	f := Kruskal(g)

	assert.Equal(t, []graph.Edge{{U: 0, V: 1}, {U: 3, V: 5}, {U: 0, V: 2}, {U: 3, V: 4}}, f.Edges)
	assert.InDelta(t, 7.0, f.Weight, 1e-12)
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}, {6}}, f.Trees)
	assert.False(t, f.Spanning)
}

func TestKruskalDegenerate(t *testing.T) {
	empty, err := graph.New(nil, nil)
	require.NoError(t, err)
	f := Kruskal(empty)
	assert.Empty(t, f.Edges)
	assert.Empty(t, f.Trees)
	assert.True(t, f.Spanning)

	single := graphtest.New(t, []geom.Point{geom.P(1, 1, 1)}, nil)
	f = Kruskal(single)
	assert.Empty(t, f.Edges)
	assert.Equal(t, [][]int{{0}}, f.Trees)
	assert.True(t, f.Spanning)
}

func TestForestSegments(t *testing.T) {
	g := graphtest.Line(t, 3, 2, 0.5)
	f := Kruskal(g)
	segs := f.Segments(g)
	require.Len(t, segs, 2)
	assert.Equal(t, geom.Seg(geom.P(2, 0, 0), geom.P(2.5, 0, 0)), segs[0])
	assert.Equal(t, geom.Seg(geom.P(0, 0, 0), geom.P(2, 0, 0)), segs[1])
}

func TestDisjointSet(t *testing.T) {
	ds := newDisjointSet(5)

	assert.True(t, ds.union(0, 1))
	assert.Equal(t, 0, ds.find(1), "equal ranks: first root becomes parent")
	assert.Equal(t, 1, ds.rank[0])

	assert.True(t, ds.union(2, 0))
	assert.Equal(t, 0, ds.find(2), "lower rank attaches under higher rank")
	assert.Equal(t, 1, ds.rank[0])

	assert.False(t, ds.union(1, 2))

	assert.True(t, ds.union(3, 4))
	assert.True(t, ds.union(4, 2))
	assert.Equal(t, 3, ds.find(0), "tie at rank 1 keeps the root of x")
	assert.Equal(t, 2, ds.rank[3])

	// Path compression points every visited vertex at the root.
	ds.find(1)
	assert.Equal(t, 3, ds.parent[1])
}
