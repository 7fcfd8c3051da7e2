// Package graphtest builds small fixture graphs for tests of the analysis
// packages.
package graphtest

import (
	"math"
	"testing"

	"github.com/matzehuels/linegraph/pkg/geom"
	"github.com/matzehuels/linegraph/pkg/graph"
)

// SquareSegments is the unit square traced counter-clockwise from the origin.
// It welds to vertices 0:(0,0) 1:(1,0) 2:(1,1) 3:(0,1).
func SquareSegments() []geom.Segment {
	return []geom.Segment{
		geom.Seg(geom.P(0, 0, 0), geom.P(1, 0, 0)),
		geom.Seg(geom.P(1, 0, 0), geom.P(1, 1, 0)),
		geom.Seg(geom.P(1, 1, 0), geom.P(0, 1, 0)),
		geom.Seg(geom.P(0, 1, 0), geom.P(0, 0, 0)),
	}
}

// Square returns the 4-cycle built from SquareSegments.
func Square(t testing.TB) *graph.Graph {
	t.Helper()
	return FromSegments(t, SquareSegments())
}

// Ring returns an n-cycle with vertices on the unit circle.
func Ring(t testing.TB, n int) *graph.Graph {
	t.Helper()
	pts := make([]geom.Point, n)
	pairs := make([][2]int, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.P(math.Cos(a), math.Sin(a), 0)
		pairs[i] = [2]int{i, (i + 1) % n}
	}
	return New(t, pts, pairs)
}

// Line returns a path 0-1-...-(n-1) along the X axis with the given spacings.
// With no spacings every edge has length 1.
func Line(t testing.TB, n int, spacing ...float64) *graph.Graph {
	t.Helper()
	pts := make([]geom.Point, n)
	var pairs [][2]int
	x := 0.0
	for i := 0; i < n; i++ {
		pts[i] = geom.P(x, 0, 0)
		step := 1.0
		if i < len(spacing) {
			step = spacing[i]
		}
		x += step
		if i > 0 {
			pairs = append(pairs, [2]int{i - 1, i})
		}
	}
	return New(t, pts, pairs)
}

// Star returns a hub 0 connected to n leaves at unit distance.
func Star(t testing.TB, n int) *graph.Graph {
	t.Helper()
	pts := []geom.Point{geom.P(0, 0, 0)}
	var pairs [][2]int
	for i := 1; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, geom.P(math.Cos(a), math.Sin(a), 0))
		pairs = append(pairs, [2]int{0, i})
	}
	return New(t, pts, pairs)
}

// Grid returns a w×h lattice with unit spacing. Vertex (x, y) has index
// y*w + x.
func Grid(t testing.TB, w, h int) *graph.Graph {
	t.Helper()
	var pts []geom.Point
	var pairs [][2]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pts = append(pts, geom.P(float64(x), float64(y), 0))
			i := y*w + x
			if x > 0 {
				pairs = append(pairs, [2]int{i - 1, i})
			}
			if y > 0 {
				pairs = append(pairs, [2]int{i - w, i})
			}
		}
	}
	return New(t, pts, pairs)
}

// TwoTriangles returns two disjoint triangles {0,1,2} and {3,4,5} plus an
// isolated vertex 6.
func TwoTriangles(t testing.TB) *graph.Graph {
	t.Helper()
	pts := []geom.Point{
		geom.P(0, 0, 0), geom.P(1, 0, 0), geom.P(0, 2, 0),
		geom.P(10, 0, 0), geom.P(13, 0, 0), geom.P(10, 1, 0),
		geom.P(50, 50, 50),
	}
	pairs := [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 5}, {5, 3}}
	return New(t, pts, pairs)
}

// FromSegments welds segments with the default tolerance.
func FromSegments(t testing.TB, segs []geom.Segment) *graph.Graph {
	t.Helper()
	g, _, err := graph.FromSegments(segs)
	if err != nil {
		t.Fatalf("graph.FromSegments: %v", err)
	}
	return g
}

// New builds a graph from points and pairs, failing the test on error.
func New(t testing.TB, pts []geom.Point, pairs [][2]int) *graph.Graph {
	t.Helper()
	g, err := graph.New(pts, pairs)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	return g
}
