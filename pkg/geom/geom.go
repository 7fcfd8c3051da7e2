// Package geom holds the 3D primitives shared by the welder, the graph store
// and the renderers.
//
// Points are sdfx vectors so callers that already build geometry with sdfx
// can pass coordinates through without conversion.
package geom

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Point is a 3D coordinate.
type Point = v3.Vec

// P is shorthand for constructing a Point.
func P(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// Segment is a straight line between two points.
type Segment struct {
	Start Point
	End   Point
}

// Seg is shorthand for constructing a Segment.
func Seg(a, b Point) Segment {
	return Segment{Start: a, End: b}
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return Distance(s.Start, s.End)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return a.Sub(b).Length()
}

// Near reports whether a and b differ by less than tol on every axis
// independently. This is a box test, not a sphere test: two points can be
// Near while their Euclidean distance is up to sqrt(3)*tol.
func Near(a, b Point, tol float64) bool {
	d := a.Sub(b).Abs()
	return d.X < tol && d.Y < tol && d.Z < tol
}
