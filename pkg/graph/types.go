package graph

import "github.com/matzehuels/linegraph/pkg/geom"

// =============================================================================
// Document - Graph Serialization
// =============================================================================

// Document is the canonical serialization format for graphs.
// Used for files, API responses and cache entries.
//
// Vertex order is significant: the i-th entry is vertex i.
type Document struct {
	Vertices []Vertex `json:"vertices"`
	Edges    []Edge   `json:"edges"`
}

// Vertex is a serialized vertex coordinate.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Point converts v to a geom.Point.
func (v Vertex) Point() geom.Point {
	return geom.P(v.X, v.Y, v.Z)
}

// ToDocument converts g to its serialized form.
func ToDocument(g *Graph) Document {
	doc := Document{
		Vertices: make([]Vertex, g.VertexCount()),
		Edges:    g.Edges(),
	}
	for i, p := range g.points {
		doc.Vertices[i] = Vertex{X: p.X, Y: p.Y, Z: p.Z}
	}
	if doc.Edges == nil {
		doc.Edges = []Edge{}
	}
	return doc
}

// FromDocument builds a Graph from its serialized form.
func FromDocument(doc Document) (*Graph, error) {
	points := make([]geom.Point, len(doc.Vertices))
	for i, v := range doc.Vertices {
		points[i] = v.Point()
	}
	pairs := make([][2]int, len(doc.Edges))
	for i, e := range doc.Edges {
		pairs[i] = [2]int{e.U, e.V}
	}
	return New(points, pairs)
}
