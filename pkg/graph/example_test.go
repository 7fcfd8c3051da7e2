package graph_test

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/linegraph/pkg/geom"
	"github.com/matzehuels/linegraph/pkg/graph"
)

func ExampleFromSegments() {
	// Two segments share an endpoint up to a small drift; the third is a
	// zero-length segment that only contributes an isolated vertex.
	g, res, err := graph.FromSegments([]geom.Segment{
		geom.Seg(geom.P(0, 0, 0), geom.P(1, 0, 0)),
		geom.Seg(geom.P(1.0002, 0, 0), geom.P(1, 1, 0)),
		geom.Seg(geom.P(3, 3, 3), geom.P(3, 3, 3)),
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Vertices:", g.VertexCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Pairs:", res.Pairs)
	fmt.Println("Neighbors of 1:", g.Neighbors(1))
	fmt.Println("Degenerate:", res.Degenerate)
	// Output:
	// Vertices: 4
	// Edges: 2
	// Pairs: [[0 1] [1 2] [3 3]]
	// Neighbors of 1: [0 2]
	// Degenerate: [2]
}

func ExampleWriteGraph() {
	g, err := graph.New(
		[]geom.Point{geom.P(0, 0, 0), geom.P(2, 0, 0)},
		[][2]int{{0, 1}},
	)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "vertices": [
	//     {
	//       "x": 0,
	//       "y": 0,
	//       "z": 0
	//     },
	//     {
	//       "x": 2,
	//       "y": 0,
	//       "z": 0
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "u": 0,
	//       "v": 1
	//     }
	//   ]
	// }
}
