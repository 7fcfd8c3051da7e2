// Package graph provides the immutable graph store shared by every analysis
// in linegraph, and its JSON wire format.
//
// # Architecture
//
// Data flows one way:
//
//	segments → weld.Weld → graph.New → {traverse, mst, centrality, bipartite}
//
// A [Graph] owns the welded vertex coordinates and symmetric adjacency lists.
// Vertices are dense integer indices 0..V-1; indices, not coordinates, are the
// handle used across packages. Analyses only read the graph.
//
// # Construction
//
//	g, res, err := graph.FromSegments(segments)      // weld + build
//	g, err := graph.New(points, [][2]int{{0, 1}})    // from index pairs
//
// Self-loops are dropped and duplicate pairs are inserted once, so
// v ∈ Neighbors(u) ⟺ u ∈ Neighbors(v) always holds.
//
// # Serialization
//
// Graphs use a vertex/edge JSON document:
//
//	{
//	  "vertices": [{"x": 0, "y": 0, "z": 0}, {"x": 1, "y": 0, "z": 0}],
//	  "edges": [{"u": 0, "v": 1}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("graph.json")   // File → Graph
//	graph.WriteGraphFile(g, "output.json")      // Graph → File
//	data, _ := graph.MarshalGraph(g)            // Graph → []byte
//
// # Concurrency
//
// A Graph is never mutated after construction, so any number of goroutines
// may query it concurrently.
package graph
