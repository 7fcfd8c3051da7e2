// Package pkg provides the core libraries for linegraph.
//
// # Overview
//
// Linegraph turns an unordered set of 3D line segments into an undirected
// graph and answers structural questions about it. The pkg directory is
// organized into these areas:
//
//  1. [geom] and [weld] - Points, segments, and tolerance-based vertex welding
//  2. [graph] - The immutable adjacency graph and its algorithms
//     ([graph/traverse], [graph/mst], [graph/centrality], [graph/bipartite])
//  3. [io] and [render] - Segment file formats and node-link drawings
//  4. [pipeline] - Orchestration (build → analyze → render) with caching
//  5. [cache], [observability], [httputil], [errors] - Shared infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Segment file (JSON/TOML)
//	         ↓
//	    [io] package (decode segments)
//	         ↓
//	    [weld] package (merge near-coincident endpoints)
//	         ↓
//	    [graph] package (immutable adjacency lists)
//	         ↓
//	    analyses (path, spanning forest, centrality, bipartite)
//	         ↓
//	    DOT/SVG/PNG/JSON output
//
// # Quick Start
//
//	segs, err := io.ReadSegmentsFile("frame.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g, _, err := graph.FromSegments(segs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	path, err := traverse.ShortestPath(g, 0, 5)
//	forest := mst.Kruskal(g)
//	scores := centrality.Betweenness(g)
//	parts := bipartite.Check(g)
//
// For the full cached pipeline shared by the CLI and the HTTP API, use
// [pipeline.Runner].
package pkg
