// Package nodelink renders line graphs as node-link diagrams.
//
// # Overview
//
// Vertices are drawn as small labeled circles pinned at their X/Y
// coordinates and edges as straight lines, so the drawing matches the input
// geometry viewed from above. Analysis results can be overlaid on top.
//
// # Usage
//
// Convert a graph to DOT, then render:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Path: path})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
// The [Options] struct selects overlays:
//
//   - Path: highlighted vertex sequence (shortest path)
//   - Edges: highlighted edge subset (spanning tree)
//   - Colors, Conflict: bipartition classes and the failing edge
//   - Shading: per-vertex fill from normalized centrality scores
//
// Shading takes precedence over Colors when both are set.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering with the neato layout engine. No external binaries are needed.
package nodelink
