// Package render groups the visual outputs of linegraph.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders a graph as a planar drawing with
// vertices at their welded coordinates, using Graphviz. Analysis results
// (shortest path, spanning tree, bipartition, centrality) are drawn as
// overlays:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Edges: forest.Edges})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// DOT output can also be saved and processed with external Graphviz tools.
package render
