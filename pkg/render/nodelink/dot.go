package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/linegraph/pkg/graph"
)

// DefaultScale is the drawing size of one model unit, in inches.
const DefaultScale = 1.0

// Options configures node-link diagram rendering.
type Options struct {
	// Scale multiplies vertex coordinates before placement. Zero means
	// DefaultScale.
	Scale float64

	// Path highlights a vertex sequence and the edges between consecutive
	// vertices.
	Path []int

	// Edges highlights an edge subset, typically a spanning tree.
	Edges []graph.Edge

	// Colors assigns each vertex to a bipartition class (0, 1, or -1 for
	// uncolored).
	Colors []int

	// Conflict marks the edge that broke a bipartition check.
	Conflict *graph.Edge

	// Shading fills each vertex by a normalized score in [0, 1].
	Shading []float64
}

// Palette used in DOT output.
const (
	colorEdge      = "#9ca3af"
	colorHighlight = "#0891b2"
	colorConflict  = "#dc2626"
	colorSetA      = "#fde68a"
	colorSetB      = "#bfdbfe"
)

// ToDOT converts a graph to undirected Graphviz DOT. Vertices are pinned at
// their X/Y coordinates (Z is dropped) so the neato engine preserves the
// geometry. The result can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(g *graph.Graph, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	onPath := make(map[int]bool, len(opts.Path))
	marked := make(map[graph.Edge]bool, len(opts.Edges)+len(opts.Path))
	for i, v := range opts.Path {
		onPath[v] = true
		if i > 0 {
			marked[orient(opts.Path[i-1], v)] = true
		}
	}
	for _, e := range opts.Edges {
		marked[orient(e.U, e.V)] = true
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3, fixedsize=true];\n")
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=1.5];\n", colorEdge)
	buf.WriteString("\n")

	for v := 0; v < g.VertexCount(); v++ {
		p := g.Point(v)
		attrs := fmt.Sprintf("label=\"%d\", pos=\"%s,%s!\"", v, fmtCoord(p.X*scale), fmtCoord(p.Y*scale))
		if fill := vertexFill(v, opts); fill != "" {
			attrs += fmt.Sprintf(", fillcolor=%q", fill)
		}
		if onPath[v] {
			attrs += fmt.Sprintf(", color=%q, penwidth=2.5", colorHighlight)
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", v, attrs)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		switch {
		case opts.Conflict != nil && orient(opts.Conflict.U, opts.Conflict.V) == e:
			fmt.Fprintf(&buf, "  %d -- %d [color=%q, penwidth=3, style=dashed];\n", e.U, e.V, colorConflict)
		case marked[e]:
			fmt.Fprintf(&buf, "  %d -- %d [color=%q, penwidth=3];\n", e.U, e.V, colorHighlight)
		default:
			fmt.Fprintf(&buf, "  %d -- %d;\n", e.U, e.V)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func orient(u, v int) graph.Edge {
	if u > v {
		u, v = v, u
	}
	return graph.Edge{U: u, V: v}
}

func vertexFill(v int, opts Options) string {
	if v < len(opts.Shading) {
		return shade(opts.Shading[v])
	}
	if v < len(opts.Colors) {
		switch opts.Colors[v] {
		case 0:
			return colorSetA
		case 1:
			return colorSetB
		}
	}
	return ""
}

// shade interpolates from white (0) to the highlight color (1).
func shade(t float64) string {
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Max(0, math.Min(1, t))
	lerp := func(to int) int {
		return int(math.Round(255 + (float64(to)-255)*t))
	}
	return fmt.Sprintf("#%02x%02x%02x", lerp(0x08), lerp(0x91), lerp(0xb2))
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using the neato engine, which honors
// the pinned vertex positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG using the neato engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
