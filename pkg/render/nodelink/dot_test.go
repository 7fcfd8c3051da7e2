package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/linegraph/pkg/graph"
	"github.com/matzehuels/linegraph/pkg/graph/graphtest"
)

func TestToDOTPlain(t *testing.T) {
	dot := ToDOT(graphtest.Square(t), Options{})

	assert.True(t, strings.HasPrefix(dot, "graph G {\n"))
	assert.Contains(t, dot, `0 [label="0", pos="0,0!"];`)
	assert.Contains(t, dot, `2 [label="2", pos="1,1!"];`)
	assert.Contains(t, dot, "  0 -- 1;\n")
	assert.Contains(t, dot, "  0 -- 3;\n")
	assert.NotContains(t, dot, "->")
	assert.Equal(t, 4, strings.Count(dot, " -- "))
}

func TestToDOTScale(t *testing.T) {
	dot := ToDOT(graphtest.Line(t, 2, 0.5), Options{Scale: 4})
	assert.Contains(t, dot, `pos="2,0!"`)
}

func TestToDOTPathHighlight(t *testing.T) {
	dot := ToDOT(graphtest.Square(t), Options{Path: []int{2, 1, 0}})

	assert.Contains(t, dot, `0 -- 1 [color="#0891b2", penwidth=3];`)
	assert.Contains(t, dot, `1 -- 2 [color="#0891b2", penwidth=3];`)
	assert.Contains(t, dot, "  2 -- 3;\n")
	assert.Contains(t, dot, `1 [label="1", pos="1,0!", color="#0891b2", penwidth=2.5];`)
}

func TestToDOTTreeEdges(t *testing.T) {
	dot := ToDOT(graphtest.Square(t), Options{Edges: []graph.Edge{{U: 3, V: 0}}})
	assert.Contains(t, dot, `0 -- 3 [color="#0891b2", penwidth=3];`)
}

func TestToDOTBipartition(t *testing.T) {
	g := graphtest.Ring(t, 3)
	dot := ToDOT(g, Options{
		Colors:   []int{0, 1, 1},
		Conflict: &graph.Edge{U: 2, V: 1},
	})
	assert.Contains(t, dot, `fillcolor="#fde68a"`)
	assert.Equal(t, 2, strings.Count(dot, `fillcolor="#bfdbfe"`))
	assert.Contains(t, dot, `1 -- 2 [color="#dc2626", penwidth=3, style=dashed];`)
}

func TestToDOTShading(t *testing.T) {
	dot := ToDOT(graphtest.Line(t, 3), Options{Shading: []float64{0, 0.5, 1}})
	assert.Contains(t, dot, `fillcolor="#ffffff"`)
	assert.Contains(t, dot, `fillcolor="#0891b2"`)
}

func TestShade(t *testing.T) {
	assert.Equal(t, "#ffffff", shade(0))
	assert.Equal(t, "#0891b2", shade(1))
	assert.Equal(t, "#0891b2", shade(7))
	assert.Equal(t, "#ffffff", shade(-1))
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(graphtest.Square(t), Options{}))
	require.NoError(t, err)
	assert.True(t, bytes.Contains(svg, []byte("<svg")))
}

func TestRenderInvalidDOT(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	_, err := RenderSVG(context.Background(), "graph {")
	assert.Error(t, err)
}
