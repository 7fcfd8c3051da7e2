package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/linegraph/pkg/cache"
	"github.com/matzehuels/linegraph/pkg/geom"
	"github.com/matzehuels/linegraph/pkg/graph"
	lgio "github.com/matzehuels/linegraph/pkg/io"
	"github.com/matzehuels/linegraph/pkg/weld"
)

// Build welds segments into a graph using opts.Tolerance.
func Build(segs []geom.Segment, opts Options) (*graph.Graph, *weld.Result, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, nil, err
	}
	return graph.FromSegments(segs, weld.WithTolerance(opts.Tolerance))
}

// SegmentsHash is the content hash of a segment list, used as the build
// cache key.
func SegmentsHash(segs []geom.Segment) (string, error) {
	var buf bytes.Buffer
	if err := lgio.WriteSegments(segs, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// GraphHash is the content hash of a graph document.
func GraphHash(g *graph.Graph) (string, error) {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// weldDoc is the cached form of a build. The graph is rebuilt from the pairs
// so edge order matches a fresh weld.
type weldDoc struct {
	Vertices   []graph.Vertex `json:"vertices"`
	Pairs      [][2]int       `json:"pairs"`
	Degenerate []int          `json:"degenerate,omitempty"`
	Tolerance  float64        `json:"tolerance"`
}

func marshalWeld(res *weld.Result) ([]byte, error) {
	doc := weldDoc{
		Vertices:   make([]graph.Vertex, len(res.Vertices)),
		Pairs:      res.Pairs,
		Degenerate: res.Degenerate,
		Tolerance:  res.Tolerance,
	}
	for i, p := range res.Vertices {
		doc.Vertices[i] = graph.Vertex{X: p.X, Y: p.Y, Z: p.Z}
	}
	return json.Marshal(doc)
}

func unmarshalWeld(data []byte) (*graph.Graph, *weld.Result, error) {
	var doc weldDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("unmarshal weld: %w", err)
	}
	res := &weld.Result{
		Vertices:   make([]geom.Point, len(doc.Vertices)),
		Pairs:      doc.Pairs,
		Degenerate: doc.Degenerate,
		Tolerance:  doc.Tolerance,
	}
	for i, v := range doc.Vertices {
		res.Vertices[i] = v.Point()
	}
	g, err := graph.New(res.Vertices, res.Pairs)
	if err != nil {
		return nil, nil, err
	}
	return g, res, nil
}

// Summarize describes a weld result for inclusion in a report.
func Summarize(res *weld.Result) *WeldSummary {
	return &WeldSummary{
		Segments:   len(res.Pairs),
		Tolerance:  res.Tolerance,
		Degenerate: res.Degenerate,
	}
}
