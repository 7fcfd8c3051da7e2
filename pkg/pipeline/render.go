package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/graph"
	lgio "github.com/matzehuels/linegraph/pkg/io"
	"github.com/matzehuels/linegraph/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats. The JSON format
// is the report itself; the others draw g with the opts.Highlight overlay
// taken from report.
func Render(ctx context.Context, g *graph.Graph, report *Report, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	overlay, err := Overlay(report, opts.Highlight)
	if err != nil {
		return nil, err
	}

	var dot string
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if format != FormatJSON && dot == "" {
			dot = nodelink.ToDOT(g, overlay)
		}

		var data []byte
		var err error
		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot)
		case FormatJSON:
			var buf bytes.Buffer
			err = lgio.WriteJSON(report, &buf)
			data = buf.Bytes()
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// Overlay converts the highlighted analysis of a report into drawing
// options. The analysis must be present in the report.
func Overlay(report *Report, highlight string) (nodelink.Options, error) {
	var o nodelink.Options
	if highlight == "" || highlight == HighlightNone {
		return o, nil
	}
	if report == nil {
		return o, missingAnalysis(highlight)
	}

	switch highlight {
	case AnalysisPath:
		if report.Path == nil {
			return o, missingAnalysis(highlight)
		}
		o.Path = report.Path.Vertices
	case AnalysisMST:
		if report.MST == nil {
			return o, missingAnalysis(highlight)
		}
		o.Edges = report.MST.Edges
	case AnalysisBipartite:
		if report.Bipartite == nil {
			return o, missingAnalysis(highlight)
		}
		o.Colors = report.Bipartite.Colors
		o.Conflict = report.Bipartite.Conflict
	case AnalysisCloseness:
		if report.Closeness == nil {
			return o, missingAnalysis(highlight)
		}
		o.Shading = report.Closeness.Normalized
	case AnalysisBetweenness:
		if report.Betweenness == nil {
			return o, missingAnalysis(highlight)
		}
		o.Shading = report.Betweenness.Normalized
	default:
		return o, ValidateHighlight(highlight)
	}
	return o, nil
}

func missingAnalysis(name string) error {
	return errors.New(errors.ErrCodeInvalidInput, "highlight %q requires the %s analysis", name, name)
}
