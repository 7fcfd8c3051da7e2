package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/geom"
	"github.com/matzehuels/linegraph/pkg/graph"
	lgio "github.com/matzehuels/linegraph/pkg/io"
	"github.com/matzehuels/linegraph/pkg/pipeline"
	"github.com/matzehuels/linegraph/pkg/weld"
)

// stdinPath selects standard input as the input file.
const stdinPath = "-"

// input is a loaded input file: either raw segments or an already welded
// graph document.
type input struct {
	path     string
	segments []geom.Segment
	graph    *graph.Graph
}

// readInput loads a segment file (JSON or TOML) or a graph.json written by
// 'weld -o'. Graph documents are recognized by their "vertices" key.
func readInput(path string) (*input, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}

	format := lgio.FormatFromPath(path)
	if format != lgio.FormatTOML && isGraphDocument(data) {
		g, err := graph.UnmarshalGraph(data)
		if err != nil {
			return nil, fmt.Errorf("load graph %s: %w", path, err)
		}
		return &input{path: path, graph: g}, nil
	}

	segs, err := lgio.ParseSegments(data, format)
	if err != nil {
		return nil, fmt.Errorf("load segments %s: %w", path, err)
	}
	return &input{path: path, segments: segs}, nil
}

func readAll(path string) ([]byte, error) {
	if path == stdinPath {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input not found: %s", path)
	}
	return data, err
}

func isGraphDocument(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var probe struct {
		Vertices json.RawMessage `json:"vertices"`
	}
	return json.Unmarshal(trimmed, &probe) == nil && probe.Vertices != nil
}

// loadGraph reads path and welds it through the runner. Graph documents skip
// welding and return a nil weld result.
func (c *CLI) loadGraph(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options) (*graph.Graph, *weld.Result, bool, error) {
	in, err := readInput(path)
	if err != nil {
		return nil, nil, false, err
	}
	if in.graph != nil {
		c.Logger.Debug("loaded graph document", "path", path, "vertices", in.graph.VertexCount())
		return in.graph, nil, false, nil
	}

	prog := newProgress(loggerFromContext(ctx), "weld")
	g, res, hit, err := runner.Build(ctx, in.segments, opts)
	if err != nil {
		return nil, nil, false, err
	}
	prog.done("segments", len(in.segments), "vertices", g.VertexCount(), "edges", g.EdgeCount(), "cached", hit)
	return g, res, hit, nil
}

// displayName is the input name shown in output headings.
func displayName(path string) string {
	if path == stdinPath {
		return "stdin"
	}
	return filepath.Base(path)
}
