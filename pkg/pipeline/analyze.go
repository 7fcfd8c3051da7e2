package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/linegraph/pkg/graph"
	"github.com/matzehuels/linegraph/pkg/graph/bipartite"
	"github.com/matzehuels/linegraph/pkg/graph/centrality"
	"github.com/matzehuels/linegraph/pkg/graph/mst"
	"github.com/matzehuels/linegraph/pkg/graph/traverse"
	"github.com/matzehuels/linegraph/pkg/observability"
)

// Analyze runs the requested analyses over g and collects them in a Report.
//
// The graph is immutable, so every analysis runs in its own goroutine and
// writes only its own Report field. The first failing analysis cancels the
// ones not yet started and its error is returned.
func Analyze(ctx context.Context, g *graph.Graph, opts Options) (*Report, error) {
	if err := opts.ValidateForAnalysis(); err != nil {
		return nil, err
	}
	hash, err := GraphHash(g)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:        uuid.NewString(),
		GraphHash: hash,
		Vertices:  g.VertexCount(),
		Edges:     g.EdgeCount(),
	}

	eg, egctx := errgroup.WithContext(ctx)
	for _, kind := range unique(opts.Analyses) {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			return runAnalysis(egctx, g, kind, opts, report)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func runAnalysis(ctx context.Context, g *graph.Graph, kind string, opts Options, report *Report) (err error) {
	start := time.Now()
	defer func() { observability.Pipeline().OnStage(ctx, kind, time.Since(start), err) }()

	switch kind {
	case AnalysisPath:
		report.Path, err = analyzePath(g, opts.Start, opts.End)
	case AnalysisMST:
		report.MST = mst.Kruskal(g)
	case AnalysisCloseness:
		s := centrality.Closeness(g, opts.Weighted)
		report.Closeness = &s
	case AnalysisBetweenness:
		s := centrality.Betweenness(g)
		report.Betweenness = &s
	case AnalysisBipartite:
		report.Bipartite = bipartite.Check(g)
	default:
		err = fmt.Errorf("unknown analysis %q", kind)
	}
	return err
}

func analyzePath(g *graph.Graph, start, end int) (*PathReport, error) {
	p, err := traverse.ShortestPath(g, start, end)
	if err != nil {
		return nil, err
	}
	r := &PathReport{
		Start:     start,
		End:       end,
		Vertices:  []int(p),
		Reachable: !p.Empty(),
	}
	if r.Vertices == nil {
		r.Vertices = []int{}
	}
	if r.Reachable {
		r.Hops = p.Hops()
		r.Length = p.Length(g)
	}
	return r, nil
}

func unique(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
