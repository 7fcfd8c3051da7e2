package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/geom"
	"github.com/matzehuels/linegraph/pkg/graph/graphtest"
	"github.com/matzehuels/linegraph/pkg/graph/traverse"
	"github.com/matzehuels/linegraph/pkg/observability"
)

// memCache is an in-memory Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"dot", "svg", "png", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	err := ValidateFormats([]string{"svg", "pdf"})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("pdf should be INVALID_FORMAT, got %v", err)
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAnalyses(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"path", false},
		{"mst", false},
		{"closeness", false},
		{"betweenness", false},
		{"bipartite", false},
		{"pagerank", true},
		{"MST", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateAnalyses([]string{tt.name})
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAnalyses(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidateHighlight(t *testing.T) {
	for _, h := range []string{"", "none", "path", "mst", "bipartite", "closeness", "betweenness"} {
		if err := ValidateHighlight(h); err != nil {
			t.Errorf("ValidateHighlight(%q) = %v", h, err)
		}
	}
	if err := ValidateHighlight("glow"); err == nil {
		t.Error("unknown highlight should fail")
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should validate: %v", err)
	}
	if opts.Tolerance != DefaultTolerance {
		t.Errorf("Tolerance = %v, want %v", opts.Tolerance, DefaultTolerance)
	}
	if len(opts.Analyses) != len(DefaultAnalyses) {
		t.Errorf("Analyses = %v, want %v", opts.Analyses, DefaultAnalyses)
	}
	if opts.Highlight != HighlightNone {
		t.Errorf("Highlight = %q, want none", opts.Highlight)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	opts.Analyses = append(opts.Analyses, "bogus")
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Error("ValidateAndSetDefaults should be idempotent")
	}
}

func TestValidateAndSetDefaultsAddsHighlight(t *testing.T) {
	opts := Options{Analyses: []string{"mst"}, Highlight: "path"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if !opts.Wants(AnalysisPath) {
		t.Errorf("highlighted analysis should be added: %v", opts.Analyses)
	}
}

func TestValidateAndSetDefaultsRejects(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative tolerance", Options{Tolerance: -1}, errors.ErrCodeInvalidTolerance},
		{"bad analysis", Options{Analyses: []string{"flow"}}, errors.ErrCodeInvalidAnalysis},
		{"bad format", Options{Formats: []string{"pdf"}}, errors.ErrCodeInvalidFormat},
		{"bad highlight", Options{Highlight: "glow"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestAnalysisKeyOptsIgnoresEndpointsWithoutPath(t *testing.T) {
	a := Options{Analyses: []string{"mst"}, Start: 1, End: 2}
	b := Options{Analyses: []string{"mst"}, Start: 3, End: 0}
	if a.AnalysisKeyOpts().Start != b.AnalysisKeyOpts().Start {
		t.Error("endpoints should not affect the key when path is not requested")
	}
	c := Options{Analyses: []string{"path"}, Start: 1, End: 2}
	if k := c.AnalysisKeyOpts(); k.Start != 1 || k.End != 2 {
		t.Errorf("path key opts = %+v", k)
	}
}

func TestAnalyzeSquare(t *testing.T) {
	g := graphtest.Square(t)
	report, err := Analyze(context.Background(), g, Options{
		Analyses: []string{"path", "mst", "closeness", "betweenness", "bipartite"},
		Start:    0,
		End:      2,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.ID == "" || report.GraphHash == "" {
		t.Error("report should carry an ID and graph hash")
	}
	if report.Vertices != 4 || report.Edges != 4 {
		t.Errorf("counts = %d/%d, want 4/4", report.Vertices, report.Edges)
	}
	if got := report.Path.Vertices; len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("path = %v", got)
	}
	if !report.Path.Reachable || report.Path.Hops != 2 {
		t.Errorf("path report = %+v", report.Path)
	}
	if report.MST == nil || len(report.MST.Edges) != 3 || !report.MST.Spanning {
		t.Errorf("mst = %+v", report.MST)
	}
	if report.Closeness == nil || report.Betweenness == nil {
		t.Fatal("centrality scores missing")
	}
	if report.Bipartite == nil || !report.Bipartite.Bipartite {
		t.Errorf("square should be bipartite: %+v", report.Bipartite)
	}
}

func TestAnalyzeOnlyRequested(t *testing.T) {
	report, err := Analyze(context.Background(), graphtest.Square(t), Options{Analyses: []string{"mst", "mst"}})
	if err != nil {
		t.Fatal(err)
	}
	if report.MST == nil {
		t.Error("mst missing")
	}
	if report.Path != nil || report.Closeness != nil || report.Betweenness != nil || report.Bipartite != nil {
		t.Error("unrequested analyses should be nil")
	}
}

func TestAnalyzeUnreachablePath(t *testing.T) {
	g := graphtest.TwoTriangles(t)
	report, err := Analyze(context.Background(), g, Options{Analyses: []string{"path"}, Start: 0, End: 4})
	if err != nil {
		t.Fatal(err)
	}
	if report.Path.Reachable || len(report.Path.Vertices) != 0 || report.Path.Vertices == nil {
		t.Errorf("unreachable path should be empty and non-nil: %+v", report.Path)
	}
}

func TestAnalyzeInvalidIndex(t *testing.T) {
	_, err := Analyze(context.Background(), graphtest.Square(t), Options{
		Analyses: []string{"path", "mst"},
		Start:    0,
		End:      9,
	})
	if !errors.Is(err, errors.ErrCodeInvalidIndex) {
		t.Errorf("want INVALID_INDEX, got %v", err)
	}
	if !stderrors.Is(err, traverse.ErrInvalidIndex) {
		t.Errorf("want traverse.ErrInvalidIndex in chain, got %v", err)
	}
}

func TestRunnerCachesStages(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Analyses: []string{"mst"}, Formats: []string{"dot", "json"}, Highlight: "mst"}

	first, err := r.Execute(ctx, graphtest.SquareSegments(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.BuildHit || first.CacheInfo.AnalysisHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if first.Report.Weld == nil || first.Report.Weld.Segments != 4 {
		t.Errorf("weld summary = %+v", first.Report.Weld)
	}

	second, err := r.Execute(ctx, graphtest.SquareSegments(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.BuildHit || !second.CacheInfo.AnalysisHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if second.Report.ID != first.Report.ID {
		t.Error("cached report should keep its ID")
	}
	if second.Graph.EdgeCount() != first.Graph.EdgeCount() {
		t.Error("cached graph differs")
	}
	if string(second.Artifacts["dot"]) != string(first.Artifacts["dot"]) {
		t.Error("cached artifact differs")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, graphtest.SquareSegments(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.BuildHit || third.CacheInfo.AnalysisHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass the cache: %+v", third.CacheInfo)
	}
}

func TestRunnerBuildTolerance(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	segs := []geom.Segment{
		geom.Seg(geom.P(0, 0, 0), geom.P(1, 0, 0)),
		geom.Seg(geom.P(1.05, 0, 0), geom.P(2, 0, 0)),
	}

	g, _, _, err := r.Build(ctx, segs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if g.VertexCount() != 4 {
		t.Errorf("default tolerance: %d vertices, want 4", g.VertexCount())
	}

	g, _, _, err = r.Build(ctx, segs, Options{Tolerance: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if g.VertexCount() != 3 {
		t.Errorf("tolerance 0.1: %d vertices, want 3", g.VertexCount())
	}
}

func TestRenderJSONAndDOT(t *testing.T) {
	ctx := context.Background()
	g := graphtest.Square(t)
	report, err := Analyze(ctx, g, Options{Analyses: []string{"bipartite"}})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(ctx, g, report, Options{Formats: []string{"json", "dot"}, Highlight: "bipartite"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(artifacts["json"], &decoded); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if decoded.ID != report.ID {
		t.Error("json artifact should be the report")
	}
	if !strings.Contains(string(artifacts["dot"]), "fillcolor") {
		t.Error("bipartite overlay should color vertices")
	}
}

func TestOverlayMissingAnalysis(t *testing.T) {
	_, err := Overlay(&Report{}, "mst")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("want INVALID_INPUT, got %v", err)
	}
	if o, err := Overlay(nil, "none"); err != nil || o.Path != nil {
		t.Errorf("none overlay = %+v, %v", o, err)
	}
}

func TestHooksFire(t *testing.T) {
	rec := &recordingHooks{stages: map[string]int{}}
	defer observability.Install(observability.Hooks{Pipeline: rec})()

	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), graphtest.SquareSegments(),
		Options{Analyses: []string{"mst", "bipartite"}, Formats: []string{"dot"}})
	if err != nil {
		t.Fatal(err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	want := map[string]int{"weld": 1, "mst": 1, "bipartite": 1, "render": 1}
	for stage, n := range want {
		if rec.stages[stage] != n {
			t.Errorf("stage %s ran %d times, want %d", stage, rec.stages[stage], n)
		}
	}
	if len(rec.welds) != 1 || rec.welds[0].Vertices != 4 || rec.welds[0].Edges != 4 {
		t.Errorf("welds = %+v, want one 4-vertex 4-edge weld", rec.welds)
	}
}

type recordingHooks struct {
	mu     sync.Mutex
	stages map[string]int
	welds  []observability.WeldStats
}

func (h *recordingHooks) OnWeld(_ context.Context, stats observability.WeldStats) {
	h.mu.Lock()
	h.welds = append(h.welds, stats)
	h.mu.Unlock()
}

func (h *recordingHooks) OnStage(_ context.Context, stage string, _ time.Duration, _ error) {
	h.mu.Lock()
	h.stages[stage]++
	h.mu.Unlock()
}
