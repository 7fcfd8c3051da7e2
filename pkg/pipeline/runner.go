package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linegraph/pkg/cache"
	"github.com/matzehuels/linegraph/pkg/geom"
	"github.com/matzehuels/linegraph/pkg/graph"
	"github.com/matzehuels/linegraph/pkg/observability"
	"github.com/matzehuels/linegraph/pkg/weld"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeGraph    = "graph"
	keyTypeAnalysis = "analysis"
	keyTypeArtifact = "artifact"
)

// Runner runs the weld, analysis and render stages through a cache. The CLI
// and the API server share it, so both see the same keys and hit rules.
//
// A Runner holds no per-run state and may be used from many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a Runner. Nil arguments fall back to a NullCache, the
// default keyer and the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	r := &Runner{Cache: c, Keyer: keyer, Logger: logger}
	if r.Cache == nil {
		r.Cache = cache.NewNullCache()
	}
	if r.Keyer == nil {
		r.Keyer = cache.NewDefaultKeyer()
	}
	if r.Logger == nil {
		r.Logger = log.Default()
	}
	return r
}

// Execute welds segs, analyzes the graph and renders every requested format.
func (r *Runner) Execute(ctx context.Context, segs []geom.Segment, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	out := &Result{}

	t := time.Now()
	g, res, hit, err := r.Build(ctx, segs, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	out.Graph, out.Weld, out.CacheInfo.BuildHit = g, res, hit
	out.Stats.BuildTime = time.Since(t)
	out.Stats.VertexCount, out.Stats.EdgeCount = g.VertexCount(), g.EdgeCount()
	r.Logger.Info("welded segments", "segments", len(segs), "vertices", g.VertexCount(),
		"edges", g.EdgeCount(), "degenerate", len(res.Degenerate), "cached", hit, "duration", out.Stats.BuildTime)

	t = time.Now()
	report, hit, err := r.Analyze(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	report.Weld = Summarize(res)
	out.Report, out.CacheInfo.AnalysisHit = report, hit
	out.Stats.AnalysisTime = time.Since(t)
	r.Logger.Info("analyzed graph", "analyses", opts.Analyses, "cached", hit, "duration", out.Stats.AnalysisTime)

	t = time.Now()
	artifacts, hit, err := r.Render(ctx, g, report, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out.Artifacts, out.CacheInfo.RenderHit = artifacts, hit
	out.Stats.RenderTime = time.Since(t)
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "highlight", opts.Highlight,
		"cached", hit, "duration", out.Stats.RenderTime)

	return out, nil
}

// Build welds segments with caching and returns cache hit info.
func (r *Runner) Build(ctx context.Context, segs []geom.Segment, opts Options) (g *graph.Graph, res *weld.Result, hit bool, err error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, nil, false, err
	}

	hooks := observability.Pipeline()
	start := time.Now()
	defer func() { hooks.OnStage(ctx, observability.StageWeld, time.Since(start), err) }()

	segHash, err := SegmentsHash(segs)
	if err != nil {
		return nil, nil, false, err
	}
	cacheKey := r.Keyer.GraphKey(segHash, opts.Tolerance)

	if !opts.Refresh {
		if data, ok := r.get(ctx, keyTypeGraph, cacheKey); ok {
			if g, res, err := unmarshalWeld(data); err == nil {
				return g, res, true, nil
			}
		}
	}

	g, res, err = Build(segs, opts)
	if err != nil {
		return nil, nil, false, err
	}
	hooks.OnWeld(ctx, observability.WeldStats{
		Segments:   len(segs),
		Vertices:   g.VertexCount(),
		Edges:      g.EdgeCount(),
		Degenerate: len(res.Degenerate),
	})

	if data, err := marshalWeld(res); err == nil {
		r.set(ctx, keyTypeGraph, cacheKey, data, cache.TTLGraph)
	}
	return g, res, false, nil
}

// Analyze runs the requested analyses with caching and returns cache hit
// info. Cached reports keep the ID they were computed with.
func (r *Runner) Analyze(ctx context.Context, g *graph.Graph, opts Options) (*Report, bool, error) {
	if err := opts.ValidateForAnalysis(); err != nil {
		return nil, false, err
	}

	graphHash, err := GraphHash(g)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.AnalysisKey(graphHash, opts.AnalysisKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, keyTypeAnalysis, cacheKey); ok {
			var cached Report
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, true, nil
			}
		}
	}

	report, err := Analyze(ctx, g, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(report); err == nil {
		r.set(ctx, keyTypeAnalysis, cacheKey, data, cache.TTLAnalysis)
	}
	return report, false, nil
}

// Render generates artifacts with caching and returns cache hit info. The
// hit flag is true only when every requested format came from the cache.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, report *Report, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	defer func() { observability.Pipeline().OnStage(ctx, observability.StageRender, time.Since(start), err) }()

	reportData, err := json.Marshal(report)
	if err != nil {
		return nil, false, fmt.Errorf("serialize report for cache key: %w", err)
	}
	reportHash := cache.Hash(reportData)
	graphHash, err := GraphHash(g)
	if err != nil {
		return nil, false, err
	}

	artifacts = make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format, reportHash))
			data, ok := r.get(ctx, keyTypeArtifact, key)
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, g, report, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format, reportHash))
		r.set(ctx, keyTypeArtifact, key, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Close closes the underlying cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// get reads a cache entry and reports the outcome to the cache hooks. Cache
// errors are logged and treated as misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
