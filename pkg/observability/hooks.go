// Package observability lets the pipeline, cache and API server report what
// they do without importing a metrics backend.
//
// Every hook defaults to a no-op. A process installs real hooks once at
// startup; the CLI installs the Prometheus set from [prom] when the API
// server starts:
//
//	m := prom.New(prometheus.DefaultRegisterer)
//	defer observability.Install(m.Hooks())()
//
// Emitters fetch the current hooks at the call site:
//
//	observability.Pipeline().OnWeld(ctx, observability.WeldStats{Segments: 12, Vertices: 8})
package observability

import (
	"context"
	"sync"
	"time"
)

// Stage names reported by the pipeline besides the analysis kinds.
const (
	StageWeld   = "weld"
	StageRender = "render"
)

// WeldStats describes one completed weld.
type WeldStats struct {
	Segments   int
	Vertices   int
	Edges      int
	Degenerate int
}

// PipelineHooks receives pipeline events. OnStage fires once per stage run
// ("weld", an analysis kind, or "render"), including failed runs. OnWeld
// fires only for welds that were computed, not served from cache.
type PipelineHooks interface {
	OnWeld(ctx context.Context, stats WeldStats)
	OnStage(ctx context.Context, stage string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes by key type
// ("graph", "analysis", "artifact").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives API server traffic. route is the matched route
// pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnWeld(context.Context, WeldStats)                     {}
func (NoopPipelineHooks) OnStage(context.Context, string, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// Hooks is a set of hooks to install together. Nil fields leave the
// installed hook of that kind unchanged.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Hooks {
	return Hooks{Pipeline: NoopPipelineHooks{}, Cache: NoopCacheHooks{}, HTTP: NoopHTTPHooks{}}
}

// Install registers h and returns a function that restores the hooks that
// were installed before.
func Install(h Hooks) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := current
	if h.Pipeline != nil {
		current.Pipeline = h.Pipeline
	}
	if h.Cache != nil {
		current.Cache = h.Cache
	}
	if h.HTTP != nil {
		current.HTTP = h.HTTP
	}
	return func() {
		mu.Lock()
		current = prev
		mu.Unlock()
	}
}

// Reset restores the no-op defaults.
func Reset() {
	mu.Lock()
	current = defaults()
	mu.Unlock()
}

func Pipeline() PipelineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return current.Pipeline
}

func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return current.Cache
}

func HTTP() HTTPHooks {
	mu.RLock()
	defer mu.RUnlock()
	return current.HTTP
}
