package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/linegraph/pkg/observability"
)

func TestPipelineMetrics(t *testing.T) {
	ctx := context.Background()
	m := New(prometheus.NewRegistry())

	m.OnWeld(ctx, observability.WeldStats{Segments: 5, Vertices: 4, Edges: 4, Degenerate: 1})
	m.OnStage(ctx, observability.StageWeld, time.Millisecond, nil)
	m.OnStage(ctx, "mst", time.Millisecond, nil)
	m.OnStage(ctx, "path", time.Millisecond, errors.New("bad index"))
	m.OnStage(ctx, observability.StageRender, time.Millisecond, nil)

	if got := testutil.ToFloat64(m.StageErrors.WithLabelValues("path")); got != 1 {
		t.Errorf("path errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.StageErrors.WithLabelValues("mst")); got != 0 {
		t.Errorf("mst errors = %v, want 0", got)
	}
	if got := testutil.CollectAndCount(m.StageDuration); got != 4 {
		t.Errorf("stage series = %d, want 4", got)
	}
	if got := testutil.ToFloat64(m.Degenerate); got != 1 {
		t.Errorf("degenerate = %v, want 1", got)
	}
}

func TestHooksInstall(t *testing.T) {
	m := New(prometheus.NewRegistry())
	restore := observability.Install(m.Hooks())
	defer restore()

	observability.Cache().OnCacheMiss(context.Background(), "graph")
	if got := testutil.ToFloat64(m.CacheMisses.WithLabelValues("graph")); got != 1 {
		t.Errorf("graph misses through installed hooks = %v, want 1", got)
	}
}

func TestCacheMetrics(t *testing.T) {
	ctx := context.Background()
	m := New(prometheus.NewRegistry())

	m.OnCacheHit(ctx, "graph")
	m.OnCacheHit(ctx, "graph")
	m.OnCacheMiss(ctx, "analysis")
	m.OnCacheSet(ctx, "artifact", 512)

	if got := testutil.ToFloat64(m.CacheHits.WithLabelValues("graph")); got != 2 {
		t.Errorf("graph hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CacheMisses.WithLabelValues("analysis")); got != 1 {
		t.Errorf("analysis misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheWritten.WithLabelValues("artifact")); got != 512 {
		t.Errorf("artifact bytes = %v, want 512", got)
	}
}

func TestHTTPMetrics(t *testing.T) {
	ctx := context.Background()
	m := New(prometheus.NewRegistry())

	m.OnRequest(ctx, "POST", "/v1/weld")
	if got := testutil.ToFloat64(m.RequestsInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	m.OnResponse(ctx, "POST", "/v1/weld", 200, time.Millisecond)
	if got := testutil.ToFloat64(m.RequestsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/v1/weld", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestNewPanicsOnDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("second New on the same registry should panic")
		}
	}()
	New(reg)
}
