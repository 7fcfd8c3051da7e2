package observability

import (
	"context"
	"testing"
	"time"
)

type countingPipeline struct {
	NoopPipelineHooks
	stages []string
}

func (c *countingPipeline) OnStage(_ context.Context, stage string, _ time.Duration, _ error) {
	c.stages = append(c.stages, stage)
}

type countingCache struct {
	NoopCacheHooks
	hits int
}

func (c *countingCache) OnCacheHit(context.Context, string) { c.hits++ }

func TestDefaultsAreNoops(t *testing.T) {
	Reset()
	ctx := context.Background()

	Pipeline().OnWeld(ctx, WeldStats{Segments: 12, Vertices: 8, Edges: 12})
	Pipeline().OnStage(ctx, StageWeld, time.Millisecond, nil)
	Cache().OnCacheSet(ctx, "artifact", 1024)
	HTTP().OnResponse(ctx, "POST", "/v1/weld", 200, time.Millisecond)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}
}

func TestInstallRestore(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	ctx := context.Background()

	p := &countingPipeline{}
	restoreOuter := Install(Hooks{Pipeline: p})

	c := &countingCache{}
	restoreInner := Install(Hooks{Cache: c})
	if Pipeline() != p {
		t.Fatal("nil Pipeline field replaced the installed hook")
	}

	Pipeline().OnStage(ctx, "mst", time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "graph")
	if len(p.stages) != 1 || p.stages[0] != "mst" || c.hits != 1 {
		t.Errorf("stages=%v hits=%d", p.stages, c.hits)
	}

	restoreInner()
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("after inner restore Cache() = %T", Cache())
	}
	if Pipeline() != p {
		t.Error("inner restore dropped the outer pipeline hook")
	}

	restoreOuter()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("after outer restore Pipeline() = %T", Pipeline())
	}
}
