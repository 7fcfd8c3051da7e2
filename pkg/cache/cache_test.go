package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return a nil miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "graph:abc"); hit {
		t.Fatal("empty cache should miss")
	}

	if err := c.Set(ctx, "graph:abc", []byte(`{"vertices":[]}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "graph:abc")
	if err != nil || !hit {
		t.Fatalf("Get after Set: hit=%v err=%v", hit, err)
	}
	if string(data) != `{"vertices":[]}` {
		t.Errorf("Get returned %q", data)
	}

	if err := c.Delete(ctx, "graph:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "graph:abc"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "graph:abc"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry file should be removed")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	data, hit, err := c.Get(ctx, "bad")
	if err != nil || hit || data != nil {
		t.Errorf("corrupt entry should be a clean miss: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %s, want %s", c.Dir(), dir)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir should be empty, has %d entries", len(entries))
	}

	missing := &FileCache{dir: filepath.Join(dir, "missing")}
	if n, err := missing.Clear(); err != nil || n != 0 {
		t.Errorf("Clear on missing dir = %d, %v", n, err)
	}
}

func TestKeyKind(t *testing.T) {
	k := NewDefaultKeyer()
	tests := []struct {
		key  string
		want string
	}{
		{k.GraphKey("seg", 1e-3), "graph"},
		{k.AnalysisKey("g", AnalysisKeyOpts{}), "analysis"},
		{NewScopedKeyer(nil, "api:").ArtifactKey("g", ArtifactKeyOpts{Format: "svg"}), "artifact"},
		{"plain", ""},
	}
	for _, tt := range tests {
		if got := KeyKind(tt.key); got != tt.want {
			t.Errorf("KeyKind(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFileCacheStatsAndPrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	k := NewDefaultKeyer()

	graphKey := k.GraphKey("seg", 1e-3)
	reportKey := k.AnalysisKey("g", AnalysisKeyOpts{Analyses: []string{"mst"}})
	staleKey := k.ArtifactKey("g", ArtifactKeyOpts{Format: "svg"})
	for key, ttl := range map[string]time.Duration{graphKey: time.Hour, reportKey: 0, staleKey: time.Nanosecond} {
		if err := c.Set(ctx, key, []byte(key), ttl); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(time.Millisecond)

	stats, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats["graph"].Entries != 1 || stats["analysis"].Entries != 1 || stats["artifact"].Expired != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats["graph"].Bytes == 0 {
		t.Error("Stats() should report entry sizes")
	}

	n, err := c.Prune()
	if err != nil || n != 1 {
		t.Fatalf("Prune() = %d, %v, want 1 removed", n, err)
	}
	if _, hit, _ := c.Get(ctx, graphKey); !hit {
		t.Error("Prune removed a live entry")
	}
	if stats, _ := c.Stats(); stats["artifact"].Entries != 0 {
		t.Errorf("expired artifact survived Prune: %+v", stats)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	gk1 := k.GraphKey("seg123", 1e-3)
	gk2 := k.GraphKey("seg123", 1e-2)
	if gk1 == gk2 {
		t.Error("Different tolerances should produce different keys")
	}
	if !strings.HasPrefix(gk1, "graph:") {
		t.Errorf("GraphKey should be prefixed: %s", gk1)
	}

	ak1 := k.AnalysisKey("g1", AnalysisKeyOpts{Analyses: []string{"mst", "path"}, Start: 0, End: 2})
	ak2 := k.AnalysisKey("g1", AnalysisKeyOpts{Analyses: []string{"path", "mst"}, Start: 0, End: 2})
	if ak1 != ak2 {
		t.Error("Analysis order should not change the key")
	}
	ak3 := k.AnalysisKey("g1", AnalysisKeyOpts{Analyses: []string{"mst", "path"}, Start: 0, End: 3})
	if ak1 == ak3 {
		t.Error("Different path endpoints should produce different keys")
	}
	ak4 := k.AnalysisKey("g1", AnalysisKeyOpts{Analyses: []string{"closeness"}, Weighted: true})
	ak5 := k.AnalysisKey("g1", AnalysisKeyOpts{Analyses: []string{"closeness"}})
	if ak4 == ak5 {
		t.Error("Weighted flag should change the key")
	}

	opts := AnalysisKeyOpts{Analyses: []string{"path", "mst"}}
	k.AnalysisKey("g1", opts)
	if opts.Analyses[0] != "path" {
		t.Error("AnalysisKey must not reorder the caller's slice")
	}

	art1 := k.ArtifactKey("g1", ArtifactKeyOpts{Format: "svg", Highlight: "mst"})
	art2 := k.ArtifactKey("g1", ArtifactKeyOpts{Format: "png", Highlight: "mst"})
	if art1 == art2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "api:")

	if got, want := scoped.GraphKey("s", 1e-3), "api:"+inner.GraphKey("s", 1e-3); got != want {
		t.Errorf("GraphKey = %s, want %s", got, want)
	}
	if got := scoped.AnalysisKey("g", AnalysisKeyOpts{}); !strings.HasPrefix(got, "api:analysis:") {
		t.Errorf("AnalysisKey should be prefixed: %s", got)
	}
	if got := scoped.ArtifactKey("g", ArtifactKeyOpts{}); !strings.HasPrefix(got, "api:artifact:") {
		t.Errorf("ArtifactKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.GraphKey("s", 1); !strings.HasPrefix(key, "prefix:graph:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

var fastBackoff = Backoff{Attempts: 3, Base: time.Millisecond, Max: 2 * time.Millisecond}

func TestBackoffRetry(t *testing.T) {
	ctx := context.Background()
	errReply := errors.New("WRONGTYPE")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"not retried", 5, errReply, 1, errReply},
		{"recovers", 1, ErrNetwork, 2, nil},
		{"exhausted", 5, ErrNetwork, 3, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fastBackoff.Retry(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return fmt.Errorf("attempt %d: %w", calls, tt.err)
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := DefaultBackoff.Retry(ctx, func() error { calls++; return ErrNetwork })
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Errorf("err = %v after %d calls, want context.Canceled after 1", err, calls)
	}
}

func TestBackoffZeroAttempts(t *testing.T) {
	calls := 0
	_ = Backoff{}.Retry(context.Background(), func() error { calls++; return ErrNetwork })
	if calls != 1 {
		t.Errorf("zero-value Backoff made %d calls, want 1", calls)
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("nil should stay nil")
	}
	if err := classify(redis.Nil); err != redis.Nil {
		t.Errorf("redis.Nil should pass through, got %v", err)
	}
	if err := classify(context.Canceled); errors.Is(err, ErrNetwork) {
		t.Error("cancellation should not be retried")
	}
	if err := classify(errors.New("dial tcp: connection refused")); !errors.Is(err, ErrNetwork) {
		t.Errorf("transport error should wrap ErrNetwork, got %v", err)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url"); err == nil {
		t.Error("expected error for malformed url")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheFromClient(client)
	c.backoff = fastBackoff
	defer c.Close()

	_, hit, err := c.Get(context.Background(), "k")
	if hit || !errors.Is(err, ErrNetwork) {
		t.Errorf("unreachable server: hit=%v err=%v", hit, err)
	}
}
