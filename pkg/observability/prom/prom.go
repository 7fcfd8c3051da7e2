// Package prom implements the observability hooks with Prometheus metrics.
//
// A single [Metrics] value satisfies PipelineHooks, CacheHooks and
// HTTPHooks, so one installation covers the whole process:
//
//	m := prom.New(prometheus.DefaultRegisterer)
//	defer observability.Install(m.Hooks())()
//	r.Handle("/metrics", prom.Handler())
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/linegraph/pkg/observability"
)

const namespace = "linegraph"

// Metrics holds the collectors fed by the hooks.
type Metrics struct {
	StageDuration *prometheus.HistogramVec
	StageErrors   *prometheus.CounterVec
	GraphVertices prometheus.Histogram
	GraphEdges    prometheus.Histogram
	Degenerate    prometheus.Counter

	CacheHits    *prometheus.CounterVec
	CacheMisses  *prometheus.CounterVec
	CacheWritten *prometheus.CounterVec

	RequestsInFlight prometheus.Gauge
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// It panics if a collector is already registered, like MustRegister.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		StageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Failed pipeline stages",
		}, []string{"stage"}),
		GraphVertices: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_vertices",
			Help:      "Vertex count of welded graphs",
			Buckets:   prometheus.ExponentialBuckets(4, 4, 8),
		}),
		GraphEdges: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Edge count of welded graphs",
			Buckets:   prometheus.ExponentialBuckets(4, 4, 8),
		}),
		Degenerate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degenerate_segments_total",
			Help:      "Segments whose endpoints welded to one vertex",
		}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache hits by key type",
		}, []string{"type"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache misses by key type",
		}, []string{"type"}),
		CacheWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"type"}),
		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.StageDuration, m.StageErrors, m.GraphVertices, m.GraphEdges, m.Degenerate,
		m.CacheHits, m.CacheMisses, m.CacheWritten,
		m.RequestsInFlight, m.RequestsTotal, m.RequestDuration,
	)
	return m
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Hooks returns m as a full hook set for observability.Install.
func (m *Metrics) Hooks() observability.Hooks {
	return observability.Hooks{Pipeline: m, Cache: m, HTTP: m}
}

func (m *Metrics) OnWeld(_ context.Context, s observability.WeldStats) {
	m.GraphVertices.Observe(float64(s.Vertices))
	m.GraphEdges.Observe(float64(s.Edges))
	m.Degenerate.Add(float64(s.Degenerate))
}

func (m *Metrics) OnStage(_ context.Context, stage string, d time.Duration, err error) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.StageErrors.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheHits.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheMisses.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheWritten.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.RequestsInFlight.Dec()
	code := strconv.Itoa(status)
	m.RequestsTotal.WithLabelValues(method, route, code).Inc()
	m.RequestDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
