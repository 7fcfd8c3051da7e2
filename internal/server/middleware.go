package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/linegraph/pkg/httputil"
	"github.com/matzehuels/linegraph/pkg/observability"
)

// requestID always generates a fresh server-side UUID for the canonical
// request ID. A client-provided X-Request-ID is logged as client_request_id
// but never used as the canonical ID.
func requestID(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.New().String()
			if clientID := r.Header.Get(httputil.RequestIDHeader); clientID != "" {
				logger.Debug("client provided request ID mapped to server ID",
					"request_id", id, "client_request_id", clientID)
			}
			w.Header().Set(httputil.RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(httputil.WithRequestID(r.Context(), id)))
		})
	}
}

// logRequests logs each completed request and reports it to the HTTP hooks.
// Hooks are labeled with the route pattern, not the raw path, to keep metric
// cardinality bounded.
func logRequests(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			hooks := observability.HTTP()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
			next.ServeHTTP(ww, r)

			route := "unknown"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			d := time.Since(start)
			hooks.OnResponse(r.Context(), r.Method, route, status, d)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", d.Round(time.Microsecond),
				"request_id", httputil.RequestID(r.Context()))
		})
	}
}

// maxBodySize limits request bodies to maxBytes.
func maxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
