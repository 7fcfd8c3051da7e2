package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/linegraph/pkg/buildinfo"
	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/geom"
	"github.com/matzehuels/linegraph/pkg/graph"
	"github.com/matzehuels/linegraph/pkg/httputil"
	lgio "github.com/matzehuels/linegraph/pkg/io"
	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// contentTypes maps render formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatJSON: "application/json",
}

// request is the envelope shared by all pipeline endpoints. Segments are
// decoded separately by lgio.ParseSegments from the same body.
type request struct {
	Options pipeline.Options `json:"options"`
}

// WeldResponse is the body of POST /v1/weld.
type WeldResponse struct {
	Graph  graph.Document        `json:"graph"`
	Weld   *pipeline.WeldSummary `json:"weld"`
	Cached bool                  `json:"cached"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// AnalyzeResponse is the body of POST /v1/analyze.
type AnalyzeResponse struct {
	Report *pipeline.Report `json:"report"`
	Cached bool             `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleWeld(w http.ResponseWriter, r *http.Request) {
	segs, opts, err := s.decode(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	g, res, hit, err := s.runner.Build(r.Context(), segs, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, WeldResponse{
		Graph:  graph.ToDocument(g),
		Weld:   pipeline.Summarize(res),
		Cached: hit,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	segs, opts, err := s.decode(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx := r.Context()
	g, res, _, err := s.runner.Build(ctx, segs, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	report, hit, err := s.runner.Analyze(ctx, g, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	report.Weld = pipeline.Summarize(res)
	httputil.WriteJSON(w, http.StatusOK, AnalyzeResponse{Report: report, Cached: hit})
}

// handleRender renders exactly one format, svg by default. The highlighted
// analysis, if any, is computed on the fly.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	segs, opts, err := s.decode(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	switch len(opts.Formats) {
	case 0:
		opts.Formats = []string{pipeline.FormatSVG}
	case 1:
	default:
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "render accepts exactly one format, got %d", len(opts.Formats)))
		return
	}
	if h := opts.Highlight; h != "" && h != pipeline.HighlightNone && len(opts.Analyses) == 0 {
		opts.Analyses = []string{h}
	}

	result, err := s.runner.Execute(r.Context(), segs, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format := opts.Formats[0]
	data := result.Artifacts[format]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decode reads the request body into segments and options.
func (s *Server) decode(r *http.Request) ([]geom.Segment, pipeline.Options, error) {
	var req request
	body, err := httputil.ReadBody(r)
	if err != nil {
		return nil, req.Options, err
	}
	if err := httputil.DecodeJSON(body, &req); err != nil {
		return nil, req.Options, err
	}
	if !hasSegments(body) {
		return nil, req.Options, errors.New(errors.ErrCodeInvalidInput, "request has no segments field")
	}
	segs, err := lgio.ParseSegments(body, lgio.FormatJSON)
	if err != nil {
		return nil, req.Options, err
	}

	opts := req.Options
	opts.Logger = s.logger
	return segs, opts, nil
}

func hasSegments(body []byte) bool {
	var probe struct {
		Segments json.RawMessage `json:"segments"`
	}
	return json.Unmarshal(body, &probe) == nil && probe.Segments != nil
}

// fail writes err and logs server-side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, r, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"error", err,
			"request_id", httputil.RequestID(r.Context()))
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
