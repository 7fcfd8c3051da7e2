// Package pipeline provides the build → analyze → render pipeline shared by
// the CLI commands and the HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: weld raw segments into an immutable [graph.Graph]
//  2. Analyze: run the requested analyses (shortest path, spanning forest,
//     centrality, bipartiteness) concurrently over the graph
//  3. Render: produce DOT, SVG, PNG or JSON artifacts with an optional
//     analysis overlay
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage result is cached by content hash.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Analyses:  []string{"mst", "betweenness"},
//	    Formats:   []string{"svg"},
//	    Highlight: "mst",
//	}
//	result, err := runner.Execute(ctx, segments, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linegraph/pkg/cache"
	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/graph"
	"github.com/matzehuels/linegraph/pkg/graph/bipartite"
	"github.com/matzehuels/linegraph/pkg/graph/centrality"
	"github.com/matzehuels/linegraph/pkg/graph/mst"
	"github.com/matzehuels/linegraph/pkg/weld"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultTolerance is the default weld tolerance.
const DefaultTolerance = weld.DefaultTolerance

// Analysis names.
const (
	AnalysisPath        = "path"
	AnalysisMST         = "mst"
	AnalysisCloseness   = "closeness"
	AnalysisBetweenness = "betweenness"
	AnalysisBipartite   = "bipartite"
)

// HighlightNone disables the render overlay.
const HighlightNone = "none"

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// DefaultAnalyses run when Options.Analyses is empty. The path analysis needs
// endpoints and is only run on request.
var DefaultAnalyses = []string{AnalysisMST, AnalysisCloseness, AnalysisBetweenness, AnalysisBipartite}

// DefaultFormats are rendered when Options.Formats is empty.
var DefaultFormats = []string{FormatJSON}

// ValidAnalyses is the set of supported analyses.
var ValidAnalyses = map[string]bool{
	AnalysisPath:        true,
	AnalysisMST:         true,
	AnalysisCloseness:   true,
	AnalysisBetweenness: true,
	AnalysisBipartite:   true,
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ValidHighlights is the set of supported overlays. Every analysis except
// none can be drawn.
var ValidHighlights = map[string]bool{
	HighlightNone:       true,
	AnalysisPath:        true,
	AnalysisMST:         true,
	AnalysisCloseness:   true,
	AnalysisBetweenness: true,
	AnalysisBipartite:   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Tolerance float64 `json:"tolerance,omitempty" toml:"tolerance"`
	Refresh   bool    `json:"refresh,omitempty" toml:"-"`

	// Analysis options
	Analyses []string `json:"analyses,omitempty" toml:"analyses"`
	Start    int      `json:"start" toml:"-"`
	End      int      `json:"end" toml:"-"`
	Weighted bool     `json:"weighted,omitempty" toml:"weighted"`

	// Render options
	Formats   []string `json:"formats,omitempty" toml:"formats"`
	Highlight string   `json:"highlight,omitempty" toml:"highlight"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the welded graph.
	Graph *graph.Graph

	// Weld is the weld stage output (vertex mapping per input segment).
	Weld *weld.Result

	// Report holds the analysis results.
	Report *Report

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	VertexCount  int
	EdgeCount    int
	BuildTime    time.Duration
	AnalysisTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit    bool // Whether the welded graph came from cache
	AnalysisHit bool // Whether the report came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// Report is the serialized outcome of the analysis stage.
type Report struct {
	ID        string       `json:"id"`
	GraphHash string       `json:"graph_hash"`
	Vertices  int          `json:"vertices"`
	Edges     int          `json:"edges"`
	Weld      *WeldSummary `json:"weld,omitempty"`

	Path        *PathReport        `json:"path,omitempty"`
	MST         *mst.Forest        `json:"mst,omitempty"`
	Closeness   *centrality.Scores `json:"closeness,omitempty"`
	Betweenness *centrality.Scores `json:"betweenness,omitempty"`
	Bipartite   *bipartite.Result  `json:"bipartite,omitempty"`
}

// WeldSummary describes the weld stage in a report.
type WeldSummary struct {
	Segments   int     `json:"segments"`
	Tolerance  float64 `json:"tolerance"`
	Degenerate []int   `json:"degenerate,omitempty"`
}

// PathReport is the shortest path between Start and End. Vertices is empty
// when End is unreachable.
type PathReport struct {
	Start     int     `json:"start"`
	End       int     `json:"end"`
	Vertices  []int   `json:"vertices"`
	Hops      int     `json:"hops"`
	Length    float64 `json:"length"`
	Reachable bool    `json:"reachable"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %q (must be one of: dot, svg, png, json)", f)
		}
	}
	return nil
}

// ValidateAnalyses checks that all analysis names are valid.
func ValidateAnalyses(analyses []string) error {
	for _, a := range analyses {
		if !ValidAnalyses[a] {
			return errors.New(errors.ErrCodeInvalidAnalysis,
				"invalid analysis: %q (must be one of: path, mst, closeness, betweenness, bipartite)", a)
		}
	}
	return nil
}

// ValidateHighlight checks that a highlight is valid. Empty means none.
func ValidateHighlight(h string) error {
	if h != "" && !ValidHighlights[h] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid highlight: %q (must be one of: none, path, mst, closeness, betweenness, bipartite)", h)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. A highlighted analysis is added to Analyses when missing.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForAnalysis(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if h := o.Highlight; h != HighlightNone && !slices.Contains(o.Analyses, h) {
		o.Analyses = append(o.Analyses, h)
	}
	o.validated = true
	return nil
}

// ValidateForBuild validates and sets defaults for welding.
func (o *Options) ValidateForBuild() error {
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	o.setLogger()
	return errors.ValidateTolerance(o.Tolerance)
}

// ValidateForAnalysis validates and sets defaults for the analysis stage.
// Path endpoints are checked against the graph when the analysis runs.
func (o *Options) ValidateForAnalysis() error {
	if len(o.Analyses) == 0 {
		o.Analyses = slices.Clone(DefaultAnalyses)
	}
	o.setLogger()
	return ValidateAnalyses(o.Analyses)
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	if o.Highlight == "" {
		o.Highlight = HighlightNone
	}
	o.setLogger()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateHighlight(o.Highlight)
}

// Wants reports whether the named analysis is requested.
func (o *Options) Wants(analysis string) bool {
	return slices.Contains(o.Analyses, analysis)
}

// AnalysisKeyOpts returns cache key options for the analysis stage.
func (o *Options) AnalysisKeyOpts() cache.AnalysisKeyOpts {
	k := cache.AnalysisKeyOpts{Analyses: o.Analyses, Weighted: o.Weighted, Start: -1, End: -1}
	if o.Wants(AnalysisPath) {
		k.Start, k.End = o.Start, o.End
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format, reportHash string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Highlight:  o.Highlight,
		ReportHash: reportHash,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
