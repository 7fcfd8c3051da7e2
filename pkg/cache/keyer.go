package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Key prefixes, one per cached stage.
const (
	prefixGraph    = "graph"
	prefixAnalysis = "analysis"
	prefixArtifact = "artifact"
)

// AnalysisKeyOpts are the options that change an analysis report.
type AnalysisKeyOpts struct {
	Analyses []string `json:"analyses"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Weighted bool     `json:"weighted"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Highlight  string `json:"highlight"`
	ReportHash string `json:"report_hash"`
}

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// GraphKey identifies a welded graph by its input segments and tolerance.
	GraphKey(segmentsHash string, tolerance float64) string

	// AnalysisKey identifies an analysis report of a graph.
	AnalysisKey(graphHash string, opts AnalysisKeyOpts) string

	// ArtifactKey identifies a rendered output of a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(segmentsHash string, tolerance float64) string {
	return hashKey(prefixGraph, segmentsHash, strconv.FormatFloat(tolerance, 'g', -1, 64))
}

// AnalysisKey implements Keyer. The analysis list is order-insensitive.
func (DefaultKeyer) AnalysisKey(graphHash string, opts AnalysisKeyOpts) string {
	sorted := append([]string(nil), opts.Analyses...)
	sort.Strings(sorted)
	opts.Analyses = sorted
	return hashKey(prefixAnalysis, graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey(prefixArtifact, graphHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// NewScopedKeyer returns a Keyer whose keys all start with prefix, so front
// ends sharing one Redis instance stay apart. The API server uses "api:".
// A nil inner keyer means the default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return scopedKeyer{inner: inner, prefix: prefix}
}

type scopedKeyer struct {
	inner  Keyer
	prefix string
}

func (k scopedKeyer) GraphKey(segmentsHash string, tolerance float64) string {
	return k.prefix + k.inner.GraphKey(segmentsHash, tolerance)
}

func (k scopedKeyer) AnalysisKey(graphHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(graphHash, opts)
}

func (k scopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
