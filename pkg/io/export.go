package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/linegraph/pkg/geom"
)

// WriteSegments encodes segments in the JSON object format accepted by
// ReadSegments, so MST output can be fed back in as input.
func WriteSegments(segs []geom.Segment, w io.Writer) error {
	doc := segmentDoc{Segments: make([]segment, len(segs))}
	for i, s := range segs {
		doc.Segments[i] = segment{
			Start: []float64{s.Start.X, s.Start.Y, s.Start.Z},
			End:   []float64{s.End.X, s.End.Y, s.End.Z},
		}
	}
	return WriteJSON(doc, w)
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes v as indented JSON to a file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(v, f)
}
