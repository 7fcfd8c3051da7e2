package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/geom"
)

// Format names a segment file encoding.
type Format string

// Supported segment formats.
const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// segmentDoc is the object form shared by JSON and TOML.
type segmentDoc struct {
	Segments []segment `json:"segments" toml:"segments"`
}

type segment struct {
	Start []float64 `json:"start" toml:"start"`
	End   []float64 `json:"end" toml:"end"`
}

// FormatFromPath returns the format implied by the file extension, or
// FormatAuto when the extension is not recognized.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	}
	return FormatAuto
}

// ReadSegments decodes segments from r in the given format.
func ReadSegments(r io.Reader, format Format) ([]geom.Segment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return ParseSegments(data, format)
}

// ParseSegments decodes segments from data in the given format.
func ParseSegments(data []byte, format Format) ([]geom.Segment, error) {
	if format == FormatAuto {
		format = sniff(data)
	}

	var raw []segment
	switch format {
	case FormatJSON:
		var err error
		if raw, err = decodeJSON(data); err != nil {
			return nil, err
		}
	case FormatTOML:
		var doc segmentDoc
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml segments")
		}
		raw = doc.Segments
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported segment format: %s", format)
	}

	out := make([]geom.Segment, len(raw))
	for i, s := range raw {
		start, err := toPoint(s.Start)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "segment %d start", i)
		}
		end, err := toPoint(s.End)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "segment %d end", i)
		}
		out[i] = geom.Seg(start, end)
	}
	return out, nil
}

// ReadSegmentsFile reads a segment file at path. The format is taken from the
// extension and sniffed from the content when the extension is unknown.
func ReadSegmentsFile(path string) ([]geom.Segment, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "segment file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSegments(f, FormatFromPath(path))
}

func decodeJSON(data []byte) ([]segment, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pairs [][][]float64
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json segment array")
		}
		out := make([]segment, len(pairs))
		for i, p := range pairs {
			if len(p) != 2 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "segment %d has %d points, want 2", i, len(p))
			}
			out[i] = segment{Start: p[0], End: p[1]}
		}
		return out, nil
	}

	var doc segmentDoc
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json segments")
	}
	return doc.Segments, nil
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatTOML
}

func toPoint(c []float64) (geom.Point, error) {
	var p geom.Point
	switch len(c) {
	case 3:
		p.Z = c[2]
		fallthrough
	case 2:
		p.X, p.Y = c[0], c[1]
	default:
		return p, errors.New(errors.ErrCodeInvalidInput, "coordinate needs 2 or 3 values, got %d", len(c))
	}
	for _, v := range c {
		if err := errors.ValidateCoordinate(v); err != nil {
			return p, err
		}
	}
	return p, nil
}
