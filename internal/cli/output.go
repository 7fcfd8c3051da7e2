package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/linegraph/pkg/errors"
	lgio "github.com/matzehuels/linegraph/pkg/io"
	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// artifactExt maps formats to file extensions. The JSON report gets a
// compound extension so it never lands on a JSON input file.
var artifactExt = map[string]string{
	pipeline.FormatJSON: "report.json",
}

// artifactWriteParams describes a set of rendered artifacts to write.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
}

// writeArtifacts writes each artifact next to the input or at the output base
// path. A single format with an explicit output is written to output as is.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	input := p.input
	if input == stdinPath {
		input = appName
	}
	base := basePath(p.output, input)

	var written []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		ext := format
		if e, ok := artifactExt[format]; ok {
			ext = e
		}
		path := base + "." + ext
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if filepath.Clean(path) == filepath.Clean(p.input) {
			return written, errors.New(errors.ErrCodeInvalidInput, "refusing to overwrite input %s", path)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	status := "Rendered"
	if p.cacheHit {
		status = "Rendered (cached)"
	}
	printSuccess("%s %s", status, strings.Join(p.formats, ", "))
	for _, path := range written {
		printFile(path)
	}
	return written, nil
}

// openOutput returns a writer for path, or stdout when path is empty or "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == stdinPath {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// writeJSON writes v as indented JSON to path or stdout.
func writeJSON(v any, path string) error {
	w, err := openOutput(path)
	if err != nil {
		return err
	}
	if err := lgio.WriteJSON(v, w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
