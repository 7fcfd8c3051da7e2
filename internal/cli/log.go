// Package cli implements the linegraph command-line interface.
//
// The CLI welds line segment files into graphs, runs graph analyses on them,
// renders node-link drawings, and serves the same pipeline over HTTP. It is
// built with cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - weld: Build a graph from segments and optionally save it as JSON
//   - path, mst, centrality, bipartite: Run a single analysis
//   - analyze: Weld, analyze and render in one step
//   - render: Draw a segment file or saved graph as SVG, PNG or DOT
//   - serve: Run the HTTP API
//   - cache: Manage the local result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/linegraph/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat renders timestamps as "HH:MM:SS.cc".
const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// progress times one pipeline stage. done logs the stage name with the
// caller's key/value pairs and the elapsed time, e.g.
//
//	INFO weld segments=12 vertices=8 elapsed=3ms
type progress struct {
	logger *log.Logger
	stage  string
	start  time.Time
}

func newProgress(l *log.Logger, stage string) *progress {
	return &progress{logger: l, stage: stage, start: time.Now()}
}

func (p *progress) done(keyvals ...any) time.Duration {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(p.stage, append(keyvals, "elapsed", elapsed)...)
	return elapsed
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
