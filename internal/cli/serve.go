package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/internal/server"
	"github.com/matzehuels/linegraph/pkg/cache"
	"github.com/matzehuels/linegraph/pkg/observability"
	"github.com/matzehuels/linegraph/pkg/observability/prom"
	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// apiKeyPrefix scopes API cache entries away from CLI entries when both share
// a Redis instance or cache directory.
const apiKeyPrefix = "api:"

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
		maxBody   int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		Long: `Serve the weld, analyze and render pipeline as a JSON API.

Endpoints:
  GET  /healthz      liveness probe
  GET  /metrics      Prometheus metrics
  POST /v1/weld      segments to graph
  POST /v1/analyze   segments to analysis report
  POST /v1/render    segments to SVG, PNG, DOT or JSON

Results are cached in Redis when [cache] redis_url is configured, otherwise
in the local cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), server.Config{
				Addr:         c.Config.addr(addr),
				MaxBodyBytes: maxBody,
			}, noCache, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+defaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config, noCache, metrics bool) error {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, apiKeyPrefix), c.Logger)
	defer runner.Close()

	if metrics {
		m := prom.New(prometheus.DefaultRegisterer)
		defer observability.Install(m.Hooks())()
		cfg.Metrics = prom.Handler()
	}

	printInfo("Serving on %s", StyleLink.Render("http://"+cfg.Addr))
	if err := server.New(cfg, runner, c.Logger).ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	printSuccess("Server stopped")
	return nil
}
