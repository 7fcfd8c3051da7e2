package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// renderCommand creates the render command for drawing a graph.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      commonFlags
		formatsStr string
		output     string
	)
	opts := pipeline.Options{Start: -1, End: -1}

	cmd := &cobra.Command{
		Use:   "render [segments|graph.json]",
		Short: "Draw a graph as SVG, PNG or DOT",
		Long: `Draw a graph as a node-link diagram.

The input is either a segment file or a graph.json written by 'weld -o'.
Vertices are placed at their X/Y coordinates. With --highlight, one analysis
is computed and drawn on top: spanning tree or path edges are emphasized,
bipartite sets are colored, and centrality shades vertices.`,
		Example: `  # Plain drawing
  linegraph render frame.json

  # Spanning tree overlay as PNG
  linegraph render graph.json --highlight mst -f png -o mst.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = splitList(formatsStr)
			opts = c.options(cmd, opts)
			if len(opts.Formats) == 0 {
				opts.Formats = []string{pipeline.FormatSVG}
			}
			opts.Refresh = flags.refresh
			if h := opts.Highlight; h != "" && h != pipeline.HighlightNone {
				opts.Analyses = []string{h}
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			in, err := readInput(args[0])
			if err != nil {
				return err
			}
			return c.renderGraph(cmd.Context(), in, opts, output, flags.noCache)
		},
	}

	flags.register(cmd, &opts)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.Highlight, "highlight", "", "analysis to draw: mst, path, bipartite, closeness, betweenness")
	cmd.Flags().IntVar(&opts.Start, "start", opts.Start, "path start vertex (with --highlight path)")
	cmd.Flags().IntVar(&opts.End, "end", opts.End, "path end vertex (with --highlight path)")
	cmd.Flags().BoolVar(&opts.Weighted, "weighted", false, "use Euclidean edge lengths for closeness")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")

	return cmd
}

// renderGraph analyzes and renders an input that may already be a graph.
// opts must be validated.
func (c *CLI) renderGraph(ctx context.Context, in *input, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g := in.graph
	hit := false
	if g == nil {
		if g, _, hit, err = runner.Build(ctx, in.segments, opts); err != nil {
			return err
		}
	}

	spinner := newSpinner(ctx, "Analyzing").Start()
	report, _, err := runner.Analyze(ctx, g, opts)
	if err != nil {
		spinner.Fail("Analysis failed")
		return err
	}
	spinner.Step("Rendering")
	artifacts, renderHit, err := runner.Render(ctx, g, report, opts)
	if err != nil {
		spinner.Fail("Rendering failed")
		return err
	}
	spinner.Stop()

	printSuccess("Graph %s", StyleHighlight.Render(displayName(in.path)))
	printStats(g.VertexCount(), g.EdgeCount(), hit)

	_, err = writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     in.path,
		output:    output,
		cacheHit:  renderHit,
	})
	return err
}
