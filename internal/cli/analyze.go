package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// analyzeCommand creates the analyze command that runs the full pipeline.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		flags       commonFlags
		analysesStr string
		formatsStr  string
		output      string
	)
	opts := pipeline.Options{Start: -1, End: -1}

	cmd := &cobra.Command{
		Use:   "analyze [segments]",
		Short: "Weld, analyze and render in one step",
		Long: `Weld segments, run analyses concurrently, and write the results.

By default every analysis except the shortest path runs and the report is
written as JSON next to the input. Request the path analysis with --start and
--end. Add visual formats with --format and draw one analysis on top of the
graph with --highlight.

Results are cached locally for faster subsequent runs.`,
		Example: `  # Report only
  linegraph analyze frame.json

  # Spanning tree drawn over the graph, as SVG and JSON
  linegraph analyze frame.json -f svg,json --highlight mst

  # Shortest path from vertex 0 to 7
  linegraph analyze frame.json -a path --start 0 --end 7 -f svg --highlight path`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Analyses = splitList(analysesStr)
			opts.Formats = splitList(formatsStr)
			opts = c.options(cmd, opts)
			opts.Refresh = flags.refresh
			if (changed(cmd.Flags(), "start") || changed(cmd.Flags(), "end")) && !opts.Wants(pipeline.AnalysisPath) {
				if len(opts.Analyses) == 0 {
					opts.Analyses = append(opts.Analyses, pipeline.DefaultAnalyses...)
				}
				opts.Analyses = append(opts.Analyses, pipeline.AnalysisPath)
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runAnalyze(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	flags.register(cmd, &opts)
	cmd.Flags().StringVarP(&analysesStr, "analyses", "a", "", "analyses: mst, closeness, betweenness, bipartite, path (comma-separated)")
	cmd.Flags().IntVar(&opts.Start, "start", opts.Start, "path start vertex")
	cmd.Flags().IntVar(&opts.End, "end", opts.End, "path end vertex")
	cmd.Flags().BoolVar(&opts.Weighted, "weighted", false, "use Euclidean edge lengths for closeness")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg, png, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.Highlight, "highlight", "", "analysis to draw: mst, path, bipartite, closeness, betweenness")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	in, err := readInput(input)
	if err != nil {
		return err
	}
	if in.graph != nil {
		return c.renderGraph(ctx, in, opts, output, noCache)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Analyzing").Start()
	result, err := runner.Execute(ctx, in.segments, opts)
	if err != nil {
		spinner.Fail("Analysis failed")
		return err
	}
	spinner.Stop()

	printSuccess("Analyzed %s", StyleHighlight.Render(displayName(input)))
	printStats(result.Stats.VertexCount, result.Stats.EdgeCount, result.CacheInfo.BuildHit)
	printSummary(result.Report)

	_, err = writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
	})
	return err
}

// printSummary prints one line per analysis present in the report.
func printSummary(r *pipeline.Report) {
	if w := r.Weld; w != nil && len(w.Degenerate) > 0 {
		printWarning("%d degenerate segment(s) collapsed", len(w.Degenerate))
	}
	if p := r.Path; p != nil {
		if p.Reachable {
			printKeyValue("Path", fmt.Sprintf("%s (%d hops, length %.4f)", joinInts(p.Vertices), p.Hops, p.Length))
		} else {
			printKeyValue("Path", fmt.Sprintf("%d unreachable from %d", p.End, p.Start))
		}
	}
	if f := r.MST; f != nil {
		printKeyValue("MST", fmt.Sprintf("%d edges, weight %.4f, %d tree(s)", len(f.Edges), f.Weight, len(f.Trees)))
	}
	if s := r.Betweenness; s != nil && len(s.Raw) > 0 {
		v := s.Max()
		printKeyValue("Betweenness", "max at vertex "+strconv.Itoa(v)+" ("+strconv.FormatFloat(s.Raw[v], 'f', 2, 64)+")")
	}
	if s := r.Closeness; s != nil && len(s.Raw) > 0 {
		v := s.Max()
		printKeyValue("Closeness", "max at vertex "+strconv.Itoa(v)+" ("+formatFloat(s.Raw[v])+")")
	}
	if b := r.Bipartite; b != nil {
		printKeyValue("Bipartite", strconv.FormatBool(b.Bipartite))
	}
}
