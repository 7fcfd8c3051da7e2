package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/pkg/graph"
	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// commonFlags are shared by every command that loads an input file.
type commonFlags struct {
	noCache bool
	refresh bool
}

func (f *commonFlags) register(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", pipeline.DefaultTolerance, "per-axis weld tolerance")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// weldCommand creates the weld command that builds a graph from segments.
func (c *CLI) weldCommand() *cobra.Command {
	var (
		flags  commonFlags
		output string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "weld [segments]",
		Short: "Weld line segments into a graph",
		Long: `Weld line segments into a graph.

Endpoints closer than the tolerance on every axis collapse into one vertex;
the first vertex seen wins. Segments whose endpoints collapse together are
reported as degenerate and add no edge.

Use -o to save the graph as JSON for later use with 'render' or any of the
analysis commands. Pass "-" to read segments from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts = c.options(cmd, opts)
			opts.Refresh = flags.refresh
			return c.runWeld(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	flags.register(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write graph JSON to file")

	return cmd
}

func (c *CLI) runWeld(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, res, hit, err := c.loadGraph(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	printSuccess("Graph %s", StyleHighlight.Render(displayName(input)))
	printStats(g.VertexCount(), g.EdgeCount(), hit)
	if res != nil {
		printKeyValue("Segments", strconv.Itoa(len(res.Pairs)))
		printKeyValue("Tolerance", strconv.FormatFloat(res.Tolerance, 'g', -1, 64))
		if n := len(res.Degenerate); n > 0 {
			printWarning("%d degenerate segment(s) collapsed: %v", n, res.Degenerate)
		}
	}

	if output == "" {
		printNextStep("Save the graph", appName+" weld "+input+" -o graph.json")
		return nil
	}
	if err := graph.WriteGraphFile(g, output); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	printFile(output)
	return nil
}
