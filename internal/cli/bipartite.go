package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/pkg/graph/bipartite"
	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// bipartiteCommand creates the bipartite command.
func (c *CLI) bipartiteCommand() *cobra.Command {
	var (
		flags  commonFlags
		output string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "bipartite [segments]",
		Short: "Check whether the graph is two-colorable",
		Long: `Check whether the graph is bipartite by two-coloring it breadth-first.

On success the two vertex sets are printed. On failure the first edge found
joining two vertices of the same color is reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts = c.options(cmd, opts)
			opts.Refresh = flags.refresh
			opts.Analyses = []string{pipeline.AnalysisBipartite}
			return c.runBipartite(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	flags.register(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result as JSON")

	return cmd
}

func (c *CLI) runBipartite(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, _, _, err := c.loadGraph(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	report, hit, err := runner.Analyze(ctx, g, opts)
	if err != nil {
		return err
	}
	printBipartite(report.Bipartite, hit)

	if output == "" {
		return nil
	}
	if err := writeJSON(report.Bipartite, output); err != nil {
		return err
	}
	printFile(output)
	return nil
}

func printBipartite(r *bipartite.Result, cached bool) {
	if r.Bipartite {
		printSuccess("Bipartite")
		printKeyValue("Set A", joinInts(r.SetA))
		printKeyValue("Set B", joinInts(r.SetB))
	} else {
		printWarning("Not bipartite")
		if r.Conflict != nil {
			printKeyValue("Conflict", fmt.Sprintf("%d %s %d", r.Conflict.U, iconEdge, r.Conflict.V))
		}
	}
	if cached {
		printDetail(iconCached)
	}
}

func joinInts(vs []int) string {
	if len(vs) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
