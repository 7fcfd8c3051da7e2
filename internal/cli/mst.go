package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/pkg/graph"
	"github.com/matzehuels/linegraph/pkg/graph/mst"
	lgio "github.com/matzehuels/linegraph/pkg/io"
	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// mstCommand creates the mst command for minimum spanning forests.
func (c *CLI) mstCommand() *cobra.Command {
	var (
		flags    commonFlags
		output   string
		segments bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "mst [segments]",
		Short: "Compute the minimum spanning forest",
		Long: `Compute the minimum spanning forest with Kruskal's algorithm.

Edges are weighted by the Euclidean distance between their endpoints; ties
keep insertion order. A disconnected graph yields one tree per component.

Use -o to save the forest as JSON, or --segments -o to save the chosen edges
as a segment file that can be fed back into any command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts = c.options(cmd, opts)
			opts.Refresh = flags.refresh
			opts.Analyses = []string{pipeline.AnalysisMST}
			return c.runMST(cmd.Context(), args[0], opts, output, segments, flags.noCache)
		},
	}

	flags.register(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the forest as JSON")
	cmd.Flags().BoolVar(&segments, "segments", false, "write the chosen edges as segments instead")

	return cmd
}

func (c *CLI) runMST(ctx context.Context, input string, opts pipeline.Options, output string, segments, noCache bool) error {
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
	forest := report.MST

	printForest(g, forest, hit)
	if output == "" {
		return nil
	}

	if segments {
		w, err := openOutput(output)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := lgio.WriteSegments(forest.Segments(g), w); err != nil {
			return fmt.Errorf("write segments: %w", err)
		}
	} else if err := writeJSON(forest, output); err != nil {
		return err
	}
	printFile(output)
	return nil
}

func printForest(g *graph.Graph, f *mst.Forest, cached bool) {
	kind := "Spanning tree"
	if !f.Spanning {
		kind = fmt.Sprintf("Spanning forest of %d trees", len(f.Trees))
	}
	printSuccess("%s with %d edges", kind, len(f.Edges))
	printKeyValue("Weight", formatFloat(f.Weight))
	if cached {
		printDetail(iconCached)
	}
	if len(f.Edges) == 0 {
		return
	}

	rows := make([][]string, len(f.Edges))
	for i, e := range f.Edges {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(e.U),
			strconv.Itoa(e.V),
			formatFloat(g.Weight(e.U, e.V)),
		}
	}
	printTable([]string{"#", "U", "V", "Weight"}, rows)
}
