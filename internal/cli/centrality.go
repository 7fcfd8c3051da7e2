package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/graph"
	"github.com/matzehuels/linegraph/pkg/graph/centrality"
	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// centralityCommand creates the centrality command.
func (c *CLI) centralityCommand() *cobra.Command {
	var (
		flags  commonFlags
		kind   string
		top    int
		output string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "centrality [segments]",
		Short: "Rank vertices by betweenness or closeness",
		Long: `Rank vertices by betweenness or closeness centrality.

Betweenness counts how many shortest paths pass through a vertex. Closeness
is the inverse of the summed distance to every reachable vertex, in hops or,
with --weighted, in Euclidean edge length. Scores are min-max normalized to
[0, 1]; when all raw scores are equal every normalized score is 0.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != pipeline.AnalysisBetweenness && kind != pipeline.AnalysisCloseness {
				return errors.New(errors.ErrCodeInvalidAnalysis,
					"invalid centrality kind: %s (must be 'betweenness' or 'closeness')", kind)
			}
			opts = c.options(cmd, opts)
			opts.Refresh = flags.refresh
			opts.Analyses = []string{kind}
			return c.runCentrality(cmd.Context(), args[0], kind, opts, top, output, flags.noCache)
		},
	}

	flags.register(cmd, &opts)
	cmd.Flags().StringVarP(&kind, "kind", "k", pipeline.AnalysisBetweenness, "centrality measure: betweenness, closeness")
	cmd.Flags().BoolVar(&opts.Weighted, "weighted", false, "use Euclidean edge lengths for closeness")
	cmd.Flags().IntVarP(&top, "top", "n", 10, "show the n highest-ranked vertices (0 for all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the scores as JSON")

	return cmd
}

func (c *CLI) runCentrality(ctx context.Context, input, kind string, opts pipeline.Options, top int, output string, noCache bool) error {
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
	scores := report.Betweenness
	if kind == pipeline.AnalysisCloseness {
		scores = report.Closeness
	}

	printSuccess("%s centrality over %d vertices", kind, g.VertexCount())
	if hit {
		printDetail(iconCached)
	}
	if g.VertexCount() > 0 {
		printTable([]string{"Rank", "#", "Raw", "Normalized", "Degree"}, rankRows(g, scores, top))
	}

	if output == "" {
		return nil
	}
	if err := writeJSON(scores, output); err != nil {
		return err
	}
	printFile(output)
	return nil
}

// rank orders vertices by descending raw score, lowest index first on ties.
func rank(s *centrality.Scores) []int {
	order := make([]int, len(s.Raw))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case s.Raw[a] > s.Raw[b]:
			return -1
		case s.Raw[a] < s.Raw[b]:
			return 1
		}
		return 0
	})
	return order
}

func rankRows(g *graph.Graph, s *centrality.Scores, top int) [][]string {
	order := rank(s)
	if top > 0 && top < len(order) {
		order = order[:top]
	}
	rows := make([][]string, len(order))
	for i, v := range order {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(v),
			formatFloat(s.Raw[v]),
			formatFloat(s.Normalized[v]),
			strconv.Itoa(g.Degree(v)),
		}
	}
	return rows
}
