package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/graph"
	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// pathCommand creates the path command for shortest hop-count paths.
func (c *CLI) pathCommand() *cobra.Command {
	var (
		flags  commonFlags
		pick   bool
		output string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "path [segments] [start] [end]",
		Short: "Find the shortest path between two vertices",
		Long: `Find the path with the fewest edges between two vertices.

Vertices are identified by the index they received during welding (see
'weld'). An unreachable end vertex is not an error; the path is empty.

Use --pick to choose both vertices interactively.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if pick {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts = c.options(cmd, opts)
			opts.Refresh = flags.refresh
			opts.Analyses = []string{pipeline.AnalysisPath}
			if !pick {
				var err error
				if opts.Start, err = parseVertex("start", args[1]); err != nil {
					return err
				}
				if opts.End, err = parseVertex("end", args[2]); err != nil {
					return err
				}
			}
			return c.runPath(cmd.Context(), args[0], opts, pick, output, flags.noCache)
		},
	}

	flags.register(cmd, &opts)
	cmd.Flags().BoolVar(&pick, "pick", false, "pick start and end vertices interactively")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the path report as JSON")

	return cmd
}

func parseVertex(role, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidIndex, "%s vertex %q is not an integer", role, s)
	}
	return v, nil
}

func (c *CLI) runPath(ctx context.Context, input string, opts pipeline.Options, pick bool, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, _, _, err := c.loadGraph(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	if pick {
		start, end, ok, err := pickEndpoints(g)
		if err != nil {
			return err
		}
		if !ok {
			printInfo("Cancelled")
			return nil
		}
		opts.Start, opts.End = start, end
	}

	report, hit, err := runner.Analyze(ctx, g, opts)
	if err != nil {
		return err
	}
	if output != "" {
		if err := writeJSON(report.Path, output); err != nil {
			return err
		}
	}
	printPath(g, report.Path, hit)
	if output != "" {
		printFile(output)
	}
	return nil
}

func printPath(g *graph.Graph, p *pipeline.PathReport, cached bool) {
	if !p.Reachable {
		printWarning("Vertex %d is unreachable from vertex %d", p.End, p.Start)
		return
	}

	hops := make([]string, len(p.Vertices))
	for i, v := range p.Vertices {
		hops[i] = strconv.Itoa(v)
	}
	printSuccess("Path %s", StyleHighlight.Render(strings.Join(hops, " "+iconArrow+" ")))
	printKeyValue("Hops", strconv.Itoa(p.Hops))
	printKeyValue("Length", formatFloat(p.Length))
	if cached {
		printDetail(iconCached)
	}

	rows := make([][]string, len(p.Vertices))
	for i, v := range p.Vertices {
		rows[i] = vertexRow(g, v)
	}
	printTable(vertexHeaders, rows)
}

// pickEndpoints runs the interactive vertex picker. ok is false when the user
// quit before choosing both vertices.
func pickEndpoints(g *graph.Graph) (start, end int, ok bool, err error) {
	if g.VertexCount() == 0 {
		return 0, 0, false, errors.New(errors.ErrCodeInvalidInput, "graph has no vertices to pick")
	}
	final, err := tea.NewProgram(NewVertexPickerModel(g, 2)).Run()
	if err != nil {
		return 0, 0, false, fmt.Errorf("vertex picker: %w", err)
	}
	m := final.(VertexPickerModel)
	if len(m.Picked) < 2 {
		return 0, 0, false, nil
	}
	return m.Picked[0], m.Picked[1], true, nil
}
