package cli

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for linegraph.

  $ source <(linegraph completion bash)
  $ linegraph completion zsh > "${fpath[1]}/_linegraph"
  $ linegraph completion fish > ~/.config/fish/completions/linegraph.fish
  PS> linegraph completion powershell | Out-String | Invoke-Expression

Completions cover segment files (.json, .toml) and the values of --kind,
--analyses, --format and --highlight.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

// inputCommands take a segment file or graph document as first argument.
var inputCommands = []string{"weld", "path", "mst", "centrality", "bipartite", "analyze", "render"}

// registerCompletions attaches argument and flag completions to the
// subcommands of root.
func registerCompletions(root *cobra.Command) {
	flagValues := map[string][]string{
		"kind":      {pipeline.AnalysisBetweenness, pipeline.AnalysisCloseness},
		"analyses":  sortedKeys(pipeline.ValidAnalyses),
		"format":    sortedKeys(pipeline.ValidFormats),
		"highlight": sortedKeys(pipeline.ValidHighlights),
	}
	listFlags := map[string]bool{"analyses": true, "format": true}

	for _, cmd := range root.Commands() {
		if slices.Contains(inputCommands, cmd.Name()) {
			cmd.ValidArgsFunction = completeInput
		}
		for name, values := range flagValues {
			if cmd.Flags().Lookup(name) == nil {
				continue
			}
			fn := completeValues(values)
			if listFlags[name] {
				fn = completeList(values)
			}
			_ = cmd.RegisterFlagCompletionFunc(name, fn)
		}
	}
}

type completionFunc = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)

func completeInput(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json", "toml"}, cobra.ShellCompDirectiveFilterFileExt
}

func completeValues(values []string) completionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeList completes the last element of a comma-separated list,
// skipping values already present.
func completeList(values []string) completionFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		done, last := "", toComplete
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			done, last = toComplete[:i+1], toComplete[i+1:]
		}
		seen := splitList(done)
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, last) && !slices.Contains(seen, v) {
				out = append(out, done+v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
