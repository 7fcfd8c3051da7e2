package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/pkg/cache"
)

// cacheCommand groups the local cache subcommands. They act on the file
// cache only; Redis entries expire through their TTLs.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clean the local result cache",
	}
	cmd.AddCommand(c.cacheStatsCommand(), c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) openFileCache() (*cache.FileCache, error) {
	if c.Config.Cache.RedisURL != "" {
		printWarning("Redis is configured; showing the local cache only")
	}
	dir, err := c.cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cached graphs, reports and artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			stats, err := fc.Stats()
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printTable([]string{"Kind", "Entries", "Expired", "Size"}, statsRows(stats))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func statsRows(stats map[string]cache.Stat) [][]string {
	kinds := make([]string, 0, len(stats))
	for k := range stats {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		s := stats[k]
		name := k
		if name == "" {
			name = "other"
		}
		rows = append(rows, []string{name, strconv.Itoa(s.Entries), strconv.Itoa(s.Expired), formatBytes(s.Bytes)})
	}
	return rows
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			remove, what := fc.Clear, "cached"
			if expired {
				remove, what = fc.Prune, "expired"
			}
			n, err := remove()
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("No %s entries", what)
				return nil
			}
			printSuccess("Removed %d %s entries", n, what)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired entries")
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
