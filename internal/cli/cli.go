// Package cli implements the linegraph command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/linegraph/pkg/buildinfo"
	"github.com/matzehuels/linegraph/pkg/cache"
	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "linegraph"

	// configFile is looked up in the working directory when --config is unset.
	configFile = "linegraph.toml"
)

// Log levels for New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Linegraph welds line segments into graphs and analyzes them",
		Long: `Linegraph turns a soup of 3D line segments into an undirected graph by
welding near-coincident endpoints, then answers structural questions about it:
shortest paths, minimum spanning forests, centrality, and bipartiteness.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, path, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			if path != "" {
				c.Logger.Debug("loaded config", "path", path)
			}
			statusOut = os.Stdout
			if f := cmd.Flags().Lookup("output"); f != nil && f.Value.String() == stdinPath {
				statusOut = os.Stderr
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./"+configFile+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	// Register all subcommands
	root.AddCommand(c.weldCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.mstCommand())
	root.AddCommand(c.centralityCommand())
	root.AddCommand(c.bipartiteCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// ReportError prints a failed command's error in the CLI style. Coded errors
// show their message without the code prefix.
func ReportError(err error) {
	printError("%s", errors.UserMessage(err))
}

// Exit codes returned by ExitCode.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitBadInput  = 2
	ExitInterrupt = 130
)

// ExitCode maps a command error to the process exit status: invalid input
// and missing files exit 2, interrupts 130, anything else 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupt
	case errors.IsInvalid(err), errors.Is(err, errors.ErrCodeFileNotFound):
		return ExitBadInput
	default:
		return ExitFailure
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache picks the cache backend: none, Redis when configured, else the
// local file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url := c.Config.Cache.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, else the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/linegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// options layers config file values under opts. A field is taken from the
// config only when its flag was not set explicitly.
func (c *CLI) options(cmd *cobra.Command, opts pipeline.Options) pipeline.Options {
	f := cmd.Flags()
	cfg := c.Config

	if !changed(f, "tolerance") && cfg.Weld.Tolerance > 0 {
		opts.Tolerance = cfg.Weld.Tolerance
	}
	if !changed(f, "weighted") && cfg.Analysis.Weighted {
		opts.Weighted = true
	}
	if !changed(f, "analyses") && len(cfg.Analysis.Analyses) > 0 {
		opts.Analyses = cfg.Analysis.Analyses
	}
	if !changed(f, "format") && len(cfg.Render.Formats) > 0 {
		opts.Formats = cfg.Render.Formats
	}
	if !changed(f, "highlight") && cfg.Render.Highlight != "" {
		opts.Highlight = cfg.Render.Highlight
	}
	opts.Logger = c.Logger
	return opts
}

func changed(f *pflag.FlagSet, name string) bool {
	fl := f.Lookup(name)
	return fl != nil && fl.Changed
}

// splitList parses a comma-separated flag value into a slice.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, ...), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
