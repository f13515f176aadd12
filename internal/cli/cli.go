// Package cli implements the hexglobe command-line interface.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hexglobe/internal/config"
	"github.com/matzehuels/hexglobe/pkg/buildinfo"
	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/pipeline"
)

// Log levels exported for use in main.go.
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

	// Config is loaded from the standard locations before the first command
	// runs unless it was set beforehand.
	Config *config.Config

	// Index overrides the H3 index. Nil means H3.
	Index grid.Index

	noCache bool
	timeout time.Duration
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
		Use:          "hexglobe",
		Short:        "HexGlobe lays out hexagonal globe cells on a flat grid",
		Long:         `HexGlobe answers "what is next to this cell, and where" for the H3 hexagonal grid: clock-position neighbors, resolution ladders and rectangular grid layouts around a center cell.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "bypass the result cache")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 0, "abort the command after this long (0 = no limit)")

	root.AddCommand(c.neighborsCommand())
	root.AddCommand(c.ladderCommand())
	root.AddCommand(c.gridCommand())
	root.AddCommand(c.locateCommand())
	root.AddCommand(c.tileCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

func (c *CLI) loadConfig() error {
	if c.Config != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.Config = &cfg
	for _, src := range cfg.Sources {
		c.Logger.Debug("loaded config", "path", src)
	}
	return nil
}

// context bounds ctx by --timeout when set.
func (c *CLI) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	if err := c.loadConfig(); err != nil {
		return nil, err
	}
	ch, keyer, err := openCache(ctx, c.Config.Cache, c.noCache, c.Logger)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c.Index, ch, keyer, c.Logger), nil
}
