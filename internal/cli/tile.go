package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/errors"
	"github.com/matzehuels/hexglobe/pkg/tile"
)

// tileCommand creates the "tile" command group.
func (c *CLI) tileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tile",
		Short: "Read and edit the content and styling stored on cells",
	}
	cmd.AddCommand(c.tileGetCommand())
	cmd.AddCommand(c.tileSetCommand())
	cmd.AddCommand(c.tileMoveCommand())
	cmd.AddCommand(c.tileChildrenCommand())
	return cmd
}

// withTiles opens the runner and tile store for one command invocation.
func (c *CLI) withTiles(ctx context.Context, fn func(*tile.Service) error) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	store, err := openTileStore(ctx, c.Config.Tiles)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(tile.NewService(runner.Index, store, c.Logger))
}

func (c *CLI) tileGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <cell>",
		Short: "Print a tile as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd.Context())
			defer cancel()
			return c.withTiles(ctx, func(svc *tile.Service) error {
				t, err := svc.Load(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, t)
			})
		},
	}
}

func (c *CLI) tileChildrenCommand() *cobra.Command {
	var res int
	cmd := &cobra.Command{
		Use:   "children <cell>",
		Short: "Print the tiles of a cell's children as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd.Context())
			defer cancel()
			return c.withTiles(ctx, func(svc *tile.Service) error {
				if !cmd.Flags().Changed("resolution") {
					res = svc.Index.Resolution(grid.Cell(args[0])) + 1
				}
				children, err := svc.Children(ctx, args[0], res)
				if err != nil {
					return err
				}
				return printJSON(cmd, children)
			})
		},
	}
	cmd.Flags().IntVarP(&res, "resolution", "r", 0, "child resolution (default: one finer than the cell)")
	return cmd
}

func (c *CLI) tileSetCommand() *cobra.Command {
	var content string
	var props []string
	cmd := &cobra.Command{
		Use:   "set <cell>",
		Short: "Set a tile's content or visual properties",
		Long: `Set a tile's content or visual properties.

Visual properties: border_color, border_thickness, border_style,
fill_color, fill_opacity.

  hexglobe tile set 8928308280fffff --content "hello" --prop fill_color=#FFD700 --prop fill_opacity=0.8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := parseUpdate(cmd.Flags().Changed("content"), content, props)
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd.Context())
			defer cancel()
			return c.withTiles(ctx, func(svc *tile.Service) error {
				t, err := svc.Update(ctx, args[0], u)
				if err != nil {
					return err
				}
				return printJSON(cmd, t)
			})
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "tile content")
	cmd.Flags().StringArrayVar(&props, "prop", nil, "visual property as name=value (repeatable)")
	return cmd
}

func (c *CLI) tileMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <source> <target>",
		Short: "Move content from a tile to an adjacent tile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd.Context())
			defer cancel()
			return c.withTiles(ctx, func(svc *tile.Service) error {
				from, to, err := svc.MoveContent(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]*tile.Tile{"source_tile": from, "target_tile": to})
			})
		},
	}
}

// parseUpdate turns --content and --prop flags into a tile update. Values
// that parse as numbers are passed as numbers.
func parseUpdate(hasContent bool, content string, props []string) (tile.Update, error) {
	var u tile.Update
	if hasContent {
		u.Content = &content
	}
	if len(props) > 0 {
		u.Visual = make(map[string]any, len(props))
	}
	for _, p := range props {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return tile.Update{}, errors.New(errors.ErrCodeInvalidProperty, "property %q must be name=value", p)
		}
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			u.Visual[name] = json.Number(value)
		} else {
			u.Visual[name] = value
		}
	}
	if u.Content == nil && len(u.Visual) == 0 {
		return tile.Update{}, errors.New(errors.ErrCodeInvalidInput, "nothing to set: pass --content or --prop")
	}
	return u, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
