package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hexglobe/pkg/layout"
	"github.com/matzehuels/hexglobe/pkg/pipeline"
)

// neighborsCommand creates the "neighbors" command.
func (c *CLI) neighborsCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "neighbors <cell>",
		Short: "Show the neighbors of a cell by clock position",
		Long: `Show the neighbors of a cell, each assigned to one of six clock positions:
top_middle, top_right, bottom_right, bottom_middle, bottom_left, top_left.

Pentagons have one empty position.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd.Context())
			defer cancel()

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			n, cached, err := runner.NeighborsWithCacheInfo(ctx, args[0])
			if err != nil {
				return err
			}
			c.Logger.Debug("neighbors", "cell", n.Cell, "cached", cached)

			if asJSON {
				data, err := layout.MarshalNeighbors(n)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderNeighbors(n))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a diagram")
	return cmd
}

// ladderCommand creates the "ladder" command.
func (c *CLI) ladderCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ladder <cell>",
		Short: "Show the cell containing this cell's center at every resolution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd.Context())
			defer cancel()

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			l, err := runner.Ladder(ctx, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				data, err := layout.MarshalLadder(l)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
				return nil
			}
			res := make([]int, 0, len(l.Cells))
			for r := range l.Cells {
				res = append(res, r)
			}
			sort.Ints(res)
			for _, r := range res {
				id := l.Cells[r]
				if r == l.Resolution {
					id = styleCenter.Render(id)
				}
				printKeyValue(w, "res "+strconv.Itoa(r), id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a list")
	return cmd
}

// locateCommand creates the "locate" command.
func (c *CLI) locateCommand() *cobra.Command {
	var lat, lng float64
	var res int
	cmd := &cobra.Command{
		Use:   "locate --lat <deg> --lng <deg>",
		Short: "Find the cell containing a point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd.Context())
			defer cancel()

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			if !cmd.Flags().Changed("resolution") && c.Config != nil {
				res = c.Config.Layout.Resolution
			}
			cell, err := runner.Locate(ctx, lat, lng, res)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cell)
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude in degrees")
	cmd.Flags().IntVarP(&res, "resolution", "r", pipeline.DefaultResolution, "cell resolution (0-15)")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}
