package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/errors"
	"github.com/matzehuels/hexglobe/pkg/layout"
	"github.com/matzehuels/hexglobe/pkg/pipeline"
	"github.com/matzehuels/hexglobe/pkg/render/dot"
)

// Output formats for the grid command.
const (
	formatTable   = "table"
	formatJSON    = "json"
	formatGeoJSON = "geojson"
	formatDOT     = "dot"
	formatSVG     = "svg"
	formatPNG     = "png"
	formatPDF     = "pdf"
)

var gridFormats = []string{formatTable, formatJSON, formatGeoJSON, formatDOT, formatSVG, formatPNG, formatPDF}

// gridOpts holds the command-line flags for the grid command.
type gridOpts struct {
	width    int
	height   int
	maxRings int
	output   string
	format   string
	labels   string
	refresh  bool
}

// gridCommand creates the "grid" command.
func (c *CLI) gridCommand() *cobra.Command {
	var opts gridOpts
	cmd := &cobra.Command{
		Use:   "grid <cell>",
		Short: "Lay out the cells around a center on a rectangular grid",
		Long: `Lay out the cells around a center cell on a width x height offset grid.
The center sits at coordinate (0,0); rows grow northward and columns eastward.

Formats: table (default), json, geojson, dot, svg, png, pdf.
png and pdf need rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			if c.Config != nil {
				if !cmd.Flags().Changed("width") {
					opts.width = c.Config.Layout.Width
				}
				if !cmd.Flags().Changed("height") {
					opts.height = c.Config.Layout.Height
				}
				if !cmd.Flags().Changed("max-rings") {
					opts.maxRings = c.Config.Layout.MaxRings
				}
			}
			ctx, cancel := c.context(cmd.Context())
			defer cancel()
			return c.runGrid(ctx, cmd, args[0], opts)
		},
	}
	cmd.Flags().IntVarP(&opts.width, "width", "W", pipeline.DefaultWidth, "grid width in cells")
	cmd.Flags().IntVarP(&opts.height, "height", "H", pipeline.DefaultHeight, "grid height in cells")
	cmd.Flags().IntVar(&opts.maxRings, "max-rings", pipeline.DefaultMaxRings, "largest neighborhood to explore")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "output format: "+strings.Join(gridFormats, ", "))
	cmd.Flags().StringVar(&opts.labels, "labels", "id", "node labels for dot/svg: id, coord, none")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached")
	return cmd
}

func validateFormat(f string) error {
	for _, ok := range gridFormats {
		if f == ok {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want one of %s)", f, strings.Join(gridFormats, ", "))
}

func (c *CLI) runGrid(ctx context.Context, cmd *cobra.Command, center string, opts gridOpts) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	var spin *Spinner
	if opts.output != "" {
		spin = newSpinner(ctx, cmd.ErrOrStderr(), "Laying out "+center)
		spin.Start()
	}
	l, cached, err := runner.LayoutWithCacheInfo(ctx, pipeline.Options{
		Center:   center,
		Width:    opts.width,
		Height:   opts.height,
		MaxRings: opts.maxRings,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	if spin != nil {
		switch {
		case spin.Cancelled():
			spin.Stop()
		case err != nil:
			spin.StopWithError("Layout of " + center + " failed")
		default:
			spin.StopWithSuccess(fmt.Sprintf("Laid out %s (%d cells)", center, len(l.Cells)))
		}
	}
	if err != nil {
		if len(l.Cells) > 0 {
			logger.Warn("layout incomplete", "placed", len(l.Cells), "error", err)
		}
		return err
	}
	prog.done(fmt.Sprintf("Placed %d cells", len(l.Cells)))

	data, err := encodeGrid(ctx, runner.Index, l, opts)
	if err != nil {
		return err
	}
	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Wrote %s layout", opts.format)
	printFile(opts.output)
	printLayoutStats(l, cached)
	if n := len(l.Conflicts); n > 0 {
		printWarning("%d adjacency conflicts (see --format json)", n)
	}
	return nil
}

// encodeGrid renders l in the requested format.
func encodeGrid(ctx context.Context, idx grid.Index, l layout.Layout, opts gridOpts) ([]byte, error) {
	switch opts.format {
	case formatTable:
		return []byte(renderGridTable(l) + "\n"), nil
	case formatJSON:
		data, err := layout.MarshalLayout(l)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case formatGeoJSON:
		fc, err := layout.ToGeoJSON(ctx, idx, l)
		if err != nil {
			return nil, err
		}
		return fc.MarshalJSON()
	}

	src, err := dot.ToDOT(l, dot.Options{Labels: opts.labels})
	if err != nil {
		return nil, err
	}
	if opts.format == formatDOT {
		return []byte(src), nil
	}
	svg, err := dot.RenderSVG(ctx, src)
	if err != nil {
		return nil, err
	}
	switch opts.format {
	case formatPNG:
		return dot.ToPNG(svg, 2)
	case formatPDF:
		return dot.ToPDF(svg)
	}
	return svg, nil
}
