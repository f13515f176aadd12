// Package dot renders a grid layout as a Graphviz graph.
//
// Each placed cell becomes a flat-top hexagon pinned at its lattice
// position (columns step east, rows step north, odd columns sit half a row
// higher). Edges join cells on neighbouring coordinates, so the picture
// shows exactly the adjacency the layout claims. The center is drawn in
// bold and pentagons are shaded.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/hexglobe/pkg/core/embed"
	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/errors"
	"github.com/matzehuels/hexglobe/pkg/layout"
)

// Options configures DOT output.
type Options struct {
	// Size is the hexagon circumradius in inches. Zero means 0.6.
	Size float64
	// Labels selects the node label: "id" (default), "coord", or "none".
	Labels string
}

// Position returns the pinned drawing position of c in inches.
func Position(c embed.Coord, size float64) (x, y float64) {
	return 1.5 * size * float64(c.Col), math.Sqrt(3) * size * (float64(c.Row) + 0.5*float64(c.Col&1))
}

// edgePositions draws each undirected edge once.
var edgePositions = []grid.ClockPosition{grid.TopMiddle, grid.TopRight, grid.BottomRight}

// ToDOT converts a layout to an undirected Graphviz graph with pinned
// positions, ready for [RenderSVG].
func ToDOT(l layout.Layout, opts Options) (string, error) {
	size := opts.Size
	if size <= 0 {
		size = 0.6
	}
	placements, err := l.Placements()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  node [shape=hexagon, fixedsize=true, width=%.3f, height=%.3f, style=filled, fillcolor=white, fontsize=8];\n",
		2*size, math.Sqrt(3)*size)
	buf.WriteString("  edge [color=grey60];\n\n")

	for _, p := range placements {
		x, y := Position(p.Coord, size)
		attrs := fmt.Sprintf("pos=\"%.3f,%.3f!\", label=%q", x, y, label(p, opts.Labels))
		if p.Coord == embed.Origin {
			attrs += ", penwidth=3"
		}
		if p.Pentagon {
			attrs += ", fillcolor=lightgrey, style=\"filled,dashed\""
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", p.Cell, attrs)
	}

	buf.WriteString("\n")
	for _, p := range placements {
		for _, pos := range edgePositions {
			if n, ok := l.Cells[p.Coord.Step(pos).String()]; ok {
				fmt.Fprintf(&buf, "  %q -- %q;\n", p.Cell, n)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func label(p layout.Placement, mode string) string {
	switch mode {
	case "coord":
		return p.Coord.String()
	case "none":
		return ""
	default:
		return p.Cell
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz neato, which honors
// the pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// ToPNG converts SVG to PNG with rsvg-convert at the given scale.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return rsvg(svg, "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

// ToPDF converts SVG to PDF with rsvg-convert.
func ToPDF(svg []byte) ([]byte, error) {
	return rsvg(svg, "pdf")
}

func rsvg(svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := exec.LookPath("rsvg-convert")
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires rsvg-convert (macOS: brew install librsvg, Linux: apt install librsvg2-bin)", format)
	}
	cmd := exec.Command(bin, append([]string{"-f", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, stderr.String())
	}
	return out.Bytes(), nil
}
