package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/layout"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings, pentagons
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCenter   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	stylePentagon = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
	iconEmpty   = "·"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printLayoutStats prints a one-line summary of a layout.
func printLayoutStats(l layout.Layout, cached bool) {
	parts := []string{
		fmt.Sprintf("%d cells", len(l.Cells)),
		l.Strategy,
	}
	if n := len(l.PentagonCoordinates); n > 0 {
		parts = append(parts, fmt.Sprintf("%d pentagons", n))
	}
	if n := len(l.Conflicts); n > 0 {
		parts = append(parts, fmt.Sprintf("%d conflicts", n))
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	var b strings.Builder
	b.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(StyleDim.Render(" · "))
		}
		b.WriteString(StyleDim.Render(part))
	}
	b.WriteString(StyleDim.Render(" · ") + statusStyle.Render(status))
	fmt.Println(b.String())
}

// =============================================================================
// Cell Diagrams
// =============================================================================

const diagramCol = 19

// renderNeighbors draws the six clock positions around a cell.
func renderNeighbors(n layout.Neighbors) string {
	at := func(p grid.ClockPosition) string {
		id := n.At(p)
		if id == "" {
			return StyleDim.Render(p.String() + ": " + iconEmpty)
		}
		return StyleDim.Render(p.String()+": ") + StyleValue.Render(id)
	}
	center := styleCenter.Render(n.Cell)
	if n.Pentagon {
		center += " " + stylePentagon.Render("(pentagon)")
	}

	cell := lipgloss.NewStyle().Width(2 * diagramCol).Align(lipgloss.Center)
	half := lipgloss.NewStyle().Width(diagramCol * 2)
	side := func(l, r grid.ClockPosition) string {
		return half.Render(lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(diagramCol).Render(at(l)),
			lipgloss.NewStyle().Width(diagramCol).Align(lipgloss.Right).Render(at(r))))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		cell.Render(at(grid.TopMiddle)),
		side(grid.TopLeft, grid.TopRight),
		cell.Render(center),
		side(grid.BottomLeft, grid.BottomRight),
		cell.Render(at(grid.BottomMiddle)),
	)
}

// renderGridTable draws a layout as a table, north at the top.
func renderGridTable(l layout.Layout) string {
	rows := l.Grid()
	b := l.Bounds
	headers := []string{""}
	for c := b.MinCol; c <= b.MaxCol; c++ {
		headers = append(headers, fmt.Sprintf("%d", c))
	}

	body := make([][]string, 0, len(rows))
	for i, row := range rows {
		line := []string{fmt.Sprintf("%d", b.MaxRow-i)}
		for _, id := range row {
			if id == "" {
				id = iconEmpty
			}
			line = append(line, id)
		}
		body = append(body, line)
	}

	pentagons := make(map[[2]int]bool, len(l.PentagonCoordinates))
	for _, p := range l.PentagonCoordinates {
		pentagons[p] = true
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow || col == 0 {
				return base.Foreground(colorGray)
			}
			r, c := b.MaxRow-row, b.MinCol+col-1
			switch {
			case r == 0 && c == 0:
				return base.Inherit(styleCenter)
			case pentagons[[2]int{r, c}]:
				return base.Inherit(stylePentagon)
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}
