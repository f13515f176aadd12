package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/layout"
	"github.com/matzehuels/hexglobe/pkg/pipeline"
)

// exploreKeys maps keys to clock positions; the QWE/ASD block mirrors the
// hexagon's six sides.
var exploreKeys = map[string]grid.ClockPosition{
	"q":     grid.TopLeft,
	"w":     grid.TopMiddle,
	"up":    grid.TopMiddle,
	"e":     grid.TopRight,
	"a":     grid.BottomLeft,
	"s":     grid.BottomMiddle,
	"down":  grid.BottomMiddle,
	"d":     grid.BottomRight,
	"left":  grid.BottomLeft,
	"right": grid.BottomRight,
}

var (
	exploreHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	exploreErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	exploreTrailStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// exploreCommand creates the "explore" command.
func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore <cell>",
		Short: "Walk the grid interactively by clock position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			// Fail fast on a bad starting cell instead of inside the TUI.
			if _, err := runner.Neighbors(ctx, args[0]); err != nil {
				return err
			}
			final, err := tea.NewProgram(newExploreModel(ctx, runner, args[0]), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(exploreModel); ok && m.current.Cell != "" {
				fmt.Fprintln(cmd.OutOrStdout(), m.current.Cell)
			}
			return nil
		},
	}
}

// neighborsMsg delivers a neighbor lookup to the explorer.
type neighborsMsg struct {
	n    layout.Neighbors
	err  error
	back bool
}

// exploreModel is the bubbletea model behind "hexglobe explore".
type exploreModel struct {
	ctx     context.Context
	runner  *pipeline.Runner
	start   string
	current layout.Neighbors
	trail   []string
	loading bool
	err     error
}

func newExploreModel(ctx context.Context, runner *pipeline.Runner, start string) exploreModel {
	return exploreModel{ctx: ctx, runner: runner, start: start, loading: true}
}

func (m exploreModel) Init() tea.Cmd {
	return m.visit(m.start, false)
}

// visit looks up the neighbors of cell in the background.
func (m exploreModel) visit(cell string, back bool) tea.Cmd {
	return func() tea.Msg {
		n, err := m.runner.Neighbors(m.ctx, cell)
		return neighborsMsg{n: n, err: err, back: back}
	}
}

// parent looks up the neighbors of the current cell's parent.
func (m exploreModel) parent() tea.Cmd {
	cell := grid.Cell(m.current.Cell)
	return func() tea.Msg {
		res := m.runner.Index.Resolution(cell)
		if res <= grid.MinResolution {
			return neighborsMsg{err: fmt.Errorf("%s is already at resolution %d", cell, grid.MinResolution)}
		}
		p, err := m.runner.Index.Parent(m.ctx, cell, res-1)
		if err != nil {
			return neighborsMsg{err: err}
		}
		n, err := m.runner.Neighbors(m.ctx, string(p))
		return neighborsMsg{n: n, err: err}
	}
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case neighborsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		switch {
		case msg.back:
			m.trail = m.trail[:len(m.trail)-1]
		case m.current.Cell != "":
			m.trail = append(m.trail, m.current.Cell)
		}
		m.current = msg.n
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			if k := msg.String(); k == "ctrl+c" || k == "esc" {
				return m, tea.Quit
			}
			return m, nil
		}
		switch k := msg.String(); k {
		case "ctrl+c", "esc", "x":
			return m, tea.Quit
		case "b", "backspace":
			if len(m.trail) == 0 {
				return m, nil
			}
			m.loading = true
			return m, m.visit(m.trail[len(m.trail)-1], true)
		case "p":
			m.loading = true
			return m, m.parent()
		default:
			p, ok := exploreKeys[k]
			if !ok {
				return m, nil
			}
			next := m.current.At(p)
			if next == "" {
				m.err = fmt.Errorf("no neighbor at %s", p)
				return m, nil
			}
			m.loading = true
			return m, m.visit(next, false)
		}
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("HexGlobe Explorer"))
	b.WriteString("\n\n")

	if m.current.Cell == "" {
		b.WriteString(StyleDim.Render("loading " + m.start + "..."))
		b.WriteString("\n")
	} else {
		b.WriteString(renderNeighbors(m.current))
		b.WriteString("\n\n")
	}

	if n := len(m.trail); n > 0 {
		from := max(0, n-5)
		b.WriteString(exploreTrailStyle.Render("trail: " + strings.Join(m.trail[from:], " → ")))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(exploreErrorStyle.Render(iconError + " " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(exploreHelpStyle.Render("q/w/e a/s/d move  p parent  b back  esc quit"))
	b.WriteString("\n")
	return b.String()
}
