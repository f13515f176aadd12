package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/matzehuels/hexglobe/pkg/core/embed"
	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/core/ladder"
	"github.com/matzehuels/hexglobe/pkg/core/neighbors"
)

// =============================================================================
// Neighbors
// =============================================================================

// Neighbors is the serialized clock-position assignment of one cell.
type Neighbors struct {
	Cell      string             `json:"cell"`
	Pentagon  bool               `json:"pentagon"`
	Positions map[string]*string `json:"positions"`
}

// FromNeighbors converts a positioned neighbor set.
func FromNeighbors(n neighbors.Neighbors, pentagon bool) Neighbors {
	out := Neighbors{
		Cell:      string(n.Cell),
		Pentagon:  pentagon,
		Positions: make(map[string]*string, grid.NumPositions),
	}
	for _, p := range grid.Positions() {
		if c := n.At(p); c != "" {
			id := string(c)
			out.Positions[p.String()] = &id
		} else {
			out.Positions[p.String()] = nil
		}
	}
	return out
}

// At returns the neighbor at p, or "".
func (n Neighbors) At(p grid.ClockPosition) string {
	if v := n.Positions[p.String()]; v != nil {
		return *v
	}
	return ""
}

// Neighbors converts back to the core representation.
func (n Neighbors) Neighbors() (neighbors.Neighbors, error) {
	out := neighbors.Neighbors{Cell: grid.Cell(n.Cell)}
	for name, v := range n.Positions {
		p, err := grid.ParseClockPosition(name)
		if err != nil {
			return neighbors.Neighbors{}, err
		}
		if v != nil {
			out.Slots[p] = grid.Cell(*v)
		}
	}
	return out, nil
}

// MarshalNeighbors serializes n to pretty-printed JSON.
func MarshalNeighbors(n Neighbors) ([]byte, error) {
	return json.MarshalIndent(n, "", "  ")
}

// UnmarshalNeighbors deserializes JSON into Neighbors.
func UnmarshalNeighbors(data []byte) (Neighbors, error) {
	var n Neighbors
	if err := json.Unmarshal(data, &n); err != nil {
		return Neighbors{}, fmt.Errorf("unmarshal neighbors: %w", err)
	}
	if n.Cell == "" {
		return Neighbors{}, fmt.Errorf("neighbors must name a cell")
	}
	return n, nil
}

// =============================================================================
// Ladder
// =============================================================================

// Ladder is the serialized resolution ladder of one cell.
type Ladder struct {
	Cell       string         `json:"cell"`
	Resolution int            `json:"resolution"`
	Cells      map[int]string `json:"ladder"`
}

// FromLadder converts a resolution ladder.
func FromLadder(cell grid.Cell, res int, l ladder.Ladder) Ladder {
	out := Ladder{Cell: string(cell), Resolution: res, Cells: make(map[int]string, grid.NumResolutions)}
	for r, c := range l {
		out.Cells[r] = string(c)
	}
	return out
}

// Ladder converts back to the core representation.
func (l Ladder) Ladder() (ladder.Ladder, error) {
	var out ladder.Ladder
	for r, c := range l.Cells {
		if r < grid.MinResolution || r > grid.MaxResolution {
			return ladder.Ladder{}, fmt.Errorf("ladder resolution %d out of range", r)
		}
		out[r] = grid.Cell(c)
	}
	return out, nil
}

// MarshalLadder serializes l to pretty-printed JSON.
func MarshalLadder(l Ladder) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLadder deserializes JSON into a Ladder.
func UnmarshalLadder(data []byte) (Ladder, error) {
	var l Ladder
	if err := json.Unmarshal(data, &l); err != nil {
		return Ladder{}, fmt.Errorf("unmarshal ladder: %w", err)
	}
	if l.Cells[l.Resolution] != l.Cell {
		return Ladder{}, fmt.Errorf("ladder entry at resolution %d must be the cell itself", l.Resolution)
	}
	return l, nil
}

// =============================================================================
// Layout
// =============================================================================

// Layout is the serialized form of an embedding.
type Layout struct {
	Center   string `json:"center"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Radius   int    `json:"radius"`
	Strategy string `json:"strategy"`

	Cells               map[string]string `json:"cells"`
	Bounds              embed.Bounds      `json:"bounds"`
	PentagonCoordinates [][2]int          `json:"pentagon_coordinates"`
	Conflicts           []embed.Conflict  `json:"conflicts,omitempty"`
	CenterCorrected     bool              `json:"center_corrected,omitempty"`
}

// Placement is one populated coordinate.
type Placement struct {
	Coord    embed.Coord
	Cell     string
	Pentagon bool
}

// FromEmbedding converts an embedding.
func FromEmbedding(e *embed.Embedding) Layout {
	out := Layout{
		Center:              string(e.Center),
		Width:               e.Width,
		Height:              e.Height,
		Radius:              e.Radius,
		Strategy:            string(e.Strategy),
		Cells:               make(map[string]string, len(e.Cells)),
		Bounds:              e.Bounds,
		PentagonCoordinates: make([][2]int, 0, len(e.Pentagons)),
		Conflicts:           e.Conflicts,
		CenterCorrected:     e.CenterCorrected,
	}
	for c, cell := range e.Cells {
		out.Cells[c.String()] = string(cell)
	}
	for _, c := range e.Pentagons {
		out.PentagonCoordinates = append(out.PentagonCoordinates, [2]int{c.Row, c.Col})
	}
	return out
}

// IsPentagonAt reports whether c is listed as a pentagon coordinate.
func (l Layout) IsPentagonAt(c embed.Coord) bool {
	for _, p := range l.PentagonCoordinates {
		if p[0] == c.Row && p[1] == c.Col {
			return true
		}
	}
	return false
}

// Placements returns the populated coordinates sorted north to south, then
// west to east.
func (l Layout) Placements() ([]Placement, error) {
	out := make([]Placement, 0, len(l.Cells))
	for key, cell := range l.Cells {
		c, err := embed.ParseCoord(key)
		if err != nil {
			return nil, err
		}
		out = append(out, Placement{Coord: c, Cell: cell, Pentagon: l.IsPentagonAt(c)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Coord.Row != out[j].Coord.Row {
			return out[i].Coord.Row > out[j].Coord.Row
		}
		return out[i].Coord.Col < out[j].Coord.Col
	})
	return out, nil
}

// Grid returns the layout as a dense table, northern-most row first, with
// "" for unpopulated coordinates.
func (l Layout) Grid() [][]string {
	b := l.Bounds
	rows := make([][]string, 0, b.Rows())
	for r := b.MaxRow; r >= b.MinRow; r-- {
		row := make([]string, 0, b.Cols())
		for c := b.MinCol; c <= b.MaxCol; c++ {
			row = append(row, l.Cells[embed.Coord{Row: r, Col: c}.String()])
		}
		rows = append(rows, row)
	}
	return rows
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// The center must be present at "0,0".
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Center == "" {
		return Layout{}, fmt.Errorf("layout must name a center cell")
	}
	if got := l.Cells[embed.Origin.String()]; got != l.Center {
		return Layout{}, fmt.Errorf("layout cell at 0,0 is %q, want center %q", got, l.Center)
	}
	if l.PentagonCoordinates == nil {
		l.PentagonCoordinates = [][2]int{}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
