package embed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
)

// Coord is a lattice coordinate.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Origin is the coordinate of the center cell.
var Origin = Coord{}

// Offset tables by source column parity, indexed by clock position.
var (
	EvenOffsets = [grid.NumPositions]Coord{
		grid.BottomMiddle: {-1, 0},
		grid.BottomLeft:   {-1, -1},
		grid.TopLeft:      {0, -1},
		grid.TopMiddle:    {1, 0},
		grid.TopRight:     {0, 1},
		grid.BottomRight:  {-1, 1},
	}
	OddOffsets = [grid.NumPositions]Coord{
		grid.BottomMiddle: {-1, 0},
		grid.BottomLeft:   {0, -1},
		grid.TopLeft:      {1, -1},
		grid.TopMiddle:    {1, 0},
		grid.TopRight:     {1, 1},
		grid.BottomRight:  {0, 1},
	}
)

// Offset returns the step toward p from a coordinate in column col.
func Offset(p grid.ClockPosition, col int) Coord {
	if col&1 == 1 {
		return OddOffsets[p]
	}
	return EvenOffsets[p]
}

// Step returns the neighboring coordinate toward p.
func (c Coord) Step(p grid.ClockPosition) Coord {
	off := Offset(p, c.Col)
	return Coord{Row: c.Row + off.Row, Col: c.Col + off.Col}
}

// Distance returns the number of lattice steps between c and o.
func (c Coord) Distance(o Coord) int {
	aq, ar := c.axial()
	bq, br := o.axial()
	dq, dr := aq-bq, ar-br
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

func (c Coord) axial() (q, r int) {
	return c.Col, c.Row - (c.Col-(c.Col&1))/2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// String returns the "row,col" key used in wire formats.
func (c Coord) String() string {
	return strconv.Itoa(c.Row) + "," + strconv.Itoa(c.Col)
}

// MarshalText implements encoding.TextMarshaler.
func (c Coord) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Coord) UnmarshalText(b []byte) error {
	v, err := ParseCoord(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseCoord parses a "row,col" key.
func ParseCoord(s string) (Coord, error) {
	row, col, ok := strings.Cut(s, ",")
	if !ok {
		return Coord{}, fmt.Errorf("invalid coordinate %q: want row,col", s)
	}
	r, err := strconv.Atoi(strings.TrimSpace(row))
	if err != nil {
		return Coord{}, fmt.Errorf("invalid coordinate row %q: %w", row, err)
	}
	c, err := strconv.Atoi(strings.TrimSpace(col))
	if err != nil {
		return Coord{}, fmt.Errorf("invalid coordinate col %q: %w", col, err)
	}
	return Coord{Row: r, Col: c}, nil
}

// Bounds is the inclusive extent of populated coordinates.
type Bounds struct {
	MinRow int `json:"min_row"`
	MaxRow int `json:"max_row"`
	MinCol int `json:"min_col"`
	MaxCol int `json:"max_col"`
}

// Contains reports whether c lies within b.
func (b Bounds) Contains(c Coord) bool {
	return c.Row >= b.MinRow && c.Row <= b.MaxRow && c.Col >= b.MinCol && c.Col <= b.MaxCol
}

// Rows returns the number of rows spanned by b.
func (b Bounds) Rows() int { return b.MaxRow - b.MinRow + 1 }

// Cols returns the number of columns spanned by b.
func (b Bounds) Cols() int { return b.MaxCol - b.MinCol + 1 }

// Window returns the coordinates a width x height request may populate,
// centered on the origin. Even extents extend one further north and east.
func Window(width, height int) Bounds {
	return Bounds{
		MinRow: -(height - 1) / 2,
		MaxRow: height / 2,
		MinCol: -(width - 1) / 2,
		MaxCol: width / 2,
	}
}
