package embed

import (
	"context"
	"sort"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/core/neighbors"
	"github.com/matzehuels/hexglobe/pkg/errors"
)

// DefaultMaxRings caps the covering radius of a single embedding.
const DefaultMaxRings = 16

// Strategy names the algorithm that produced an embedding.
type Strategy string

const (
	StrategyPrimary  Strategy = "primary"
	StrategyFallback Strategy = "fallback"
)

// PositionFunc computes positioned neighbors for a cell. It matches
// neighbors.Position and exists so callers can memoize it.
type PositionFunc func(ctx context.Context, idx grid.Index, c grid.Cell) (neighbors.Neighbors, error)

// Option configures Embed.
type Option func(*config)

type config struct {
	maxRings int
	position PositionFunc
}

// WithMaxRings caps the covering radius. Values below zero are ignored.
func WithMaxRings(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxRings = n
		}
	}
}

// WithPositioner replaces neighbors.Position.
func WithPositioner(fn PositionFunc) Option {
	return func(c *config) {
		if fn != nil {
			c.position = fn
		}
	}
}

// Embedding is a sparse layout of cells around Center.
type Embedding struct {
	Center   grid.Cell
	Width    int
	Height   int
	Radius   int
	Strategy Strategy

	Cells     map[Coord]grid.Cell
	Bounds    Bounds
	Pentagons []Coord
	Conflicts []Conflict

	// CenterCorrected is set when (0,0) had to be forced back to Center.
	// The corresponding CENTER_MISMATCH entry is in Conflicts.
	CenterCorrected bool
}

// At returns the cell at c, or "".
func (e *Embedding) At(c Coord) grid.Cell {
	return e.Cells[c]
}

// Len returns the number of populated coordinates.
func (e *Embedding) Len() int {
	return len(e.Cells)
}

// Coords returns the populated coordinates sorted by row, then column.
func (e *Embedding) Coords() []Coord {
	out := make([]Coord, 0, len(e.Cells))
	for c := range e.Cells {
		out = append(out, c)
	}
	sortCoords(out)
	return out
}

func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Row != cs[j].Row {
			return cs[i].Row < cs[j].Row
		}
		return cs[i].Col < cs[j].Col
	})
}

// Radius returns the number of rings needed to reach every corner of the
// width x height window, capped at maxRings.
func Radius(width, height, maxRings int) int {
	w := Window(width, height)
	r := 0
	for _, corner := range []Coord{
		{w.MinRow, w.MinCol},
		{w.MinRow, w.MaxCol},
		{w.MaxRow, w.MinCol},
		{w.MaxRow, w.MaxCol},
	} {
		r = max(r, corner.Distance(Origin))
	}
	return min(r, maxRings)
}

// Embed lays out the cells around center within a width x height window.
//
// Invalid input fails fast. If the index fails mid-way, the partially
// built embedding is returned together with the error so callers may still
// show what was placed.
func Embed(ctx context.Context, idx grid.Index, center grid.Cell, width, height int, opts ...Option) (*Embedding, error) {
	cfg := config{maxRings: DefaultMaxRings, position: neighbors.Position}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := grid.Check(idx, center); err != nil {
		return nil, err
	}
	if err := errors.ValidateExtent(width, height); err != nil {
		return nil, err
	}

	e := &Embedding{
		Center: center,
		Width:  width,
		Height: height,
		Radius: Radius(width, height, cfg.maxRings),
		Cells:  map[Coord]grid.Cell{Origin: center},
	}

	ring, err := idx.Ring(ctx, center, e.Radius)
	if err != nil {
		e.finish(idx)
		return e, errors.Geometry(err, "ring", string(center))
	}

	if hasPentagon(idx, ring) {
		e.Strategy = StrategyFallback
		err = e.bands(ctx, idx, ring)
	} else {
		e.Strategy = StrategyPrimary
		err = e.propagate(ctx, idx, cfg.position)
	}
	e.finish(idx)
	return e, err
}

func hasPentagon(idx grid.Index, cells []grid.Cell) bool {
	for _, c := range cells {
		if idx.IsPentagon(c) {
			return true
		}
	}
	return false
}

// propagate runs the breadth-first offset placement from the origin.
func (e *Embedding) propagate(ctx context.Context, idx grid.Index, position PositionFunc) error {
	window := Window(e.Width, e.Height)
	depth := map[Coord]int{Origin: 0}
	queue := []Coord{Origin}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		at := queue[0]
		queue = queue[1:]
		if depth[at] >= e.Radius {
			continue
		}

		src := e.Cells[at]
		nb, err := position(ctx, idx, src)
		if err != nil {
			return err
		}

		for _, p := range grid.Positions() {
			n := nb.At(p)
			if n == "" {
				continue
			}
			to := at.Step(p)
			if !window.Contains(to) {
				continue
			}
			if existing, ok := e.Cells[to]; ok {
				if c, bad := Check(to, existing, n); bad {
					e.Conflicts = append(e.Conflicts, c)
					break
				}
				continue
			}
			e.Cells[to] = n
			depth[to] = depth[at] + 1
			queue = append(queue, to)
		}
	}
	return nil
}

// finish enforces the center invariant and derives bounds and pentagons.
func (e *Embedding) finish(idx grid.Index) {
	if got := e.Cells[Origin]; got != e.Center {
		e.Conflicts = append(e.Conflicts, Conflict{
			Kind:     errors.ErrCodeCenterMismatch,
			At:       Origin,
			Existing: got,
			Incoming: e.Center,
		})
		for c, cell := range e.Cells {
			if cell == e.Center {
				delete(e.Cells, c)
			}
		}
		e.Cells[Origin] = e.Center
		e.CenterCorrected = true
	}

	e.Bounds = Bounds{}
	e.Pentagons = nil
	for c, cell := range e.Cells {
		e.Bounds.MinRow = min(e.Bounds.MinRow, c.Row)
		e.Bounds.MaxRow = max(e.Bounds.MaxRow, c.Row)
		e.Bounds.MinCol = min(e.Bounds.MinCol, c.Col)
		e.Bounds.MaxCol = max(e.Bounds.MaxCol, c.Col)
		if idx.IsPentagon(cell) {
			e.Pentagons = append(e.Pentagons, c)
		}
	}
	sortCoords(e.Pentagons)
}
