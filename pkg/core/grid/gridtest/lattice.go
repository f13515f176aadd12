// Package gridtest provides a deterministic planar hexagonal lattice that
// implements grid.Index, for tests that need exact, library-free geometry.
//
// Cells are flat-top hexagons addressed by (resolution, column, row) with
// rows increasing northward and odd columns shifted half a row north. The
// lattice is projected onto a small patch of the globe around an origin, so
// bearings computed on the sphere agree with the planar picture. Pentagons
// can be planted at any cell; a planted pentagon loses its northern
// neighbor in both directions.
package gridtest

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/paulmach/orb"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/errors"
)

// Defaults for New.
const (
	DefaultSize    = 0.001
	DefaultBaseRes = 9
)

// evenOffsets and oddOffsets give the (row, col) step to each clock
// position for a source cell in an even or odd column.
var (
	evenOffsets = [grid.NumPositions][2]int{{-1, 0}, {-1, -1}, {0, -1}, {1, 0}, {0, 1}, {-1, 1}}
	oddOffsets  = [grid.NumPositions][2]int{{-1, 0}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}}
)

// Lattice is a planar hex grid implementing grid.Index.
type Lattice struct {
	// Origin is the geographic position of cell (0, 0) at every resolution.
	Origin orb.Point
	// Size is the hexagon circumradius, in degrees of latitude, at BaseRes.
	// Each coarser resolution doubles it.
	Size    float64
	BaseRes int

	// Fail, when set, is consulted before every fallible operation; a
	// non-nil result is returned as a GEOMETRY_UNAVAILABLE error.
	Fail func(op string, c grid.Cell) error

	mu        sync.Mutex
	pentagons map[grid.Cell]bool
	calls     map[string]int
}

// New returns a lattice anchored at origin.
func New(origin orb.Point) *Lattice {
	return &Lattice{
		Origin:    origin,
		Size:      DefaultSize,
		BaseRes:   DefaultBaseRes,
		pentagons: make(map[grid.Cell]bool),
		calls:     make(map[string]int),
	}
}

// Cell returns the identifier for the lattice cell (res, q, row).
func Cell(res, q, row int) grid.Cell {
	return grid.Cell(fmt.Sprintf("%d:%d:%d", res, q, row))
}

// Coords parses a lattice cell identifier.
func Coords(c grid.Cell) (res, q, row int, ok bool) {
	parts := strings.Split(string(c), ":")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var vals [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return 0, 0, 0, false
		}
		vals[i] = v
	}
	res, q, row = vals[0], vals[1], vals[2]
	if res < grid.MinResolution || res > grid.MaxResolution || Cell(res, q, row) != c {
		return 0, 0, 0, false
	}
	return res, q, row, true
}

// Step returns the cell one step from (res, q, row) toward position p,
// ignoring pentagon distortion.
func Step(res, q, row int, p grid.ClockPosition) grid.Cell {
	off := evenOffsets[p]
	if q&1 == 1 {
		off = oddOffsets[p]
	}
	return Cell(res, q+off[1], row+off[0])
}

// AddPentagon plants a pentagon at the given lattice cell.
func (l *Lattice) AddPentagon(c grid.Cell) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pentagons[c] = true
}

// Calls returns how many times op has been invoked.
func (l *Lattice) Calls(op string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[op]
}

func (l *Lattice) record(op string, c grid.Cell) error {
	l.mu.Lock()
	l.calls[op]++
	l.mu.Unlock()
	if l.Fail != nil {
		if err := l.Fail(op, c); err != nil {
			return errors.Wrap(errors.ErrCodeGeometryUnavailable, err, "%s %s", op, c)
		}
	}
	return nil
}

// IsValid reports whether c is a well-formed lattice identifier.
func (l *Lattice) IsValid(c grid.Cell) bool {
	_, _, _, ok := Coords(c)
	return ok
}

// IsPentagon reports whether c was planted with AddPentagon.
func (l *Lattice) IsPentagon(c grid.Cell) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pentagons[c]
}

// Resolution returns the resolution encoded in c, or -1.
func (l *Lattice) Resolution(c grid.Cell) int {
	res, _, _, ok := Coords(c)
	if !ok {
		return -1
	}
	return res
}

func (l *Lattice) size(res int) float64 {
	return l.Size * math.Pow(2, float64(l.BaseRes-res))
}

func (l *Lattice) lngScale() float64 {
	return math.Cos(l.Origin.Lat() * math.Pi / 180)
}

// toGeo projects planar offsets (in degrees of latitude) onto the globe.
func (l *Lattice) toGeo(x, y float64) orb.Point {
	return orb.Point{l.Origin.Lon() + x/l.lngScale(), l.Origin.Lat() + y}
}

func (l *Lattice) center(res, q, row int) (x, y float64) {
	s := l.size(res)
	return 1.5 * s * float64(q), math.Sqrt(3) * s * (float64(row) + 0.5*float64(q&1))
}

func (l *Lattice) parse(c grid.Cell) (res, q, row int, err error) {
	res, q, row, ok := Coords(c)
	if !ok {
		return 0, 0, 0, errors.New(errors.ErrCodeInvalidCell, "not a lattice cell: %q", string(c))
	}
	return res, q, row, nil
}

// Centroid returns the center of c.
func (l *Lattice) Centroid(ctx context.Context, c grid.Cell) (orb.Point, error) {
	res, q, row, err := l.parse(c)
	if err != nil {
		return orb.Point{}, err
	}
	if err := l.record("centroid", c); err != nil {
		return orb.Point{}, err
	}
	return l.toGeo(l.center(res, q, row)), nil
}

// Boundary returns the six vertices of c counter-clockwise starting east.
func (l *Lattice) Boundary(ctx context.Context, c grid.Cell) (orb.Ring, error) {
	res, q, row, err := l.parse(c)
	if err != nil {
		return nil, err
	}
	if err := l.record("boundary", c); err != nil {
		return nil, err
	}
	s := l.size(res)
	cx, cy := l.center(res, q, row)
	ring := make(orb.Ring, 0, 6)
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		ring = append(ring, l.toGeo(cx+s*math.Cos(a), cy+s*math.Sin(a)))
	}
	return ring, nil
}

// northOf returns the cell directly north of c.
func northOf(res, q, row int) grid.Cell {
	return Cell(res, q, row+1)
}

func (l *Lattice) adjacent(c grid.Cell) []grid.Cell {
	res, q, row, _ := Coords(c)
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]grid.Cell, 0, grid.NumPositions)
	for _, p := range grid.Positions() {
		n := Step(res, q, row, p)
		if l.pentagons[c] && n == northOf(res, q, row) {
			continue
		}
		if l.pentagons[n] && p == grid.BottomMiddle {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Ring returns all cells within k steps of c, c first, in breadth-first
// order.
func (l *Lattice) Ring(ctx context.Context, c grid.Cell, k int) ([]grid.Cell, error) {
	if _, _, _, err := l.parse(c); err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "negative ring size %d", k)
	}
	if err := l.record("ring", c); err != nil {
		return nil, err
	}
	seen := map[grid.Cell]bool{c: true}
	out := []grid.Cell{c}
	frontier := []grid.Cell{c}
	for step := 0; step < k; step++ {
		var next []grid.Cell
		for _, f := range frontier {
			for _, n := range l.adjacent(f) {
				if !seen[n] {
					seen[n] = true
					out = append(out, n)
					next = append(next, n)
				}
			}
		}
		frontier = next
	}
	return out, nil
}

// Parent returns the coarser cell containing c's centroid.
func (l *Lattice) Parent(ctx context.Context, c grid.Cell, res int) (grid.Cell, error) {
	cur, q, row, err := l.parse(c)
	if err != nil {
		return "", err
	}
	if res < grid.MinResolution || res > cur {
		return "", errors.New(errors.ErrCodeInvalidResolution, "parent resolution %d not coarser than %d", res, cur)
	}
	if err := l.record("parent", c); err != nil {
		return "", err
	}
	x, y := l.center(cur, q, row)
	return l.locate(x, y, res), nil
}

// Children returns the finer cells at res whose centroids fall inside c,
// ordered by column, then row.
func (l *Lattice) Children(ctx context.Context, c grid.Cell, res int) ([]grid.Cell, error) {
	cur, q, row, err := l.parse(c)
	if err != nil {
		return nil, err
	}
	if res <= cur || res > grid.MaxResolution {
		return nil, errors.New(errors.ErrCodeInvalidResolution, "child resolution %d not finer than %d", res, cur)
	}
	if err := l.record("children", c); err != nil {
		return nil, err
	}
	cx, cy := l.center(cur, q, row)
	big, s := l.size(cur), l.size(res)
	minQ, maxQ := int(math.Floor((cx-big)/(1.5*s)))-1, int(math.Ceil((cx+big)/(1.5*s)))+1
	minRow, maxRow := int(math.Floor((cy-big)/(math.Sqrt(3)*s)))-1, int(math.Ceil((cy+big)/(math.Sqrt(3)*s)))+1

	var out []grid.Cell
	for cq := minQ; cq <= maxQ; cq++ {
		for cr := minRow; cr <= maxRow; cr++ {
			x, y := l.center(res, cq, cr)
			if l.locate(x, y, cur) == c {
				out = append(out, Cell(res, cq, cr))
			}
		}
	}
	return out, nil
}

// PointToCell returns the cell containing p at res.
func (l *Lattice) PointToCell(ctx context.Context, p orb.Point, res int) (grid.Cell, error) {
	if err := errors.ValidateResolution(res); err != nil {
		return "", err
	}
	if err := l.record("locate", ""); err != nil {
		return "", err
	}
	x := (p.Lon() - l.Origin.Lon()) * l.lngScale()
	y := p.Lat() - l.Origin.Lat()
	return l.locate(x, y, res), nil
}

// locate rounds planar coordinates to the containing hexagon using cube
// coordinates.
func (l *Lattice) locate(x, y float64, res int) grid.Cell {
	s := l.size(res)
	fq := (2.0 / 3.0 * x) / s
	fr := (-1.0/3.0*x + math.Sqrt(3)/3.0*y) / s
	fs := -fq - fr

	rq, rr, rs := math.Round(fq), math.Round(fr), math.Round(fs)
	dq, dr, ds := math.Abs(rq-fq), math.Abs(rr-fr), math.Abs(rs-fs)
	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	}

	q, r := int(rq), int(rr)
	row := r + (q-(q&1))/2
	return Cell(res, q, row)
}

var _ grid.Index = (*Lattice)(nil)
