// Package h3index implements grid.Index on top of Uber's H3 library.
//
// Cell identifiers are H3 indexes in their canonical 15-character
// lowercase hexadecimal form, e.g. "8a194da9a74ffff".
package h3index

import (
	"context"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/errors"
)

// Index is a stateless grid.Index backed by H3. The zero value is ready to
// use and safe for concurrent use.
type Index struct{}

// New returns an H3 index.
func New() *Index {
	return &Index{}
}

// parse converts an identifier into an H3 cell without validating it.
func parse(c grid.Cell) (h3.Cell, bool) {
	if len(c) == 0 || len(c) > 16 {
		return 0, false
	}
	v, err := strconv.ParseUint(string(c), 16, 64)
	if err != nil {
		return 0, false
	}
	return h3.Cell(int64(v)), true
}

// FromH3 converts an H3 cell into a grid cell.
func FromH3(c h3.Cell) grid.Cell {
	return grid.Cell(c.String())
}

func (x *Index) cell(ctx context.Context, c grid.Cell) (h3.Cell, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	hc, ok := parse(c)
	if !ok || !hc.IsValid() {
		return 0, errors.New(errors.ErrCodeInvalidCell, "not a valid H3 cell: %q", string(c))
	}
	return hc, nil
}

// IsValid reports whether c is a valid H3 cell index.
func (x *Index) IsValid(c grid.Cell) bool {
	hc, ok := parse(c)
	return ok && hc.IsValid()
}

// IsPentagon reports whether c is one of the twelve pentagons at its
// resolution.
func (x *Index) IsPentagon(c grid.Cell) bool {
	hc, ok := parse(c)
	return ok && hc.IsValid() && hc.IsPentagon()
}

// Resolution returns c's resolution, or -1 for invalid cells.
func (x *Index) Resolution(c grid.Cell) int {
	hc, ok := parse(c)
	if !ok || !hc.IsValid() {
		return -1
	}
	return hc.Resolution()
}

// Centroid returns the center of c.
func (x *Index) Centroid(ctx context.Context, c grid.Cell) (orb.Point, error) {
	hc, err := x.cell(ctx, c)
	if err != nil {
		return orb.Point{}, err
	}
	ll, err := hc.LatLng()
	if err != nil {
		return orb.Point{}, errors.Geometry(err, "centroid", string(c))
	}
	return orb.Point{ll.Lng, ll.Lat}, nil
}

// Boundary returns c's vertices in H3's counter-clockwise order.
func (x *Index) Boundary(ctx context.Context, c grid.Cell) (orb.Ring, error) {
	hc, err := x.cell(ctx, c)
	if err != nil {
		return nil, err
	}
	b, err := hc.Boundary()
	if err != nil {
		return nil, errors.Geometry(err, "boundary", string(c))
	}
	ring := make(orb.Ring, 0, len(b))
	for _, ll := range b {
		ring = append(ring, orb.Point{ll.Lng, ll.Lat})
	}
	return ring, nil
}

// Ring returns every cell within k steps of c, including c.
func (x *Index) Ring(ctx context.Context, c grid.Cell, k int) ([]grid.Cell, error) {
	hc, err := x.cell(ctx, c)
	if err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "negative ring size %d", k)
	}
	disk, err := hc.GridDisk(k)
	if err != nil {
		return nil, errors.Geometry(err, "ring", string(c))
	}
	out := make([]grid.Cell, 0, len(disk))
	for _, d := range disk {
		if d != 0 {
			out = append(out, FromH3(d))
		}
	}
	return out, nil
}

// Parent returns the ancestor of c at res.
func (x *Index) Parent(ctx context.Context, c grid.Cell, res int) (grid.Cell, error) {
	hc, err := x.cell(ctx, c)
	if err != nil {
		return "", err
	}
	if res < grid.MinResolution || res > hc.Resolution() {
		return "", errors.New(errors.ErrCodeInvalidResolution, "parent resolution %d not coarser than %d", res, hc.Resolution())
	}
	p, err := hc.Parent(res)
	if err != nil {
		return "", errors.Geometry(err, "parent", string(c))
	}
	return FromH3(p), nil
}

// Children returns the descendants of c at res.
func (x *Index) Children(ctx context.Context, c grid.Cell, res int) ([]grid.Cell, error) {
	hc, err := x.cell(ctx, c)
	if err != nil {
		return nil, err
	}
	if res <= hc.Resolution() || res > grid.MaxResolution {
		return nil, errors.New(errors.ErrCodeInvalidResolution, "child resolution %d not finer than %d", res, hc.Resolution())
	}
	children, err := hc.Children(res)
	if err != nil {
		return nil, errors.Geometry(err, "children", string(c))
	}
	out := make([]grid.Cell, len(children))
	for i, ch := range children {
		out[i] = FromH3(ch)
	}
	return out, nil
}

// PointToCell returns the cell containing p at res.
func (x *Index) PointToCell(ctx context.Context, p orb.Point, res int) (grid.Cell, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := errors.ValidateResolution(res); err != nil {
		return "", err
	}
	if err := errors.ValidateLatLng(p.Lat(), p.Lon()); err != nil {
		return "", err
	}
	hc, err := h3.LatLngToCell(h3.NewLatLng(p.Lat(), p.Lon()), res)
	if err != nil {
		return "", errors.Geometry(err, "point_to_cell", fmt.Sprintf("%g,%g", p.Lat(), p.Lon()))
	}
	return FromH3(hc), nil
}

// Pentagons returns the twelve pentagons at res.
func Pentagons(res int) ([]grid.Cell, error) {
	if err := errors.ValidateResolution(res); err != nil {
		return nil, err
	}
	ps, err := h3.Pentagons(res)
	if err != nil {
		return nil, errors.Geometry(err, "pentagons", strconv.Itoa(res))
	}
	out := make([]grid.Cell, len(ps))
	for i, p := range ps {
		out[i] = FromH3(p)
	}
	return out, nil
}

var _ grid.Index = (*Index)(nil)
