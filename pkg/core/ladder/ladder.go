// Package ladder computes, for one cell, the related cell at every
// resolution of the hierarchy: ancestors above, the cell itself, and the
// cells containing its centroid below.
package ladder

import (
	"context"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/errors"
)

// Ladder holds one cell per resolution, indexed by resolution.
type Ladder [grid.NumResolutions]grid.Cell

// At returns the entry for resolution r, or "" when r is out of range.
func (l Ladder) At(r int) grid.Cell {
	if r < grid.MinResolution || r > grid.MaxResolution {
		return ""
	}
	return l[r]
}

// Build returns the ladder for cell.
//
// Coarser entries come from walking Parent one resolution at a time, so
// ladder[r] is always the parent of ladder[r+1]. Finer entries are the
// cells containing cell's centroid and are not necessarily descendants of
// cell. Any failed lookup fails the whole call.
func Build(ctx context.Context, idx grid.Index, cell grid.Cell) (Ladder, error) {
	var out Ladder
	if err := grid.Check(idx, cell); err != nil {
		return out, err
	}
	res := idx.Resolution(cell)
	if err := errors.ValidateResolution(res); err != nil {
		return out, err
	}
	out[res] = cell

	cur := cell
	for r := res - 1; r >= grid.MinResolution; r-- {
		parent, err := idx.Parent(ctx, cur, r)
		if err != nil {
			return Ladder{}, errors.Geometry(err, "parent", string(cur))
		}
		if !idx.IsValid(parent) {
			return Ladder{}, errors.New(errors.ErrCodeGeometryUnavailable, "parent of %s at resolution %d is invalid: %q", cur, r, parent)
		}
		out[r] = parent
		cur = parent
	}

	if res == grid.MaxResolution {
		return out, nil
	}
	center, err := idx.Centroid(ctx, cell)
	if err != nil {
		return Ladder{}, errors.Geometry(err, "centroid", string(cell))
	}
	for r := res + 1; r <= grid.MaxResolution; r++ {
		if err := ctx.Err(); err != nil {
			return Ladder{}, err
		}
		child, err := idx.PointToCell(ctx, center, r)
		if err != nil {
			return Ladder{}, errors.Geometry(err, "point_to_cell", string(cell))
		}
		out[r] = child
	}
	return out, nil
}
