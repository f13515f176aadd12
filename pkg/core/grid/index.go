package grid

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/matzehuels/hexglobe/pkg/errors"
)

// Resolution bounds of the hierarchy.
const (
	MinResolution  = errors.MinResolution
	MaxResolution  = errors.MaxResolution
	NumResolutions = MaxResolution + 1
)

// Cell is an opaque grid cell identifier.
type Cell string

// String returns the identifier.
func (c Cell) String() string { return string(c) }

// Index answers every geographic question HexGlobe asks of the underlying
// grid. Points use orb's (longitude, latitude) order in degrees.
//
// IsValid, IsPentagon and Resolution are intrinsic to the identifier and
// cannot fail. The remaining methods may fail transiently; implementations
// report such failures with code GEOMETRY_UNAVAILABLE and report malformed
// input with INVALID_CELL or INVALID_RESOLUTION.
//
// Implementations must be safe for concurrent use.
type Index interface {
	IsValid(c Cell) bool
	IsPentagon(c Cell) bool
	Resolution(c Cell) int

	// Centroid returns the geographic center of c.
	Centroid(ctx context.Context, c Cell) (orb.Point, error)

	// Boundary returns the vertices of c in the index's traversal order
	// (counter-clockwise for H3). The ring is not closed.
	Boundary(ctx context.Context, c Cell) (orb.Ring, error)

	// Ring returns every cell within k steps of c, c included.
	Ring(ctx context.Context, c Cell, k int) ([]Cell, error)

	// Parent returns the ancestor of c at the coarser resolution res.
	Parent(ctx context.Context, c Cell, res int) (Cell, error)

	// Children returns the descendants of c at the finer resolution res.
	Children(ctx context.Context, c Cell, res int) ([]Cell, error)

	// PointToCell returns the cell containing p at resolution res.
	PointToCell(ctx context.Context, p orb.Point, res int) (Cell, error)
}

// Neighbors returns the cells exactly one step from c: Ring(c, 1) minus c.
func Neighbors(ctx context.Context, idx Index, c Cell) ([]Cell, error) {
	ring, err := idx.Ring(ctx, c, 1)
	if err != nil {
		return nil, err
	}
	out := make([]Cell, 0, len(ring))
	for _, n := range ring {
		if n != c {
			out = append(out, n)
		}
	}
	return out, nil
}

// IsNeighbor reports whether a and b are adjacent.
func IsNeighbor(ctx context.Context, idx Index, a, b Cell) (bool, error) {
	if a == b {
		return false, nil
	}
	ns, err := Neighbors(ctx, idx, a)
	if err != nil {
		return false, err
	}
	for _, n := range ns {
		if n == b {
			return true, nil
		}
	}
	return false, nil
}

// Check validates c against idx, returning an INVALID_CELL error if it is
// not a cell the index recognizes.
func Check(idx Index, c Cell) error {
	if err := errors.ValidateCellID(string(c)); err != nil {
		return err
	}
	if !idx.IsValid(c) {
		return errors.New(errors.ErrCodeInvalidCell, "not a valid cell: %q", string(c))
	}
	return nil
}
