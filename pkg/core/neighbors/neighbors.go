// Package neighbors assigns the cells adjacent to a hexagon to the six
// clock positions around it.
//
// The assignment is anchored on the cell's equator-facing edge so that it
// is deterministic for a given cell and consistent between neighbors: if B
// sits at position p around A, then A sits at p.Inverse() around B.
//
// # Algorithm
//
//  1. Take the 1-ring of the cell, minus the cell itself.
//  2. Find the boundary edge whose midpoint is closest to the equator.
//  3. Pick a reference vertex on that edge: the edge's end vertex in the
//     northern hemisphere, its start vertex in the southern hemisphere.
//  4. Measure each neighbor's bearing relative to the reference vertex's
//     bearing, sort ascending (stable), and fill the positions in
//     canonical order.
//
// Pentagons have five neighbors; the last position stays empty.
package neighbors

import (
	"context"
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/core/sphere"
	"github.com/matzehuels/hexglobe/pkg/errors"
)

// Neighbors maps each clock position around Cell to the adjacent cell, or
// to the empty Cell when the position is unfilled.
type Neighbors struct {
	Cell  grid.Cell
	Slots [grid.NumPositions]grid.Cell
}

// At returns the neighbor at p, or "" if the position is empty.
func (n Neighbors) At(p grid.ClockPosition) grid.Cell {
	if !p.Valid() {
		return ""
	}
	return n.Slots[p]
}

// Position returns the clock position holding c.
func (n Neighbors) Position(c grid.Cell) (grid.ClockPosition, bool) {
	if c == "" {
		return 0, false
	}
	for i, s := range n.Slots {
		if s == c {
			return grid.ClockPosition(i), true
		}
	}
	return 0, false
}

// Missing returns the empty positions in canonical order.
func (n Neighbors) Missing() []grid.ClockPosition {
	var out []grid.ClockPosition
	for i, s := range n.Slots {
		if s == "" {
			out = append(out, grid.ClockPosition(i))
		}
	}
	return out
}

// Count returns the number of filled positions.
func (n Neighbors) Count() int {
	return grid.NumPositions - len(n.Missing())
}

// Position computes the clock-position assignment for cell.
//
// Invalid cells fail with INVALID_CELL; index failures are returned as
// GEOMETRY_UNAVAILABLE and no partial result is produced.
func Position(ctx context.Context, idx grid.Index, cell grid.Cell) (Neighbors, error) {
	if err := grid.Check(idx, cell); err != nil {
		return Neighbors{}, err
	}

	adjacent, err := grid.Neighbors(ctx, idx, cell)
	if err != nil {
		return Neighbors{}, errors.Geometry(err, "ring", string(cell))
	}
	center, err := idx.Centroid(ctx, cell)
	if err != nil {
		return Neighbors{}, errors.Geometry(err, "centroid", string(cell))
	}
	boundary, err := idx.Boundary(ctx, cell)
	if err != nil {
		return Neighbors{}, errors.Geometry(err, "boundary", string(cell))
	}
	if len(boundary) < 3 {
		return Neighbors{}, errors.New(errors.ErrCodeGeometryUnavailable, "boundary of %s has %d vertices", cell, len(boundary))
	}

	ref := ReferenceVertex(boundary, center.Lat() >= 0)
	refBearing := sphere.Bearing(center, ref)

	type ranked struct {
		cell grid.Cell
		rel  float64
	}
	ranks := make([]ranked, 0, len(adjacent))
	for _, n := range adjacent {
		if err := ctx.Err(); err != nil {
			return Neighbors{}, err
		}
		nc, err := idx.Centroid(ctx, n)
		if err != nil {
			return Neighbors{}, errors.Geometry(err, "centroid", string(n))
		}
		ranks = append(ranks, ranked{cell: n, rel: sphere.Relative(sphere.Bearing(center, nc), refBearing)})
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].rel < ranks[j].rel })

	out := Neighbors{Cell: cell}
	for i := 0; i < len(ranks) && i < grid.NumPositions; i++ {
		out.Slots[i] = ranks[i].cell
	}
	return out, nil
}

// EquatorEdge returns the index i of the boundary edge (v[i], v[i+1]) whose
// midpoint latitude is closest to zero. The first such edge wins ties.
func EquatorEdge(boundary orb.Ring) int {
	n := len(boundary)
	if n > 1 && boundary[0].Equal(boundary[n-1]) {
		n--
	}
	best, bestLat := 0, math.Inf(1)
	for i := 0; i < n; i++ {
		mid := sphere.Midpoint(boundary[i], boundary[(i+1)%n])
		if d := math.Abs(mid.Lat()); d < bestLat {
			best, bestLat = i, d
		}
	}
	return best
}

// ReferenceVertex returns the vertex bearings are measured from: the end of
// the equator-facing edge in the northern hemisphere, its start in the
// southern hemisphere.
func ReferenceVertex(boundary orb.Ring, north bool) orb.Point {
	n := len(boundary)
	if n > 1 && boundary[0].Equal(boundary[n-1]) {
		n--
	}
	i := EquatorEdge(boundary)
	if north {
		return boundary[(i+1)%n]
	}
	return boundary[i]
}
