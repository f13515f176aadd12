// Package embed lays out the cells around a center cell on an integer
// (row, col) lattice suitable for display.
//
// # Coordinates
//
// [Coord] uses offset coordinates for flat-top hexagons: rows grow
// northward and odd columns sit half a row higher than even ones, so the
// step to each clock position depends on the parity of the source column.
// (0, 0) always holds the center cell.
//
// # Strategies
//
// The primary strategy propagates outward from the center breadth-first,
// placing each cell's positioned neighbors at the matching offsets. It is
// exact on a regular hexagonal patch but breaks down near the twelve
// pentagons, so when any pentagon lies within the covering radius the
// embedder switches to a fallback that buckets cells into latitude bands
// and orders each band by longitude.
//
// # Conflicts
//
// Two different cells claiming one coordinate is a [Conflict]. Conflicts
// are data, not errors: the first claimant keeps the coordinate, the
// conflict is recorded on the [Embedding], and propagation from the cell
// that produced it stops.
package embed
