// Package grid defines the vocabulary shared by every HexGlobe component:
// cell identifiers, the six clock positions around a hexagon, and the Index
// interface through which all geographic knowledge is obtained.
//
// # Cells
//
// A [Cell] is an opaque identifier issued by a hierarchical hexagonal grid
// index. Its resolution (0 = coarsest, 15 = finest) is intrinsic to the
// identifier. Twelve cells per resolution are pentagons with five
// neighbors instead of six.
//
// # Clock Positions
//
// [ClockPosition] names the six slots around a cell in canonical clockwise
// order: BottomMiddle, BottomLeft, TopLeft, TopMiddle, TopRight,
// BottomRight. Each position has an opposite three steps away:
//
//	grid.TopMiddle.Inverse() == grid.BottomMiddle
//
// # Index
//
// [Index] is the external collaborator that answers validity, hierarchy,
// adjacency and geometry questions. Core algorithms in sibling packages
// depend only on this interface. The production implementation lives in
// package h3index; tests use the planar lattice in package gridtest.
package grid
