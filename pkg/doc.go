// Package pkg holds the HexGlobe libraries.
//
// HexGlobe places the cells of a hexagonal geodesic grid (H3) on a flat
// offset-coordinate lattice around a chosen center, so that a map view can
// draw "the cell above", "the cell to the upper right" and so on. The
// libraries are layered:
//
//  1. [core/grid] - the grid index abstraction and clock positions
//  2. [core/sphere] - bearings between points on the sphere
//  3. [core/neighbors], [core/ladder], [core/embed] - the algorithms
//  4. [h3index] - the H3-backed grid index
//  5. [layout] - JSON wire format and GeoJSON export
//  6. [pipeline] - validation, caching and metrics around the algorithms
//  7. [cache], [tile], [observability], [render/dot] - supporting services
//
// # Quick Start
//
//	runner := pipeline.NewRunner(h3index.New(), cache.NewNullCache(), nil, nil)
//	defer runner.Close()
//
//	n, err := runner.Neighbors(ctx, "8a194da9a74ffff")
//	fmt.Println(n.At(grid.TopMiddle))
//
//	l, err := runner.Layout(ctx, pipeline.Options{Center: "8a194da9a74ffff", Width: 5, Height: 5})
//	for _, row := range l.Grid() {
//	    fmt.Println(row)
//	}
package pkg
