// Package tile stores per-cell content and styling.
//
// A [Tile] is identified by its grid cell. Tiles that were never written
// are synthesized on demand with default [VisualProperties], so every valid
// cell has a tile. Persistence is pluggable through [Store]:
//
//   - [FileStore]: one JSON file per cell under a namespace directory
//   - [MongoStore]: one MongoDB collection per namespace
//
// [Service] layers the grid rules on top of a store: cell validation,
// parent and child lookup, and moving content only between adjacent cells.
// Writes are last-write-wins; there is no cross-process conflict resolution.
package tile
