// Package layout provides the wire format for HexGlobe results.
//
// This package defines the canonical JSON shapes used for CLI output, API
// responses, cache entries and files. It sits at the serialization boundary:
//
//   - [Neighbors] ↔ neighbors.Neighbors
//   - [Ladder] ↔ ladder.Ladder
//   - [Layout] ↔ embed.Embedding
//
// # Neighbors
//
// Missing positions (pentagons) serialize as null:
//
//	{
//	  "cell": "8a194da9a74ffff",
//	  "pentagon": false,
//	  "positions": {"bottom_middle": "8a194da9a297fff", ...}
//	}
//
// # Layouts
//
// Layout cells are keyed by "row,col" strings with "0,0" always holding the
// center. Rows grow northward:
//
//	{
//	  "center": "8a194da9a74ffff",
//	  "width": 3, "height": 3,
//	  "strategy": "primary",
//	  "cells": {"0,0": "8a194da9a74ffff", "-1,0": "8a194da9a297fff", ...},
//	  "bounds": {"min_row": -1, "max_row": 1, "min_col": -1, "max_col": 1},
//	  "pentagon_coordinates": []
//	}
//
// [ToGeoJSON] renders a layout as a FeatureCollection of cell polygons.
package layout
