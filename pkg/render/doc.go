// Package render groups the output renderers for grid layouts.
//
// The [dot] subpackage turns a layout into a Graphviz graph with every cell
// pinned at its lattice position, and from there into SVG, PNG or PDF.
package render
