// Package pipeline ties the grid index, the core layout algorithms and the
// cache together for HexGlobe's entry points.
//
// The CLI and the HTTP API both go through a [Runner], so lookups behave
// the same way (validation, caching, logging, metrics) regardless of where
// they come from.
//
// # Usage
//
//	runner := pipeline.NewRunner(h3index.New(), fileCache, nil, logger)
//	defer runner.Close()
//
//	n, err := runner.Neighbors(ctx, "8a194da9a74ffff")
//	l, err := runner.Ladder(ctx, "8a194da9a74ffff")
//	grid, err := runner.Layout(ctx, pipeline.Options{Center: "8a194da9a74ffff", Width: 5, Height: 5})
//	cell, err := runner.Locate(ctx, 37.77, -122.41, 9)
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hexglobe/pkg/cache"
	"github.com/matzehuels/hexglobe/pkg/core/embed"
	"github.com/matzehuels/hexglobe/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default layout width in cells.
	DefaultWidth = 5

	// DefaultHeight is the default layout height in cells.
	DefaultHeight = 5

	// DefaultResolution is the default resolution for point lookups.
	DefaultResolution = 9

	// DefaultMaxRings bounds the neighborhood explored for a layout.
	DefaultMaxRings = embed.DefaultMaxRings
)

// =============================================================================
// Options - Layout Configuration
// =============================================================================

// Options configures a layout request. It supports JSON for API requests.
type Options struct {
	Center   string `json:"center"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	MaxRings int    `json:"max_rings,omitempty"`

	// Refresh recomputes the layout even if a cached copy exists.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults fills zero values and validates the options.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MaxRings <= 0 {
		o.MaxRings = DefaultMaxRings
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := errors.ValidateCellID(o.Center); err != nil {
		return err
	}
	return errors.ValidateExtent(o.Width, o.Height)
}

// LayoutKeyOpts returns the cache key options for this request.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:    o.Width,
		Height:   o.Height,
		MaxRings: o.MaxRings,
	}
}
