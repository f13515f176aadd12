// Package cache provides byte-level caching for HexGlobe results.
//
// Grid geometry is immutable for a given cell, so positioned neighbors,
// resolution ladders and layouts can be cached for long periods. The
// package offers three backends behind one [Cache] interface:
//
//   - [FileCache]: JSON entries on local disk, for the CLI
//   - [RedisCache]: a shared Redis instance, for the API server
//   - [NullCache]: disables caching
//
// Keys are produced by a [Keyer] so deployments can namespace them with
// [NewScopedKeyer].
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Time-to-live defaults per result kind.
const (
	TTLGeometry  = 30 * 24 * time.Hour
	TTLNeighbors = 30 * 24 * time.Hour
	TTLLadder    = 30 * 24 * time.Hour
	TTLLayout    = 7 * 24 * time.Hour
	TTLLocate    = 24 * time.Hour
)

// LayoutKeyOpts are the request parameters that affect a layout.
type LayoutKeyOpts struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	MaxRings int `json:"max_rings"`
}

// Keyer builds cache keys.
type Keyer interface {
	GeometryKey(op, cell, arg string) string
	NeighborsKey(cell string) string
	LadderKey(cell string) string
	LayoutKey(center string, opts LayoutKeyOpts) string
	LocateKey(lat, lng float64, res int) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GeometryKey keys a single grid index lookup, e.g. ("boundary", cell, "").
func (DefaultKeyer) GeometryKey(op, cell, arg string) string {
	if arg == "" {
		return fmt.Sprintf("geom:%s:%s", op, cell)
	}
	return fmt.Sprintf("geom:%s:%s:%s", op, cell, arg)
}

// NeighborsKey keys positioned neighbors.
func (DefaultKeyer) NeighborsKey(cell string) string {
	return "neighbors:" + cell
}

// LadderKey keys a resolution ladder.
func (DefaultKeyer) LadderKey(cell string) string {
	return "ladder:" + cell
}

// LayoutKey keys an embedding by center and options.
func (DefaultKeyer) LayoutKey(center string, opts LayoutKeyOpts) string {
	return hashKey("layout", center, opts)
}

// LocateKey keys a point lookup. Coordinates are rounded to 1e-7 degrees.
func (DefaultKeyer) LocateKey(lat, lng float64, res int) string {
	return fmt.Sprintf("locate:%d:%.7f,%.7f", res, lat, lng)
}

// NullCache is a no-op cache that never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always returns a cache miss.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set does nothing.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}

var (
	_ Cache = (*NullCache)(nil)
	_ Keyer = DefaultKeyer{}
)
