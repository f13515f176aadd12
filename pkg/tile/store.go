package tile

import "context"

// Store persists tiles. Get returns (nil, nil) when the tile was never
// written. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, id string) (*Tile, error)
	Put(ctx context.Context, t *Tile) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// DefaultNamespace is used when no namespace is configured.
const DefaultNamespace = "default"
