package pipeline

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/paulmach/orb"

	"github.com/matzehuels/hexglobe/pkg/cache"
	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/observability"
)

// DefaultMemoSize bounds the number of memoized lookups per CachedIndex.
const DefaultMemoSize = 1 << 16

// CachedIndex decorates a grid.Index with in-process memoization and retry.
//
// Geometry for a cell never changes, so successful lookups are kept keyed
// by cell id. Failures reported as GEOMETRY_UNAVAILABLE are retried with
// backoff; other failures are returned immediately and never memoized.
// When the memo fills up it is dropped wholesale.
type CachedIndex struct {
	inner grid.Index
	keyer cache.Keyer
	limit int

	mu   sync.RWMutex
	memo map[string]any
}

// NewCachedIndex wraps inner. If keyer is nil, a DefaultKeyer is used.
func NewCachedIndex(inner grid.Index, keyer cache.Keyer) *CachedIndex {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedIndex{
		inner: inner,
		keyer: keyer,
		limit: DefaultMemoSize,
		memo:  make(map[string]any),
	}
}

// Unwrap returns the decorated index.
func (x *CachedIndex) Unwrap() grid.Index { return x.inner }

// Len returns the number of memoized lookups.
func (x *CachedIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.memo)
}

func (x *CachedIndex) IsValid(c grid.Cell) bool    { return x.inner.IsValid(c) }
func (x *CachedIndex) IsPentagon(c grid.Cell) bool { return x.inner.IsPentagon(c) }
func (x *CachedIndex) Resolution(c grid.Cell) int  { return x.inner.Resolution(c) }

func (x *CachedIndex) Centroid(ctx context.Context, c grid.Cell) (orb.Point, error) {
	return lookup(ctx, x, "centroid", string(c), "", func() (orb.Point, error) {
		return x.inner.Centroid(ctx, c)
	})
}

func (x *CachedIndex) Boundary(ctx context.Context, c grid.Cell) (orb.Ring, error) {
	ring, err := lookup(ctx, x, "boundary", string(c), "", func() (orb.Ring, error) {
		return x.inner.Boundary(ctx, c)
	})
	return slices.Clone(ring), err
}

func (x *CachedIndex) Ring(ctx context.Context, c grid.Cell, k int) ([]grid.Cell, error) {
	cells, err := lookup(ctx, x, "ring", string(c), strconv.Itoa(k), func() ([]grid.Cell, error) {
		return x.inner.Ring(ctx, c, k)
	})
	return slices.Clone(cells), err
}

func (x *CachedIndex) Parent(ctx context.Context, c grid.Cell, res int) (grid.Cell, error) {
	return lookup(ctx, x, "parent", string(c), strconv.Itoa(res), func() (grid.Cell, error) {
		return x.inner.Parent(ctx, c, res)
	})
}

func (x *CachedIndex) Children(ctx context.Context, c grid.Cell, res int) ([]grid.Cell, error) {
	cells, err := lookup(ctx, x, "children", string(c), strconv.Itoa(res), func() ([]grid.Cell, error) {
		return x.inner.Children(ctx, c, res)
	})
	return slices.Clone(cells), err
}

func (x *CachedIndex) PointToCell(ctx context.Context, p orb.Point, res int) (grid.Cell, error) {
	arg := strconv.FormatFloat(p.Lon(), 'g', -1, 64) + "," + strconv.FormatFloat(p.Lat(), 'g', -1, 64)
	return lookup(ctx, x, "locate", strconv.Itoa(res), arg, func() (grid.Cell, error) {
		return x.inner.PointToCell(ctx, p, res)
	})
}

func lookup[T any](ctx context.Context, x *CachedIndex, op, cell, arg string, fn func() (T, error)) (T, error) {
	key := x.keyer.GeometryKey(op, cell, arg)

	x.mu.RLock()
	v, ok := x.memo[key]
	x.mu.RUnlock()
	if ok {
		return v.(T), nil
	}

	hooks := observability.Index()
	var out T
	attempt := 0
	err := cache.RetryWithBackoff(ctx, func() error {
		if attempt > 0 {
			hooks.OnRetry(ctx, op, attempt)
		}
		attempt++
		start := time.Now()
		res, err := fn()
		hooks.OnGeometry(ctx, op, time.Since(start), err)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	x.mu.Lock()
	if len(x.memo) >= x.limit {
		x.memo = make(map[string]any)
	}
	x.memo[key] = out
	x.mu.Unlock()
	return out, nil
}

var _ grid.Index = (*CachedIndex)(nil)
