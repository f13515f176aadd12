package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/matzehuels/hexglobe/pkg/cache"
	"github.com/matzehuels/hexglobe/pkg/core/embed"
	"github.com/matzehuels/hexglobe/pkg/core/grid"
	"github.com/matzehuels/hexglobe/pkg/core/ladder"
	"github.com/matzehuels/hexglobe/pkg/core/neighbors"
	"github.com/matzehuels/hexglobe/pkg/errors"
	"github.com/matzehuels/hexglobe/pkg/h3index"
	"github.com/matzehuels/hexglobe/pkg/layout"
	"github.com/matzehuels/hexglobe/pkg/observability"
)

// Runner executes HexGlobe operations with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, the memoized index and the
// logger. Multiple goroutines can safely share one Runner.
type Runner struct {
	Index  grid.Index
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner.
// If idx is nil, the H3 index is used. If c is nil, a NullCache is used
// (caching disabled). If keyer is nil, a DefaultKeyer is used.
// The index is wrapped in a CachedIndex unless it already is one.
func NewRunner(idx grid.Index, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if idx == nil {
		idx = h3index.New()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if _, ok := idx.(*CachedIndex); !ok {
		idx = NewCachedIndex(idx, keyer)
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Index:  idx,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// NeighborsWithCacheInfo positions the neighbors of cell and reports
// whether the result came from the cache.
func (r *Runner) NeighborsWithCacheInfo(ctx context.Context, cell string) (layout.Neighbors, bool, error) {
	start := time.Now()
	out, hit, err := through(ctx, r, "neighbors", r.Keyer.NeighborsKey(cell), cache.TTLNeighbors, false,
		func() (layout.Neighbors, error) {
			c := grid.Cell(cell)
			if err := grid.Check(r.Index, c); err != nil {
				return layout.Neighbors{}, err
			}
			n, err := neighbors.Position(ctx, r.Index, c)
			if err != nil {
				return layout.Neighbors{}, err
			}
			if missing := n.Missing(); len(missing) > 0 {
				r.Logger.Debug("pentagon neighbors", "cell", cell, "missing", missing)
			}
			return layout.FromNeighbors(n, r.Index.IsPentagon(c)), nil
		},
		layout.MarshalNeighbors, layout.UnmarshalNeighbors)
	observability.Layout().OnLookup(ctx, "neighbors", time.Since(start), err)
	return out, hit, err
}

// Neighbors is NeighborsWithCacheInfo without the cache hit info.
func (r *Runner) Neighbors(ctx context.Context, cell string) (layout.Neighbors, error) {
	n, _, err := r.NeighborsWithCacheInfo(ctx, cell)
	return n, err
}

// LadderWithCacheInfo builds the resolution ladder of cell and reports
// whether the result came from the cache.
func (r *Runner) LadderWithCacheInfo(ctx context.Context, cell string) (layout.Ladder, bool, error) {
	start := time.Now()
	out, hit, err := through(ctx, r, "ladder", r.Keyer.LadderKey(cell), cache.TTLLadder, false,
		func() (layout.Ladder, error) {
			c := grid.Cell(cell)
			if err := grid.Check(r.Index, c); err != nil {
				return layout.Ladder{}, err
			}
			l, err := ladder.Build(ctx, r.Index, c)
			if err != nil {
				return layout.Ladder{}, err
			}
			return layout.FromLadder(c, r.Index.Resolution(c), l), nil
		},
		layout.MarshalLadder, layout.UnmarshalLadder)
	observability.Layout().OnLookup(ctx, "ladder", time.Since(start), err)
	return out, hit, err
}

// Ladder is LadderWithCacheInfo without the cache hit info.
func (r *Runner) Ladder(ctx context.Context, cell string) (layout.Ladder, error) {
	l, _, err := r.LadderWithCacheInfo(ctx, cell)
	return l, err
}

// LayoutWithCacheInfo embeds the neighborhood of opts.Center and reports
// whether the result came from the cache.
//
// When the grid index fails part way, the partial layout is returned along
// with the error. Partial layouts are never cached.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Layout{}, false, err
	}

	start := time.Now()
	var partial *layout.Layout
	out, hit, err := through(ctx, r, "layout", r.Keyer.LayoutKey(opts.Center, opts.LayoutKeyOpts()), cache.TTLLayout, opts.Refresh,
		func() (layout.Layout, error) {
			e, err := embed.Embed(ctx, r.Index, grid.Cell(opts.Center), opts.Width, opts.Height,
				embed.WithMaxRings(opts.MaxRings))
			if e == nil {
				return layout.Layout{}, err
			}
			l := layout.FromEmbedding(e)
			r.logEmbedding(opts.Logger, e)
			if err != nil {
				partial = &l
				return layout.Layout{}, err
			}
			return l, nil
		},
		layout.MarshalLayout, layout.UnmarshalLayout)
	if err != nil && partial != nil {
		out = *partial
	}

	observability.Layout().OnLayoutComplete(ctx, out.Strategy, len(out.Cells), len(out.Conflicts), time.Since(start), err)
	return out, hit, err
}

// Layout is LayoutWithCacheInfo without the cache hit info.
func (r *Runner) Layout(ctx context.Context, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, opts)
	return l, err
}

// Locate returns the cell containing (lat, lng) at resolution res.
func (r *Runner) Locate(ctx context.Context, lat, lng float64, res int) (string, error) {
	if err := errors.ValidateLatLng(lat, lng); err != nil {
		return "", err
	}
	if err := errors.ValidateResolution(res); err != nil {
		return "", err
	}

	start := time.Now()
	out, _, err := through(ctx, r, "locate", r.Keyer.LocateKey(lat, lng, res), cache.TTLLocate, false,
		func() (string, error) {
			c, err := r.Index.PointToCell(ctx, orb.Point{lng, lat}, res)
			return string(c), err
		},
		func(s string) ([]byte, error) { return []byte(s), nil },
		func(b []byte) (string, error) { return string(b), nil })
	observability.Layout().OnLookup(ctx, "locate", time.Since(start), err)
	return out, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logEmbedding(logger *log.Logger, e *embed.Embedding) {
	logger.Debug("embedded grid",
		"center", e.Center,
		"strategy", e.Strategy,
		"cells", e.Len(),
		"radius", e.Radius)
	for _, c := range e.Conflicts {
		logger.Warn("layout conflict",
			"kind", c.Kind,
			"at", c.At,
			"existing", c.Existing,
			"incoming", c.Incoming)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// through reads key from the cache, falling back to compute and storing its
// result. Cache failures are logged and otherwise ignored.
func through[T any](
	ctx context.Context,
	r *Runner,
	keyType, key string,
	ttl time.Duration,
	refresh bool,
	compute func() (T, error),
	marshal func(T) ([]byte, error),
	unmarshal func([]byte) (T, error),
) (T, bool, error) {
	hooks := observability.Cache()

	if !refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Debug("cache read failed", "key", key, "error", err)
		}
		if hit {
			if v, err := unmarshal(data); err == nil {
				hooks.OnCacheHit(ctx, keyType)
				return v, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, keyType)
	}

	v, err := compute()
	if err != nil {
		return v, false, err
	}

	if data, err := marshal(v); err == nil {
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			r.Logger.Debug("cache write failed", "key", key, "error", err)
		} else {
			hooks.OnCacheSet(ctx, keyType, len(data))
		}
	}
	return v, false, nil
}
