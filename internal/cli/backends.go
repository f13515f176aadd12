package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hexglobe/internal/config"
	"github.com/matzehuels/hexglobe/pkg/cache"
	"github.com/matzehuels/hexglobe/pkg/tile"
)

const connectTimeout = 5 * time.Second

// openCache builds the configured cache backend. An unreachable file cache
// directory degrades to no caching; an unreachable Redis is an error.
func openCache(ctx context.Context, cfg config.CacheConfig, noCache bool, logger *log.Logger) (cache.Cache, cache.Keyer, error) {
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if cfg.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Prefix)
	}
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), keyer, nil
	}

	switch cfg.Backend {
	case config.BackendRedis:
		c, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: connectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("using redis cache", "addr", cfg.Redis.Addr)
		return c, keyer, nil
	default:
		c, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			logger.Warn("file cache unavailable, caching disabled", "dir", cfg.Dir, "error", err)
			return cache.NewNullCache(), keyer, nil
		}
		logger.Debug("using file cache", "dir", c.Dir())
		return c, keyer, nil
	}
}

// openTileStore builds the configured tile store.
func openTileStore(ctx context.Context, cfg config.TilesConfig) (tile.Store, error) {
	if cfg.Backend == config.BackendMongo {
		return tile.NewMongoStore(ctx, tile.MongoOptions{
			URI:       cfg.Mongo.URI,
			Database:  cfg.Mongo.Database,
			Namespace: cfg.Namespace,
			Timeout:   connectTimeout,
		})
	}
	return tile.NewFileStore(cfg.Dir, cfg.Namespace)
}
