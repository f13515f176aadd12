// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through a small set of hook interfaces; the
// application decides what receives them by registering implementations at
// startup. The defaults are no-ops, so importing this package costs nothing
// when no backend is configured. The prom subpackage provides a Prometheus
// implementation.
//
// # Usage
//
// Register hooks at application startup:
//
//	hooks := prom.New(prometheus.DefaultRegisterer)
//	observability.SetLayoutHooks(hooks)
//	observability.SetCacheHooks(hooks)
//	observability.SetIndexHooks(hooks)
//	observability.SetServerHooks(hooks)
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	emb, err := embed.Embed(ctx, idx, center, w, h)
//	observability.Layout().OnLayoutComplete(ctx, string(emb.Strategy), emb.Len(), len(emb.Conflicts), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the pipeline runner.
type LayoutHooks interface {
	// OnLookup records a single-cell operation: "neighbors", "ladder" or "locate".
	OnLookup(ctx context.Context, kind string, duration time.Duration, err error)

	// OnLayoutComplete records a finished embedding. strategy is empty when
	// the layout failed before a strategy was chosen.
	OnLayoutComplete(ctx context.Context, strategy string, cells, conflicts int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Index Hooks
// =============================================================================

// IndexHooks receives events from grid index lookups.
type IndexHooks interface {
	// OnGeometry records a lookup that reached the underlying index.
	OnGeometry(ctx context.Context, op string, duration time.Duration, err error)

	// OnRetry records a retried lookup. attempt starts at 1.
	OnRetry(ctx context.Context, op string, attempt int)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnRequest records a served request. route is the chi route pattern.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLookup(context.Context, string, time.Duration, error) {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopIndexHooks is a no-op implementation of IndexHooks.
type NoopIndexHooks struct{}

func (NoopIndexHooks) OnGeometry(context.Context, string, time.Duration, error) {}
func (NoopIndexHooks) OnRetry(context.Context, string, int)                     {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	indexHooks  IndexHooks  = NoopIndexHooks{}
	serverHooks ServerHooks = NoopServerHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks. Nil is ignored.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetIndexHooks registers custom index hooks. Nil is ignored.
func SetIndexHooks(h IndexHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		indexHooks = h
	}
}

// SetServerHooks registers custom server hooks. Nil is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Index returns the registered index hooks.
func Index() IndexHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return indexHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	cacheHooks = NoopCacheHooks{}
	indexHooks = NoopIndexHooks{}
	serverHooks = NoopServerHooks{}
}
