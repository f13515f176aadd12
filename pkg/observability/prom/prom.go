// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/hexglobe/pkg/observability"
)

const namespace = "hexglobe"

var msBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000}

// Hooks records HexGlobe events as Prometheus metrics. A single value
// implements every hook interface.
type Hooks struct {
	lookups        *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
	layouts        *prometheus.CounterVec
	layoutDuration *prometheus.HistogramVec
	layoutCells    prometheus.Histogram
	conflicts      prometheus.Counter
	cacheEvents    *prometheus.CounterVec
	cacheBytes     prometheus.Counter
	geometry       *prometheus.CounterVec
	geometryMs     *prometheus.HistogramVec
	retries        *prometheus.CounterVec
	requests       *prometheus.CounterVec
	requestMs      *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "lookups_total",
			Help: "Single-cell operations by kind and outcome",
		}, []string{"kind", "outcome"}),
		lookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "lookup_duration_ms",
			Help: "Single-cell operation duration in milliseconds", Buckets: msBuckets,
		}, []string{"kind"}),
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "layouts_total",
			Help: "Grid embeddings by strategy and outcome",
		}, []string{"strategy", "outcome"}),
		layoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "layout_duration_ms",
			Help: "Grid embedding duration in milliseconds", Buckets: msBuckets,
		}, []string{"strategy"}),
		layoutCells: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "layout_cells",
			Help: "Cells placed per embedding", Buckets: []float64{1, 7, 19, 49, 121, 441, 1681, 4225},
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "layout_conflicts_total",
			Help: "Placement conflicts recorded while embedding",
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_events_total",
			Help: "Cache hits, misses and writes by key type",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}),
		geometry: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "geometry_calls_total",
			Help: "Grid index lookups by operation and outcome",
		}, []string{"op", "outcome"}),
		geometryMs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "geometry_duration_ms",
			Help: "Grid index lookup duration in milliseconds", Buckets: msBuckets,
		}, []string{"op"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "geometry_retries_total",
			Help: "Retried grid index lookups",
		}, []string{"op"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestMs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_ms",
			Help: "HTTP request duration in milliseconds", Buckets: msBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(
		h.lookups, h.lookupDuration,
		h.layouts, h.layoutDuration, h.layoutCells, h.conflicts,
		h.cacheEvents, h.cacheBytes,
		h.geometry, h.geometryMs, h.retries,
		h.requests, h.requestMs,
	)
	return h
}

// Handler exposes the default gatherer for scraping.
func Handler() http.Handler { return promhttp.Handler() }

// HandlerFor exposes g for scraping.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Register installs h as every global hook.
func (h *Hooks) Register() {
	observability.SetLayoutHooks(h)
	observability.SetCacheHooks(h)
	observability.SetIndexHooks(h)
	observability.SetServerHooks(h)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func (h *Hooks) OnLookup(_ context.Context, kind string, d time.Duration, err error) {
	h.lookups.WithLabelValues(kind, outcome(err)).Inc()
	h.lookupDuration.WithLabelValues(kind).Observe(ms(d))
}

func (h *Hooks) OnLayoutComplete(_ context.Context, strategy string, cells, conflicts int, d time.Duration, err error) {
	if strategy == "" {
		strategy = "none"
	}
	h.layouts.WithLabelValues(strategy, outcome(err)).Inc()
	h.layoutDuration.WithLabelValues(strategy).Observe(ms(d))
	h.layoutCells.Observe(float64(cells))
	h.conflicts.Add(float64(conflicts))
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.Add(float64(size))
}

func (h *Hooks) OnGeometry(_ context.Context, op string, d time.Duration, err error) {
	h.geometry.WithLabelValues(op, outcome(err)).Inc()
	h.geometryMs.WithLabelValues(op).Observe(ms(d))
}

func (h *Hooks) OnRetry(_ context.Context, op string, _ int) {
	h.retries.WithLabelValues(op).Inc()
}

func (h *Hooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.requestMs.WithLabelValues(route).Observe(ms(d))
}

var (
	_ observability.LayoutHooks = (*Hooks)(nil)
	_ observability.CacheHooks  = (*Hooks)(nil)
	_ observability.IndexHooks  = (*Hooks)(nil)
	_ observability.ServerHooks = (*Hooks)(nil)
)
