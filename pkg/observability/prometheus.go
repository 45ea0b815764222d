package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	resolves        *prometheus.CounterVec
	resolveDuration *prometheus.HistogramVec
	stores          *prometheus.CounterVec
	storeBytes      prometheus.Histogram
	cacheOps        *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheus registers the nodegraph collectors on reg. Registering twice
// on the same registry panics, as with promauto.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		resolves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nodegraph_resolves_total",
			Help: "Canonical node lookups by resolver and outcome",
		}, []string{"resolver", "outcome"}),
		resolveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nodegraph_resolve_duration_seconds",
			Help:    "Canonical node lookup duration",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"resolver"}),
		stores: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nodegraph_stores_total",
			Help: "Canonical nodes written by resolver and result",
		}, []string{"resolver", "result"}),
		storeBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "nodegraph_store_bytes",
			Help:    "Size of stored canonical documents",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nodegraph_cache_operations_total",
			Help: "Cache operations by key type and result",
		}, []string{"key_type", "op"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nodegraph_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nodegraph_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

func (p *Prometheus) OnResolve(_ context.Context, resolver string, outcome Outcome, d time.Duration) {
	p.resolves.WithLabelValues(resolver, string(outcome)).Inc()
	p.resolveDuration.WithLabelValues(resolver).Observe(d.Seconds())
}

func (p *Prometheus) OnStore(_ context.Context, resolver string, size int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.stores.WithLabelValues(resolver, result).Inc()
	if err == nil {
		p.storeBytes.Observe(float64(size))
	}
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, _ int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

var (
	_ ResolverHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
