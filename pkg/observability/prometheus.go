package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements the hook interfaces with Prometheus collectors.
type Prometheus struct {
	// Navigation Metrics
	NavigationRequests *prometheus.CounterVec
	NavigationCommits  prometheus.Counter
	NavigationDiscards prometheus.Counter
	NavigationErrors   *prometheus.CounterVec
	NavigationDuration prometheus.Histogram
	SnapshotNodes      prometheus.Gauge

	// Cache Metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	CacheBytes  *prometheus.CounterVec

	// HTTP Client Metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPErrors   *prometheus.CounterVec

	// Server Metrics
	ServedTotal    *prometheus.CounterVec
	ServedDuration *prometheus.HistogramVec
	Reloads        *prometheus.CounterVec
	FixturesLoaded prometheus.Gauge
}

// NewPrometheus registers all collectors with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		NavigationRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visunn_navigation_requests_total",
			Help: "Snapshot requests issued, by root/nested scope",
		}, []string{"scope"}),
		NavigationCommits: f.NewCounter(prometheus.CounterOpts{
			Name: "visunn_navigation_commits_total",
			Help: "Snapshots that became current",
		}),
		NavigationDiscards: f.NewCounter(prometheus.CounterOpts{
			Name: "visunn_navigation_discards_total",
			Help: "Responses discarded because a newer request was issued",
		}),
		NavigationErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visunn_navigation_errors_total",
			Help: "Failed navigation attempts by error code",
		}, []string{"code"}),
		NavigationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "visunn_navigation_duration_seconds",
			Help:    "Time from request to commit",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}),
		SnapshotNodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "visunn_snapshot_nodes",
			Help: "Node count of the current snapshot",
		}),
		CacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visunn_cache_hits_total",
			Help: "Cache hits by key type",
		}, []string{"type"}),
		CacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visunn_cache_misses_total",
			Help: "Cache misses by key type",
		}, []string{"type"}),
		CacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visunn_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type",
		}, []string{"type"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visunn_http_client_requests_total",
			Help: "Outgoing HTTP requests by host and status",
		}, []string{"host", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "visunn_http_client_duration_seconds",
			Help:    "Outgoing HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"host"}),
		HTTPErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visunn_http_client_errors_total",
			Help: "Outgoing HTTP requests that failed in transport",
		}, []string{"host"}),
		ServedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visunn_server_requests_total",
			Help: "Snapshot requests answered by the fixture server",
		}, []string{"route", "status"}),
		ServedDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "visunn_server_duration_seconds",
			Help:    "Fixture server response time",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		Reloads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visunn_server_reloads_total",
			Help: "Fixture directory reloads by result",
		}, []string{"result"}),
		FixturesLoaded: f.NewGauge(prometheus.GaugeOpts{
			Name: "visunn_server_fixtures",
			Help: "Snapshots currently served",
		}),
	}
}

func scopeLabel(wire string) string {
	if wire == "root" {
		return "root"
	}
	return "nested"
}

// OnRequest implements NavigationHooks.
func (p *Prometheus) OnRequest(_ context.Context, wire string, _ uint64) {
	p.NavigationRequests.WithLabelValues(scopeLabel(wire)).Inc()
}

// OnCommit implements NavigationHooks.
func (p *Prometheus) OnCommit(_ context.Context, _ string, _ uint64, nodeCount int, d time.Duration) {
	p.NavigationCommits.Inc()
	p.NavigationDuration.Observe(d.Seconds())
	p.SnapshotNodes.Set(float64(nodeCount))
}

// OnDiscard implements NavigationHooks.
func (p *Prometheus) OnDiscard(context.Context, string, uint64) {
	p.NavigationDiscards.Inc()
}

// OnError implements NavigationHooks.
func (p *Prometheus) OnError(_ context.Context, _ string, _ uint64, code string, _ error) {
	if code == "" {
		code = "unknown"
	}
	p.NavigationErrors.WithLabelValues(code).Inc()
}

// OnCacheHit implements CacheHooks.
func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.CacheHits.WithLabelValues(keyType).Inc()
}

// OnCacheMiss implements CacheHooks.
func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheMisses.WithLabelValues(keyType).Inc()
}

// OnCacheSet implements CacheHooks.
func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnServe implements ServerHooks.
func (p *Prometheus) OnServe(_ context.Context, route string, status int, d time.Duration) {
	p.ServedTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	p.ServedDuration.WithLabelValues(route).Observe(d.Seconds())
}

// OnReload implements ServerHooks.
func (p *Prometheus) OnReload(_ context.Context, snapshots int, err error) {
	if err != nil {
		p.Reloads.WithLabelValues("error").Inc()
		return
	}
	p.Reloads.WithLabelValues("ok").Inc()
	p.FixturesLoaded.Set(float64(snapshots))
}

// HTTP returns the HTTP client hooks backed by p. They are a separate value
// because HTTPHooks and NavigationHooks share method names.
func (p *Prometheus) HTTP() HTTPHooks { return promHTTP{p} }

type promHTTP struct{ p *Prometheus }

func (h promHTTP) OnRequest(context.Context, string, string, string) {}

func (h promHTTP) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	h.p.HTTPRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	h.p.HTTPDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (h promHTTP) OnError(_ context.Context, _, host, _ string, _ error) {
	h.p.HTTPErrors.WithLabelValues(host).Inc()
}

var (
	_ NavigationHooks = (*Prometheus)(nil)
	_ CacheHooks      = (*Prometheus)(nil)
	_ ServerHooks     = (*Prometheus)(nil)
)
