// Package metric provides Prometheus metrics for Capsule.
package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "capsule"

// Label values shared by recorders.
const (
	CacheText   = "text"
	CacheBinary = "binary"

	resultHit     = "hit"
	resultMiss    = "miss"
	resultSuccess = "success"
	resultFailure = "failure"
)

// Registry holds all application metrics on a private prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	connectionsTotal  prometheus.Counter
	handshakeFailures prometheus.Counter
	responsesTotal    *prometheus.CounterVec
	requestDuration   prometheus.Histogram
	cacheLookups      *prometheus.CounterVec
	tlsReloads        *prometheus.CounterVec
	tlsLoadedAt       prometheus.Gauge
}

// NewRegistry creates a registry with all application metrics registered,
// plus the Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Accepted client connections.",
		}),
		handshakeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshake_failures_total",
			Help:      "TLS handshakes that failed before a request was read.",
		}),
		responsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Responses written, by status code.",
		}, []string{"status"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time from request line read to response flushed.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Content cache lookups, by namespace and result.",
		}, []string{"namespace", "result"}),
		tlsReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tls_reloads_total",
			Help:      "TLS material reload attempts, by result.",
		}, []string{"result"}),
		tlsLoadedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tls_material_loaded_timestamp_seconds",
			Help:      "Unix time the active TLS material was loaded.",
		}),
	}

	r.registry.MustRegister(
		r.connectionsTotal,
		r.handshakeFailures,
		r.responsesTotal,
		r.requestDuration,
		r.cacheLookups,
		r.tlsReloads,
		r.tlsLoadedAt,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Register adds an extra collector to the registry.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// IncConnections counts an accepted connection.
func (r *Registry) IncConnections() {
	r.connectionsTotal.Inc()
}

// IncHandshakeFailures counts a failed TLS handshake.
func (r *Registry) IncHandshakeFailures() {
	r.handshakeFailures.Inc()
}

// RecordResponse counts a response with the given status code.
func (r *Registry) RecordResponse(status string) {
	r.responsesTotal.WithLabelValues(status).Inc()
}

// ObserveRequestDuration records how long a request took to serve.
func (r *Registry) ObserveRequestDuration(d time.Duration) {
	r.requestDuration.Observe(d.Seconds())
}

// RecordCacheLookup counts a content cache lookup in namespace.
func (r *Registry) RecordCacheLookup(namespace string, hit bool) {
	result := resultMiss
	if hit {
		result = resultHit
	}
	r.cacheLookups.WithLabelValues(namespace, result).Inc()
}

// RecordTLSReload counts a reload attempt. A successful reload also
// moves the loaded-at gauge to loadedAt.
func (r *Registry) RecordTLSReload(ok bool, loadedAt time.Time) {
	if !ok {
		r.tlsReloads.WithLabelValues(resultFailure).Inc()
		return
	}
	r.tlsReloads.WithLabelValues(resultSuccess).Inc()
	r.tlsLoadedAt.Set(float64(loadedAt.Unix()))
}
