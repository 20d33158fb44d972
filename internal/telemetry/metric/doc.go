// Package metric provides Prometheus metrics for Capsule.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry, recording helpers and HTTP handler
//   - collector.go: collector reporting content cache sizes at scrape time
//
// Metrics include:
//
//   - Connection, handshake failure and response counters
//   - Request latency histogram
//   - Content cache hit/miss counters and entry gauges
//   - TLS material reload outcomes
//
// Metrics are exposed at /metrics by the operator HTTP endpoint.
package metric
