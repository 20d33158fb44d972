// Package metric provides Prometheus metrics for Capsule.
package metric

import "github.com/prometheus/client_golang/prometheus"

// CacheSizer reports the number of entries in each content cache namespace.
type CacheSizer interface {
	TextLen() int
	BinaryLen() int
}

// Collector reports content cache sizes at scrape time, so the cache
// itself never has to update a gauge on insert.
type Collector struct {
	cache   CacheSizer
	entries *prometheus.Desc
}

// NewCollector creates a collector for the given cache.
func NewCollector(cache CacheSizer) *Collector {
	return &Collector{
		cache: cache,
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "entries"),
			"Entries held in the content cache, by namespace.",
			[]string{"namespace"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.cache.TextLen()), CacheText)
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.cache.BinaryLen()), CacheBinary)
}
