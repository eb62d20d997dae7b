// Package metrics provides Prometheus metrics for the article service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "antifraud"

// Cache lookup results.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Fetch outcomes.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the collectors registered for one service instance.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	CacheLookups  *prometheus.CounterVec
	Fetches       *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	Articles      prometheus.Gauge
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Article snapshot lookups by result",
			},
			[]string{"result"},
		),
		Fetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_fetches_total",
				Help:      "Full table fetches by outcome",
			},
			[]string{"status"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_fetch_duration_seconds",
				Help:      "Duration of full table fetches in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		Articles: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "snapshot_articles",
				Help:      "Number of articles in the current snapshot",
			},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "API requests by route and status code",
			},
			[]string{"method", "route", "code"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// RecordLookup counts a snapshot lookup.
func (m *Metrics) RecordLookup(result string) {
	if m == nil {
		return
	}

	m.CacheLookups.WithLabelValues(result).Inc()
}

// RecordFetch counts an upstream fetch and observes its duration.
func (m *Metrics) RecordFetch(status string, duration time.Duration) {
	if m == nil {
		return
	}

	m.Fetches.WithLabelValues(status).Inc()
	m.FetchDuration.Observe(duration.Seconds())
}

// SetArticles sets the snapshot size.
func (m *Metrics) SetArticles(n int) {
	if m == nil {
		return
	}

	m.Articles.Set(float64(n))
}

// RecordRequest counts an API request.
func (m *Metrics) RecordRequest(method, route, code string, duration time.Duration) {
	if m == nil {
		return
	}

	m.HTTPRequests.WithLabelValues(method, route, code).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())
}
