package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects insight computation counters. A nil *Metrics is a no-op.
type Metrics struct {
	registry       *prometheus.Registry
	reports        *prometheus.CounterVec
	computeSeconds *prometheus.HistogramVec
	skippedEntries *prometheus.CounterVec
	lockedRequests *prometheus.CounterVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
}

// New builds a Metrics instance on its own registry, with Go runtime collectors attached.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mood",
			Name:      "insight_reports_total",
			Help:      "Insight reports computed, by report kind.",
		}, []string{"report"}),
		computeSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mood",
			Name:      "insight_compute_duration_seconds",
			Help:      "Time spent loading entries and computing a report.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"report"}),
		skippedEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mood",
			Name:      "insight_skipped_entries_total",
			Help:      "Entries dropped from reports because their timestamp was unusable.",
		}, []string{"report"}),
		lockedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mood",
			Name:      "insight_locked_requests_total",
			Help:      "Requests refused because the tier is still locked.",
		}, []string{"tier"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mood",
			Name:      "insight_cache_hits_total",
			Help:      "Insight responses served from cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mood",
			Name:      "insight_cache_misses_total",
			Help:      "Insight responses computed because the cache had nothing.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.reports,
		m.computeSeconds,
		m.skippedEntries,
		m.lockedRequests,
		m.cacheHits,
		m.cacheMisses,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveReport records one computed report.
func (m *Metrics) ObserveReport(report string, took time.Duration, skipped int) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(report).Inc()
	m.computeSeconds.WithLabelValues(report).Observe(took.Seconds())
	if skipped > 0 {
		m.skippedEntries.WithLabelValues(report).Add(float64(skipped))
	}
}

func (m *Metrics) Locked(tier string) {
	if m == nil {
		return
	}
	m.lockedRequests.WithLabelValues(tier).Inc()
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}
