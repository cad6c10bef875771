package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the sync engine
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Sync engine metrics
	SyncsTotal         prometheus.CounterVec
	SyncDuration       prometheus.HistogramVec
	ClaimConflicts     prometheus.Counter
	BookingsImported   prometheus.Counter
	PricingEvaluations prometheus.Counter
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channelsync_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "channelsync_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "channelsync_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channelsync_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channelsync_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Sync engine metrics
		SyncsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channelsync_syncs_total",
				Help: "Total sync operations by sync type and outcome status",
			},
			[]string{"sync_type", "status"},
		),
		SyncDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "channelsync_sync_duration_seconds",
				Help:    "Sync operation duration in seconds by sync type",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"sync_type"},
		),
		ClaimConflicts: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "channelsync_claim_conflicts_total",
				Help: "Total booking claims rejected with date conflicts",
			},
		),
		BookingsImported: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "channelsync_bookings_imported_total",
				Help: "Total channel bookings processed by the importer",
			},
		),
		PricingEvaluations: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "channelsync_pricing_evaluations_total",
				Help: "Total per-date pricing rule evaluations",
			},
		),
	}
}
