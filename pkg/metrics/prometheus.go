package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "walrus_tracker",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "walrus_tracker",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Fetch cycle metrics
	FetchCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "walrus_tracker",
			Subsystem: "fetch",
			Name:      "cycles_total",
			Help:      "Total number of fetch cycles by result",
		},
		[]string{"result"},
	)

	FetchCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "walrus_tracker",
			Subsystem: "fetch",
			Name:      "cycle_duration_seconds",
			Help:      "Full fetch cycle duration in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	NodesTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "walrus_tracker",
			Subsystem: "fetch",
			Name:      "nodes_tracked",
			Help:      "Number of nodes in the most recent snapshot",
		},
	)

	// Geolocation metrics
	GeoLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "walrus_tracker",
			Subsystem: "geo",
			Name:      "lookups_total",
			Help:      "Total number of geolocation lookups by result",
		},
		[]string{"result"},
	)

	// Cache metrics
	CacheReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "walrus_tracker",
			Subsystem: "cache",
			Name:      "reads_total",
			Help:      "Total number of snapshot reads by state",
		},
		[]string{"state"},
	)

	CacheWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "walrus_tracker",
			Subsystem: "cache",
			Name:      "write_failures_total",
			Help:      "Total number of failed snapshot writes",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
