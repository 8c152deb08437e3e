// Package metrics holds the Prometheus collectors of the service and the
// registry they are exposed from on GET /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storehouse"

var (
	// RequestDuration is labelled by route template, not raw path
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// SoftDeleteRejections counts deletes refused by the integrity checker
	SoftDeleteRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "integrity",
			Name:      "soft_delete_rejections_total",
			Help:      "Soft deletes refused, by entity kind and reason.",
		},
		[]string{"kind", "reason"}, // reason: "not_found" | "referenced"
	)

	// StaleReferences is set by every reference audit run
	StaleReferences = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stale_references",
			Help:      "Active rows whose reference points at a soft-deleted row.",
		},
		[]string{"reference"},
	)

	AuditRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "runs_total",
			Help:      "Reference audit runs by outcome.",
		},
		[]string{"status"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Read cache lookups by resource and result.",
		},
		[]string{"resource", "result"}, // result: "hit" | "miss" | "error"
	)
)

// Registry is the registry served on /metrics
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	Registry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		SoftDeleteRejections,
		StaleReferences,
		AuditRuns,
		CacheLookups,
	)
}

// Handler exposes Registry in the Prometheus text and OpenMetrics formats
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ObserveRequest records one finished HTTP request
func ObserveRequest(method, route, status string, start time.Time) {
	RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
	RequestTotal.WithLabelValues(method, route, status).Inc()
}
