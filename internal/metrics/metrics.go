package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipeshare",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recipeshare",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	fileOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipeshare",
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "File store operations by kind and outcome.",
		},
		[]string{"operation", "result"},
	)

	emails = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipeshare",
			Subsystem: "notifications",
			Name:      "emails_total",
			Help:      "Notification emails by outcome.",
		},
		[]string{"result"},
	)

	counterDrift = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recipeshare",
			Subsystem: "reconcile",
			Name:      "corrected_users_total",
			Help:      "Users whose recipe counter was corrected by the reconciler.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		fileOperations,
		emails,
		counterDrift,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one handled HTTP request. path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func ObserveRequest(method, path, status string, seconds float64) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordFileOperation counts a save or delete against the file store.
func RecordFileOperation(operation string, err error) {
	fileOperations.WithLabelValues(operation, result(err)).Inc()
}

// RecordEmails adds the outcome of a notification run.
func RecordEmails(sent, failed int) {
	emails.WithLabelValues("sent").Add(float64(sent))
	emails.WithLabelValues("failed").Add(float64(failed))
}

// RecordReconciled adds the number of corrected user counters.
func RecordReconciled(n int) {
	counterDrift.Add(float64(n))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
