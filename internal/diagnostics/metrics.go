// Package diagnostics exposes an HTTP surface for health, readiness,
// Prometheus metrics, and a session status snapshot: a small gin router
// registered against a long-lived client process.
package diagnostics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netsdr",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total diagnostics HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
)

func registerMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests)
	})
}

func recordHTTPRequest(method, path, status string) {
	registerMetrics()
	httpRequests.WithLabelValues(method, path, status).Inc()
}
