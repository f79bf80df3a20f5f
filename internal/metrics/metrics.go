// Package metrics holds the Prometheus collectors the session package
// updates directly, kept separate from
// internal/diagnostics so the protocol core never imports gin. The
// diagnostics HTTP surface serves these same collectors at /metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netsdr",
			Subsystem: "client",
			Name:      "frames_sent_total",
			Help:      "Total control frames sent.",
		},
		[]string{"item"},
	)
	framesReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netsdr",
			Subsystem: "client",
			Name:      "frames_received_total",
			Help:      "Total frames received, by transport.",
		},
		[]string{"transport"},
	)
	decodeFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netsdr",
			Subsystem: "client",
			Name:      "decode_failures_total",
			Help:      "Total frames dropped for failing to decode.",
		},
		[]string{"transport"},
	)
	controlRoundTrip = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "netsdr",
			Subsystem: "client",
			Name:      "control_round_trip_seconds",
			Help:      "Control request round-trip latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"item", "outcome"},
	)
)

// Register registers the client metric collectors with the default
// Prometheus registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			framesSentTotal,
			framesReceivedTotal,
			decodeFailuresTotal,
			controlRoundTrip,
		)
	})
}

// RecordFrameSent increments the sent-frame counter for a control item.
func RecordFrameSent(item string) {
	Register()
	framesSentTotal.WithLabelValues(item).Inc()
}

// RecordFrameReceived increments the received-frame counter for a transport.
func RecordFrameReceived(transport string) {
	Register()
	framesReceivedTotal.WithLabelValues(transport).Inc()
}

// RecordDecodeFailure increments the decode-failure counter for a transport.
func RecordDecodeFailure(transport string) {
	Register()
	decodeFailuresTotal.WithLabelValues(transport).Inc()
}

// RecordControlRoundTrip observes a control request's latency and outcome
// ("ok", "timeout", "cancelled", "error").
func RecordControlRoundTrip(item, outcome string, d time.Duration) {
	Register()
	controlRoundTrip.WithLabelValues(item, outcome).Observe(d.Seconds())
}
