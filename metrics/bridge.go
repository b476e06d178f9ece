package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	bridgeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "requests_total",
			Help:      "Total number of bridge service calls by HTTP status",
		},
		[]string{"status"},
	)

	bridgeRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "request_duration_seconds",
			Help:      "Bridge service call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	paymentAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "payment_attempts_total",
			Help:      "Total number of wallet payment attempts by amount encoding",
		},
		[]string{"encoding", "success"},
	)

	attemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "attempts_total",
			Help:      "Total number of finished bridge attempts by result",
		},
		[]string{"result"},
	)
)

// Recorder feeds the bridge, wallet and orchestrator metrics.
type Recorder struct{}

// NewRecorder returns a recorder writing to the package metrics.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordBridgeRequest records one bridge service call.
func (r *Recorder) RecordBridgeRequest(status string, duration time.Duration) {
	bridgeRequestsTotal.WithLabelValues(status).Inc()
	bridgeRequestDuration.Observe(duration.Seconds())
}

// RecordPaymentAttempt records one wallet payment attempt.
func (r *Recorder) RecordPaymentAttempt(encoding string, success bool) {
	paymentAttemptsTotal.WithLabelValues(encoding, strconv.FormatBool(success)).Inc()
}

// RecordAttempt records a finished bridge attempt.
func (r *Recorder) RecordAttempt(result string) {
	attemptsTotal.WithLabelValues(result).Inc()
}
