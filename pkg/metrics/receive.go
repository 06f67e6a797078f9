package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReceiveMetrics records outcomes of purchase receive operations.
type ReceiveMetrics struct {
	duration    *prometheus.HistogramVec
	success     *prometheus.CounterVec
	failure     *prometheus.CounterVec
	codesMinted *prometheus.CounterVec
}

// NewReceiveMetrics registers the receive metrics on the provided registerer.
func NewReceiveMetrics(reg prometheus.Registerer) *ReceiveMetrics {
	if reg == nil {
		return &ReceiveMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "purchase_receive_duration_seconds",
		Help:    "Duration of purchase receive operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_receive_success",
		Help: "Successful purchase receive operations.",
	}, []string{"mode"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_receive_failure",
		Help: "Failed purchase receive operations.",
	}, []string{"reason"})
	codesMinted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_codes_minted_total",
		Help: "Unique stock codes minted during reconciliation.",
	}, []string{"category"})
	reg.MustRegister(duration, success, failure, codesMinted)
	return &ReceiveMetrics{
		duration:    duration,
		success:     success,
		failure:     failure,
		codesMinted: codesMinted,
	}
}

// ObserveDuration records how long a receive took for the given outcome.
func (m *ReceiveMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncSuccess counts a completed receive. Mode is "first" or "repeat".
func (m *ReceiveMetrics) IncSuccess(mode string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncFailure counts a failed receive by reason.
func (m *ReceiveMetrics) IncFailure(reason string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(reason)).Inc()
}

// AddCodesMinted counts codes minted for a stock category.
func (m *ReceiveMetrics) AddCodesMinted(category string, n int) {
	if m == nil || m.codesMinted == nil || n <= 0 {
		return
	}
	m.codesMinted.WithLabelValues(normalizeLabel(category)).Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
