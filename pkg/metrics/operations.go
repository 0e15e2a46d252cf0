package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics tracks named service operations: administrative
// workflows and reads that degraded to an empty result.
type OperationMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	degraded *prometheus.CounterVec
}

func NewOperationMetrics(reg prometheus.Registerer) *OperationMetrics {
	if reg == nil {
		return &OperationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "operation_duration_seconds",
		Help:    "Duration of administrative operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "operation_success",
		Help: "Successful administrative operations.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "operation_failure",
		Help: "Failed administrative operations.",
	}, []string{"operation"})
	degraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "read_degraded_total",
		Help: "Reads that hit a store error and returned an empty result.",
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure, degraded)
	return &OperationMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		degraded: degraded,
	}
}

// Track records duration and outcome for op. Use as
// defer m.Track("provision", time.Now(), &err).
func (m *OperationMetrics) Track(op string, started time.Time, errp *error) {
	if m == nil || m.duration == nil {
		return
	}
	op = normalizeLabel(op)
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	if errp != nil && *errp != nil {
		m.failure.WithLabelValues(op).Inc()
		return
	}
	m.success.WithLabelValues(op).Inc()
}

// IncDegraded counts a read that fell back to its empty value.
func (m *OperationMetrics) IncDegraded(op string) {
	if m == nil || m.degraded == nil {
		return
	}
	m.degraded.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
