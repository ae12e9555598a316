// Package metrics defines the Prometheus collectors of debt-service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "debt"

// Metrics groups every collector the service exports.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	PaymentsAmount    *prometheus.CounterVec
	ScheduleLines     *prometheus.CounterVec
	LinesMarkedLate   prometheus.Counter
	GRPCRequests      *prometheus.CounterVec
	GRPCDuration      *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Use case executions by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		OperationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Use case latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		PaymentsAmount: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_amount_total",
				Help:      "Money received, by payment kind and currency.",
			},
			[]string{"kind", "currency"},
		),
		ScheduleLines: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "schedule_lines_written_total",
				Help:      "Schedule lines upserted, by reason.",
			},
			[]string{"reason"},
		),
		LinesMarkedLate: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lines_marked_late_total",
				Help:      "Schedule lines moved to EN_RETARD.",
			},
		),
		GRPCRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "grpc_requests_total",
				Help:      "gRPC requests by method and status code.",
			},
			[]string{"method", "code"},
		),
		GRPCDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "grpc_request_duration_seconds",
				Help:      "gRPC request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

// ObserveOperation records one use case execution.
func (m *Metrics) ObserveOperation(operation string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// AddPayment records money received.
func (m *Metrics) AddPayment(kind, currency string, amount float64) {
	m.PaymentsAmount.WithLabelValues(kind, currency).Add(amount)
}

// AddScheduleLines records lines written to storage.
func (m *Metrics) AddScheduleLines(reason string, n int) {
	m.ScheduleLines.WithLabelValues(reason).Add(float64(n))
}

// AddLinesMarkedLate records lines moved to EN_RETARD.
func (m *Metrics) AddLinesMarkedLate(n int) {
	m.LinesMarkedLate.Add(float64(n))
}

// ObserveGRPC records one gRPC request.
func (m *Metrics) ObserveGRPC(method, code string, elapsed time.Duration) {
	m.GRPCRequests.WithLabelValues(method, code).Inc()
	m.GRPCDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
