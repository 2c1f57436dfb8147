package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	// Registry round trips by gateway operation and upstream status.
	RegistryLatency *prometheus.HistogramVec

	// Gateway operation outcomes (success, not_found, invalid_input, upstream_error, ...).
	OperationOutcome *prometheus.CounterVec

	// Auth gate rejections by reason.
	AuthDenials *prometheus.CounterVec
}

// New creates and registers all gateway metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RegistryLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "linkgateway_registry_request_duration_seconds",
			Help:    "Duration of registry calls by gateway operation and upstream status",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"operation", "status"}), // status: HTTP code, or "transport_error"

		OperationOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkgateway_operation_outcomes_total",
			Help: "Total gateway operation outcomes by operation and outcome",
		}, []string{"operation", "outcome"}),

		AuthDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkgateway_auth_denials_total",
			Help: "Total requests rejected by the Basic-Auth gate",
		}, []string{"reason"}),
	}
}

// ObserveRegistryCall records one registry round trip. status is 0 when the
// call failed before a response arrived.
func (m *Metrics) ObserveRegistryCall(operation string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.RegistryLatency.WithLabelValues(operation, label).Observe(d.Seconds())
}

// IncrementOutcome records a gateway operation outcome.
func (m *Metrics) IncrementOutcome(operation, outcome string) {
	if m != nil {
		m.OperationOutcome.WithLabelValues(operation, outcome).Inc()
	}
}

// RecordAuthDenial counts one auth gate rejection.
func (m *Metrics) RecordAuthDenial(reason string) {
	if m != nil {
		m.AuthDenials.WithLabelValues(reason).Inc()
	}
}
