package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the conversion lifecycle's Prometheus metrics.
type Metrics struct {
	RequestsSubmitted  prometheus.Counter
	RequestsCompleted  prometheus.Counter
	ConversionFailures prometheus.Counter
}

// New creates and registers the lifecycle metrics.
func New() *Metrics {
	return &Metrics{
		RequestsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crossclass_conversion_requests_submitted_total",
			Help: "Total conversion requests accepted at intake.",
		}),
		RequestsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crossclass_conversion_requests_completed_total",
			Help: "Conversion requests that reached the completed state.",
		}),
		ConversionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crossclass_conversion_failures_total",
			Help: "Conversion attempts that failed and left the request pending.",
		}),
	}
}

func (m *Metrics) IncrementRequestsSubmitted() {
	if m != nil {
		m.RequestsSubmitted.Inc()
	}
}

func (m *Metrics) IncrementRequestsCompleted() {
	if m != nil {
		m.RequestsCompleted.Inc()
	}
}

func (m *Metrics) IncrementConversionFailures() {
	if m != nil {
		m.ConversionFailures.Inc()
	}
}
