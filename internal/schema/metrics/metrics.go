package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the schema registry's Prometheus metrics.
type Metrics struct {
	VersionsRegistered prometheus.Counter
	ExpiredRejections  prometheus.Counter
}

// New creates and registers the schema registry metrics.
func New() *Metrics {
	return &Metrics{
		VersionsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crossclass_schema_versions_registered_total",
			Help: "Total classification schema versions registered.",
		}),
		ExpiredRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crossclass_schema_expired_rejections_total",
			Help: "Lookups that found only an expired latest schema.",
		}),
	}
}

func (m *Metrics) IncrementVersionsRegistered() {
	if m != nil {
		m.VersionsRegistered.Inc()
	}
}

func (m *Metrics) IncrementExpiredRejections() {
	if m != nil {
		m.ExpiredRejections.Inc()
	}
}
