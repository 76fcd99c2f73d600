package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for region selection.
type Metrics struct {
	Toggles   *prometheus.CounterVec
	Evictions prometheus.Counter
	Queued    prometheus.Counter
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Toggles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zenith_selection_toggles_total",
			Help: "Region toggles by outcome",
		}, []string{"outcome"}),
		Evictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "zenith_selection_evictions_total",
			Help: "Selected regions evicted after being reported taken",
		}),
		Queued: factory.NewCounter(prometheus.CounterOpts{
			Name: "zenith_selection_toggles_queued_total",
			Help: "Toggles queued until the taken set loaded",
		}),
	}
}

func (m *Metrics) IncrementToggle(outcome string) {
	m.Toggles.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementEvictions(n int) {
	m.Evictions.Add(float64(n))
}

func (m *Metrics) IncrementQueued() {
	m.Queued.Inc()
}
