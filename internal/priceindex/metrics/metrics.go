package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for price index fetches.
type Metrics struct {
	FetchDuration *prometheus.HistogramVec
	Retries       prometheus.Counter
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zenith_price_fetch_duration_seconds",
			Help:    "Latency of price index fetches including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"result"}),
		Retries: factory.NewCounter(prometheus.CounterOpts{
			Name: "zenith_price_fetch_retries_total",
			Help: "Total number of retried price index fetches",
		}),
	}
}

func (m *Metrics) ObserveFetch(ok bool, d time.Duration) {
	result := "error"
	if ok {
		result = "ok"
	}
	m.FetchDuration.WithLabelValues(result).Observe(d.Seconds())
}

func (m *Metrics) IncrementRetries() {
	m.Retries.Inc()
}
