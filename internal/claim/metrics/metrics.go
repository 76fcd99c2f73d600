package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for claim submission.
type Metrics struct {
	Claims         *prometheus.CounterVec
	SubmitDuration prometheus.Histogram
	ClaimedArea    prometheus.Histogram
	PublishErrors  prometheus.Counter
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Claims: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zenith_claims_submitted_total",
			Help: "Claim submissions by outcome code",
		}, []string{"outcome"}),
		SubmitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "zenith_claim_submit_duration_seconds",
			Help:    "End-to-end latency of claim submission",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		ClaimedArea: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "zenith_claim_area_km2",
			Help:    "Total area of recorded claims",
			Buckets: []float64{10_000, 100_000, 500_000, 1_000_000, 3_000_000, 6_000_000, 10_000_000, 20_000_000},
		}),
		PublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "zenith_claim_event_publish_errors_total",
			Help: "Claim events that could not be published",
		}),
	}
}

func (m *Metrics) IncrementClaim(outcome string) {
	m.Claims.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSubmit(d time.Duration) {
	m.SubmitDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveClaimedArea(km2 float64) {
	m.ClaimedArea.Observe(km2)
}

func (m *Metrics) IncrementPublishErrors() {
	m.PublishErrors.Inc()
}
