package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for registry reads and claim writes.
type Metrics struct {
	FetchDuration *prometheus.HistogramVec
	FetchFailures prometheus.Counter
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	BreakerState  prometheus.Gauge
	Claims        *prometheus.CounterVec
}

// New registers metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers metrics with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zenith_registry_taken_fetch_duration_seconds",
			Help:    "Latency of taken-region reads by source",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"source"}),
		FetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "zenith_registry_taken_fetch_failures_total",
			Help: "Total number of failed taken-region reads against the registry",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "zenith_registry_taken_cache_hits_total",
			Help: "Opportunistic taken-region reads served from cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "zenith_registry_taken_cache_misses_total",
			Help: "Opportunistic taken-region reads that went to the registry",
		}),
		BreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "zenith_registry_circuit_breaker_state",
			Help: "Registry circuit breaker state (0=closed, 1=open)",
		}),
		Claims: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zenith_registry_claims_total",
			Help: "Claim transactions by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveFetch(source string, d time.Duration) {
	m.FetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Metrics) IncrementFetchFailures() {
	m.FetchFailures.Inc()
}

func (m *Metrics) IncrementCacheHit() {
	m.CacheHits.Inc()
}

func (m *Metrics) IncrementCacheMiss() {
	m.CacheMisses.Inc()
}

func (m *Metrics) SetBreakerState(open bool) {
	if open {
		m.BreakerState.Set(1)
	} else {
		m.BreakerState.Set(0)
	}
}

func (m *Metrics) IncrementClaim(outcome string) {
	m.Claims.WithLabelValues(outcome).Inc()
}
