package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide HTTP and session metrics.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec
	OpenSessions        prometheus.Gauge
	SessionsOpened      prometheus.Counter
	SessionsClosed      *prometheus.CounterVec
}

// New creates and registers all platform metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zenith_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		OpenSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "zenith_wizard_sessions_open",
			Help: "Number of open wizard sessions",
		}),
		SessionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "zenith_wizard_sessions_opened_total",
			Help: "Total number of wizard sessions opened",
		}),
		SessionsClosed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zenith_wizard_sessions_closed_total",
			Help: "Wizard sessions closed by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) IncrementSessionsOpened() {
	m.SessionsOpened.Inc()
	m.OpenSessions.Inc()
}

func (m *Metrics) IncrementSessionsClosed(reason string) {
	m.SessionsClosed.WithLabelValues(reason).Inc()
	m.OpenSessions.Dec()
}
