package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RegistrationsCreated prometheus.Counter
	ConfirmationsSent    prometheus.Counter
	ConfirmationsFailed  prometheus.Counter
	RequestDuration      *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all metrics on the given registerer. Tests pass a fresh
// registry so repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RegistrationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bazar_registrations_created_total",
			Help: "Total number of registrations created",
		}),
		ConfirmationsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "bazar_confirmations_sent_total",
			Help: "Total number of confirmation mails delivered",
		}),
		ConfirmationsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "bazar_confirmations_failed_total",
			Help: "Total number of confirmation mails that failed to compose or send",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bazar_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncrementRegistrationsCreated increments the registrations created counter by 1.
func (m *Metrics) IncrementRegistrationsCreated() {
	m.RegistrationsCreated.Inc()
}

// IncrementConfirmationsSent increments the confirmations sent counter by 1.
func (m *Metrics) IncrementConfirmationsSent() {
	m.ConfirmationsSent.Inc()
}

// IncrementConfirmationsFailed increments the confirmations failed counter by 1.
func (m *Metrics) IncrementConfirmationsFailed() {
	m.ConfirmationsFailed.Inc()
}

// ObserveRequest records one request's latency.
func (m *Metrics) ObserveRequest(route, status string, seconds float64) {
	m.RequestDuration.WithLabelValues(route, status).Observe(seconds)
}
