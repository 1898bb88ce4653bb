package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the booking core. Each Metrics
// value owns its registry so tests can construct one without collector
// name collisions.
type Metrics struct {
	registry *prometheus.Registry

	// BookingsCreated counts successfully created bookings.
	BookingsCreated prometheus.Counter

	// BookingsRejected counts rejected booking attempts by reason
	// (room_not_found, room_unavailable, invalid_date_range, internal).
	BookingsRejected *prometheus.CounterVec

	// WebhookOutcomes counts reconciliation outcomes by status
	// (applied, ignored, rejected).
	WebhookOutcomes *prometheus.CounterVec

	// CheckoutSessions counts checkout session creations by result
	// (created, timeout, error).
	CheckoutSessions *prometheus.CounterVec
}

// New creates a Metrics with a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()

	return &Metrics{
		registry: reg,
		BookingsCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "booking_created_total",
			Help: "Total number of bookings created.",
		}),
		BookingsRejected: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "booking_rejected_total",
			Help: "Total number of rejected booking attempts.",
		}, []string{"reason"}),
		WebhookOutcomes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "payment_webhook_outcomes_total",
			Help: "Total number of payment webhook reconciliation outcomes.",
		}, []string{"outcome"}),
		CheckoutSessions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Total number of checkout session creation attempts.",
		}, []string{"result"}),
	}
}

// Handler returns the HTTP handler serving this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
