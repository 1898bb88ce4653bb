package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/hotelhaven/booking-backend/internal/config"
	"github.com/hotelhaven/booking-backend/internal/metrics"
	"github.com/hotelhaven/booking-backend/internal/models"
)

// checkoutSessionCompleted is the only gateway event type the reconciliation
// path reacts to.
const checkoutSessionCompleted = "checkout.session.completed"

// PaymentService wraps the Stripe API: it creates checkout sessions for
// bookings and verifies the signatures of inbound webhook events. The core
// treats it as an opaque boundary; no payment processing happens here.
type PaymentService struct {
	cfg     *config.PaymentConfig
	client  *client.API
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

// NewPaymentService creates a new PaymentService. Outbound gateway calls
// carry a bounded timeout from the configuration.
func NewPaymentService(cfg *config.PaymentConfig, m *metrics.Metrics, logger *logrus.Logger) *PaymentService {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:    &http.Client{Timeout: cfg.RequestTimeout},
		LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelError},
	})
	sc := client.New(cfg.SecretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return &PaymentService{
		cfg:     cfg,
		client:  sc,
		metrics: m,
		logger:  logger,
	}
}

// IsConfigured returns true if the gateway credentials are present
func (s *PaymentService) IsConfigured() bool {
	return s.cfg.SecretKey != "" && s.cfg.WebhookSecret != ""
}

// CreateCheckoutSession creates a Stripe checkout session for the booking.
// The booking ID travels as the session's client reference so the webhook
// can tie the payment back to the booking. A gateway timeout is returned as
// ErrGatewayTimeout, distinct from a rejected request.
func (s *PaymentService) CreateCheckoutSession(booking *models.Booking, payerEmail, payerName string) (*stripe.CheckoutSession, error) {
	// Stripe amounts are in the currency's minor unit
	amount := int64(math.Round(booking.TotalPrice * 100))

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.cfg.SuccessURL),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		CustomerEmail:     stripe.String(payerEmail),
		ClientReferenceID: stripe.String(booking.ID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.cfg.Currency),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(payerName),
					},
				},
			},
		},
	}

	sess, err := s.client.CheckoutSessions.New(params)
	if err != nil {
		if isTimeout(err) {
			s.metrics.CheckoutSessions.WithLabelValues("timeout").Inc()
			s.logger.WithError(err).WithField("booking_id", booking.ID).
				Warn("Stripe checkout session creation timed out")
			return nil, fmt.Errorf("%w: %v", ErrGatewayTimeout, err)
		}
		s.metrics.CheckoutSessions.WithLabelValues("error").Inc()
		s.logger.WithError(err).WithField("booking_id", booking.ID).
			Error("Failed to create Stripe checkout session")
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.metrics.CheckoutSessions.WithLabelValues("created").Inc()

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"session_id": sess.ID,
		"amount":     amount,
	}).Info("Stripe checkout session created")

	return sess, nil
}

// VerifyWebhookEvent verifies the signature of a raw webhook payload against
// the shared webhook secret and parses it. Unverifiable payloads are
// rejected with ErrWebhookVerification and must never reach reconciliation.
func (s *PaymentService) VerifyWebhookEvent(payload []byte, signatureHeader string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, s.cfg.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWebhookVerification, err)
	}
	return &event, nil
}

// IsCheckoutCompleted reports whether the event is a completed checkout
// session, the only event type that drives reconciliation.
func (s *PaymentService) IsCheckoutCompleted(event *stripe.Event) bool {
	return event.Type == checkoutSessionCompleted
}

// BookingReferenceFromEvent extracts the booking reference carried in a
// completed checkout session event.
func (s *PaymentService) BookingReferenceFromEvent(event *stripe.Event) (string, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return "", fmt.Errorf("failed to parse checkout session from event: %w", err)
	}
	if session.ClientReferenceID == "" {
		return "", fmt.Errorf("checkout session carries no client reference")
	}
	return session.ClientReferenceID, nil
}

// isTimeout reports whether err is a network-level timeout
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
