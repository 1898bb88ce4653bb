package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hotelhaven/booking-backend/internal/cache"
	"github.com/hotelhaven/booking-backend/internal/database"
	"github.com/hotelhaven/booking-backend/internal/metrics"
	"github.com/hotelhaven/booking-backend/internal/models"
)

// ReconcileStatus tags the result of processing a payment confirmation
type ReconcileStatus string

const (
	// ReconcileApplied means the booking was transitioned to paid/confirmed.
	ReconcileApplied ReconcileStatus = "applied"

	// ReconcileIgnored means the event was acknowledged but produced no state
	// change. Reason says why (duplicate event, unknown booking reference,
	// persistence failure).
	ReconcileIgnored ReconcileStatus = "ignored"
)

// ReconcileOutcome is the tagged result of a reconciliation attempt, so
// callers and tests can tell an idempotent no-op from a reference that never
// existed.
type ReconcileOutcome struct {
	Status  ReconcileStatus
	Reason  string
	Booking *models.Booking
}

// ReconciliationService transitions booking payment state in response to
// verified payment-confirmation events. Events may arrive duplicated,
// reordered or late; processing is a pure overwrite of the payment fields,
// so replaying an event converges to the same state.
type ReconciliationService struct {
	bookingRepo *database.BookingRepository
	eventRepo   *database.PaymentEventRepository
	deduper     *cache.EventDeduper
	metrics     *metrics.Metrics
	logger      *logrus.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	bookingRepo *database.BookingRepository,
	eventRepo *database.PaymentEventRepository,
	deduper *cache.EventDeduper,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		deduper:     deduper,
		metrics:     m,
		logger:      logger,
	}
}

// OnPaymentConfirmed applies a verified payment confirmation to the booking
// the event references: paid=true, paymentMethod=Card, status=confirmed,
// paidAt=now. Fire and forget per event: an unresolvable reference is logged
// and discarded, never retried, because the gateway cannot act on anything
// beyond the HTTP acknowledgment. Idempotent by construction.
func (s *ReconciliationService) OnPaymentConfirmed(ctx context.Context, gatewayEventID, bookingRef string) ReconcileOutcome {
	log := s.logger.WithFields(logrus.Fields{
		"gateway_event_id": gatewayEventID,
		"booking_ref":      bookingRef,
	})

	if s.deduper.Seen(ctx, gatewayEventID) {
		log.Info("Duplicate payment event, skipping")
		s.audit(ctx, gatewayEventID, &bookingRef, models.PaymentEventWebhookReceived, "duplicate", true, nil)
		s.metrics.WebhookOutcomes.WithLabelValues("ignored").Inc()
		return ReconcileOutcome{Status: ReconcileIgnored, Reason: "duplicate event"}
	}

	booking, err := s.bookingRepo.GetByID(bookingRef)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Stale or malformed reference: acknowledged and dropped
			log.Warn("Payment event references unknown booking, discarding")
			s.audit(ctx, gatewayEventID, &bookingRef, models.PaymentEventWebhookReceived, "booking not found", false, nil)
			s.metrics.WebhookOutcomes.WithLabelValues("ignored").Inc()
			return ReconcileOutcome{Status: ReconcileIgnored, Reason: "booking not found"}
		}
		log.WithError(err).Error("Failed to resolve booking for payment event")
		s.audit(ctx, gatewayEventID, &bookingRef, models.PaymentEventWebhookReceived, "lookup failed", false, err)
		s.metrics.WebhookOutcomes.WithLabelValues("ignored").Inc()
		return ReconcileOutcome{Status: ReconcileIgnored, Reason: "booking lookup failed"}
	}

	booking.ConfirmCardPayment(time.Now())
	if err := s.bookingRepo.UpdatePayment(booking); err != nil {
		log.WithError(err).Error("Failed to persist payment confirmation")
		s.audit(ctx, gatewayEventID, &booking.ID, models.PaymentEventWebhookReceived, "persist failed", false, err)
		s.metrics.WebhookOutcomes.WithLabelValues("ignored").Inc()
		return ReconcileOutcome{Status: ReconcileIgnored, Reason: "persist failed"}
	}

	log.WithField("booking_id", booking.ID).Info("Booking confirmed via payment event")
	s.audit(ctx, gatewayEventID, &booking.ID, models.PaymentEventBookingConfirmed, "applied", false, nil)
	s.metrics.WebhookOutcomes.WithLabelValues("applied").Inc()
	return ReconcileOutcome{Status: ReconcileApplied, Booking: booking}
}

// audit best-effort records the event in the payment audit trail
func (s *ReconciliationService) audit(ctx context.Context, gatewayEventID string, bookingID *string, eventType models.PaymentEventType, outcome string, duplicate bool, cause error) {
	if s.eventRepo == nil {
		return
	}

	event := &models.PaymentEvent{
		BookingID:      bookingID,
		GatewayEventID: &gatewayEventID,
		EventType:      eventType,
		Outcome:        &outcome,
		IsDuplicate:    duplicate,
	}
	if cause != nil {
		msg := cause.Error()
		event.ErrorMessage = &msg
	}

	// Audit failures are already logged by the repository; reconciliation
	// must not fail because the trail could not be written.
	_ = s.eventRepo.Log(ctx, event)
}
