package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/hotelhaven/booking-backend/internal/models"
)

// PaymentEventRepository records an append-only audit trail of payment
// gateway traffic. Reconciliation never depends on it for correctness; it
// exists so every webhook and session creation leaves a persisted trace.
type PaymentEventRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewPaymentEventRepository creates a new payment event repository
func NewPaymentEventRepository(db *sqlx.DB, logger *logrus.Logger) *PaymentEventRepository {
	return &PaymentEventRepository{
		db:     db,
		logger: logger,
	}
}

// Log creates a new payment event entry
func (r *PaymentEventRepository) Log(ctx context.Context, event *models.PaymentEvent) error {
	if event == nil {
		return fmt.Errorf("payment event cannot be nil")
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO payment_events (
			id, booking_id, gateway_event_id, event_type, outcome,
			is_duplicate, raw_body, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.BookingID, event.GatewayEventID, event.EventType,
		event.Outcome, event.IsDuplicate, event.RawBody, event.ErrorMessage,
		event.CreatedAt,
	)
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"event_type":       event.EventType,
			"gateway_event_id": event.GatewayEventID,
		}).Error("Failed to log payment event")
		return fmt.Errorf("failed to log payment event: %w", err)
	}

	return nil
}

// ListByBooking retrieves the audit trail for a booking, oldest first
func (r *PaymentEventRepository) ListByBooking(ctx context.Context, bookingID string) ([]models.PaymentEvent, error) {
	query := `
		SELECT id, booking_id, gateway_event_id, event_type, outcome,
			   is_duplicate, raw_body, error_message, created_at
		FROM payment_events
		WHERE booking_id = $1
		ORDER BY created_at
	`

	events := []models.PaymentEvent{}
	if err := r.db.SelectContext(ctx, &events, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to list payment events: %w", err)
	}
	return events, nil
}
