package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentEventType represents the type of payment event recorded in the audit trail
type PaymentEventType string

const (
	PaymentEventWebhookReceived  PaymentEventType = "webhook_received"
	PaymentEventWebhookRejected  PaymentEventType = "webhook_rejected"
	PaymentEventSessionCreated   PaymentEventType = "checkout_session_created"
	PaymentEventBookingConfirmed PaymentEventType = "booking_confirmed"
	PaymentEventManualMarkPaid   PaymentEventType = "manual_mark_paid"
)

// PaymentEvent is an append-only audit record of payment gateway traffic.
// BookingID is nil when the event could not be tied to a booking.
type PaymentEvent struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	BookingID      *string          `json:"booking_id,omitempty" db:"booking_id"`
	GatewayEventID *string          `json:"gateway_event_id,omitempty" db:"gateway_event_id"`
	EventType      PaymentEventType `json:"event_type" db:"event_type"`
	Outcome        *string          `json:"outcome,omitempty" db:"outcome"`
	IsDuplicate    bool             `json:"is_duplicate" db:"is_duplicate"`
	RawBody        *string          `json:"raw_body,omitempty" db:"raw_body"`
	ErrorMessage   *string          `json:"error_message,omitempty" db:"error_message"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}
