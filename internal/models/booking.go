package models

import (
	"errors"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// PaymentMethodCard is the payment method recorded for card payments
// confirmed through the gateway webhook.
const PaymentMethodCard = "Card"

// Booking represents a room reservation for a date range.
// The date range is half-open: [CheckInDate, CheckOutDate).
type Booking struct {
	ID            string        `json:"id" db:"id"`
	UserID        string        `json:"user_id" db:"user_id"`
	RoomID        string        `json:"room_id" db:"room_id"`
	HotelID       string        `json:"hotel_id" db:"hotel_id"`
	CheckInDate   time.Time     `json:"check_in_date" db:"check_in_date"`
	CheckOutDate  time.Time     `json:"check_out_date" db:"check_out_date"`
	Guests        int           `json:"guests" db:"guests"`
	TotalPrice    float64       `json:"total_price" db:"total_price"`
	PaymentMethod *string       `json:"payment_method,omitempty" db:"payment_method"`
	IsPaid        bool          `json:"is_paid" db:"is_paid"`
	PaidAt        *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
	Status        BookingStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// CreateBookingRequest represents the request to create a booking.
// Dates are accepted as "2006-01-02" or RFC 3339 strings.
type CreateBookingRequest struct {
	RoomID        string  `json:"room_id" binding:"required"`
	HotelID       string  `json:"hotel_id" binding:"required"`
	CheckInDate   string  `json:"check_in_date" binding:"required"`
	CheckOutDate  string  `json:"check_out_date" binding:"required"`
	Guests        int     `json:"guests"`
	PaymentMethod *string `json:"payment_method,omitempty"`
}

// CheckAvailabilityRequest represents the request to check room availability
type CheckAvailabilityRequest struct {
	RoomID       string `json:"room_id" binding:"required"`
	CheckInDate  string `json:"check_in_date" binding:"required"`
	CheckOutDate string `json:"check_out_date" binding:"required"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	if r.Guests <= 0 {
		return errors.New("guests must be at least 1")
	}
	if r.Guests > 10 {
		return errors.New("maximum 10 guests per booking")
	}
	return nil
}

// ParseBookingDate parses a booking date accepting a plain date or a full
// RFC 3339 timestamp.
func ParseBookingDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ConfirmCardPayment applies the payment-confirmed state transition driven
// by a verified gateway event. Pure overwrite, so re-applying the same event
// is a no-op.
func (b *Booking) ConfirmCardPayment(now time.Time) {
	method := PaymentMethodCard
	b.IsPaid = true
	b.PaymentMethod = &method
	b.Status = BookingStatusConfirmed
	b.PaidAt = &now
	b.UpdatedAt = now
}

// MarkPaid records a manual payment confirmation by a hotel owner.
// Unlike the webhook path it does not change the booking status.
func (b *Booking) MarkPaid(now time.Time) {
	b.IsPaid = true
	b.PaidAt = &now
	b.UpdatedAt = now
}

// IsCancelled checks if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// HotelBookingsSummary aggregates the bookings of a hotel for the owner view
type HotelBookingsSummary struct {
	TotalBookings int       `json:"total_bookings"`
	TotalRevenue  float64   `json:"total_revenue"`
	Bookings      []Booking `json:"bookings"`
}
