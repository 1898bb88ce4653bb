package services

import "errors"

// Client-facing error taxonomy. Handlers map these onto HTTP status codes.
var (
	// ErrRoomNotFound means the requested room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomUnavailable means a non-cancelled booking already occupies an
	// overlapping date range on the room.
	ErrRoomUnavailable = errors.New("room is not available for the selected dates")

	// ErrInvalidDateRange means check-out is not after check-in.
	ErrInvalidDateRange = errors.New("check-out date must be after check-in date")

	// ErrBookingNotFound means the booking ID does not resolve.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrNoBookingsFound is returned when a user has no bookings. Kept for
	// API compatibility with clients that expect a 404 on an empty list.
	ErrNoBookingsFound = errors.New("no bookings found for this user")

	// ErrGatewayTimeout means the payment gateway call exceeded its deadline.
	// Retryable, unlike a rejected request.
	ErrGatewayTimeout = errors.New("payment gateway request timed out")

	// ErrWebhookVerification means an inbound payment event failed signature
	// verification and was discarded without any state change.
	ErrWebhookVerification = errors.New("webhook signature verification failed")
)
