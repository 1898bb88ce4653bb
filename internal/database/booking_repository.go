package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hotelhaven/booking-backend/internal/models"
)

// Postgres error codes that indicate the bookings_no_overlap exclusion
// constraint (or a unique constraint) rejected the insert.
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

const bookingColumns = `id, user_id, room_id, hotel_id, check_in_date, check_out_date,
	   guests, total_price, payment_method, is_paid, paid_at, status,
	   created_at, updated_at`

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CountOverlapping returns the number of non-cancelled bookings on the room
// whose [check_in, check_out) range intersects the candidate range. The
// overlap test is the half-open interval predicate:
// existing.check_in < checkOut AND existing.check_out > checkIn.
func (r *BookingRepository) CountOverlapping(roomID string, checkIn, checkOut time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE room_id = $1
		  AND status <> 'cancelled'
		  AND check_in_date < $3
		  AND check_out_date > $2
	`

	var count int
	if err := r.db.Get(&count, query, roomID, checkIn, checkOut); err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

// CreateIfAvailable atomically re-checks availability and inserts the booking
// in one transaction. The SELECT ... FOR UPDATE on the room row serializes
// concurrent creates for the same room, closing the check-then-insert race;
// the bookings_no_overlap exclusion constraint backstops it at the storage
// level. Returns ErrDateRangeConflict when the room is taken and ErrNotFound
// when the room row does not exist. No rows are written on any failure path.
func (r *BookingRepository) CreateIfAvailable(booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var roomID string
	err = tx.Get(&roomID, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, booking.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to lock room: %w", err)
	}

	var overlapping int
	err = tx.Get(&overlapping, `
		SELECT COUNT(*)
		FROM bookings
		WHERE room_id = $1
		  AND status <> 'cancelled'
		  AND check_in_date < $3
		  AND check_out_date > $2
	`, booking.RoomID, booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		return fmt.Errorf("failed to check availability: %w", err)
	}
	if overlapping > 0 {
		return ErrDateRangeConflict
	}

	err = tx.QueryRow(`
		INSERT INTO bookings (
			id, user_id, room_id, hotel_id, check_in_date, check_out_date,
			guests, total_price, payment_method, is_paid, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING created_at, updated_at
	`,
		booking.ID, booking.UserID, booking.RoomID, booking.HotelID,
		booking.CheckInDate, booking.CheckOutDate,
		booking.Guests, booking.TotalPrice, booking.PaymentMethod,
		booking.IsPaid, booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		if isConstraintConflict(err) {
			return ErrDateRangeConflict
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isConstraintConflict(err) {
			return ErrDateRangeConflict
		}
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking models.Booking
	if err := r.db.Get(&booking, query, bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// GetByUserID retrieves all bookings for a user, newest first
func (r *BookingRepository) GetByUserID(userID string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	bookings := []models.Booking{}
	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user bookings: %w", err)
	}
	return bookings, nil
}

// GetByHotelID retrieves all bookings for a hotel, newest first
func (r *BookingRepository) GetByHotelID(hotelID string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE hotel_id = $1 ORDER BY created_at DESC`

	bookings := []models.Booking{}
	if err := r.db.Select(&bookings, query, hotelID); err != nil {
		return nil, fmt.Errorf("failed to get hotel bookings: %w", err)
	}
	return bookings, nil
}

// UpdatePayment persists the payment fields of a booking (paid flag, paid-at,
// method, status). Only the reconciliation handler and the manual mark-paid
// action go through here.
func (r *BookingRepository) UpdatePayment(booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET is_paid = $2, payment_method = $3, paid_at = $4, status = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		booking.ID, booking.IsPaid, booking.PaymentMethod, booking.PaidAt, booking.Status,
	).Scan(&booking.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update booking payment: %w", err)
	}
	return nil
}

// isConstraintConflict reports whether err is a Postgres exclusion or unique
// constraint violation.
func isConstraintConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgExclusionViolation || pqErr.Code == pgUniqueViolation
	}
	return false
}
