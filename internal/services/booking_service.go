package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hotelhaven/booking-backend/internal/database"
	"github.com/hotelhaven/booking-backend/internal/metrics"
	"github.com/hotelhaven/booking-backend/internal/models"
)

// BookingService orchestrates availability checking, pricing and persistence
// for the booking workflow.
type BookingService struct {
	bookingRepo *database.BookingRepository
	roomRepo    *database.RoomRepository
	metrics     *metrics.Metrics
	logger      *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *database.BookingRepository,
	roomRepo *database.RoomRepository,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		metrics:     m,
		logger:      logger,
	}
}

// IsAvailable reports whether the room is free for the half-open date range
// [checkIn, checkOut). Callers must validate the range ordering; this is a
// single read against the authoritative store and does not by itself protect
// a subsequent write (CreateBooking re-checks under a room lock).
func (s *BookingService) IsAvailable(roomID string, checkIn, checkOut time.Time) (bool, error) {
	overlapping, err := s.bookingRepo.CountOverlapping(roomID, checkIn, checkOut)
	if err != nil {
		return false, fmt.Errorf("availability check failed: %w", err)
	}
	return overlapping == 0, nil
}

// CreateBooking runs the booking workflow: resolve the room, check
// availability, price the stay and persist a pending booking. All steps
// succeed or nothing is written. The final insert re-checks availability
// inside a transaction that locks the room row, so two concurrent requests
// for overlapping dates cannot both commit.
func (s *BookingService) CreateBooking(userID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	checkIn, err := models.ParseBookingDate(req.CheckInDate)
	if err != nil {
		s.metrics.BookingsRejected.WithLabelValues("invalid_date_range").Inc()
		return nil, ErrInvalidDateRange
	}
	checkOut, err := models.ParseBookingDate(req.CheckOutDate)
	if err != nil {
		s.metrics.BookingsRejected.WithLabelValues("invalid_date_range").Inc()
		return nil, ErrInvalidDateRange
	}

	room, err := s.roomRepo.GetByID(req.RoomID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.metrics.BookingsRejected.WithLabelValues("room_not_found").Inc()
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	available, err := s.IsAvailable(room.ID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if !available {
		s.metrics.BookingsRejected.WithLabelValues("room_unavailable").Inc()
		return nil, ErrRoomUnavailable
	}

	nights := CalculateNights(checkIn, checkOut)
	if nights <= 0 {
		s.metrics.BookingsRejected.WithLabelValues("invalid_date_range").Inc()
		return nil, ErrInvalidDateRange
	}
	totalPrice := CalculateTotal(nights, room.PricePerNight)

	booking := &models.Booking{
		ID:            uuid.New().String(),
		UserID:        userID,
		RoomID:        room.ID,
		HotelID:       req.HotelID,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Guests:        req.Guests,
		TotalPrice:    totalPrice,
		PaymentMethod: req.PaymentMethod,
		IsPaid:        false,
		Status:        models.BookingStatusPending,
	}

	if err := s.bookingRepo.CreateIfAvailable(booking); err != nil {
		switch {
		case errors.Is(err, database.ErrDateRangeConflict):
			s.metrics.BookingsRejected.WithLabelValues("room_unavailable").Inc()
			return nil, ErrRoomUnavailable
		case errors.Is(err, database.ErrNotFound):
			s.metrics.BookingsRejected.WithLabelValues("room_not_found").Inc()
			return nil, ErrRoomNotFound
		default:
			s.metrics.BookingsRejected.WithLabelValues("internal").Inc()
			return nil, err
		}
	}

	s.metrics.BookingsCreated.Inc()
	s.logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"room_id":     booking.RoomID,
		"user_id":     booking.UserID,
		"nights":      nights,
		"total_price": booking.TotalPrice,
	}).Info("Booking created")

	return booking, nil
}

// UserBookings lists a user's bookings, newest first. An empty result is
// reported as ErrNoBookingsFound.
func (s *BookingService) UserBookings(userID string) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrNoBookingsFound
	}
	return bookings, nil
}

// HotelBookings lists a hotel's bookings together with the aggregate booking
// count and revenue (sum of total prices).
func (s *BookingService) HotelBookings(hotelID string) (*models.HotelBookingsSummary, error) {
	bookings, err := s.bookingRepo.GetByHotelID(hotelID)
	if err != nil {
		return nil, err
	}

	var revenue float64
	for _, b := range bookings {
		revenue += b.TotalPrice
	}

	return &models.HotelBookingsSummary{
		TotalBookings: len(bookings),
		TotalRevenue:  revenue,
		Bookings:      bookings,
	}, nil
}

// GetBooking retrieves a booking by ID
func (s *BookingService) GetBooking(bookingID string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

// MarkPaid records a manual payment confirmation by a hotel owner. Sets the
// paid flag and timestamp without changing the booking status.
func (s *BookingService) MarkPaid(bookingID string) (*models.Booking, error) {
	booking, err := s.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}

	booking.MarkPaid(time.Now())
	if err := s.bookingRepo.UpdatePayment(booking); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"paid_at":    booking.PaidAt,
	}).Info("Booking manually marked as paid")

	return booking, nil
}
