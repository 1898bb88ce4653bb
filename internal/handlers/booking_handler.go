package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hotelhaven/booking-backend/internal/middleware"
	"github.com/hotelhaven/booking-backend/internal/models"
	"github.com/hotelhaven/booking-backend/internal/services"
)

// BookingHandler handles booking operations
type BookingHandler struct {
	bookingService *services.BookingService
	paymentService *services.PaymentService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *services.BookingService, paymentService *services.PaymentService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		paymentService: paymentService,
	}
}

// CheckAvailability handles POST /api/v1/bookings
// Reports whether a room is free for a date range without creating anything.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req models.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room, check-in date, and check-out date are required"})
		return
	}

	checkIn, err := models.ParseBookingDate(req.CheckInDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid check-in date"})
		return
	}
	checkOut, err := models.ParseBookingDate(req.CheckOutDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid check-out date"})
		return
	}

	available, err := h.bookingService.IsAvailable(req.RoomID, checkIn, checkOut)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"is_available": available,
	})
}

// CreateBooking handles POST /api/v1/bookings/bookroom
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingService.CreateBooking(userCtx.UserID.String(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrRoomUnavailable):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidDateRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully",
		"data":    booking,
	})
}

// MyBookings handles GET /api/v1/bookings/mybooking
func (h *BookingHandler) MyBookings(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookings, err := h.bookingService.UserBookings(userCtx.UserID.String())
	if err != nil {
		if errors.Is(err, services.ErrNoBookingsFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": len(bookings),
		"data":    bookings,
	})
}

// HotelBookings handles GET /api/v1/bookings/hotel/:hotelId (hotelOwner only)
func (h *BookingHandler) HotelBookings(c *gin.Context) {
	hotelID := c.Param("hotelId")
	if hotelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hotel ID is required"})
		return
	}

	summary, err := h.bookingService.HotelBookings(hotelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get hotel bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"total_bookings": summary.TotalBookings,
		"total_revenue":  summary.TotalRevenue,
		"data":           summary.Bookings,
	})
}

// CheckoutSession handles GET /api/v1/bookings/check_out_session/:id
// Creates a Stripe checkout session for the booking's total price.
func (h *BookingHandler) CheckoutSession(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	booking, err := h.bookingService.GetBooking(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get booking"})
		return
	}

	session, err := h.paymentService.CreateCheckoutSession(booking, userCtx.Email, userCtx.Email)
	if err != nil {
		if errors.Is(err, services.ErrGatewayTimeout) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Payment gateway timed out, please retry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"session": session,
	})
}

// MarkPaid handles PUT /api/v1/bookings/pay/:id (hotelOwner only)
// Manual payment confirmation outside the webhook path.
func (h *BookingHandler) MarkPaid(c *gin.Context) {
	booking, err := h.bookingService.MarkPaid(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    booking,
	})
}
