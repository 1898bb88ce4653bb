package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hotelhaven/booking-backend/internal/database"
)

// HotelHandler handles hotel catalog endpoints
type HotelHandler struct {
	hotelRepo *database.HotelRepository
	roomRepo  *database.RoomRepository
}

// NewHotelHandler creates a new HotelHandler
func NewHotelHandler(hotelRepo *database.HotelRepository, roomRepo *database.RoomRepository) *HotelHandler {
	return &HotelHandler{hotelRepo: hotelRepo, roomRepo: roomRepo}
}

// List handles GET /api/v1/hotels?city=
func (h *HotelHandler) List(c *gin.Context) {
	hotels, err := h.hotelRepo.List(c.Query("city"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list hotels"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(hotels), "data": hotels})
}

// Get handles GET /api/v1/hotels/:hotelId
func (h *HotelHandler) Get(c *gin.Context) {
	hotel, err := h.hotelRepo.GetByID(c.Param("hotelId"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get hotel"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": hotel})
}

// Rooms handles GET /api/v1/hotels/:hotelId/rooms
func (h *HotelHandler) Rooms(c *gin.Context) {
	hotelID := c.Param("hotelId")

	if _, err := h.hotelRepo.GetByID(hotelID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rooms"})
		return
	}

	rooms, err := h.roomRepo.List(hotelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rooms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(rooms), "data": rooms})
}
