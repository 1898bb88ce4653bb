package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hotelhaven/booking-backend/internal/database"
)

// RoomHandler handles room catalog endpoints
type RoomHandler struct {
	roomRepo *database.RoomRepository
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(roomRepo *database.RoomRepository) *RoomHandler {
	return &RoomHandler{roomRepo: roomRepo}
}

// List handles GET /api/v1/rooms?hotel_id=
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.roomRepo.List(c.Query("hotel_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rooms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(rooms), "data": rooms})
}

// Get handles GET /api/v1/rooms/:roomId
func (h *RoomHandler) Get(c *gin.Context) {
	room, err := h.roomRepo.GetByID(c.Param("roomId"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": room})
}
