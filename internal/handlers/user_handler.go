package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hotelhaven/booking-backend/internal/database"
	"github.com/hotelhaven/booking-backend/internal/middleware"
	"github.com/hotelhaven/booking-backend/internal/models"
)

// UserHandler handles user profile endpoints
type UserHandler struct {
	userRepo *database.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo *database.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// Me handles GET /api/v1/user/me
func (h *UserHandler) Me(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	user, err := h.userRepo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

// RecordRecentSearch handles POST /api/v1/user/recent-search
func (h *UserHandler) RecordRecentSearch(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.RecentSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "City is required"})
		return
	}

	user, err := h.userRepo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record search"})
		return
	}

	user.PushRecentSearchedCity(req.City)

	if err := h.userRepo.UpdateRecentSearchedCities(user.ID, user.RecentSearchedCities); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record search"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user.RecentSearchedCities})
}
