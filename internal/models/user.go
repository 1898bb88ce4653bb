package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleUser       = "user"
	RoleHotelOwner = "hotelOwner"
)

// MaxRecentSearchedCities caps the per-user recent city search history
const MaxRecentSearchedCities = 5

// User represents a platform account. PasswordHash is never serialized.
type User struct {
	ID                   uuid.UUID   `json:"id" db:"id"`
	Username             string      `json:"username" db:"username"`
	Email                string      `json:"email" db:"email"`
	PasswordHash         string      `json:"-" db:"password_hash"`
	Role                 string      `json:"role" db:"role"`
	RecentSearchedCities StringArray `json:"recent_searched_cities" db:"recent_searched_cities"`
	CreatedAt            time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at" db:"updated_at"`
}

// RegisterRequest represents the request to create an account
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// Validate validates the register request
func (r *RegisterRequest) Validate() error {
	if r.Role == "" {
		r.Role = RoleUser
	}
	if r.Role != RoleUser && r.Role != RoleHotelOwner {
		return errors.New("role must be 'user' or 'hotelOwner'")
	}
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return nil
}

// LoginRequest represents the request to authenticate
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RecentSearchRequest represents the request to record a searched city
type RecentSearchRequest struct {
	City string `json:"city" binding:"required"`
}

// PushRecentSearchedCity prepends a city to the user's search history,
// deduplicating case-insensitively and keeping the newest
// MaxRecentSearchedCities entries.
func (u *User) PushRecentSearchedCity(city string) {
	kept := make([]string, 0, len(u.RecentSearchedCities)+1)
	kept = append(kept, city)
	for _, c := range u.RecentSearchedCities {
		if !strings.EqualFold(c, city) {
			kept = append(kept, c)
		}
	}
	if len(kept) > MaxRecentSearchedCities {
		kept = kept[:MaxRecentSearchedCities]
	}
	u.RecentSearchedCities = kept
}
