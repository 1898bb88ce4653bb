package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hotelhaven/booking-backend/internal/models"
)

const hotelColumns = `id, owner_id, name, address, city, created_at, updated_at`

// HotelRepository handles database operations for the hotels table
type HotelRepository struct {
	db *sqlx.DB
}

// NewHotelRepository creates a new HotelRepository
func NewHotelRepository(db *sqlx.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

// GetByID retrieves a hotel by ID
func (r *HotelRepository) GetByID(hotelID string) (*models.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels WHERE id = $1`

	var hotel models.Hotel
	if err := r.db.Get(&hotel, query, hotelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	return &hotel, nil
}

// List retrieves hotels, optionally filtered by city
func (r *HotelRepository) List(city string) ([]models.Hotel, error) {
	hotels := []models.Hotel{}

	if city != "" {
		query := `SELECT ` + hotelColumns + ` FROM hotels WHERE LOWER(city) = LOWER($1) ORDER BY created_at DESC`
		if err := r.db.Select(&hotels, query, city); err != nil {
			return nil, fmt.Errorf("failed to list hotels: %w", err)
		}
		return hotels, nil
	}

	query := `SELECT ` + hotelColumns + ` FROM hotels ORDER BY created_at DESC`
	if err := r.db.Select(&hotels, query); err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	return hotels, nil
}
