package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hotelhaven/booking-backend/internal/models"
)

const roomColumns = `id, hotel_id, room_type, price_per_night, amenities, is_available,
	   created_at, updated_at`

// RoomRepository handles database operations for the rooms table.
// The booking core only ever reads from it.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(roomID string) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	var room models.Room
	if err := r.db.Get(&room, query, roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

// List retrieves rooms, optionally filtered by hotel
func (r *RoomRepository) List(hotelID string) ([]models.Room, error) {
	rooms := []models.Room{}

	if hotelID != "" {
		query := `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = $1 ORDER BY created_at DESC`
		if err := r.db.Select(&rooms, query, hotelID); err != nil {
			return nil, fmt.Errorf("failed to list rooms: %w", err)
		}
		return rooms, nil
	}

	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY created_at DESC`
	if err := r.db.Select(&rooms, query); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}
