package models

import "time"

// Room represents a bookable hotel room. Rooms are owned by a hotel and are
// read-only from the booking workflow's perspective.
type Room struct {
	ID            string      `json:"id" db:"id"`
	HotelID       string      `json:"hotel_id" db:"hotel_id"`
	RoomType      string      `json:"room_type" db:"room_type"`
	PricePerNight float64     `json:"price_per_night" db:"price_per_night"`
	Amenities     StringArray `json:"amenities" db:"amenities"`
	IsAvailable   bool        `json:"is_available" db:"is_available"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}
