package services

import (
	"math"
	"time"
)

// CalculateNights returns the number of nights between check-in and
// check-out, rounding partial days up: a stay crossing less than a full 24h
// period still books one night. Zero or negative elapsed time yields a
// non-positive result, which callers must reject with ErrInvalidDateRange.
func CalculateNights(checkIn, checkOut time.Time) int {
	diff := checkOut.Sub(checkIn)
	return int(math.Ceil(diff.Hours() / 24))
}

// CalculateTotal derives the total price from nights stayed and the room's
// nightly rate.
func CalculateTotal(nights int, pricePerNight float64) float64 {
	return float64(nights) * pricePerNight
}
