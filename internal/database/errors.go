package database

import "errors"

// Storage-level sentinel errors. The service layer maps these onto the
// client-facing error taxonomy.
var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDateRangeConflict means a booking insert was rejected because a
	// non-cancelled booking already occupies an overlapping date range on
	// the same room. Raised both by the in-transaction overlap check and by
	// the bookings_no_overlap exclusion constraint.
	ErrDateRangeConflict = errors.New("date range conflicts with an existing booking")

	// ErrDuplicateEmail means the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)
