package repository

import (
	"errors"

	"github.com/lib/pq"

	"perch/internal/database"
)

type Repositories struct {
	Seats    *SeatRepository
	Bookings *BookingRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Seats:    NewSeatRepository(db),
		Bookings: NewBookingRepository(db),
	}
}

// isUniqueViolation reports whether err is postgres error 23505. The unique
// index on (seat_id, booked_date) is the authoritative guard against double
// booking; callers translate this into a ConflictError.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
