package models

import (
	"time"
)

// Seat is one position in the admin-defined grid. Row and Col are fixed at
// layout generation; only the label is editable afterwards.
type Seat struct {
	ID        int64     `json:"id" db:"id"`
	Row       int       `json:"row" db:"row_number"`
	Col       int       `json:"col" db:"col_number"`
	Label     string    `json:"label" db:"label"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// Booking reserves one seat for one calendar day. Date is the canonical
// instant of that day's midnight in the application's fixed zone; the
// datastore enforces uniqueness over (SeatID, Date). A multi-day reservation
// is stored as one row per covered day.
type Booking struct {
	ID        int64     `json:"id" db:"id"`
	SeatID    int64     `json:"seatId" db:"seat_id"`
	UserName  string    `json:"userName" db:"user_name"`
	Date      time.Time `json:"-" db:"booked_date"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// BookingWithSeat carries the owning seat alongside a booking for list views.
type BookingWithSeat struct {
	Booking
	Seat Seat `json:"seat"`
}
