package models

import "time"

// NATS event subjects
const (
	EventBookingCreated    = "booking.created"
	EventBookingUpdated    = "booking.updated"
	EventBookingCancelled  = "booking.cancelled"
	EventLayoutRegenerated = "layout.regenerated"
)

// BookingCreatedEvent is published once per reservation request; Dates lists
// every materialized day for range bookings.
type BookingCreatedEvent struct {
	BookingIDs []int64   `json:"booking_ids"`
	SeatID     int64     `json:"seat_id"`
	UserName   string    `json:"user_name"`
	Dates      []string  `json:"dates"`
	Timestamp  time.Time `json:"timestamp"`
}

// BookingUpdatedEvent represents an edit of a reservation's name or date.
type BookingUpdatedEvent struct {
	BookingID int64     `json:"booking_id"`
	SeatID    int64     `json:"seat_id"`
	UserName  string    `json:"user_name"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingCancelledEvent represents a deleted reservation.
type BookingCancelledEvent struct {
	BookingID int64     `json:"booking_id"`
	SeatID    int64     `json:"seat_id"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// LayoutRegeneratedEvent represents a destructive seat-grid rebuild.
type LayoutRegeneratedEvent struct {
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	SeatCount int       `json:"seat_count"`
	Timestamp time.Time `json:"timestamp"`
}
