package errors

import (
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("resource not found")

// ValidationError covers missing or malformed request fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InvalidDateError marks a date value that could not be parsed.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date value: %q", e.Value)
}

// ConflictDay identifies one existing booking that collides with a request.
type ConflictDay struct {
	BookingID int64
	SeatID    int64
	Date      time.Time
}

// ConflictError reports a violation of the one-booking-per-seat-per-day rule.
// Conflicts is ordered ascending by date, so Conflicts[0] is the earliest
// colliding day.
type ConflictError struct {
	Conflicts []ConflictDay
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) <= 1 {
		return "seat already booked for that date"
	}
	return fmt.Sprintf("seat already booked on %d of the requested dates", len(e.Conflicts))
}

func NewConflict(conflicts ...ConflictDay) error {
	return &ConflictError{Conflicts: conflicts}
}
