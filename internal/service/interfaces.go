package service

import (
	"context"
	"time"

	"perch/internal/models"
)

// SeatStore is the persistence surface the seat service needs.
type SeatStore interface {
	List(ctx context.Context) ([]models.Seat, error)
	GetByID(ctx context.Context, id int64) (*models.Seat, error)
	RegenerateLayout(ctx context.Context, seats []models.Seat) ([]models.Seat, error)
	UpdateLabel(ctx context.Context, id int64, label string) (*models.Seat, error)
}

// BookingStore is the persistence surface the booking service needs. Create,
// CreateBatch and Update translate storage-level unique violations into
// ConflictError.
type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	FindBySeatAndDate(ctx context.Context, seatID int64, date time.Time, excludeID int64) (*models.Booking, error)
	FindBySeatInRange(ctx context.Context, seatID int64, start, end time.Time) ([]models.Booking, error)
	ListForDay(ctx context.Context, date time.Time) ([]models.BookingWithSeat, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]models.BookingWithSeat, error)
	Create(ctx context.Context, booking *models.Booking) error
	CreateBatch(ctx context.Context, seatID int64, userName string, days []time.Time) ([]models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id int64) error
}

// EventPublisher pushes lifecycle events to the message broker. A nil
// publisher disables publishing.
type EventPublisher interface {
	Publish(subject string, data interface{}) error
}

// CacheInvalidator drops stale cached views after mutations. A nil
// invalidator disables caching.
type CacheInvalidator interface {
	InvalidateSeatLayout(ctx context.Context) error
	InvalidateDays(ctx context.Context, days ...string) error
	InvalidateAllDays(ctx context.Context) error
}
