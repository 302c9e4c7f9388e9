package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"perch/internal/models"
)

type MockSeatStore struct {
	mock.Mock
}

func (m *MockSeatStore) List(ctx context.Context) ([]models.Seat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Seat), args.Error(1)
}

func (m *MockSeatStore) GetByID(ctx context.Context, id int64) (*models.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Seat), args.Error(1)
}

func (m *MockSeatStore) RegenerateLayout(ctx context.Context, seats []models.Seat) ([]models.Seat, error) {
	args := m.Called(ctx, seats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Seat), args.Error(1)
}

func (m *MockSeatStore) UpdateLabel(ctx context.Context, id int64, label string) (*models.Seat, error) {
	args := m.Called(ctx, id, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Seat), args.Error(1)
}

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingStore) FindBySeatAndDate(ctx context.Context, seatID int64, date time.Time, excludeID int64) (*models.Booking, error) {
	args := m.Called(ctx, seatID, date, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingStore) FindBySeatInRange(ctx context.Context, seatID int64, start, end time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, seatID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingStore) ListForDay(ctx context.Context, date time.Time) ([]models.BookingWithSeat, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingWithSeat), args.Error(1)
}

func (m *MockBookingStore) ListInRange(ctx context.Context, start, end time.Time) ([]models.BookingWithSeat, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingWithSeat), args.Error(1)
}

func (m *MockBookingStore) Create(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingStore) CreateBatch(ctx context.Context, seatID int64, userName string, days []time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, seatID, userName, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingStore) Update(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(subject string, data interface{}) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) InvalidateSeatLayout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockInvalidator) InvalidateDays(ctx context.Context, days ...string) error {
	args := m.Called(ctx, days)
	return args.Error(0)
}

func (m *MockInvalidator) InvalidateAllDays(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
