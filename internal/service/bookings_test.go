package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "perch/internal/errors"
	"perch/internal/models"
	"perch/internal/timezone"
)

func newTestNormalizer(t *testing.T) *timezone.Normalizer {
	t.Helper()
	tz, err := timezone.New("Asia/Bangkok")
	require.NoError(t, err)
	return tz
}

func day(tz *timezone.Normalizer, value string) time.Time {
	d, err := tz.ParseCanonical(value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBookingService_CreateSingleDay_Success(t *testing.T) {
	tz := newTestNormalizer(t)
	seats := new(MockSeatStore)
	bookings := new(MockBookingStore)
	events := new(MockPublisher)
	cache := new(MockInvalidator)
	svc := NewBookingService(bookings, seats, tz, events, cache)

	d := day(tz, "2024-01-15")
	seats.On("GetByID", mock.Anything, int64(7)).Return(&models.Seat{ID: 7, Row: 1, Col: 7, Label: "A7"}, nil)
	bookings.On("FindBySeatAndDate", mock.Anything, int64(7), d, int64(0)).Return(nil, nil)
	bookings.On("Create", mock.Anything, mock.AnythingOfType("*models.Booking")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Booking).ID = 42
	}).Return(nil)
	cache.On("InvalidateDays", mock.Anything, []string{"2024-01-15"}).Return(nil)
	events.On("Publish", models.EventBookingCreated, mock.Anything).Return(nil)

	resp, err := svc.CreateSingleDay(context.Background(), &models.CreateBookingRequest{
		SeatID:   7,
		UserName: "Alice",
		Date:     "2024-01-15",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, int64(7), resp.SeatID)
	assert.Equal(t, "Alice", resp.UserName)
	assert.Equal(t, "2024-01-15", resp.Date)
	assert.Equal(t, "Monday, 15 January 2024", resp.DateLabel)
	bookings.AssertExpectations(t)
	events.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestBookingService_CreateSingleDay_Validation(t *testing.T) {
	tz := newTestNormalizer(t)
	svc := NewBookingService(new(MockBookingStore), new(MockSeatStore), tz, nil, nil)

	tests := []struct {
		name string
		req  models.CreateBookingRequest
	}{
		{"missing seat", models.CreateBookingRequest{UserName: "Alice", Date: "2024-01-15"}},
		{"missing user name", models.CreateBookingRequest{SeatID: 7, Date: "2024-01-15"}},
		{"missing date", models.CreateBookingRequest{SeatID: 7, UserName: "Alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSingleDay(context.Background(), &tt.req)
			var verr *apperrors.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestBookingService_CreateSingleDay_InvalidDate(t *testing.T) {
	tz := newTestNormalizer(t)
	svc := NewBookingService(new(MockBookingStore), new(MockSeatStore), tz, nil, nil)

	_, err := svc.CreateSingleDay(context.Background(), &models.CreateBookingRequest{
		SeatID:   7,
		UserName: "Alice",
		Date:     "not-a-date",
	})

	var derr *apperrors.InvalidDateError
	assert.ErrorAs(t, err, &derr)
}

func TestBookingService_CreateSingleDay_SeatNotFound(t *testing.T) {
	tz := newTestNormalizer(t)
	seats := new(MockSeatStore)
	seats.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)
	svc := NewBookingService(new(MockBookingStore), seats, tz, nil, nil)

	_, err := svc.CreateSingleDay(context.Background(), &models.CreateBookingRequest{
		SeatID:   99,
		UserName: "Alice",
		Date:     "2024-01-15",
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBookingService_CreateSingleDay_Conflict(t *testing.T) {
	tz := newTestNormalizer(t)
	seats := new(MockSeatStore)
	bookings := new(MockBookingStore)
	svc := NewBookingService(bookings, seats, tz, nil, nil)

	d := day(tz, "2024-01-15")
	seats.On("GetByID", mock.Anything, int64(7)).Return(&models.Seat{ID: 7}, nil)
	bookings.On("FindBySeatAndDate", mock.Anything, int64(7), d, int64(0)).
		Return(&models.Booking{ID: 3, SeatID: 7, UserName: "Bob", Date: d}, nil)

	_, err := svc.CreateSingleDay(context.Background(), &models.CreateBookingRequest{
		SeatID:   7,
		UserName: "Alice",
		Date:     "2024-01-15",
	})

	var cerr *apperrors.ConflictError
	require.ErrorAs(t, err, &cerr)
	require.Len(t, cerr.Conflicts, 1)
	assert.Equal(t, int64(3), cerr.Conflicts[0].BookingID)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_CreateRange_Success(t *testing.T) {
	tz := newTestNormalizer(t)
	seats := new(MockSeatStore)
	bookings := new(MockBookingStore)
	events := new(MockPublisher)
	cache := new(MockInvalidator)
	svc := NewBookingService(bookings, seats, tz, events, cache)

	start := day(tz, "2024-01-15")
	end := day(tz, "2024-01-17")
	days := tz.DaysInclusive(start, end)
	created := []models.Booking{
		{ID: 1, SeatID: 7, UserName: "Alice", Date: days[0]},
		{ID: 2, SeatID: 7, UserName: "Alice", Date: days[1]},
		{ID: 3, SeatID: 7, UserName: "Alice", Date: days[2]},
	}

	seats.On("GetByID", mock.Anything, int64(7)).Return(&models.Seat{ID: 7}, nil)
	bookings.On("FindBySeatInRange", mock.Anything, int64(7), start, end).Return([]models.Booking{}, nil)
	bookings.On("CreateBatch", mock.Anything, int64(7), "Alice", days).Return(created, nil)
	cache.On("InvalidateDays", mock.Anything, []string{"2024-01-15", "2024-01-16", "2024-01-17"}).Return(nil)
	events.On("Publish", models.EventBookingCreated, mock.Anything).Return(nil)

	resp, err := svc.CreateRange(context.Background(), &models.CreateBookingRequest{
		SeatID:    7,
		UserName:  "Alice",
		StartDate: "2024-01-15",
		EndDate:   "2024-01-17",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Bookings, 3)
	assert.Equal(t, "2024-01-15", resp.Bookings[0].Date)
	assert.Equal(t, "2024-01-17", resp.Bookings[2].Date)
	bookings.AssertExpectations(t)
}

func TestBookingService_CreateRange_ConflictEarliestFirst(t *testing.T) {
	tz := newTestNormalizer(t)
	seats := new(MockSeatStore)
	bookings := new(MockBookingStore)
	svc := NewBookingService(bookings, seats, tz, nil, nil)

	start := day(tz, "2024-01-01")
	end := day(tz, "2024-01-05")
	seats.On("GetByID", mock.Anything, int64(7)).Return(&models.Seat{ID: 7}, nil)
	bookings.On("FindBySeatInRange", mock.Anything, int64(7), start, end).Return([]models.Booking{
		{ID: 11, SeatID: 7, Date: day(tz, "2024-01-02")},
		{ID: 12, SeatID: 7, Date: day(tz, "2024-01-04")},
	}, nil)

	_, err := svc.CreateRange(context.Background(), &models.CreateBookingRequest{
		SeatID:    7,
		UserName:  "Alice",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-05",
	})

	var cerr *apperrors.ConflictError
	require.ErrorAs(t, err, &cerr)
	require.Len(t, cerr.Conflicts, 2)
	assert.Equal(t, day(tz, "2024-01-02"), cerr.Conflicts[0].Date)
	assert.Equal(t, int64(11), cerr.Conflicts[0].BookingID)
	bookings.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_CreateRange_InvertedWindow(t *testing.T) {
	tz := newTestNormalizer(t)
	seats := new(MockSeatStore)
	bookings := new(MockBookingStore)
	svc := NewBookingService(bookings, seats, tz, nil, nil)

	_, err := svc.CreateRange(context.Background(), &models.CreateBookingRequest{
		SeatID:    7,
		UserName:  "Alice",
		StartDate: "2024-01-17",
		EndDate:   "2024-01-15",
	})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	seats.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	bookings.AssertNotCalled(t, "FindBySeatInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_CreateRange_TooLong(t *testing.T) {
	tz := newTestNormalizer(t)
	svc := NewBookingService(new(MockBookingStore), new(MockSeatStore), tz, nil, nil)

	_, err := svc.CreateRange(context.Background(), &models.CreateBookingRequest{
		SeatID:    7,
		UserName:  "Alice",
		StartDate: "2024-01-01",
		EndDate:   "2026-01-01",
	})

	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBookingService_CreateRange_MissingBound(t *testing.T) {
	tz := newTestNormalizer(t)
	svc := NewBookingService(new(MockBookingStore), new(MockSeatStore), tz, nil, nil)

	_, err := svc.CreateRange(context.Background(), &models.CreateBookingRequest{
		SeatID:    7,
		UserName:  "Alice",
		StartDate: "2024-01-15",
	})

	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBookingService_Update_DateConflictExcludesSelf(t *testing.T) {
	tz := newTestNormalizer(t)
	bookings := new(MockBookingStore)
	svc := NewBookingService(bookings, new(MockSeatStore), tz, nil, nil)

	oldDay := day(tz, "2024-01-15")
	newDay := day(tz, "2024-01-16")
	bookings.On("GetByID", mock.Anything, int64(42)).
		Return(&models.Booking{ID: 42, SeatID: 7, UserName: "Alice", Date: oldDay}, nil)
	bookings.On("FindBySeatAndDate", mock.Anything, int64(7), newDay, int64(42)).
		Return(&models.Booking{ID: 50, SeatID: 7, Date: newDay}, nil)

	newDate := "2024-01-16"
	_, err := svc.Update(context.Background(), 42, &models.UpdateBookingRequest{Date: &newDate})

	var cerr *apperrors.ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, int64(50), cerr.Conflicts[0].BookingID)
	bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBookingService_Update_NameOnlySkipsConflictCheck(t *testing.T) {
	tz := newTestNormalizer(t)
	bookings := new(MockBookingStore)
	cache := new(MockInvalidator)
	svc := NewBookingService(bookings, new(MockSeatStore), tz, nil, cache)

	d := day(tz, "2024-01-15")
	bookings.On("GetByID", mock.Anything, int64(42)).
		Return(&models.Booking{ID: 42, SeatID: 7, UserName: "Alice", Date: d}, nil)
	bookings.On("Update", mock.Anything, mock.AnythingOfType("*models.Booking")).Return(nil)
	cache.On("InvalidateDays", mock.Anything, []string{"2024-01-15", "2024-01-15"}).Return(nil)

	newName := "Bob"
	resp, err := svc.Update(context.Background(), 42, &models.UpdateBookingRequest{UserName: &newName})

	require.NoError(t, err)
	assert.Equal(t, "Bob", resp.UserName)
	assert.Equal(t, "2024-01-15", resp.Date)
	bookings.AssertNotCalled(t, "FindBySeatAndDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_Update_NoFields(t *testing.T) {
	tz := newTestNormalizer(t)
	svc := NewBookingService(new(MockBookingStore), new(MockSeatStore), tz, nil, nil)

	_, err := svc.Update(context.Background(), 42, &models.UpdateBookingRequest{})

	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBookingService_Update_NotFound(t *testing.T) {
	tz := newTestNormalizer(t)
	bookings := new(MockBookingStore)
	bookings.On("GetByID", mock.Anything, int64(42)).Return(nil, nil)
	svc := NewBookingService(bookings, new(MockSeatStore), tz, nil, nil)

	newName := "Bob"
	_, err := svc.Update(context.Background(), 42, &models.UpdateBookingRequest{UserName: &newName})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBookingService_Delete(t *testing.T) {
	tz := newTestNormalizer(t)
	bookings := new(MockBookingStore)
	events := new(MockPublisher)
	cache := new(MockInvalidator)
	svc := NewBookingService(bookings, new(MockSeatStore), tz, events, cache)

	d := day(tz, "2024-01-15")
	bookings.On("GetByID", mock.Anything, int64(42)).
		Return(&models.Booking{ID: 42, SeatID: 7, UserName: "Alice", Date: d}, nil)
	bookings.On("Delete", mock.Anything, int64(42)).Return(nil)
	cache.On("InvalidateDays", mock.Anything, []string{"2024-01-15"}).Return(nil)
	events.On("Publish", models.EventBookingCancelled, mock.Anything).Return(nil)

	err := svc.Delete(context.Background(), 42)

	require.NoError(t, err)
	bookings.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestBookingService_Delete_NotFound(t *testing.T) {
	tz := newTestNormalizer(t)
	bookings := new(MockBookingStore)
	bookings.On("GetByID", mock.Anything, int64(42)).Return(nil, nil)
	svc := NewBookingService(bookings, new(MockSeatStore), tz, nil, nil)

	err := svc.Delete(context.Background(), 42)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	bookings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBookingService_ListForDay(t *testing.T) {
	tz := newTestNormalizer(t)
	bookings := new(MockBookingStore)
	svc := NewBookingService(bookings, new(MockSeatStore), tz, nil, nil)

	d := day(tz, "2024-01-15")
	bookings.On("ListForDay", mock.Anything, d).Return([]models.BookingWithSeat{
		{
			Booking: models.Booking{ID: 1, SeatID: 7, UserName: "Alice", Date: d},
			Seat:    models.Seat{ID: 7, Row: 1, Col: 7, Label: "A7"},
		},
	}, nil)

	resp, err := svc.ListForDay(context.Background(), "2024-01-15")

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "2024-01-15", resp[0].Date)
	assert.Equal(t, "A7", resp[0].Seat.Label)
}

func TestBookingService_ListForDay_InvalidDate(t *testing.T) {
	tz := newTestNormalizer(t)
	svc := NewBookingService(new(MockBookingStore), new(MockSeatStore), tz, nil, nil)

	_, err := svc.ListForDay(context.Background(), "2024-13-99")

	var derr *apperrors.InvalidDateError
	assert.ErrorAs(t, err, &derr)
}

func TestBookingService_ListInRange_InvertedIsEmpty(t *testing.T) {
	tz := newTestNormalizer(t)
	bookings := new(MockBookingStore)
	svc := NewBookingService(bookings, new(MockSeatStore), tz, nil, nil)

	start := day(tz, "2024-01-17")
	end := day(tz, "2024-01-15")
	bookings.On("ListInRange", mock.Anything, start, end).Return([]models.BookingWithSeat{}, nil)

	resp, err := svc.ListInRange(context.Background(), "2024-01-17", "2024-01-15")

	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestBookingService_StorageErrorPassthrough(t *testing.T) {
	tz := newTestNormalizer(t)
	bookings := new(MockBookingStore)
	svc := NewBookingService(bookings, new(MockSeatStore), tz, nil, nil)

	storeErr := errors.New("connection refused")
	bookings.On("ListForDay", mock.Anything, mock.Anything).Return(nil, storeErr)

	_, err := svc.ListForDay(context.Background(), "2024-01-15")

	assert.ErrorIs(t, err, storeErr)
}
