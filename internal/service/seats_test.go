package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "perch/internal/errors"
	"perch/internal/models"
)

func TestSeatService_Regenerate_BuildsGrid(t *testing.T) {
	tz := newTestNormalizer(t)
	seats := new(MockSeatStore)
	events := new(MockPublisher)
	cache := new(MockInvalidator)
	svc := NewSeatService(seats, tz, events, cache)

	var captured []models.Seat
	seats.On("RegenerateLayout", mock.Anything, mock.AnythingOfType("[]models.Seat")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]models.Seat)
		}).
		Return([]models.Seat{
			{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6},
		}, nil)
	cache.On("InvalidateSeatLayout", mock.Anything).Return(nil)
	cache.On("InvalidateAllDays", mock.Anything).Return(nil)
	events.On("Publish", models.EventLayoutRegenerated, mock.Anything).Return(nil)

	resp, err := svc.Regenerate(context.Background(), 2, 3)

	require.NoError(t, err)
	assert.Equal(t, 6, resp.SeatCount)
	require.Len(t, captured, 6)
	labels := make([]string, len(captured))
	for i, seat := range captured {
		labels[i] = seat.Label
	}
	assert.Equal(t, []string{"A1", "A2", "A3", "B1", "B2", "B3"}, labels)
	assert.Equal(t, 1, captured[0].Row)
	assert.Equal(t, 3, captured[5].Col)
	cache.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestSeatService_Regenerate_Bounds(t *testing.T) {
	tz := newTestNormalizer(t)
	seats := new(MockSeatStore)
	svc := NewSeatService(seats, tz, nil, nil)

	tests := []struct {
		name string
		rows int
		cols int
	}{
		{"zero rows", 0, 5},
		{"zero cols", 5, 0},
		{"negative rows", -1, 5},
		{"too many rows", 27, 5},
		{"too many cols", 5, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Regenerate(context.Background(), tt.rows, tt.cols)
			var verr *apperrors.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
	seats.AssertNotCalled(t, "RegenerateLayout", mock.Anything, mock.Anything)
}

func TestSeatService_UpdateLabel(t *testing.T) {
	tz := newTestNormalizer(t)
	seats := new(MockSeatStore)
	cache := new(MockInvalidator)
	svc := NewSeatService(seats, tz, nil, cache)

	seats.On("UpdateLabel", mock.Anything, int64(7), "VIP").
		Return(&models.Seat{ID: 7, Row: 1, Col: 7, Label: "VIP"}, nil)
	cache.On("InvalidateSeatLayout", mock.Anything).Return(nil)

	resp, err := svc.UpdateLabel(context.Background(), 7, "VIP")

	require.NoError(t, err)
	assert.Equal(t, "VIP", resp.Label)
	cache.AssertExpectations(t)
}

func TestSeatService_UpdateLabel_Validation(t *testing.T) {
	tz := newTestNormalizer(t)
	svc := NewSeatService(new(MockSeatStore), tz, nil, nil)

	_, err := svc.UpdateLabel(context.Background(), 7, "")
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateLabel(context.Background(), 7, "waytoolonglabel")
	assert.ErrorAs(t, err, &verr)
}

func TestSeatService_UpdateLabel_NotFound(t *testing.T) {
	tz := newTestNormalizer(t)
	seats := new(MockSeatStore)
	seats.On("UpdateLabel", mock.Anything, int64(99), "VIP").Return(nil, nil)
	svc := NewSeatService(seats, tz, nil, nil)

	_, err := svc.UpdateLabel(context.Background(), 99, "VIP")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSeatService_List(t *testing.T) {
	tz := newTestNormalizer(t)
	seats := new(MockSeatStore)
	seats.On("List", mock.Anything).Return([]models.Seat{
		{ID: 1, Row: 1, Col: 1, Label: "A1"},
		{ID: 2, Row: 1, Col: 2, Label: "A2"},
	}, nil)
	svc := NewSeatService(seats, tz, nil, nil)

	resp, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "A1", resp[0].Label)
	assert.Equal(t, 2, resp[1].Col)
}
