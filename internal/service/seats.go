package service

import (
	"context"
	"fmt"
	"time"

	apperrors "perch/internal/errors"
	"perch/internal/logger"
	"perch/internal/models"
	"perch/internal/timezone"
)

const (
	// Row labels run A..Z, which bounds the grid height.
	maxRows = 26
	maxCols = 99

	maxLabelLen = 10
)

type SeatService struct {
	seats  SeatStore
	tz     *timezone.Normalizer
	events EventPublisher
	cache  CacheInvalidator
}

func NewSeatService(seats SeatStore, tz *timezone.Normalizer, events EventPublisher, cache CacheInvalidator) *SeatService {
	return &SeatService{
		seats:  seats,
		tz:     tz,
		events: events,
		cache:  cache,
	}
}

// List returns the grid ordered by (row, col).
func (s *SeatService) List(ctx context.Context) ([]models.SeatResponse, error) {
	seats, err := s.seats.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}

	result := make([]models.SeatResponse, len(seats))
	for i, seat := range seats {
		result[i] = seatResponse(seat)
	}
	return result, nil
}

// Regenerate destructively rebuilds the grid: every existing seat and, via
// cascade, every booking is deleted, then rows*cols fresh seats are created.
func (s *SeatService) Regenerate(ctx context.Context, rows, cols int) (*models.RegenerateLayoutResponse, error) {
	if rows < 1 || rows > maxRows {
		return nil, apperrors.NewValidation("rows must be between 1 and %d", maxRows)
	}
	if cols < 1 || cols > maxCols {
		return nil, apperrors.NewValidation("cols must be between 1 and %d", maxCols)
	}

	seats := make([]models.Seat, 0, rows*cols)
	for row := 1; row <= rows; row++ {
		for col := 1; col <= cols; col++ {
			seats = append(seats, models.Seat{
				Row:   row,
				Col:   col,
				Label: seatLabel(row, col),
			})
		}
	}

	created, err := s.seats.RegenerateLayout(ctx, seats)
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate layout: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateSeatLayout(ctx); err != nil {
			logger.WithContext(ctx).Warn("Failed to invalidate seat layout cache", "error", err)
		}
		if err := s.cache.InvalidateAllDays(ctx); err != nil {
			logger.WithContext(ctx).Warn("Failed to invalidate day caches", "error", err)
		}
	}

	if s.events != nil {
		event := models.LayoutRegeneratedEvent{
			Rows:      rows,
			Cols:      cols,
			SeatCount: len(created),
			Timestamp: time.Now(),
		}
		if err := s.events.Publish(models.EventLayoutRegenerated, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish layout regenerated event",
				"error", err,
				"event_type", models.EventLayoutRegenerated)
		}
	}

	return &models.RegenerateLayoutResponse{
		Message:   "Seat layout updated successfully",
		SeatCount: len(created),
	}, nil
}

// UpdateLabel renames one seat; the grid position cannot change outside a
// full regeneration.
func (s *SeatService) UpdateLabel(ctx context.Context, id int64, label string) (*models.SeatResponse, error) {
	if label == "" {
		return nil, apperrors.NewValidation("label is required")
	}
	if len(label) > maxLabelLen {
		return nil, apperrors.NewValidation("label must be at most %d characters", maxLabelLen)
	}

	seat, err := s.seats.UpdateLabel(ctx, id, label)
	if err != nil {
		return nil, fmt.Errorf("failed to update seat: %w", err)
	}
	if seat == nil {
		return nil, apperrors.ErrNotFound
	}

	if s.cache != nil {
		if err := s.cache.InvalidateSeatLayout(ctx); err != nil {
			logger.WithContext(ctx).Warn("Failed to invalidate seat layout cache", "error", err)
		}
	}

	resp := seatResponse(*seat)
	return &resp, nil
}

// seatLabel builds the display label: row letter ('A' for row 1) plus the
// 1-based column number, e.g. row 2 col 3 -> "B3".
func seatLabel(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+row-1, col)
}

func seatResponse(seat models.Seat) models.SeatResponse {
	return models.SeatResponse{
		ID:    seat.ID,
		Row:   seat.Row,
		Col:   seat.Col,
		Label: seat.Label,
	}
}
