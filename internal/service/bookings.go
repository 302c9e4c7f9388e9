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

// maxRangeDays bounds range enumeration; a year-long reservation is already
// far beyond anything the booking UI offers.
const maxRangeDays = 366

// BookingService resolves reservation requests against the per-(seat, day)
// uniqueness invariant. Pre-checks here exist to produce friendly conflict
// errors; the storage layer's unique index remains the source of truth, so a
// request losing a race still surfaces as a ConflictError, never as a partial
// write.
type BookingService struct {
	bookings BookingStore
	seats    SeatStore
	tz       *timezone.Normalizer
	events   EventPublisher
	cache    CacheInvalidator
}

func NewBookingService(bookings BookingStore, seats SeatStore, tz *timezone.Normalizer, events EventPublisher, cache CacheInvalidator) *BookingService {
	return &BookingService{
		bookings: bookings,
		seats:    seats,
		tz:       tz,
		events:   events,
		cache:    cache,
	}
}

// ListForDay returns the bookings of one calendar day with seat details.
func (s *BookingService) ListForDay(ctx context.Context, dateStr string) ([]models.BookingWithSeatResponse, error) {
	if dateStr == "" {
		return nil, apperrors.NewValidation("date is required")
	}

	day, err := s.tz.ParseCanonical(dateStr)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListForDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return s.withSeatResponses(bookings), nil
}

// ListInRange returns bookings with dates inside [start, end], ascending by
// date. An inverted window yields an empty result on this read path.
func (s *BookingService) ListInRange(ctx context.Context, startStr, endStr string) ([]models.BookingWithSeatResponse, error) {
	if startStr == "" {
		return nil, apperrors.NewValidation("startDate is required when endDate is provided")
	}
	if endStr == "" {
		return nil, apperrors.NewValidation("endDate is required when startDate is provided")
	}

	start, err := s.tz.ParseCanonical(startStr)
	if err != nil {
		return nil, err
	}
	end, err := s.tz.ParseCanonical(endStr)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return s.withSeatResponses(bookings), nil
}

// CreateSingleDay reserves one seat for one calendar day.
func (s *BookingService) CreateSingleDay(ctx context.Context, req *models.CreateBookingRequest) (*models.BookingResponse, error) {
	if req.SeatID <= 0 {
		return nil, apperrors.NewValidation("seatId is required")
	}
	if req.UserName == "" {
		return nil, apperrors.NewValidation("userName is required")
	}
	if req.Date == "" {
		return nil, apperrors.NewValidation("date is required")
	}

	day, err := s.tz.ParseCanonical(req.Date)
	if err != nil {
		return nil, err
	}

	if err := s.ensureSeatExists(ctx, req.SeatID); err != nil {
		return nil, err
	}

	// Friendly-path check; the unique index still guards the race window
	// between this query and the insert.
	existing, err := s.bookings.FindBySeatAndDate(ctx, req.SeatID, day, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check for conflicts: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflict(apperrors.ConflictDay{
			BookingID: existing.ID,
			SeatID:    existing.SeatID,
			Date:      existing.Date,
		})
	}

	booking := &models.Booking{
		SeatID:   req.SeatID,
		UserName: req.UserName,
		Date:     day,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateDays(ctx, day)
	s.publishCreated(ctx, []models.Booking{*booking})

	resp := s.bookingResponse(*booking)
	return &resp, nil
}

// CreateRange reserves one seat for every day of an inclusive range,
// all-or-nothing. On conflict the earliest colliding day leads the error and
// nothing is written.
func (s *BookingService) CreateRange(ctx context.Context, req *models.CreateBookingRequest) (*models.CreateRangeBookingResponse, error) {
	if req.SeatID <= 0 {
		return nil, apperrors.NewValidation("seatId is required")
	}
	if req.UserName == "" {
		return nil, apperrors.NewValidation("userName is required")
	}
	if req.StartDate == "" {
		return nil, apperrors.NewValidation("startDate is required when endDate is provided")
	}
	if req.EndDate == "" {
		return nil, apperrors.NewValidation("endDate is required when startDate is provided")
	}

	start, err := s.tz.ParseCanonical(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := s.tz.ParseCanonical(req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, apperrors.NewValidation("endDate must not be earlier than startDate")
	}

	days := s.tz.DaysInclusive(start, end)
	if len(days) > maxRangeDays {
		return nil, apperrors.NewValidation("date range must not exceed %d days", maxRangeDays)
	}

	if err := s.ensureSeatExists(ctx, req.SeatID); err != nil {
		return nil, err
	}

	conflicts, err := s.bookings.FindBySeatInRange(ctx, req.SeatID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to check for conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		// Ascending by date from the store, so the earliest day leads.
		conflictDays := make([]apperrors.ConflictDay, len(conflicts))
		for i, c := range conflicts {
			conflictDays[i] = apperrors.ConflictDay{
				BookingID: c.ID,
				SeatID:    c.SeatID,
				Date:      c.Date,
			}
		}
		return nil, apperrors.NewConflict(conflictDays...)
	}

	created, err := s.bookings.CreateBatch(ctx, req.SeatID, req.UserName, days)
	if err != nil {
		return nil, err
	}

	s.invalidateDays(ctx, days...)
	s.publishCreated(ctx, created)

	resp := &models.CreateRangeBookingResponse{
		Bookings: make([]models.BookingResponse, len(created)),
		Count:    len(created),
	}
	for i, booking := range created {
		resp.Bookings[i] = s.bookingResponse(booking)
	}
	return resp, nil
}

// Update edits a booking's name, date, or both. A date change re-runs the
// conflict check with the booking itself excluded; a name-only edit does not.
func (s *BookingService) Update(ctx context.Context, id int64, req *models.UpdateBookingRequest) (*models.BookingResponse, error) {
	if req.UserName == nil && req.Date == nil {
		return nil, apperrors.NewValidation("userName or date is required for update")
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}

	oldDay := booking.Date

	if req.UserName != nil {
		if *req.UserName == "" {
			return nil, apperrors.NewValidation("userName must not be empty")
		}
		booking.UserName = *req.UserName
	}

	if req.Date != nil {
		day, err := s.tz.ParseCanonical(*req.Date)
		if err != nil {
			return nil, err
		}

		existing, err := s.bookings.FindBySeatAndDate(ctx, booking.SeatID, day, booking.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check for conflicts: %w", err)
		}
		if existing != nil {
			return nil, apperrors.NewConflict(apperrors.ConflictDay{
				BookingID: existing.ID,
				SeatID:    existing.SeatID,
				Date:      existing.Date,
			})
		}

		booking.Date = day
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateDays(ctx, oldDay, booking.Date)

	if s.events != nil {
		event := models.BookingUpdatedEvent{
			BookingID: booking.ID,
			SeatID:    booking.SeatID,
			UserName:  booking.UserName,
			Date:      s.tz.FormatForAPI(booking.Date),
			Timestamp: time.Now(),
		}
		if err := s.events.Publish(models.EventBookingUpdated, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish booking updated event",
				"error", err,
				"booking_id", booking.ID,
				"event_type", models.EventBookingUpdated)
		}
	}

	resp := s.bookingResponse(*booking)
	return &resp, nil
}

// Delete removes one booking.
func (s *BookingService) Delete(ctx context.Context, id int64) error {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return apperrors.ErrNotFound
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateDays(ctx, booking.Date)

	if s.events != nil {
		event := models.BookingCancelledEvent{
			BookingID: booking.ID,
			SeatID:    booking.SeatID,
			Date:      s.tz.FormatForAPI(booking.Date),
			Timestamp: time.Now(),
		}
		if err := s.events.Publish(models.EventBookingCancelled, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish booking cancelled event",
				"error", err,
				"booking_id", booking.ID,
				"event_type", models.EventBookingCancelled)
		}
	}

	return nil
}

func (s *BookingService) ensureSeatExists(ctx context.Context, seatID int64) error {
	seat, err := s.seats.GetByID(ctx, seatID)
	if err != nil {
		return fmt.Errorf("failed to get seat: %w", err)
	}
	if seat == nil {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *BookingService) publishCreated(ctx context.Context, bookings []models.Booking) {
	if s.events == nil || len(bookings) == 0 {
		return
	}

	event := models.BookingCreatedEvent{
		BookingIDs: make([]int64, len(bookings)),
		SeatID:     bookings[0].SeatID,
		UserName:   bookings[0].UserName,
		Dates:      make([]string, len(bookings)),
		Timestamp:  time.Now(),
	}
	for i, b := range bookings {
		event.BookingIDs[i] = b.ID
		event.Dates[i] = s.tz.FormatForAPI(b.Date)
	}

	if err := s.events.Publish(models.EventBookingCreated, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking created event",
			"error", err,
			"seat_id", event.SeatID,
			"event_type", models.EventBookingCreated)
	}
}

func (s *BookingService) invalidateDays(ctx context.Context, days ...time.Time) {
	if s.cache == nil || len(days) == 0 {
		return
	}

	keys := make([]string, len(days))
	for i, day := range days {
		keys[i] = s.tz.FormatForAPI(day)
	}
	if err := s.cache.InvalidateDays(ctx, keys...); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate day caches", "error", err, "days", keys)
	}
}

func (s *BookingService) bookingResponse(b models.Booking) models.BookingResponse {
	return models.BookingResponse{
		ID:        b.ID,
		SeatID:    b.SeatID,
		UserName:  b.UserName,
		Date:      s.tz.FormatForAPI(b.Date),
		DateLabel: s.tz.FormatTimeForDisplay(b.Date),
	}
}

func (s *BookingService) withSeatResponses(bookings []models.BookingWithSeat) []models.BookingWithSeatResponse {
	result := make([]models.BookingWithSeatResponse, len(bookings))
	for i, b := range bookings {
		result[i] = models.BookingWithSeatResponse{
			BookingResponse: s.bookingResponse(b.Booking),
			Seat:            seatResponse(b.Seat),
		}
	}
	return result
}
