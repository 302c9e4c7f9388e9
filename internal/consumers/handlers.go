package consumers

import (
	"context"
	"encoding/json"

	"github.com/nats-io/stan.go"

	"perch/internal/logger"
	"perch/internal/models"
	"perch/internal/repository"
	"perch/internal/timezone"
)

// Handlers processes booking lifecycle events into audit log entries.
type Handlers struct {
	repos *repository.Repositories
	tz    *timezone.Normalizer
}

func NewHandlers(repos *repository.Repositories, tz *timezone.Normalizer) *Handlers {
	return &Handlers{
		repos: repos,
		tz:    tz,
	}
}

// wrap adapts a payload handler to a stan subscription; the message is acked
// even when handling fails, a bad payload will never get better on redelivery.
func wrap(handler func([]byte)) stan.MsgHandler {
	return func(m *stan.Msg) {
		handler(m.Data)
		m.Ack()
	}
}

func (h *Handlers) HandleBookingCreated(data []byte) {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal booking created event", "error", err)
		return
	}

	log := logger.Get().With(
		"seat_id", event.SeatID,
		"user_name", event.UserName,
		"days", len(event.Dates),
	)

	// Enrich the audit line with the seat label when the seat still exists.
	seat, err := h.repos.Seats.GetByID(context.Background(), event.SeatID)
	if err == nil && seat != nil {
		log = log.With("seat_label", seat.Label)
	}

	log.Info("Booking created", "dates", event.Dates, "booking_ids", event.BookingIDs)
}

func (h *Handlers) HandleBookingUpdated(data []byte) {
	var event models.BookingUpdatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal booking updated event", "error", err)
		return
	}

	logger.Get().Info("Booking updated",
		"booking_id", event.BookingID,
		"seat_id", event.SeatID,
		"user_name", event.UserName,
		"date", event.Date)
}

func (h *Handlers) HandleBookingCancelled(data []byte) {
	var event models.BookingCancelledEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal booking cancelled event", "error", err)
		return
	}

	logger.Get().Info("Booking cancelled",
		"booking_id", event.BookingID,
		"seat_id", event.SeatID,
		"date", event.Date)
}

func (h *Handlers) HandleLayoutRegenerated(data []byte) {
	var event models.LayoutRegeneratedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal layout regenerated event", "error", err)
		return
	}

	logger.Get().Warn("Seat layout regenerated, all previous bookings dropped",
		"rows", event.Rows,
		"cols", event.Cols,
		"seat_count", event.SeatCount)
}
