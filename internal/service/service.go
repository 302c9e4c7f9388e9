package service

import (
	"perch/internal/timezone"
)

type Services struct {
	Seats    *SeatService
	Bookings *BookingService
}

func NewServices(seats SeatStore, bookings BookingStore, tz *timezone.Normalizer, events EventPublisher, cache CacheInvalidator) *Services {
	return &Services{
		Seats:    NewSeatService(seats, tz, events, cache),
		Bookings: NewBookingService(bookings, seats, tz, events, cache),
	}
}
