package models

// Request and response shapes for the HTTP API. Field names keep the
// camelCase wire format the web client expects.

// RegenerateLayoutRequest - model for rebuilding the seat grid
type RegenerateLayoutRequest struct {
	Rows int `json:"rows" binding:"required"`
	Cols int `json:"cols" binding:"required"`
}

// RegenerateLayoutResponse - confirmation for a rebuilt grid
type RegenerateLayoutResponse struct {
	Message   string `json:"message"`
	SeatCount int    `json:"seatCount"`
}

// UpdateSeatLabelRequest - model for renaming a single seat
type UpdateSeatLabelRequest struct {
	Label string `json:"label" binding:"required"`
}

// SeatResponse - one seat of the grid
type SeatResponse struct {
	ID    int64  `json:"id"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Label string `json:"label"`
}

// CreateBookingRequest - model for creating a reservation. Either Date
// (single day) or StartDate+EndDate (inclusive range) must be present.
type CreateBookingRequest struct {
	SeatID    int64  `json:"seatId"`
	UserName  string `json:"userName"`
	Date      string `json:"date,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// IsRange reports whether the request asks for a multi-day reservation.
func (r *CreateBookingRequest) IsRange() bool {
	return r.StartDate != "" || r.EndDate != ""
}

// UpdateBookingRequest - model for editing a reservation. Nil fields are left
// unchanged; at least one must be set.
type UpdateBookingRequest struct {
	UserName *string `json:"userName,omitempty"`
	Date     *string `json:"date,omitempty"`
}

// BookingResponse - one reservation with API- and display-formatted dates
type BookingResponse struct {
	ID        int64  `json:"id"`
	SeatID    int64  `json:"seatId"`
	UserName  string `json:"userName"`
	Date      string `json:"date"`
	DateLabel string `json:"dateLabel"`
}

// BookingWithSeatResponse - reservation plus its seat, for list views
type BookingWithSeatResponse struct {
	BookingResponse
	Seat SeatResponse `json:"seat"`
}

// CreateRangeBookingResponse - all rows materialized for a range reservation
type CreateRangeBookingResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Count    int               `json:"count"`
}

// ConflictItem - one existing booking that blocks a request
type ConflictItem struct {
	BookingID int64  `json:"bookingId"`
	SeatID    int64  `json:"seatId"`
	Date      string `json:"date"`
}

// ConflictResponse - 409 body listing colliding days, earliest first
type ConflictResponse struct {
	Error     string         `json:"error"`
	Conflicts []ConflictItem `json:"conflicts"`
}
