package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"perch/internal/cache"
	apperrors "perch/internal/errors"
	"perch/internal/models"
	"perch/internal/timezone"
)

// SeatService is the seat surface the handlers call.
type SeatService interface {
	List(ctx context.Context) ([]models.SeatResponse, error)
	Regenerate(ctx context.Context, rows, cols int) (*models.RegenerateLayoutResponse, error)
	UpdateLabel(ctx context.Context, id int64, label string) (*models.SeatResponse, error)
}

// BookingService is the booking surface the handlers call.
type BookingService interface {
	ListForDay(ctx context.Context, date string) ([]models.BookingWithSeatResponse, error)
	ListInRange(ctx context.Context, start, end string) ([]models.BookingWithSeatResponse, error)
	CreateSingleDay(ctx context.Context, req *models.CreateBookingRequest) (*models.BookingResponse, error)
	CreateRange(ctx context.Context, req *models.CreateBookingRequest) (*models.CreateRangeBookingResponse, error)
	Update(ctx context.Context, id int64, req *models.UpdateBookingRequest) (*models.BookingResponse, error)
	Delete(ctx context.Context, id int64) error
}

type Handlers struct {
	seats    SeatService
	bookings BookingService
	cache    *cache.Client
	tz       *timezone.Normalizer
}

// NewHandlers wires the HTTP layer. A nil cache client disables the raw-JSON
// read path.
func NewHandlers(seats SeatService, bookings BookingService, cacheClient *cache.Client, tz *timezone.Normalizer) *Handlers {
	return &Handlers{
		seats:    seats,
		bookings: bookings,
		cache:    cacheClient,
		tz:       tz,
	}
}

// handleServiceError maps service errors to HTTP statuses. Unknown errors are
// logged and hidden behind a generic message.
func (h *Handlers) handleServiceError(c *gin.Context, err error, fallback string) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
		return
	}

	var derr *apperrors.InvalidDateError
	if errors.As(err, &derr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": derr.Error()})
		return
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	var cerr *apperrors.ConflictError
	if errors.As(err, &cerr) {
		c.JSON(http.StatusConflict, h.conflictResponse(cerr))
		return
	}

	slog.Error(fallback, "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

func (h *Handlers) conflictResponse(cerr *apperrors.ConflictError) models.ConflictResponse {
	resp := models.ConflictResponse{
		Error:     cerr.Error(),
		Conflicts: make([]models.ConflictItem, len(cerr.Conflicts)),
	}
	for i, conflict := range cerr.Conflicts {
		resp.Conflicts[i] = models.ConflictItem{
			BookingID: conflict.BookingID,
			SeatID:    conflict.SeatID,
			Date:      h.tz.FormatForAPI(conflict.Date),
		}
	}
	return resp
}
