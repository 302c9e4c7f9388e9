package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"perch/internal/models"
)

// Bookings handlers

// ListBookings - GET /api/bookings
// Accepts either ?date= for a single-day view or ?startDate=&endDate= for a
// dashboard range report.
func (h *Handlers) ListBookings(c *gin.Context) {
	date := c.Query("date")
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	if date != "" {
		h.listBookingsForDay(c, date)
		return
	}

	if startDate == "" && endDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either date or both startDate and endDate are required"})
		return
	}

	response, err := h.bookings.ListInRange(c.Request.Context(), startDate, endDate)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list bookings")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handlers) listBookingsForDay(c *gin.Context, date string) {
	// Normalize before the cache lookup so "2024-01-15" and an instant that
	// falls on that day share one key.
	var cacheKey string
	if h.cache != nil {
		if day, err := h.tz.ParseCanonical(date); err == nil {
			cacheKey = h.tz.FormatForAPI(day)
			rawJSON, err := h.cache.GetDayBookingsRaw(c.Request.Context(), cacheKey)
			if err == nil {
				c.Data(http.StatusOK, "application/json", rawJSON)
				return
			}
		}
	}

	response, err := h.bookings.ListForDay(c.Request.Context(), date)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list bookings")
		return
	}

	if h.cache != nil && cacheKey != "" {
		if err := h.cache.SetDayBookings(c.Request.Context(), cacheKey, response); err != nil {
			slog.Warn("Failed to cache day bookings", "error", err, "day", cacheKey)
		}
	}

	c.JSON(http.StatusOK, response)
}

// CreateBooking - POST /api/bookings
// A body with date creates a single-day reservation; startDate and endDate
// create one booking row per day of the range, all or nothing.
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.IsRange() {
		response, err := h.bookings.CreateRange(c.Request.Context(), &req)
		if err != nil {
			h.handleServiceError(c, err, "Failed to create bookings")
			return
		}
		c.JSON(http.StatusCreated, response)
		return
	}

	response, err := h.bookings.CreateSingleDay(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// UpdateBooking - PUT /api/bookings/:id
func (h *Handlers) UpdateBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.bookings.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update booking")
		return
	}

	c.JSON(http.StatusOK, response)
}

// DeleteBooking - DELETE /api/bookings/:id
func (h *Handlers) DeleteBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	if err := h.bookings.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "Failed to delete booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}
