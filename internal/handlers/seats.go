package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"perch/internal/models"
)

// Seats handlers

// ListSeats - GET /api/seats
func (h *Handlers) ListSeats(c *gin.Context) {
	if h.cache != nil {
		rawJSON, err := h.cache.GetSeatLayoutRaw(c.Request.Context())
		if err == nil {
			c.Data(http.StatusOK, "application/json", rawJSON)
			return
		}
	}

	response, err := h.seats.List(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list seats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list seats"})
		return
	}

	if h.cache != nil {
		if err := h.cache.SetSeatLayout(c.Request.Context(), response); err != nil {
			slog.Warn("Failed to cache seat layout", "error", err)
		}
	}

	c.JSON(http.StatusOK, response)
}

// RegenerateLayout - POST /api/seats
// Rebuilds the whole grid; existing seats and their bookings are dropped.
func (h *Handlers) RegenerateLayout(c *gin.Context) {
	var req models.RegenerateLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rows and cols are required"})
		return
	}

	response, err := h.seats.Regenerate(c.Request.Context(), req.Rows, req.Cols)
	if err != nil {
		h.handleServiceError(c, err, "Failed to regenerate seat layout")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// UpdateSeatLabel - PUT /api/seats/:id
func (h *Handlers) UpdateSeatLabel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seat id"})
		return
	}

	var req models.UpdateSeatLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "label is required"})
		return
	}

	response, err := h.seats.UpdateLabel(c.Request.Context(), id, req.Label)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update seat")
		return
	}

	c.JSON(http.StatusOK, response)
}
