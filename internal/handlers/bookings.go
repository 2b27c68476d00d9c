package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bilet/internal/models"
)

// CreateBooking reserves tickets for the caller.
// POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.services.Bookings.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// ListBookings returns the caller's bookings with their events.
// GET /api/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}

	bookings, err := h.services.Bookings.List(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// CancelBooking cancels the caller's booking, releasing its tickets.
// POST /api/bookings/:id/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	booking, err := h.services.Bookings.Cancel(c.Request.Context(), actor, bookingID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}
