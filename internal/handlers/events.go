package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bilet/internal/logger"
	"bilet/internal/models"
)

// CreateEvent publishes a new event. Event managers only.
// POST /api/events
func (h *Handlers) CreateEvent(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateEventsCache(c)

	c.JSON(http.StatusCreated, event)
}

// ListEvents returns all events, optionally filtered. The unfiltered
// listing is served from cache when one is configured.
// GET /api/events
func (h *Handlers) ListEvents(c *gin.Context) {
	filter := models.EventFilter{
		Location: c.Query("location"),
		Date:     c.Query("date"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	unfiltered := filter == (models.EventFilter{})

	if unfiltered && h.cache != nil {
		if raw, err := h.cache.GetEventsListRaw(c.Request.Context()); err == nil {
			c.Data(http.StatusOK, "application/json", raw)
			return
		}
	}

	events, err := h.services.Events.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if unfiltered && h.cache != nil {
		if err := h.cache.SetEventsList(c.Request.Context(), events); err != nil {
			logger.WithContext(c.Request.Context()).Warn("Failed to cache events list", "error", err)
		}
	}

	c.JSON(http.StatusOK, events)
}

// CancelEvent cancels every active booking on the event and removes it.
// POST /api/events/:id/cancel
func (h *Handlers) CancelEvent(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}

	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	result, err := h.services.Events.Cancel(c.Request.Context(), actor, eventID)
	if err != nil {
		if result != nil && len(result.FailedBookings) > 0 {
			// Partial cascade: the event still exists and the call can be
			// retried for the remaining bookings.
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Some bookings could not be cancelled",
				"result": result,
			})
			return
		}
		h.respondError(c, err)
		return
	}

	h.invalidateEventsCache(c)

	c.JSON(http.StatusOK, result)
}

func (h *Handlers) invalidateEventsCache(c *gin.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateEventsList(c.Request.Context()); err != nil {
		logger.WithContext(c.Request.Context()).Warn("Failed to invalidate events cache", "error", err)
	}
}
