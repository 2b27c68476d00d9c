package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bilet/internal/models"
)

// MakePayment records the simulated payment for the caller's booking.
// POST /api/payments
func (h *Handlers) MakePayment(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}

	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.services.Payments.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// RevertPayment reverses a payment: the booking is cancelled and its
// tickets are returned to the event.
// POST /api/payments/revert
func (h *Handlers) RevertPayment(c *gin.Context) {
	if _, ok := identity(c); !ok {
		return
	}

	var req models.RevertPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, booking, err := h.services.Payments.Revert(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment": payment,
		"booking": booking,
	})
}
