package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bilet/internal/cache"
	apperrors "bilet/internal/errors"
	"bilet/internal/logger"
	"bilet/internal/middleware"
	"bilet/internal/models"
	"bilet/internal/service"
)

// Handlers bundles the HTTP handlers and their collaborators. The cache
// client may be nil; caching and token revocation degrade gracefully.
type Handlers struct {
	services *service.Services
	cache    *cache.Client
	tokens   middleware.TokenConfig
}

func New(services *service.Services, cacheClient *cache.Client, tokens middleware.TokenConfig) *Handlers {
	return &Handlers{
		services: services,
		cache:    cacheClient,
		tokens:   tokens,
	}
}

// respondError maps domain errors onto HTTP statuses. Unknown errors are
// logged and reported as a generic 500 so internals never leak to clients.
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientInventory):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyCancelled),
		errors.Is(err, apperrors.ErrBookingCancelled),
		errors.Is(err, apperrors.ErrDuplicatePayment),
		errors.Is(err, apperrors.ErrAlreadyReverted),
		errors.Is(err, apperrors.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).Error("Unhandled error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func identity(c *gin.Context) (models.Identity, bool) {
	actor, ok := middleware.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return actor, ok
}
