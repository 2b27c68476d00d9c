package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bilet/internal/logger"
	"bilet/internal/middleware"
	"bilet/internal/models"
)

// Register creates an account.
// POST /api/register
func (h *Handlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.services.Users.Register(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and issues an access/refresh token pair.
// POST /api/login
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.services.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	access, refresh, err := middleware.NewTokenPair(h.tokens, user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TokenPairResponse{Access: access, Refresh: refresh})
}

// Refresh exchanges a valid, non-revoked refresh token for a fresh pair.
// POST /api/token/refresh
func (h *Handlers) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := middleware.ParseToken(h.tokens.Secret, req.Refresh, middleware.TokenTypeRefresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	if h.cache != nil {
		revoked, err := h.cache.IsTokenRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("Token blacklist check failed", "error", err)
		} else if revoked {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token revoked"})
			return
		}
	}

	user, err := h.services.Users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	access, refresh, err := middleware.NewTokenPair(h.tokens, user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TokenPairResponse{Access: access, Refresh: refresh})
}

// Logout blacklists the refresh token until its natural expiry.
// POST /api/logout
func (h *Handlers) Logout(c *gin.Context) {
	var req models.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := middleware.ParseToken(h.tokens.Secret, req.Refresh, middleware.TokenTypeRefresh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	if h.cache != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := h.cache.RevokeToken(c.Request.Context(), claims.ID, ttl); err != nil {
			logger.WithContext(c.Request.Context()).Warn("Failed to blacklist token", "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
