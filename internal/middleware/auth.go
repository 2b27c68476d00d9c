package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"bilet/internal/models"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims carries the authenticated identity inside a signed token. The role
// claim travels with the token so authorization does not need a user lookup
// per request.
type Claims struct {
	UserID    int64       `json:"uid"`
	Role      models.Role `json:"role"`
	TokenType string      `json:"typ"`
	jwt.RegisteredClaims
}

func newToken(cfg TokenConfig, user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// NewTokenPair issues an access/refresh pair for the user.
func NewTokenPair(cfg TokenConfig, user *models.User) (string, string, error) {
	access, err := newToken(cfg, user, TokenTypeAccess, cfg.AccessTTL)
	if err != nil {
		return "", "", err
	}

	refresh, err := newToken(cfg, user, TokenTypeRefresh, cfg.RefreshTTL)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// ParseToken validates signature, expiry and token type.
func ParseToken(secret, tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	if claims.TokenType != wantType {
		return nil, errors.New("unexpected token type")
	}

	return claims, nil
}

// Auth authenticates requests by Bearer access token and stores the caller
// identity in the request context.
func Auth(cfg TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := ParseToken(cfg.Secret, strings.TrimPrefix(header, "Bearer "), TokenTypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		identity := models.Identity{UserID: claims.UserID, Role: claims.Role}
		c.Request = c.Request.WithContext(
			ContextWithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}
