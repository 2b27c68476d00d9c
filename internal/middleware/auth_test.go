package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilet/internal/models"
)

var testConfig = TokenConfig{
	Secret:     "test-secret",
	AccessTTL:  time.Minute,
	RefreshTTL: time.Hour,
}

func testUser() *models.User {
	return &models.User{ID: 42, Username: "alice", Role: models.RoleEventManager}
}

func TestTokenPairRoundTrip(t *testing.T) {
	access, refresh, err := NewTokenPair(testConfig, testUser())
	require.NoError(t, err)

	claims, err := ParseToken(testConfig.Secret, access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, models.RoleEventManager, claims.Role)
	assert.NotEmpty(t, claims.ID)

	claims, err = ParseToken(testConfig.Secret, refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestParseTokenRejectsWrongType(t *testing.T) {
	access, refresh, err := NewTokenPair(testConfig, testUser())
	require.NoError(t, err)

	_, err = ParseToken(testConfig.Secret, access, TokenTypeRefresh)
	assert.Error(t, err)

	_, err = ParseToken(testConfig.Secret, refresh, TokenTypeAccess)
	assert.Error(t, err)
}

func TestParseTokenRejectsBadSecretAndExpiry(t *testing.T) {
	access, _, err := NewTokenPair(testConfig, testUser())
	require.NoError(t, err)

	_, err = ParseToken("other-secret", access, TokenTypeAccess)
	assert.Error(t, err)

	expired := TokenConfig{Secret: testConfig.Secret, AccessTTL: -time.Minute, RefreshTTL: time.Hour}
	stale, _, err := NewTokenPair(expired, testUser())
	require.NoError(t, err)

	_, err = ParseToken(testConfig.Secret, stale, TokenTypeAccess)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected", Auth(testConfig), func(c *gin.Context) {
		identity, ok := IdentityFromContext(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, identity)
	})

	// No header.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid access token.
	access, _, err := NewTokenPair(testConfig, testUser())
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
