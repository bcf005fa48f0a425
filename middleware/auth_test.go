package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func issueToken(secret string, userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(secret))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet("user_id")})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	valid, err := issueToken(secret, 7, time.Hour)
	require.NoError(t, err)
	expired, err := issueToken(secret, 7, -time.Hour)
	require.NoError(t, err)
	foreign, err := issueToken("other-secret", 7, time.Hour)
	require.NoError(t, err)
	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		url    string
		header string
		status int
	}{
		{name: "bearer header", url: "/me", header: "Bearer " + valid, status: http.StatusOK},
		{name: "query token", url: "/me?token=" + valid, status: http.StatusOK},
		{name: "missing token", url: "/me", status: http.StatusUnauthorized},
		{name: "expired", url: "/me", header: "Bearer " + expired, status: http.StatusUnauthorized},
		{name: "wrong secret", url: "/me", header: "Bearer " + foreign, status: http.StatusUnauthorized},
		{name: "no user id", url: "/me", header: "Bearer " + anonymous, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router().ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id": 7}`, w.Body.String())
			}
		})
	}
}
