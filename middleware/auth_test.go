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

	"pawrescue/config"
	"pawrescue/service"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc := service.New(nil, &config.Config{JWTSecret: testSecret, JWTTTL: time.Hour}, nil, nil, nil)
	r := gin.New()
	r.GET("/protected", AdminAuth(svc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": AdminUser(c)})
	})
	return r
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAdminAuth(t *testing.T) {
	router := testRouter(t)
	now := time.Now()

	validClaims := jwt.MapClaims{
		"sub":  "root",
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}

	tests := []struct {
		name     string
		header   string
		expected int
	}{
		{
			name:     "valid token",
			header:   "Bearer " + signToken(t, testSecret, validClaims),
			expected: http.StatusOK,
		},
		{
			name:     "missing header",
			header:   "",
			expected: http.StatusUnauthorized,
		},
		{
			name:     "no bearer prefix",
			header:   signToken(t, testSecret, validClaims),
			expected: http.StatusUnauthorized,
		},
		{
			name:     "wrong signing key",
			header:   "Bearer " + signToken(t, "other-secret", validClaims),
			expected: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"sub":  "root",
				"role": "admin",
				"exp":  now.Add(-time.Hour).Unix(),
			}),
			expected: http.StatusUnauthorized,
		},
		{
			name: "missing admin role",
			header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"sub": "root",
				"exp": now.Add(time.Hour).Unix(),
			}),
			expected: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}
