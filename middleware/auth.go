// Package middleware carries the HTTP cross-cutting pieces: admin
// session checks and per-client rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pawrescue/service"
)

// AdminUserKey is the gin context key holding the authenticated admin
// username after AdminAuth has run.
const AdminUserKey = "admin_user"

// AdminAuth rejects requests without a valid admin session token.
func AdminAuth(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		username, err := svc.ValidateAdminToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}
		c.Set(AdminUserKey, username)
		c.Next()
	}
}

// AdminUser returns the username AdminAuth stored, or "" outside an
// authenticated admin request.
func AdminUser(c *gin.Context) string {
	return c.GetString(AdminUserKey)
}
