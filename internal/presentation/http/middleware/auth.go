// Package middleware provides the HTTP middleware applied to dashboard
// routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/commonsforge/pagecraft-go/internal/application/services"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/security"
	"github.com/gin-gonic/gin"
)

const roleKey = "dashboardRole"

// AuthMiddleware validates the bearer token and stores the role in the
// request context.
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}
		role, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Set(roleKey, role)
		c.Next()
	}
}

// AdminOnlyMiddleware rejects requests whose token lacks the admin role.
// It must run after AuthMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != security.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Role returns the authenticated dashboard role, empty when unauthenticated.
func Role(c *gin.Context) string {
	return c.GetString(roleKey)
}
