package middleware

import (
	"net/http"
	"strings"

	"github.com/draytht/nocarry/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID     = "user_id"
	ContextEmail      = "email"
	ContextGlobalRole = "global_role"
)

// AuthRequired resolves the caller's identity from a Bearer JWT. It is the
// only place request credentials are turned into {id, email}; handlers read
// the result from the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "authorization header required"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextGlobalRole, claims.GlobalRole)

		c.Next()
	}
}

// GetUserID gets the current user ID from context.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(uint)
	}
	return 0
}

// GetEmail gets the current user email from context.
func GetEmail(c *gin.Context) string {
	if email, exists := c.Get(ContextEmail); exists {
		return email.(string)
	}
	return ""
}

// GetGlobalRole gets the current account-level role from context.
func GetGlobalRole(c *gin.Context) string {
	if role, exists := c.Get(ContextGlobalRole); exists {
		return role.(string)
	}
	return ""
}
