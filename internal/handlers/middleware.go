package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity arrives from the gateway as trusted headers; this service does
// not terminate authentication itself.
const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		c.Set(userIDKey, userID)
		c.Set(userRoleKey, c.GetHeader("X-User-Role"))
		c.Next()
	}
}

func RequireFaculty() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader("X-User-Role")
		if role != "FACULTY" && role != "ADMIN" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "faculty role required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func isFaculty(c *gin.Context) bool {
	role := c.GetString(userRoleKey)
	return role == "FACULTY" || role == "ADMIN"
}
