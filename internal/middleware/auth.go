package middleware

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards admin routes with a shared password read from the
// ADMIN_PASSWORD environment variable
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		password := c.GetHeader("X-Admin-Password")
		if password == "" {
			// also accept Authorization: Bearer <password>
			authHeader := c.GetHeader("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				password = authHeader[7:]
			}
		}

		if password == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized: missing admin password",
			})
			c.Abort()
			return
		}

		adminPassword := os.Getenv("ADMIN_PASSWORD")
		if adminPassword == "" {
			adminPassword = "admin"
		}

		if password != adminPassword {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized: wrong password",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
