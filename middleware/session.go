package middleware

import (
	"net/http"
	"strings"

	"tienda-gateway/utils"

	"github.com/gin-gonic/gin"
)

// SessionMiddleware resolves the shopper session from the bearer token and
// stores its id in the request context. Every cart and checkout route
// requires a session; obtaining one is a single POST /api/session away.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session token required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateSessionToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session token"})
			c.Abort()
			return
		}

		c.Set("session_id", claims.SessionID.String())
		c.Next()
	}
}

// SessionID reads the session id set by SessionMiddleware.
func SessionID(c *gin.Context) string {
	id, _ := c.Get("session_id")
	s, _ := id.(string)
	return s
}
