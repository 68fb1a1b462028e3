package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"makanloka-backend/utils"
)

// OptionalAuth extracts the consumer identity from a bearer token when one
// is presented. Discovery endpoints are public; identity only personalizes
// history capture, so a missing or invalid token never blocks the request.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set("customer_id", claims.CustomerID)
		if claims.Lang != "" {
			c.Set("lang", claims.Lang)
		}
		c.Next()
	}
}
