package middleware

import (
	"ecommerce-backend/jwt"
	"github.com/gin-gonic/gin"
	"log"
	"strings"
)

// AuthMiddleware records the caller's identity when a valid bearer token is present.
// Requests without one continue anonymously; CheckLoginMiddleware decides whether that is allowed.
func AuthMiddleware(verifier *jwt.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if token == "" || token == authHeader {
			c.Next()
			return
		}

		subject, role, err := verifier.VerifyToken(token)
		if err != nil {
			log.Printf("rejecting token (id=%s): %v", c.GetString("RequestID"), err)
			c.Next()
			return
		}

		c.Set("Subject", subject)
		c.Set("Role", role)
		c.Next()
	}
}
