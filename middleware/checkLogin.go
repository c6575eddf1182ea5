package middleware

import (
	"ecommerce-backend/apperr"
	"github.com/gin-gonic/gin"
)

// CheckLoginMiddleware aborts requests that carry no verified identity.
func CheckLoginMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("Subject"); !exists {
			apperr.Respond(c, apperr.Unauthorized("a valid bearer token is required"))
			return
		}

		c.Next()
	}
}
