package middleware

import (
	"ecommerce-backend/apperr"
	"ecommerce-backend/jwt"
	"github.com/gin-gonic/gin"
)

// CheckAdminPermissionMiddleware aborts requests whose role is not admin.
func CheckAdminPermissionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("Role") != jwt.AdminRole {
			apperr.Respond(c, apperr.Forbidden("the %s role is required", jwt.AdminRole))
			return
		}

		c.Next()
	}
}
