package handlers

import (
	"ecommerce-backend/apperr"
	"ecommerce-backend/store"
	"github.com/gin-gonic/gin"
	"net/http"
)

// Report whether the database is reachable
func HealthHandler(c *gin.Context, s store.Store) {
	if err := s.Ping(c.Request.Context()); err != nil {
		apperr.Respond(c, apperr.Internal(err, "database unreachable"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
