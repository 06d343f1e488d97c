package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"trend-story-api/middleware"
)

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

func Health(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !checker.Healthy(c.Request.Context()) {
			middleware.AbortWithError(c, http.StatusServiceUnavailable, "Database Error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
