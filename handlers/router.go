package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"trend-story-api/config"
	"trend-story-api/middleware"
)

// NewRouter builds the gin engine with every route of the API.
func NewRouter(cfg *config.Config, news NewsReader, health HealthChecker, log *logrus.Entry) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(cors.New(corsConfig(cfg.Server.CorsOrigins)))
	r.Use(middleware.ErrorHandler(log))

	r.NoRoute(middleware.NotFound())

	NewNewsHandler(news).Register(r)
	r.GET("/health", Health(health))

	r.Static("/images", cfg.Store.ImagesDir)

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Content-Type"},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
