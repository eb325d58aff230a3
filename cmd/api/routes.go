package main

import (
	"log/slog"
	"time"

	"outbound-caller/internal/config"
	"outbound-caller/internal/httpapi"
	"outbound-caller/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// newRouter wires middleware and routes to handlers.
// Keep this file free of business logic.
func newRouter(cfg config.Config, log *slog.Logger, h httpapi.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(cors.New(corsConfig(cfg.HTTP)))

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.POST("/calls", h.CreateCall)
		api.POST("/preview", h.PreviewScript)
	}
	return r
}

func corsConfig(c config.HTTPConfig) cors.Config {
	out := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(c.AllowedOrigins) == 0 {
		out.AllowAllOrigins = true
	} else {
		out.AllowOrigins = c.AllowedOrigins
	}
	return out
}
