package api

import (
	"github.com/cadenza-labs/cadenza-api/internal/api/handlers"
	apimiddleware "github.com/cadenza-labs/cadenza-api/internal/api/middleware"
	"github.com/cadenza-labs/cadenza-api/internal/config"
	"github.com/cadenza-labs/cadenza-api/internal/render"
	webhandlers "github.com/cadenza-labs/cadenza-api/internal/web/handlers"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Rendered tracks are served straight from the output directory
	router.Static("/output", cfg.OutputDir)

	// Health check
	router.GET("/health", handlers.HealthCheck(cfg))

	// Web player
	webHandler := webhandlers.NewWebHandler()
	router.GET("/", webHandler.Home)
	router.GET("/static/style.css", webHandler.StyleSheet)
	router.GET("/static/script.js", webHandler.Script)

	// API routes v1
	v1 := router.Group("/api/v1")
	{
		// Generation endpoint - rate limited, rendering is expensive
		generateHandler := handlers.NewGenerateHandler(cfg, db, render.NewRenderer(cfg))
		v1.POST("/generate",
			apimiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
			generateHandler.Generate)

		// Track history (requires a database)
		tracksHandler := handlers.NewTracksHandler(db)
		v1.GET("/tracks", tracksHandler.List)

		// Metrics endpoint
		metricsHandler := handlers.NewMetricsHandler(version, db != nil)
		v1.GET("/metrics", metricsHandler.GetMetrics)
	}

	return router
}
