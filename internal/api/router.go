package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/event-checkin-api/internal/config"
	"github.com/event-checkin-api/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	rosterHandler := NewRosterHandler(services, cfg, log)
	scanHandler := NewScanHandler(services, log)
	codesHandler := NewCodesHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// API v1
	v1 := router.Group("/v1")
	{
		// Roster endpoints
		rosterGroup := v1.Group("/roster")
		{
			rosterGroup.GET("", rosterHandler.GetRoster)
			rosterGroup.POST("", rosterHandler.UploadRoster)
			rosterGroup.POST("/rows/:index/flags", rosterHandler.ToggleFlag)
			rosterGroup.POST("/save", rosterHandler.SaveRoster)
			rosterGroup.GET("/export", rosterHandler.ExportRoster)
		}

		// Barcode endpoints
		codes := v1.Group("/codes")
		{
			codes.POST("", codesHandler.GenerateCodes)
			codes.GET("/archive", codesHandler.DownloadArchive)
			codes.GET("/manifest", codesHandler.DownloadManifest)
		}

		// Scan endpoints
		scans := v1.Group("/scans")
		{
			scans.POST("", scanHandler.ScanText)
			scans.POST("/image", scanHandler.ScanImage)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "event-checkin-api",
	})
}

// metricsHandler returns roster attendance counts
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		summary, err := services.Roster.Summary(ctx)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{
				"roster":    nil,
				"timestamp": time.Now().Format(time.RFC3339),
			})
			return
		}
		counts, _ := services.Roster.CategoryCounts(ctx)

		c.JSON(http.StatusOK, gin.H{
			"roster": gin.H{
				"rows":       summary.Rows,
				"session_id": summary.SessionID,
				"marked":     counts,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
