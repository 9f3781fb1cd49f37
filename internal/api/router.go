package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/highland-admin-portal/internal/config"
	"github.com/highland-admin-portal/internal/service"
	"github.com/rs/zerolog"
)

const serviceName = "highland-admin-portal"

// Pinger reports whether the database is reachable
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router. db may be nil, in which
// case /health does not check the database.
func NewRouter(services *service.Services, cfg *config.Config, db Pinger, log zerolog.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.Server.AllowedOrigins))

	// Handlers
	authHandler := NewAuthHandler(services, cfg, log)
	articleHandler := NewArticleHandler(services, cfg, log)
	categoryHandler := NewCategoryHandler(services, cfg, log)
	supplierHandler := NewSupplierHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck(db))

	if cfg.Upload.Store == config.ImageStoreLocal && cfg.Upload.Dir != "" {
		router.Static(cfg.Upload.URLPrefix, cfg.Upload.Dir)
	}

	auth := router.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	kb := router.Group("/kb", authMiddleware(services.Auth, log))
	{
		articles := kb.Group("/articles")
		{
			// Pages
			articles.GET("/", articleHandler.ListPage)
			articles.GET("/dashboard", articleHandler.Dashboard)
			articles.GET("/admin/approvals", articleHandler.Approvals)
			articles.GET("/:id", articleHandler.ViewPage)
			articles.POST("/:id/approve", articleHandler.Approve)
			articles.POST("/:id/reject", articleHandler.Reject)

			// JSON API
			articles.GET("/api", articleHandler.List)
			articles.POST("/api", articleHandler.Create)
			articles.GET("/api/recent", articleHandler.Recent)
			articles.GET("/api/popular", articleHandler.Popular)
			articles.POST("/api/upload-image", articleHandler.UploadImage)
			articles.GET("/api/:id", articleHandler.Get)
			articles.PUT("/api/:id", articleHandler.Update)
			articles.DELETE("/api/:id", articleHandler.Delete)
			articles.POST("/api/:id", articleHandler.DeleteForm)
			articles.POST("/api/:id/submit", articleHandler.Submit)
		}

		categories := kb.Group("/categories")
		{
			categories.GET("/", categoryHandler.ListPage)
			categories.GET("/api", categoryHandler.List)
			categories.POST("/api", categoryHandler.Create)
			categories.GET("/api/:id", categoryHandler.Get)
			categories.PUT("/api/:id", categoryHandler.Update)
			categories.DELETE("/api/:id", categoryHandler.Delete)
		}

		suppliers := kb.Group("/suppliers")
		{
			suppliers.GET("/", supplierHandler.ListPage)
			suppliers.GET("/:id", supplierHandler.ViewPage)
			suppliers.GET("/api", supplierHandler.List)
			suppliers.POST("/api", supplierHandler.Create)
			suppliers.GET("/api/:id", supplierHandler.Get)
			suppliers.PUT("/api/:id", supplierHandler.Update)
			suppliers.DELETE("/api/:id", supplierHandler.Delete)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		database := "unchecked"
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.HealthCheck(ctx); err != nil {
				status, code, database = "unhealthy", http.StatusServiceUnavailable, "unreachable"
			} else {
				database = "ok"
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"database":  database,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   serviceName,
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
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

// corsMiddleware handles CORS for the configured origins
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
