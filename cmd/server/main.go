package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/highland-admin-portal/internal/api"
	"github.com/highland-admin-portal/internal/authn"
	"github.com/highland-admin-portal/internal/authz"
	"github.com/highland-admin-portal/internal/cache"
	"github.com/highland-admin-portal/internal/config"
	"github.com/highland-admin-portal/internal/database"
	"github.com/highland-admin-portal/internal/repository"
	"github.com/highland-admin-portal/internal/service"
	"github.com/highland-admin-portal/internal/storage"
	"github.com/highland-admin-portal/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "json", "highland-admin-portal")
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format, "highland-admin-portal")
	log.Info().Msg("Starting Highland admin portal...")

	if cfg.Log.Format != "pretty" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	ctx := context.Background()

	// Optional dashboard cache
	var stats cache.StatsCache = cache.Nop{}
	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, dashboard stats will not be cached")
		} else {
			defer client.Close()
			stats = cache.NewRedisStats(client, cfg.Redis.StatsCacheTTL)
			log.Info().Dur("ttl", cfg.Redis.StatsCacheTTL).Msg("Dashboard stats cache enabled")
		}
	}

	images, err := newImageStore(ctx, &cfg.Upload, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image store")
	}

	authorizer, err := authz.NewAuthorizer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize authorizer")
	}
	tokens, err := authn.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token issuer")
	}

	// Initialize repositories and services
	repos := repository.New(db)
	services := service.NewServices(repos, cfg, service.Deps{
		Authorizer: authorizer,
		Images:     images,
		Stats:      stats,
		Tokens:     tokens,
	}, log)

	// Initialize router
	router := api.NewRouter(services, cfg, db, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// newImageStore picks the upload backend named by IMAGE_STORE
func newImageStore(ctx context.Context, cfg *config.UploadConfig, log zerolog.Logger) (storage.ImageStore, error) {
	if cfg.Store == config.ImageStoreS3 {
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.S3PublicURL,
		}, log)
	}

	local := storage.NewLocalStore(cfg.Dir, cfg.URLPrefix, log)
	if err := os.MkdirAll(local.Dir(), 0o755); err != nil {
		return nil, err
	}
	return local, nil
}
