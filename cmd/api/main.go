package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/internal/api/middleware"
	"github.com/linskybing/orgflow/internal/api/routes"
	"github.com/linskybing/orgflow/internal/config"
	"github.com/linskybing/orgflow/internal/config/db"
	"github.com/linskybing/orgflow/internal/cron"
	"github.com/linskybing/orgflow/internal/migrations"
	"github.com/linskybing/orgflow/internal/storage"
	"github.com/linskybing/orgflow/pkg/logger"
	"github.com/rs/zerolog/log"
)

// @title Orgflow API
// @version 1.0
// @description Group-scoped approval workflows: routes, form templates and applications.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	// Load configuration from environment variables and .env file
	config.LoadConfig()
	logger.Setup(config.LogLevel, config.LogFormat)

	// Initialize JWT signing key
	middleware.Init()

	if err := db.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	if err := migrations.Run(db.DB); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewFromConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("type", config.StorageType).Msg("Failed to initialize attachment storage")
	}

	if config.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())

	services := routes.RegisterRoutes(router, db.DB, store)

	// Start background tasks
	cron.StartCleanupTask(ctx, services.Audit, config.AuditRetentionDays)

	srv := &http.Server{
		Addr:              ":" + config.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
