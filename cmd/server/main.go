package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/school-news-site/internal/api"
	"github.com/school-news-site/internal/config"
	"github.com/school-news-site/internal/database"
	"github.com/school-news-site/internal/metrics"
	"github.com/school-news-site/internal/notify"
	"github.com/school-news-site/internal/repository"
	"github.com/school-news-site/internal/service"
	"github.com/school-news-site/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting school news site...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = log.Level(logger.ParseLevel(cfg.Log.Level))

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	metrics.Init(logger.ServiceName, os.Getenv("ENV"), db.Driver())

	// Initialize repositories
	repos := repository.New(db)

	// Initialize services
	notifier := notify.NewWebhook(cfg.Webhook, log)
	services := service.NewServices(repos, notifier, log)

	// First boot draws the publishing code; later boots keep the stored one
	seeded, err := services.Credential.Seed(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed publishing code")
	}
	if seeded {
		log.Info().Msg("Publishing code created")
	}

	// Initialize router
	background, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	router, err := api.NewRouter(background, services, db, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create router")
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	stopBackground()

	// Let in-flight code notifications finish before the process exits
	notifier.Wait()

	log.Info().Msg("Server exited gracefully")
}
