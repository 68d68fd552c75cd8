package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/rumbocarpool/backend/internal/api/handlers"
	"github.com/rumbocarpool/backend/internal/api/routes"
	"github.com/rumbocarpool/backend/internal/auth"
	"github.com/rumbocarpool/backend/internal/config"
	"github.com/rumbocarpool/backend/internal/repository"
	ratingsvc "github.com/rumbocarpool/backend/internal/service/ratings"
	tripsvc "github.com/rumbocarpool/backend/internal/service/trips"
	usersvc "github.com/rumbocarpool/backend/internal/service/users"
	"github.com/rumbocarpool/backend/pkg/database"
	"github.com/rumbocarpool/backend/pkg/logger"
	"github.com/rumbocarpool/backend/pkg/monitoring"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Rumbo carpool API",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	// Initialize New Relic
	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
		nrApp = &monitoring.NewRelicApp{}
	} else if nrApp.IsEnabled() {
		appLogger.Info("New Relic APM initialized",
			logger.String("app_name", cfg.NewRelic.AppName))
	}
	defer nrApp.Shutdown(10 * time.Second)

	// Initialize PostgreSQL
	db, err := database.NewPostgresDB(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConns,
		MaxIdle:  cfg.Database.MaxIdle,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	defer db.Close()

	appLogger.Info("Connected to PostgreSQL successfully")

	// Repositories
	tripRepo := repository.NewTripRepository(db)
	selectionRepo := repository.NewSelectionRepository(db)
	userRepo := repository.NewUserRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	// Services
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiry)
	trips := tripsvc.NewService(tripRepo, selectionRepo, userRepo, appLogger)
	ratings := ratingsvc.NewService(ratingRepo, userRepo, appLogger)
	users := usersvc.NewService(userRepo, ratingRepo, hasher, tokens, appLogger)

	// Handlers
	h := handlers.NewHandlers(trips, ratings, users, appLogger, nrApp)

	// Initialize Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	var nrApplication *newrelic.Application
	if nrApp.IsEnabled() {
		nrApplication = nrApp.Application
	}
	routes.SetupRoutes(router, h, nrApplication)

	appLogger.Info("Routes configured successfully")

	// Create HTTP server
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}
