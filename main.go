package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TourHive/booking-flow-backend/config"
	_ "github.com/TourHive/booking-flow-backend/docs"
	"github.com/TourHive/booking-flow-backend/handlers"
	"github.com/TourHive/booking-flow-backend/internal/booking"
	"github.com/TourHive/booking-flow-backend/internal/store"
	"github.com/TourHive/booking-flow-backend/logger"
	"github.com/TourHive/booking-flow-backend/router"
	"github.com/TourHive/booking-flow-backend/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title        Booking Flow API
// @version      1.0
// @description  Booking session, field validation and submission service for travel packages.
// @BasePath     /v1
func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Redis backs the field schema cache. It is optional at runtime: when it
	// is unreachable, schema lookups go upstream on every session open.
	redisOptions := &redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}
	if cfg.Redis.UseTLS {
		redisOptions.TLSConfig = &tls.Config{
			ServerName: cfg.Redis.Address,
			MinVersion: tls.VersionTLS12,
		}
	}
	redisClient := redis.NewClient(redisOptions)
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warnw("Failed to close Redis client", "error", err)
		}
	}()

	// Upstream booking platform client and schema cache.
	apiClient := booking.NewClient(cfg.BookingAPI.BaseURL, cfg.BookingAPI.APIKey, cfg.BookingAPI.Timeout())
	schemaCache := booking.NewSchemaCache(apiClient, redisClient, cfg.BookingAPI.SchemaCacheTTL())
	orchestrator := booking.NewOrchestrator(apiClient)

	// Session registry with idle sweeping.
	registry := store.NewSessionRegistry(cfg.Session.IdleTTL())
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	registry.StartSweeper(sweepCtx, cfg.Session.SweepInterval(), func(dropped int) {
		log.Infow("Swept idle booking sessions", "dropped", dropped, "live", registry.Len())
	})

	// Services and handlers.
	healthService := services.NewHealthService(redisClient, registry, cfg.Server.Version)
	bookingHandler := handlers.NewBookingHandler(registry, schemaCache, orchestrator)
	healthHandler := handlers.NewHealthHandler(healthService)

	r := router.SetupRouter(router.Dependencies{
		Config:         cfg,
		BookingHandler: bookingHandler,
		HealthHandler:  healthHandler,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	log.Info("Server stopped")
}
