// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/flight-booking/internal/booking"
	"github.com/Shivanand-hulikatti/flight-booking/internal/config"
	"github.com/Shivanand-hulikatti/flight-booking/internal/database"
	"github.com/Shivanand-hulikatti/flight-booking/internal/handler"
	"github.com/Shivanand-hulikatti/flight-booking/internal/logger"
	"github.com/Shivanand-hulikatti/flight-booking/internal/repository"
	"github.com/Shivanand-hulikatti/flight-booking/internal/search"
	"github.com/Shivanand-hulikatti/flight-booking/internal/service"
	"github.com/Shivanand-hulikatti/flight-booking/internal/session"
	"github.com/Shivanand-hulikatti/flight-booking/internal/validation"
)

func main() {
	cfg, envLoaded := config.Load()
	log := logger.New(cfg.App.LogFilePath, cfg.IsProduction())
	defer func() { _ = log.Sync() }()
	if !envLoaded {
		log.Debug(".env file not found, using process environment")
	}

	ctx := context.Background()

	// ── 1. Session marker backend ─────────────────────────────────────────
	markers, closeMarkers, err := newMarkerStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("session backend", zap.String("backend", cfg.Session.Backend), zap.Error(err))
	}
	defer closeMarkers()
	log.Info("session backend ready", zap.String("backend", cfg.Session.Backend))

	// ── 2. Wire up layers ────────────────────────────────────────────────
	authSvc := service.NewAuthService(cfg.Mock.AuthDelay)
	flightSvc := service.NewFlightService(cfg.Mock.SearchDelay)
	bookingSvc := service.NewBookingService(cfg.Mock.BookingDelay)

	tokens := session.NewTokens(cfg.Session.TokenSecret, cfg.Session.TokenTTL)
	sessionStore := session.New(ctx, authSvc, markers, tokens, log)
	searchStore := search.New(flightSvc, log)
	bookingStore := booking.New(bookingSvc, log)

	// ── 3. Build the router ───────────────────────────────────────────────
	router := handler.NewRouter(handler.Deps{
		Session:     sessionStore,
		Search:      searchStore,
		Booking:     bookingStore,
		Airports:    flightSvc,
		Validator:   validation.New(time.Now),
		Logger:      log,
		CORSOrigins: cfg.App.CorsAllowedOrigins,
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Info("server listening", zap.String("addr", "http://localhost:"+cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	log.Info("server stopped")
}

// newMarkerStore opens the configured session marker backend. The returned
// func releases its connections.
func newMarkerStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (session.MarkerStore, func(), error) {
	ttl := cfg.Session.TokenTTL

	switch cfg.Session.Backend {
	case config.BackendMemory:
		return repository.NewMemoryMarkerStore(ttl), func() {}, nil

	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewPostgresMarkerStore(pool, cfg.Session.ClientID, ttl), pool.Close, nil

	case config.BackendRedis:
		rdb, err := database.NewRedisClient(ctx, cfg.Redis.URL, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisMarkerStore(rdb, cfg.Session.ClientID, ttl), func() { _ = rdb.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
}
