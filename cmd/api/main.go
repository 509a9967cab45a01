package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/obcq/quoter-api/internal/config"
	"github.com/obcq/quoter-api/internal/database"
	"github.com/obcq/quoter-api/internal/flights"
	"github.com/obcq/quoter-api/internal/http/handler"
	"github.com/obcq/quoter-api/internal/http/middleware"
	"github.com/obcq/quoter-api/internal/http/router"
	"github.com/obcq/quoter-api/internal/logger"
	"github.com/obcq/quoter-api/internal/repository"
	"github.com/obcq/quoter-api/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize repositories
	quoteRepo := repository.NewQuoteRepository(db)

	// Initialize flight provider client
	flightClient := flights.NewClient(&cfg.Amadeus, log)

	// Initialize services
	quoteService := service.NewQuoteService(quoteRepo, log)
	flightService := service.NewFlightService(flightClient, log)

	// Initialize handlers
	quoteHandler := handler.NewQuoteHandler(quoteService, log)
	flightHandler := handler.NewFlightHandler(flightService, log)

	// Initialize middleware and router
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	rt := router.NewRouter(cfg, log, db, rateLimiter, quoteHandler, flightHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in a goroutine for graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt or server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
