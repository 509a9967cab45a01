package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/obcq/quoter-api/internal/config"
	"github.com/obcq/quoter-api/internal/database"
	"github.com/obcq/quoter-api/internal/http/handler"
	"github.com/obcq/quoter-api/internal/http/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg           *config.Config
	logger        *zap.Logger
	db            *gorm.DB
	rateLimiter   *middleware.RateLimiter
	quoteHandler  *handler.QuoteHandler
	flightHandler *handler.FlightHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	rateLimiter *middleware.RateLimiter,
	quoteHandler *handler.QuoteHandler,
	flightHandler *handler.FlightHandler,
) *Router {
	return &Router{
		cfg:           cfg,
		logger:        logger,
		db:            db,
		rateLimiter:   rateLimiter,
		quoteHandler:  quoteHandler,
		flightHandler: flightHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "healthy",
			"stats":  stats,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", rt.quoteHandler.List)
			r.Post("/", rt.quoteHandler.Save)
			r.Get("/{id}", rt.quoteHandler.Get)
			r.Get("/{id}/email-draft", rt.quoteHandler.EmailDraft)
		})

		r.Route("/flights", func(r chi.Router) {
			r.Post("/search", rt.flightHandler.Search)
		})
	})

	return r
}
