package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/startupstack/startupstack/internal/database"
	mw "github.com/startupstack/startupstack/internal/middleware"
)

// HandlerSet holds handler functions injected from main.go to avoid import
// cycles.
type HandlerSet struct {
	// AI operation dispatch
	DispatchOperation http.HandlerFunc

	// Users
	SignupUser  http.HandlerFunc
	GetUser     http.HandlerFunc
	ListHistory http.HandlerFunc

	// Checkout
	CreateCheckout http.HandlerFunc
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	// CheckoutRateLimiter guards the checkout endpoint; nil disables it.
	CheckoutRateLimiter func(http.Handler) http.Handler
}

func NewRouter(pool *pgxpool.Pool, cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe — always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	// Readiness probe — checks DB
	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status":   "healthy",
			"database": "healthy",
		}

		status := http.StatusOK
		if err := database.HealthCheck(r.Context(), pool); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ai/operations", h.DispatchOperation)

		r.Route("/users", func(r chi.Router) {
			r.Post("/signup", h.SignupUser)
			r.Get("/{userID}", h.GetUser)
			r.Get("/{userID}/history", h.ListHistory)
		})

		r.Group(func(r chi.Router) {
			if cfg.CheckoutRateLimiter != nil {
				r.Use(cfg.CheckoutRateLimiter)
			}
			r.Post("/checkout", h.CreateCheckout)
		})
	})

	return r
}
