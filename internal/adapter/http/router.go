package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hassanjava2/bi-ledger/internal/adapter/http/handler"
	"github.com/hassanjava2/bi-ledger/internal/adapter/http/middleware"
	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/metrics"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler *handler.AccountHandler
	EntryHandler   *handler.EntryHandler
	LedgerHandler  *handler.LedgerHandler
	PeriodHandler  *handler.PeriodHandler
	HealthHandler  *handler.HealthHandler

	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// Optional. A nil verifier trusts X-User-ID, a nil store disables
	// idempotency keys and a nil limiter disables throttling.
	Verifier         middleware.TokenVerifier
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter

	CORSAllowedOrigins []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept", "Authorization", "Content-Type",
				middleware.IdempotencyKeyHeader, middleware.UserIDHeader,
			},
			ExposedHeaders: []string{middleware.RequestIDHeader, middleware.IdempotencyReplayHeader},
			MaxAge:         300,
		}))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	viewer := middleware.RequireRole(domain.RoleViewer)
	accountant := middleware.RequireRole(domain.RoleAccountant)
	admin := middleware.RequireRole(domain.RoleAdmin)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.Verifier))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		// Chart of accounts
		r.Route("/accounts", func(r chi.Router) {
			r.With(viewer).Get("/", cfg.AccountHandler.List)
			r.With(admin).Post("/", cfg.AccountHandler.Create)
			r.With(viewer).Get("/{id}", cfg.AccountHandler.Get)
			r.With(admin).Delete("/{id}", cfg.AccountHandler.Delete)
			r.With(viewer).Get("/{id}/balance", cfg.LedgerHandler.AccountBalance)
		})

		// Journal entries
		r.Route("/journal-entries", func(r chi.Router) {
			r.With(viewer).Get("/", cfg.EntryHandler.List)
			r.With(accountant).Post("/", cfg.EntryHandler.Create)
			r.With(viewer).Post("/evaluate", cfg.EntryHandler.Evaluate)
			r.With(viewer).Get("/{id}", cfg.EntryHandler.Get)
			r.With(accountant).Put("/{id}", cfg.EntryHandler.Update)
			r.With(accountant).Delete("/{id}", cfg.EntryHandler.Discard)
			r.With(viewer).Get("/{id}/history", cfg.EntryHandler.History)
			r.With(accountant).Patch("/{id}/lines/{index}", cfg.EntryHandler.UpdateLine)
			r.With(accountant).Post("/{id}/post", cfg.EntryHandler.Post)
			r.With(accountant).Post("/{id}/reverse", cfg.EntryHandler.Reverse)
		})

		// Reports
		r.Route("/ledger", func(r chi.Router) {
			r.Use(viewer)
			r.Get("/trial-balance", cfg.LedgerHandler.TrialBalance)
			r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
		})

		// Period lock
		r.Route("/period-lock", func(r chi.Router) {
			r.With(viewer).Get("/", cfg.PeriodHandler.Get)
			r.With(admin).Put("/", cfg.PeriodHandler.Set)
		})
	})

	return r
}
