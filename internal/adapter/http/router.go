package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/propfolio/ledger/internal/adapter/http/handler"
	"github.com/propfolio/ledger/internal/adapter/http/middleware"
	"github.com/propfolio/ledger/internal/infrastructure/auth"
	"github.com/propfolio/ledger/internal/infrastructure/metrics"
	"github.com/propfolio/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	JournalHandler  *handler.JournalHandler
	LedgerHandler   *handler.LedgerHandler
	BankHandler     *handler.BankHandler
	DeadlineHandler *handler.DeadlineHandler
	HealthHandler   *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	// JWTManager is optional; nil disables authentication.
	JWTManager *auth.JWTManager

	// Metrics is optional; nil disables per-request metrics.
	Metrics *metrics.Metrics

	Logger zerolog.Logger
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
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		}

		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		// Journals
		r.Route("/journals", func(r chi.Router) {
			r.With(middleware.RequireReconciler).Post("/", cfg.JournalHandler.Post)
			r.Get("/{id}", cfg.JournalHandler.Get)
		})

		// Ledger aggregates
		r.Get("/accounts/{id}/balance", cfg.LedgerHandler.AccountBalance)
		r.Get("/ledger/consistency", cfg.LedgerHandler.Consistency)

		// Bank reconciliation
		r.Route("/bank", func(r chi.Router) {
			r.Get("/transactions", cfg.BankHandler.ListTransactions)
			r.Get("/reconcile", cfg.BankHandler.Suggest)
			r.With(middleware.RequireReconciler).Post("/reconcile", cfg.BankHandler.Reconcile)
		})

		// Compliance deadlines
		r.Route("/deadlines", func(r chi.Router) {
			r.Get("/", cfg.DeadlineHandler.Get)
			r.With(middleware.RequireReconciler).Post("/", cfg.DeadlineHandler.Post)
		})
	})

	return r
}
