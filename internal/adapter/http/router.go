package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/adapter/http/handler"
	"github.com/iho/cashbook/internal/adapter/http/middleware"
	"github.com/iho/cashbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PeriodHandler   *handler.PeriodHandler
	CashHandler     *handler.CashHandler
	LoanHandler     *handler.LoanHandler
	BorrowerHandler *handler.BorrowerHandler
	ReportHandler   *handler.ReportHandler
	HealthHandler   *handler.HealthHandler

	// IdempotencyStore enables Idempotency-Key handling when set.
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	// RateLimiter enables per-client rate limiting when set.
	RateLimiter *middleware.RateLimiter

	Logger zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Route("/periods", func(r chi.Router) {
			r.Get("/", cfg.PeriodHandler.List)
			r.Get("/today", cfg.PeriodHandler.Today)
			r.Post("/lock", cfg.PeriodHandler.LockDate)
			r.Get("/{id}", cfg.PeriodHandler.Get)
			r.Post("/{id}/lock", cfg.PeriodHandler.Lock)
			r.Post("/{id}/recompute", cfg.PeriodHandler.Recompute)
			r.Get("/{id}/verify", cfg.PeriodHandler.Verify)
			r.Get("/{id}/report", cfg.ReportHandler.Get)
			r.Post("/{id}/expenses", cfg.CashHandler.AddExpense)
			r.Post("/{id}/owner-transactions", cfg.CashHandler.AddOwnerTransaction)
		})

		r.Post("/receipts", cfg.LoanHandler.Pay)

		r.Route("/loans", func(r chi.Router) {
			r.Post("/", cfg.LoanHandler.Create)
			r.Get("/", cfg.LoanHandler.List)
			r.Get("/summary", cfg.LoanHandler.Summary)
			r.Get("/{id}", cfg.LoanHandler.Get)
			r.Patch("/{id}", cfg.LoanHandler.Update)
			r.Delete("/{id}", cfg.LoanHandler.Delete)
		})

		r.Route("/borrowers", func(r chi.Router) {
			r.Post("/", cfg.BorrowerHandler.Create)
			r.Get("/", cfg.BorrowerHandler.List)
			r.Get("/{id}", cfg.BorrowerHandler.Get)
			r.Patch("/{id}", cfg.BorrowerHandler.Update)
			r.Delete("/{id}", cfg.BorrowerHandler.Delete)
		})
	})

	return r
}
