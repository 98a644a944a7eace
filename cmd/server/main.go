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

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/cashbook/internal/adapter/http"
	"github.com/iho/cashbook/internal/adapter/http/handler"
	"github.com/iho/cashbook/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/cashbook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/cashbook/internal/adapter/repository/redis"
	"github.com/iho/cashbook/internal/infrastructure/config"
	"github.com/iho/cashbook/internal/infrastructure/eventpublisher"
	"github.com/iho/cashbook/internal/infrastructure/logger"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
	"github.com/iho/cashbook/internal/infrastructure/postgres"
	"github.com/iho/cashbook/internal/infrastructure/redis"
	"github.com/iho/cashbook/internal/usecase"
)

const rateLimiterCleanupInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "cashbook",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	var redisClient *goredis.Client
	if cfg.RedisEnabled {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL, cfg.DatabaseTimeout, log)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	m := metrics.New()

	deps := usecase.Deps{
		TxManager: postgresRepo.NewTxManager(pool),
		Retrier: postgresRepo.NewRetrier(
			postgresRepo.WithRetryLogger(log),
			postgresRepo.WithRetryMetrics(m),
		),
		Repos: usecase.Repositories{
			Borrowers:         postgresRepo.NewBorrowerRepository(pool),
			Loans:             postgresRepo.NewLoanRepository(pool),
			Periods:           postgresRepo.NewPeriodRepository(pool),
			Receipts:          postgresRepo.NewReceiptRepository(pool),
			Expenses:          postgresRepo.NewExpenseRepository(pool),
			OwnerTransactions: postgresRepo.NewOwnerTransactionRepository(pool),
			Outbox:            postgresRepo.NewOutboxRepository(pool),
		},
		IDGen:    postgresRepo.NewULIDGenerator(),
		Clock:    usecase.SystemClock{},
		Metrics:  m,
		Logger:   log,
		Location: loc,
	}

	settlement := usecase.NewSettlementEngine(deps)
	periodUC := usecase.NewPeriodUseCase(deps, settlement)
	loanUC := usecase.NewLoanUseCase(deps, periodUC, settlement, cfg.LoanPolicy())
	cashUC := usecase.NewCashUseCase(deps, periodUC, settlement)
	borrowerUC := usecase.NewBorrowerUseCase(deps)

	var reportCache usecase.Cache
	var idempotencyStore usecase.IdempotencyStore
	if redisClient != nil {
		reportCache = redisRepo.NewCache(redisClient, m)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}
	reportUC := usecase.NewReportUseCase(deps, reportCache, cfg.ReportCacheTTL, cfg.Currency)

	// Open today's period so it exists before the first write.
	if _, err := periodUC.ResolveToday(ctx); err != nil {
		return fmt.Errorf("resolve today's period: %w", err)
	}

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: deps.Repos.Outbox,
		Publisher:  newEventSink(cfg, redisClient, log),
		Logger:     log,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})
	go func() {
		if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.RateLimitHits)
	go cleanupLimiters(ctx, rateLimiter, rateLimiterCleanupInterval)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PeriodHandler:    handler.NewPeriodHandler(periodUC),
		CashHandler:      handler.NewCashHandler(cashUC),
		LoanHandler:      handler.NewLoanHandler(loanUC),
		BorrowerHandler:  handler.NewBorrowerHandler(borrowerUC),
		ReportHandler:    handler.NewReportHandler(reportUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Logger:           log,
	})

	server := newServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.HTTPPort).
			Str("timezone", loc.String()).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// newEventSink picks where outbox events go: a redis stream when redis is
// available, the log otherwise.
func newEventSink(cfg *config.Config, client *goredis.Client, log zerolog.Logger) eventpublisher.Publisher {
	if client == nil {
		return eventpublisher.NewLogPublisher(log)
	}
	return eventpublisher.NewStreamPublisher(client, cfg.EventStream, cfg.EventStreamMaxLen)
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupLimiters()
		}
	}
}
