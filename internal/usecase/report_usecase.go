package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/domain"
)

// ReportUseCase builds the read-only snapshot of a locked period.
type ReportUseCase struct {
	deps     Deps
	cache    Cache
	cacheTTL time.Duration
	currency string
	logger   zerolog.Logger
}

// NewReportUseCase creates a new ReportUseCase. cache may be nil.
func NewReportUseCase(deps Deps, cache Cache, cacheTTL time.Duration, currency string) *ReportUseCase {
	deps = deps.withDefaults()
	if cacheTTL <= 0 {
		cacheTTL = DefaultReportCacheTTL
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return &ReportUseCase{
		deps:     deps,
		cache:    cache,
		cacheTTL: cacheTTL,
		currency: currency,
		logger:   deps.Logger.With().Str("component", "report").Logger(),
	}
}

// GetReport returns the report of a locked period. Locked periods never
// change, so a built report is cached.
func (uc *ReportUseCase) GetReport(ctx context.Context, periodID string) (*domain.Report, error) {
	if periodID == "" {
		return nil, domain.ErrMissingIdentifier
	}

	if report := uc.cached(ctx, periodID); report != nil {
		return report, nil
	}

	var report *domain.Report
	err := runInTx(ctx, uc.deps, func(ctx context.Context, tx Transaction) error {
		period, err := uc.deps.Repos.Periods.GetByIDTx(ctx, tx, periodID)
		if err != nil {
			return err
		}
		if !period.Locked {
			return domain.ErrNotLocked
		}

		receipts, err := uc.deps.Repos.Receipts.ListByPeriod(ctx, tx, period.ID)
		if err != nil {
			return err
		}
		expenses, err := uc.deps.Repos.Expenses.ListByPeriod(ctx, tx, period.ID)
		if err != nil {
			return err
		}
		owner, err := uc.deps.Repos.OwnerTransactions.ListByPeriod(ctx, tx, period.ID)
		if err != nil {
			return err
		}

		report, err = domain.BuildReport(period, receipts, expenses, owner, uc.currency, uc.deps.Clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.store(ctx, report)
	return report, nil
}

func reportCacheKey(periodID string) string {
	return "report:" + periodID
}

func (uc *ReportUseCase) cached(ctx context.Context, periodID string) *domain.Report {
	if uc.cache == nil {
		return nil
	}

	data, err := uc.cache.Get(ctx, reportCacheKey(periodID))
	if err != nil || data == nil {
		return nil
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		uc.logger.Warn().Err(err).Str("period_id", periodID).Msg("discarding unreadable cached report")
		return nil
	}

	return &report
}

func (uc *ReportUseCase) store(ctx context.Context, report *domain.Report) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, reportCacheKey(report.Period.ID), data, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("period_id", report.Period.ID).Msg("failed to cache report")
	}
}
