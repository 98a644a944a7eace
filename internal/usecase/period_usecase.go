package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

// PeriodUseCase resolves, reads and locks cashbook periods.
type PeriodUseCase struct {
	deps       Deps
	settlement *SettlementEngine
	logger     zerolog.Logger
}

// NewPeriodUseCase creates a new PeriodUseCase.
func NewPeriodUseCase(deps Deps, settlement *SettlementEngine) *PeriodUseCase {
	deps = deps.withDefaults()
	return &PeriodUseCase{
		deps:       deps,
		settlement: settlement,
		logger:     deps.Logger.With().Str("component", "period").Logger(),
	}
}

// PeriodSnapshot is a period together with its transaction rows.
type PeriodSnapshot struct {
	Period            *domain.Period
	Receipts          []*domain.Receipt
	Expenses          []*domain.Expense
	OwnerTransactions []*domain.OwnerTransaction
}

// Today returns the calendar date of the current instant in the operating
// timezone.
func (uc *PeriodUseCase) Today() time.Time {
	return domain.CalendarDate(uc.deps.Clock.Now(), uc.deps.Location)
}

// ResolveToday finds or creates the period for the current calendar day.
func (uc *PeriodUseCase) ResolveToday(ctx context.Context) (*domain.Period, error) {
	return uc.ResolveDate(ctx, uc.Today())
}

// ResolveDate finds or creates the period for asOf. A new period opens with
// the closing balance of the latest earlier period, or zero if there is
// none. Concurrent calls for one date converge on a single row.
func (uc *PeriodUseCase) ResolveDate(ctx context.Context, asOf time.Time) (*domain.Period, error) {
	date := calendarDay(asOf)

	period, err := uc.deps.Repos.Periods.GetByDate(ctx, date)
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, domain.ErrPeriodNotFound) {
		return nil, err
	}

	var created *domain.Period
	err = runInTx(ctx, uc.deps, func(ctx context.Context, tx Transaction) error {
		created = nil

		opening := decimal.Zero
		prev, err := uc.deps.Repos.Periods.GetLatestBefore(ctx, tx, date)
		switch {
		case err == nil:
			opening = prev.ClosingBalance
		case !errors.Is(err, domain.ErrPeriodNotFound):
			return err
		}

		now := uc.deps.Clock.Now()
		candidate := domain.NewPeriod(uc.deps.IDGen.Generate(), date, opening, now)

		inserted, err := uc.deps.Repos.Periods.CreateIfAbsent(ctx, tx, candidate)
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}
		created = candidate

		return uc.deps.emit(ctx, tx, domain.AggregateTypePeriod, candidate.ID, domain.EventTypePeriodOpened, map[string]any{
			"period_id":       candidate.ID,
			"date":            candidate.DateString(),
			"opening_balance": candidate.OpeningBalance.String(),
		}, now)
	})
	if err != nil {
		return nil, err
	}

	if created != nil {
		uc.logger.Info().
			Str("period_id", created.ID).
			Str("date", created.DateString()).
			Str("opening_balance", created.OpeningBalance.String()).
			Msg("cashbook period opened")
		if uc.deps.Metrics != nil {
			uc.deps.Metrics.PeriodsOpened.Inc()
		}
		return created, nil
	}

	// Another caller created the row first.
	return uc.deps.Repos.Periods.GetByDate(ctx, date)
}

// GetPeriod returns a period and its transactions read from one snapshot.
func (uc *PeriodUseCase) GetPeriod(ctx context.Context, id string) (*PeriodSnapshot, error) {
	if id == "" {
		return nil, domain.ErrMissingIdentifier
	}

	var snap *PeriodSnapshot
	err := runInTx(ctx, uc.deps, func(ctx context.Context, tx Transaction) error {
		period, err := uc.deps.Repos.Periods.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		snap, err = uc.snapshot(ctx, tx, period)
		return err
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}

// GetPeriodByDate resolves the period for date, today when nil, and returns
// its snapshot.
func (uc *PeriodUseCase) GetPeriodByDate(ctx context.Context, date *time.Time) (*PeriodSnapshot, error) {
	asOf := uc.Today()
	if date != nil {
		asOf = *date
	}

	period, err := uc.ResolveDate(ctx, asOf)
	if err != nil {
		return nil, err
	}

	return uc.GetPeriod(ctx, period.ID)
}

func (uc *PeriodUseCase) snapshot(ctx context.Context, tx Transaction, period *domain.Period) (*PeriodSnapshot, error) {
	receipts, err := uc.deps.Repos.Receipts.ListByPeriod(ctx, tx, period.ID)
	if err != nil {
		return nil, err
	}

	expenses, err := uc.deps.Repos.Expenses.ListByPeriod(ctx, tx, period.ID)
	if err != nil {
		return nil, err
	}

	owner, err := uc.deps.Repos.OwnerTransactions.ListByPeriod(ctx, tx, period.ID)
	if err != nil {
		return nil, err
	}

	return &PeriodSnapshot{
		Period:            period,
		Receipts:          receipts,
		Expenses:          expenses,
		OwnerTransactions: owner,
	}, nil
}

// ListPeriodsInput represents input for listing periods.
type ListPeriodsInput struct {
	Limit  int
	Offset int
}

// ListPeriods lists periods newest first.
func (uc *PeriodUseCase) ListPeriods(ctx context.Context, input ListPeriodsInput) ([]*domain.Period, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.deps.Repos.Periods.List(ctx, limit, offset)
}

// Lock freezes a period after a final settlement. It fails with
// ErrAlreadyLocked when the period is already frozen, including when a
// concurrent lock wins the race.
func (uc *PeriodUseCase) Lock(ctx context.Context, id string) (*domain.Period, error) {
	if id == "" {
		return nil, domain.ErrMissingIdentifier
	}

	var locked *domain.Period
	err := runInTx(ctx, uc.deps, func(ctx context.Context, tx Transaction) error {
		period, err := uc.deps.Repos.Periods.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if period.Locked {
			return domain.ErrAlreadyLocked
		}

		period, err = uc.settlement.settle(ctx, tx, period)
		if err != nil {
			return err
		}

		now := uc.deps.Clock.Now()
		ok, err := uc.deps.Repos.Periods.Lock(ctx, tx, id, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyLocked
		}
		if err := period.Lock(now); err != nil {
			return err
		}
		locked = period

		return uc.deps.emit(ctx, tx, domain.AggregateTypePeriod, period.ID, domain.EventTypePeriodLocked, map[string]any{
			"period_id":       period.ID,
			"date":            period.DateString(),
			"total_receipts":  period.TotalReceipts.String(),
			"total_payments":  period.TotalPayments.String(),
			"closing_balance": period.ClosingBalance.String(),
		}, now)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyLocked) && uc.deps.Metrics != nil {
			uc.deps.Metrics.WritesRejected.WithLabelValues("lock", "already_locked").Inc()
		}
		return nil, err
	}

	uc.logger.Info().
		Str("period_id", locked.ID).
		Str("date", locked.DateString()).
		Str("closing_balance", locked.ClosingBalance.String()).
		Msg("cashbook period locked")
	if uc.deps.Metrics != nil {
		uc.deps.Metrics.PeriodsLocked.Inc()
	}

	return locked, nil
}

// LockDate locks the existing period for date, today when nil.
func (uc *PeriodUseCase) LockDate(ctx context.Context, date *time.Time) (*domain.Period, error) {
	asOf := uc.Today()
	if date != nil {
		asOf = calendarDay(*date)
	}

	period, err := uc.deps.Repos.Periods.GetByDate(ctx, asOf)
	if err != nil {
		return nil, err
	}

	return uc.Lock(ctx, period.ID)
}

// Recompute rederives a period's aggregates.
func (uc *PeriodUseCase) Recompute(ctx context.Context, id string) (*domain.Period, error) {
	return uc.settlement.Recompute(ctx, id)
}

// Verify compares a period's stored aggregates with its transactions.
func (uc *PeriodUseCase) Verify(ctx context.Context, id string) (*Verification, error) {
	return uc.settlement.Verify(ctx, id)
}

// writablePeriod locks the period row for the rest of tx and checks the lock
// gate. Every write path calls it before inserting anything.
func (uc *PeriodUseCase) writablePeriod(ctx context.Context, tx Transaction, id, operation string) (*domain.Period, error) {
	period, err := uc.deps.Repos.Periods.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := period.EnsureWritable(); err != nil {
		uc.logger.Warn().
			Str("period_id", id).
			Str("operation", operation).
			Msg("write rejected: period locked")
		if uc.deps.Metrics != nil {
			uc.deps.Metrics.WritesRejected.WithLabelValues(operation, "period_locked").Inc()
		}
		return nil, err
	}

	return period, nil
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
