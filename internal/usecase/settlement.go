package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/domain"
)

// SettlementEngine is the only writer of a period's aggregate fields. It
// always rederives them from the full transaction set of the period.
type SettlementEngine struct {
	deps   Deps
	logger zerolog.Logger
}

// NewSettlementEngine creates a new SettlementEngine.
func NewSettlementEngine(deps Deps) *SettlementEngine {
	deps = deps.withDefaults()
	return &SettlementEngine{
		deps:   deps,
		logger: deps.Logger.With().Str("component", "settlement").Logger(),
	}
}

// Recompute rederives and stores the aggregates of a period. On a locked
// period it writes nothing and returns the stored period.
func (e *SettlementEngine) Recompute(ctx context.Context, periodID string) (*domain.Period, error) {
	var settled *domain.Period

	err := runInTx(ctx, e.deps, func(ctx context.Context, tx Transaction) error {
		period, err := e.deps.Repos.Periods.GetByIDForUpdate(ctx, tx, periodID)
		if err != nil {
			return err
		}

		settled, err = e.settle(ctx, tx, period)
		return err
	})
	if err != nil {
		return nil, err
	}

	return settled, nil
}

// settle runs inside the caller's transaction, which must hold the period
// row lock. A failure here aborts the caller's whole unit of work.
func (e *SettlementEngine) settle(ctx context.Context, tx Transaction, period *domain.Period) (*domain.Period, error) {
	start := time.Now()

	totals, err := e.derive(ctx, tx, period)
	if err != nil {
		return nil, err
	}

	if period.Locked {
		if !totals.Equal(period.Totals()) {
			e.logger.Warn().
				Str("period_id", period.ID).
				Str("stored_closing", period.ClosingBalance.String()).
				Str("derived_closing", totals.Closing.String()).
				Msg("locked period drifted from its transactions")
		}
		return period, nil
	}

	now := e.deps.Clock.Now()
	if err := e.deps.Repos.Periods.UpdateTotals(ctx, tx, period.ID, totals, now); err != nil {
		e.observe(start, "error")
		return nil, fmt.Errorf("%w: %w", domain.ErrSettlementFailed, err)
	}
	period.ApplyTotals(totals, now)

	e.observe(start, "ok")
	e.logger.Debug().
		Str("period_id", period.ID).
		Str("receipts", totals.Receipts.String()).
		Str("payments", totals.Payments.String()).
		Str("capital_in", totals.CapitalIn.String()).
		Str("drawings", totals.Drawings.String()).
		Str("closing", totals.Closing.String()).
		Msg("period settled")

	return period, nil
}

func (e *SettlementEngine) derive(ctx context.Context, tx Transaction, period *domain.Period) (domain.Totals, error) {
	receipts, err := e.deps.Repos.Receipts.ListByPeriod(ctx, tx, period.ID)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("%w: list receipts: %w", domain.ErrSettlementFailed, err)
	}

	expenses, err := e.deps.Repos.Expenses.ListByPeriod(ctx, tx, period.ID)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("%w: list expenses: %w", domain.ErrSettlementFailed, err)
	}

	owner, err := e.deps.Repos.OwnerTransactions.ListByPeriod(ctx, tx, period.ID)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("%w: list owner transactions: %w", domain.ErrSettlementFailed, err)
	}

	return domain.ComputeTotals(period.OpeningBalance, receipts, expenses, owner), nil
}

func (e *SettlementEngine) observe(start time.Time, result string) {
	if e.deps.Metrics == nil {
		return
	}
	e.deps.Metrics.SettlementDuration.Observe(time.Since(start).Seconds())
	e.deps.Metrics.Settlements.WithLabelValues(result).Inc()
}

// Verification compares a period's stored aggregates with a fresh derivation.
type Verification struct {
	PeriodID   string
	Date       time.Time
	Locked     bool
	Stored     domain.Totals
	Derived    domain.Totals
	Consistent bool
	CheckedAt  time.Time
}

// Verify rederives a period's aggregates without writing them.
func (e *SettlementEngine) Verify(ctx context.Context, periodID string) (*Verification, error) {
	var v *Verification

	err := runInTx(ctx, e.deps, func(ctx context.Context, tx Transaction) error {
		period, err := e.deps.Repos.Periods.GetByIDTx(ctx, tx, periodID)
		if err != nil {
			return err
		}

		derived, err := e.derive(ctx, tx, period)
		if err != nil {
			return err
		}

		stored := period.Totals()
		v = &Verification{
			PeriodID:   period.ID,
			Date:       period.Date,
			Locked:     period.Locked,
			Stored:     stored,
			Derived:    derived,
			Consistent: stored.Equal(derived),
			CheckedAt:  e.deps.Clock.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !v.Consistent {
		e.logger.Warn().Str("period_id", periodID).Msg("period aggregates inconsistent")
	}

	return v, nil
}
