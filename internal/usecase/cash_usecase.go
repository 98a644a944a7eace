package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

// CashUseCase books manual expenses and owner transactions into periods.
type CashUseCase struct {
	deps       Deps
	periods    *PeriodUseCase
	settlement *SettlementEngine
	logger     zerolog.Logger
}

// NewCashUseCase creates a new CashUseCase.
func NewCashUseCase(deps Deps, periods *PeriodUseCase, settlement *SettlementEngine) *CashUseCase {
	deps = deps.withDefaults()
	return &CashUseCase{
		deps:       deps,
		periods:    periods,
		settlement: settlement,
		logger:     deps.Logger.With().Str("component", "cash").Logger(),
	}
}

// AddExpenseInput represents input for recording a manual expense.
type AddExpenseInput struct {
	// PeriodID defaults to today's period when empty.
	PeriodID    string
	Description string
	Amount      decimal.Decimal
}

// ExpenseResult is a recorded expense and the settled period.
type ExpenseResult struct {
	Expense *domain.Expense
	Period  *domain.Period
}

// AddExpense records a manual expense.
func (uc *CashUseCase) AddExpense(ctx context.Context, input AddExpenseInput) (*ExpenseResult, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, domain.ErrMissingDescription
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	periodID, err := uc.targetPeriod(ctx, input.PeriodID)
	if err != nil {
		return nil, err
	}

	var result *ExpenseResult
	err = runInTx(ctx, uc.deps, func(ctx context.Context, tx Transaction) error {
		p, err := uc.periods.writablePeriod(ctx, tx, periodID, "expense")
		if err != nil {
			return err
		}

		now := uc.deps.Clock.Now()
		expense := &domain.Expense{
			ID:          uc.deps.IDGen.Generate(),
			PeriodID:    p.ID,
			Description: strings.TrimSpace(input.Description),
			Amount:      input.Amount,
			Source:      domain.ExpenseSourceManual,
			CreatedAt:   now,
		}
		if err := expense.Validate(); err != nil {
			return err
		}
		if err := uc.deps.Repos.Expenses.Create(ctx, tx, expense); err != nil {
			return err
		}

		settled, err := uc.settlement.settle(ctx, tx, p)
		if err != nil {
			return err
		}

		result = &ExpenseResult{Expense: expense, Period: settled}

		return uc.deps.emit(ctx, tx, domain.AggregateTypePeriod, p.ID, domain.EventTypeExpenseRecorded, map[string]any{
			"expense_id":  expense.ID,
			"period_id":   p.ID,
			"description": expense.Description,
			"amount":      expense.Amount.String(),
		}, now)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("period_id", result.Period.ID).
		Str("expense_id", result.Expense.ID).
		Str("amount", result.Expense.Amount.String()).
		Msg("expense recorded")
	if uc.deps.Metrics != nil {
		uc.deps.Metrics.TransactionsRecorded.WithLabelValues("expense").Inc()
	}

	return result, nil
}

// AddOwnerTransactionInput represents input for recording an owner
// transaction.
type AddOwnerTransactionInput struct {
	// PeriodID defaults to today's period when empty.
	PeriodID string
	Amount   decimal.Decimal
	Type     domain.OwnerTxType
	Note     *string
}

// OwnerTransactionResult is a recorded owner transaction and the settled
// period.
type OwnerTransactionResult struct {
	Transaction *domain.OwnerTransaction
	Period      *domain.Period
}

// AddOwnerTransaction records capital injected or drawn by the owner.
func (uc *CashUseCase) AddOwnerTransaction(ctx context.Context, input AddOwnerTransactionInput) (*OwnerTransactionResult, error) {
	if _, err := domain.ParseOwnerTxType(string(input.Type)); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	periodID, err := uc.targetPeriod(ctx, input.PeriodID)
	if err != nil {
		return nil, err
	}

	var result *OwnerTransactionResult
	err = runInTx(ctx, uc.deps, func(ctx context.Context, tx Transaction) error {
		p, err := uc.periods.writablePeriod(ctx, tx, periodID, "owner_transaction")
		if err != nil {
			return err
		}

		now := uc.deps.Clock.Now()
		otx := &domain.OwnerTransaction{
			ID:        uc.deps.IDGen.Generate(),
			PeriodID:  p.ID,
			Amount:    input.Amount,
			Type:      input.Type,
			Note:      input.Note,
			CreatedAt: now,
		}
		if err := otx.Validate(); err != nil {
			return err
		}
		if err := uc.deps.Repos.OwnerTransactions.Create(ctx, tx, otx); err != nil {
			return err
		}

		settled, err := uc.settlement.settle(ctx, tx, p)
		if err != nil {
			return err
		}

		result = &OwnerTransactionResult{Transaction: otx, Period: settled}

		return uc.deps.emit(ctx, tx, domain.AggregateTypePeriod, p.ID, domain.EventTypeOwnerTxRecorded, map[string]any{
			"owner_transaction_id": otx.ID,
			"period_id":            p.ID,
			"type":                 string(otx.Type),
			"amount":               otx.Amount.String(),
		}, now)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("period_id", result.Period.ID).
		Str("type", string(result.Transaction.Type)).
		Str("amount", result.Transaction.Amount.String()).
		Msg("owner transaction recorded")
	if uc.deps.Metrics != nil {
		uc.deps.Metrics.TransactionsRecorded.WithLabelValues(string(result.Transaction.Type)).Inc()
	}

	return result, nil
}

func (uc *CashUseCase) targetPeriod(ctx context.Context, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	p, err := uc.periods.ResolveToday(ctx)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}
