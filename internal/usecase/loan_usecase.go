package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

// LoanUseCase issues loans and applies repayments. Every unit of work takes
// the period row lock before the loan or borrower row lock.
type LoanUseCase struct {
	deps       Deps
	periods    *PeriodUseCase
	settlement *SettlementEngine
	policy     domain.LoanPolicy
	logger     zerolog.Logger
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(deps Deps, periods *PeriodUseCase, settlement *SettlementEngine, policy domain.LoanPolicy) *LoanUseCase {
	deps = deps.withDefaults()
	return &LoanUseCase{
		deps:       deps,
		periods:    periods,
		settlement: settlement,
		policy:     policy,
		logger:     deps.Logger.With().Str("component", "loan").Logger(),
	}
}

// Policy returns the pricing applied to new and repriced loans.
func (uc *LoanUseCase) Policy() domain.LoanPolicy {
	return uc.policy
}

// IssueLoanInput represents input for issuing a loan.
type IssueLoanInput struct {
	BorrowerID string
	Principal  decimal.Decimal
	Notes      *string
	// AsOf selects the period the cash-out is booked into. Defaults to today.
	AsOf *time.Time
}

// IssueLoan creates an active loan and books its principal as a loan
// expense in the same unit of work.
func (uc *LoanUseCase) IssueLoan(ctx context.Context, input IssueLoanInput) (*domain.Loan, error) {
	if input.BorrowerID == "" {
		return nil, domain.ErrMissingIdentifier
	}
	if err := domain.ValidateAmount(input.Principal); err != nil {
		return nil, err
	}
	if _, err := uc.deps.Repos.Borrowers.GetByID(ctx, input.BorrowerID); err != nil {
		return nil, err
	}

	period, err := uc.resolve(ctx, input.AsOf)
	if err != nil {
		return nil, err
	}

	var loan *domain.Loan
	err = runInTx(ctx, uc.deps, func(ctx context.Context, tx Transaction) error {
		p, err := uc.periods.writablePeriod(ctx, tx, period.ID, "issue_loan")
		if err != nil {
			return err
		}

		// Serializes concurrent issuances for one borrower.
		borrower, err := uc.deps.Repos.Borrowers.GetByIDForUpdate(ctx, tx, input.BorrowerID)
		if err != nil {
			return err
		}

		active, err := uc.deps.Repos.Loans.HasActiveLoan(ctx, tx, borrower.ID)
		if err != nil {
			return err
		}
		if active {
			return domain.ErrActiveLoanExists
		}

		now := uc.deps.Clock.Now()
		loan, err = domain.NewLoan(uc.deps.IDGen.Generate(), borrower.ID, p.ID, input.Principal, uc.policy, p.Date, input.Notes, now)
		if err != nil {
			return err
		}
		loan.BorrowerName = borrower.FullName

		if err := uc.deps.Repos.Loans.Create(ctx, tx, loan); err != nil {
			return err
		}

		expense := domain.NewLoanExpense(uc.deps.IDGen.Generate(), loan, p.ID, now)
		if err := uc.deps.Repos.Expenses.Create(ctx, tx, expense); err != nil {
			return err
		}

		if _, err := uc.settlement.settle(ctx, tx, p); err != nil {
			return err
		}

		return uc.deps.emit(ctx, tx, domain.AggregateTypeLoan, loan.ID, domain.EventTypeLoanIssued, map[string]any{
			"loan_id":        loan.ID,
			"borrower_id":    loan.BorrowerID,
			"period_id":      p.ID,
			"principal":      loan.Principal.String(),
			"total_to_repay": loan.TotalToRepay.String(),
		}, now)
	})
	if err != nil {
		uc.reject("issue_loan", err)
		return nil, err
	}

	uc.logger.Info().
		Str("loan_id", loan.ID).
		Str("borrower_id", loan.BorrowerID).
		Str("principal", loan.Principal.String()).
		Str("total_to_repay", loan.TotalToRepay.String()).
		Msg("loan issued")
	if uc.deps.Metrics != nil {
		uc.deps.Metrics.LoansIssued.Inc()
		uc.deps.Metrics.LoanPrincipal.Observe(loan.Principal.InexactFloat64())
	}

	return loan, nil
}

// PaymentInput represents input for applying a repayment.
type PaymentInput struct {
	LoanID string
	Amount decimal.Decimal
	Notes  *string
	// AsOf selects the period the receipt is booked into. Defaults to today.
	AsOf *time.Time
}

// PaymentResult is the outcome of a repayment.
type PaymentResult struct {
	Loan    *domain.Loan
	Receipt *domain.Receipt
	Period  *domain.Period
}

// ApplyPayment records a repayment against a loan and books the receipt into
// the period. The loan update, the receipt and the settlement commit
// together or not at all.
func (uc *LoanUseCase) ApplyPayment(ctx context.Context, input PaymentInput) (*PaymentResult, error) {
	if input.LoanID == "" {
		return nil, domain.ErrMissingIdentifier
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	// A payment the loan cannot take must not open a period. The check is
	// repeated under the row lock below.
	current, err := uc.deps.Repos.Loans.GetByID(ctx, input.LoanID)
	if err != nil {
		return nil, err
	}
	if err := current.ValidatePayment(input.Amount); err != nil {
		uc.reject("payment", err)
		return nil, err
	}

	period, err := uc.resolve(ctx, input.AsOf)
	if err != nil {
		return nil, err
	}

	var result *PaymentResult
	err = runInTx(ctx, uc.deps, func(ctx context.Context, tx Transaction) error {
		p, err := uc.periods.writablePeriod(ctx, tx, period.ID, "payment")
		if err != nil {
			return err
		}

		loan, err := uc.deps.Repos.Loans.GetByIDForUpdate(ctx, tx, input.LoanID)
		if err != nil {
			return err
		}

		now := uc.deps.Clock.Now()
		if err := loan.ApplyPayment(input.Amount, now); err != nil {
			return err
		}

		if err := uc.deps.Repos.Loans.Update(ctx, tx, loan); err != nil {
			return err
		}

		receipt := &domain.Receipt{
			ID:        uc.deps.IDGen.Generate(),
			LoanID:    loan.ID,
			PeriodID:  p.ID,
			Amount:    input.Amount,
			PaidAt:    now,
			Notes:     input.Notes,
			CreatedAt: now,
		}
		if err := receipt.Validate(); err != nil {
			return err
		}
		if err := uc.deps.Repos.Receipts.Create(ctx, tx, receipt); err != nil {
			return err
		}

		settled, err := uc.settlement.settle(ctx, tx, p)
		if err != nil {
			return err
		}

		err = uc.deps.emit(ctx, tx, domain.AggregateTypeLoan, loan.ID, domain.EventTypePaymentReceived, map[string]any{
			"loan_id":    loan.ID,
			"receipt_id": receipt.ID,
			"period_id":  p.ID,
			"amount":     receipt.Amount.String(),
			"remaining":  loan.Remaining.String(),
		}, now)
		if err != nil {
			return err
		}

		if loan.Status == domain.LoanStatusCompleted {
			err = uc.deps.emit(ctx, tx, domain.AggregateTypeLoan, loan.ID, domain.EventTypeLoanCompleted, map[string]any{
				"loan_id":     loan.ID,
				"borrower_id": loan.BorrowerID,
			}, now)
			if err != nil {
				return err
			}
		}

		result = &PaymentResult{Loan: loan, Receipt: receipt, Period: settled}
		return nil
	})
	if err != nil {
		uc.reject("payment", err)
		return nil, err
	}

	uc.logger.Info().
		Str("loan_id", result.Loan.ID).
		Str("amount", input.Amount.String()).
		Str("remaining", result.Loan.Remaining.String()).
		Str("status", string(result.Loan.Status)).
		Msg("payment applied")
	if uc.deps.Metrics != nil {
		uc.deps.Metrics.PaymentsApplied.Inc()
		if result.Loan.Status == domain.LoanStatusCompleted {
			uc.deps.Metrics.LoansCompleted.Inc()
		}
	}

	return result, nil
}

// UpdateLoanInput is a partial loan correction. Nil fields are unchanged.
type UpdateLoanInput struct {
	Principal *decimal.Decimal
	Notes     *string
}

// UpdateLoan corrects a loan. The principal can only change while nothing
// has been repaid and the issuing period is open; the linked loan expense
// follows the new principal.
func (uc *LoanUseCase) UpdateLoan(ctx context.Context, id string, input UpdateLoanInput) (*domain.Loan, error) {
	current, err := uc.deps.Repos.Loans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var loan *domain.Loan
	err = runInTx(ctx, uc.deps, func(ctx context.Context, tx Transaction) error {
		var p *domain.Period
		if input.Principal != nil {
			var err error
			p, err = uc.periods.writablePeriod(ctx, tx, current.PeriodID, "update_loan")
			if err != nil {
				return err
			}
		}

		locked, err := uc.deps.Repos.Loans.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		loan = locked

		now := uc.deps.Clock.Now()
		if input.Principal != nil {
			if err := uc.ensureNoReceipts(ctx, tx, loan); err != nil {
				return err
			}
			if err := loan.Reprice(*input.Principal, uc.policy, now); err != nil {
				return err
			}
			if err := uc.deps.Repos.Expenses.UpdateLoanExpense(ctx, tx, loan.ID, loan.Principal); err != nil {
				return err
			}
		}
		if input.Notes != nil {
			loan.Notes = input.Notes
			loan.UpdatedAt = now
		}

		if err := uc.deps.Repos.Loans.Update(ctx, tx, loan); err != nil {
			return err
		}

		if p != nil {
			if _, err := uc.settlement.settle(ctx, tx, p); err != nil {
				return err
			}
		}

		return uc.deps.emit(ctx, tx, domain.AggregateTypeLoan, loan.ID, domain.EventTypeLoanUpdated, map[string]any{
			"loan_id":        loan.ID,
			"principal":      loan.Principal.String(),
			"total_to_repay": loan.TotalToRepay.String(),
		}, now)
	})
	if err != nil {
		uc.reject("update_loan", err)
		return nil, err
	}

	return loan, nil
}

// DeleteLoan removes a loan nothing has been repaid against, together with
// its loan expense, while the issuing period is open.
func (uc *LoanUseCase) DeleteLoan(ctx context.Context, id string) error {
	current, err := uc.deps.Repos.Loans.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = runInTx(ctx, uc.deps, func(ctx context.Context, tx Transaction) error {
		p, err := uc.periods.writablePeriod(ctx, tx, current.PeriodID, "delete_loan")
		if err != nil {
			return err
		}

		loan, err := uc.deps.Repos.Loans.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := uc.ensureNoReceipts(ctx, tx, loan); err != nil {
			return err
		}

		if err := uc.deps.Repos.Expenses.DeleteByReference(ctx, tx, domain.ExpenseSourceLoan, loan.ID); err != nil {
			return err
		}
		if err := uc.deps.Repos.Loans.Delete(ctx, tx, loan.ID); err != nil {
			return err
		}

		if _, err := uc.settlement.settle(ctx, tx, p); err != nil {
			return err
		}

		return uc.deps.emit(ctx, tx, domain.AggregateTypeLoan, loan.ID, domain.EventTypeLoanDeleted, map[string]any{
			"loan_id":   loan.ID,
			"period_id": p.ID,
		}, uc.deps.Clock.Now())
	})
	if err != nil {
		uc.reject("delete_loan", err)
		return err
	}

	uc.logger.Info().Str("loan_id", id).Msg("loan deleted")
	return nil
}

// GetLoan retrieves a loan by ID.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return uc.deps.Repos.Loans.GetByID(ctx, id)
}

// Portfolio summarizes the whole loan book.
func (uc *LoanUseCase) Portfolio(ctx context.Context) (*domain.Portfolio, error) {
	return uc.deps.Repos.Loans.Portfolio(ctx)
}

// ListLoans lists loans, newest first.
func (uc *LoanUseCase) ListLoans(ctx context.Context, filter LoanFilter) ([]*domain.Loan, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.deps.Repos.Loans.List(ctx, filter)
}

func (uc *LoanUseCase) ensureNoReceipts(ctx context.Context, tx Transaction, loan *domain.Loan) error {
	if !loan.AmountPaid.IsZero() {
		return domain.ErrLoanHasPayments
	}
	n, err := uc.deps.Repos.Receipts.CountByLoan(ctx, tx, loan.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrLoanHasPayments
	}
	return nil
}

func (uc *LoanUseCase) resolve(ctx context.Context, asOf *time.Time) (*domain.Period, error) {
	if asOf == nil {
		return uc.periods.ResolveToday(ctx)
	}
	return uc.periods.ResolveDate(ctx, *asOf)
}

func (uc *LoanUseCase) reject(operation string, err error) {
	var reason string
	switch {
	case errors.Is(err, domain.ErrExceedsRemaining):
		reason = "exceeds_remaining"
	case errors.Is(err, domain.ErrActiveLoanExists):
		reason = "active_loan_exists"
	case errors.Is(err, domain.ErrLoanHasPayments):
		reason = "loan_has_payments"
	case errors.Is(err, domain.ErrSettlementFailed):
		reason = "settlement_failed"
	default:
		return
	}

	uc.logger.Warn().Err(err).Str("operation", operation).Msg("write rejected")
	if uc.deps.Metrics != nil {
		uc.deps.Metrics.WritesRejected.WithLabelValues(operation, reason).Inc()
	}
}
