package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbook/internal/usecase"
)

// ReceiptRepository implements usecase.ReceiptRepository.
type ReceiptRepository struct {
	queries *generated.Queries
}

// NewReceiptRepository creates a new ReceiptRepository.
func NewReceiptRepository(db generated.DBTX) *ReceiptRepository {
	return &ReceiptRepository{queries: generated.New(db)}
}

// Create inserts a receipt within a transaction.
func (r *ReceiptRepository) Create(ctx context.Context, tx usecase.Transaction, rc *domain.Receipt) error {
	err := queriesFor(tx, r.queries).CreateReceipt(ctx, generated.CreateReceiptParams{
		ID:         rc.ID,
		LoanID:     rc.LoanID,
		CashbookID: rc.PeriodID,
		Amount:     decimalToNumeric(rc.Amount),
		PaidAt:     timeToPgTimestamptz(rc.PaidAt),
		Notes:      stringToPgText(rc.Notes),
		CreatedAt:  timeToPgTimestamptz(rc.CreatedAt),
	})
	return mapLockedRow(err)
}

// ListByPeriod lists a period's receipts in payment order with borrower
// contact details.
func (r *ReceiptRepository) ListByPeriod(ctx context.Context, tx usecase.Transaction, periodID string) ([]*domain.Receipt, error) {
	rows, err := queriesFor(tx, r.queries).ListReceiptsByCashbook(ctx, periodID)
	if err != nil {
		return nil, err
	}

	receipts := make([]*domain.Receipt, 0, len(rows))
	for _, row := range rows {
		receipts = append(receipts, &domain.Receipt{
			ID:            row.Receipt.ID,
			LoanID:        row.Receipt.LoanID,
			PeriodID:      row.Receipt.CashbookID,
			Amount:        numericToDecimal(row.Receipt.Amount),
			PaidAt:        row.Receipt.PaidAt.Time,
			Notes:         pgTextToString(row.Receipt.Notes),
			CreatedAt:     row.Receipt.CreatedAt.Time,
			BorrowerName:  row.BorrowerName,
			BorrowerPhone: row.BorrowerPhone,
		})
	}
	return receipts, nil
}

// CountByLoan counts the receipts booked against a loan.
func (r *ReceiptRepository) CountByLoan(ctx context.Context, tx usecase.Transaction, loanID string) (int, error) {
	n, err := queriesFor(tx, r.queries).CountReceiptsByLoan(ctx, loanID)
	return int(n), err
}

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	queries *generated.Queries
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db generated.DBTX) *ExpenseRepository {
	return &ExpenseRepository{queries: generated.New(db)}
}

// Create inserts an expense within a transaction.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, e *domain.Expense) error {
	err := queriesFor(tx, r.queries).CreateExpense(ctx, generated.CreateExpenseParams{
		ID:          e.ID,
		CashbookID:  e.PeriodID,
		Description: e.Description,
		Amount:      decimalToNumeric(e.Amount),
		Source:      string(e.Source),
		ReferenceID: stringToPgText(e.ReferenceID),
		CreatedAt:   timeToPgTimestamptz(e.CreatedAt),
	})
	return mapLockedRow(err)
}

// ListByPeriod lists a period's expenses in booking order.
func (r *ExpenseRepository) ListByPeriod(ctx context.Context, tx usecase.Transaction, periodID string) ([]*domain.Expense, error) {
	rows, err := queriesFor(tx, r.queries).ListExpensesByCashbook(ctx, periodID)
	if err != nil {
		return nil, err
	}

	expenses := make([]*domain.Expense, 0, len(rows))
	for _, row := range rows {
		expenses = append(expenses, &domain.Expense{
			ID:          row.ID,
			PeriodID:    row.CashbookID,
			Description: row.Description,
			Amount:      numericToDecimal(row.Amount),
			Source:      domain.ExpenseSource(row.Source),
			ReferenceID: pgTextToString(row.ReferenceID),
			CreatedAt:   row.CreatedAt.Time,
		})
	}
	return expenses, nil
}

// UpdateLoanExpense rewrites the amount of the expense booked for a loan.
func (r *ExpenseRepository) UpdateLoanExpense(ctx context.Context, tx usecase.Transaction, loanID string, amount decimal.Decimal) error {
	_, err := queriesFor(tx, r.queries).UpdateLoanExpenseAmount(ctx, generated.UpdateLoanExpenseAmountParams{
		ReferenceID: pgtype.Text{String: loanID, Valid: true},
		Amount:      decimalToNumeric(amount),
	})
	return mapLockedRow(err)
}

// DeleteByReference removes the expenses booked by the referenced record.
func (r *ExpenseRepository) DeleteByReference(ctx context.Context, tx usecase.Transaction, source domain.ExpenseSource, referenceID string) error {
	_, err := queriesFor(tx, r.queries).DeleteExpensesByReference(ctx, generated.DeleteExpensesByReferenceParams{
		Source:      string(source),
		ReferenceID: pgtype.Text{String: referenceID, Valid: true},
	})
	return mapLockedRow(err)
}

// OwnerTransactionRepository implements usecase.OwnerTransactionRepository.
type OwnerTransactionRepository struct {
	queries *generated.Queries
}

// NewOwnerTransactionRepository creates a new OwnerTransactionRepository.
func NewOwnerTransactionRepository(db generated.DBTX) *OwnerTransactionRepository {
	return &OwnerTransactionRepository{queries: generated.New(db)}
}

// Create inserts an owner transaction within a transaction.
func (r *OwnerTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, o *domain.OwnerTransaction) error {
	err := queriesFor(tx, r.queries).CreateOwnerTransaction(ctx, generated.CreateOwnerTransactionParams{
		ID:         o.ID,
		CashbookID: o.PeriodID,
		Amount:     decimalToNumeric(o.Amount),
		Type:       string(o.Type),
		Note:       stringToPgText(o.Note),
		CreatedAt:  timeToPgTimestamptz(o.CreatedAt),
	})
	return mapLockedRow(err)
}

// ListByPeriod lists a period's owner transactions in booking order.
func (r *OwnerTransactionRepository) ListByPeriod(ctx context.Context, tx usecase.Transaction, periodID string) ([]*domain.OwnerTransaction, error) {
	rows, err := queriesFor(tx, r.queries).ListOwnerTransactionsByCashbook(ctx, periodID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.OwnerTransaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.OwnerTransaction{
			ID:        row.ID,
			PeriodID:  row.CashbookID,
			Amount:    numericToDecimal(row.Amount),
			Type:      domain.OwnerTxType(row.Type),
			Note:      pgTextToString(row.Note),
			CreatedAt: row.CreatedAt.Time,
		})
	}
	return out, nil
}
