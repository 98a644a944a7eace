package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbook/internal/usecase"
)

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	queries *generated.Queries
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(db generated.DBTX) *LoanRepository {
	return &LoanRepository{queries: generated.New(db)}
}

// Create inserts a loan within a transaction.
func (r *LoanRepository) Create(ctx context.Context, tx usecase.Transaction, l *domain.Loan) error {
	err := queriesFor(tx, r.queries).CreateLoan(ctx, generated.CreateLoanParams{
		ID:            l.ID,
		BorrowerID:    l.BorrowerID,
		CashbookID:    l.PeriodID,
		Principal:     decimalToNumeric(l.Principal),
		ProcessingFee: decimalToNumeric(l.ProcessingFee),
		Interest:      decimalToNumeric(l.Interest),
		TotalToRepay:  decimalToNumeric(l.TotalToRepay),
		AmountPaid:    decimalToNumeric(l.AmountPaid),
		Remaining:     decimalToNumeric(l.Remaining),
		Status:        string(l.Status),
		StartDate:     timeToPgDate(l.StartDate),
		Notes:         stringToPgText(l.Notes),
		CreatedAt:     timeToPgTimestamptz(l.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(l.UpdatedAt),
	})
	if pgErrorCode(err) == pgErrForeignKeyViolation {
		return domain.ErrBorrowerNotFound
	}
	return err
}

// GetByID retrieves a loan with its borrower's name.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	row, err := r.queries.GetLoanByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	loan := rowToLoan(row.Loan)
	loan.BorrowerName = row.BorrowerName
	return loan, nil
}

// GetByIDForUpdate retrieves a loan with a FOR UPDATE lock.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	row, err := queriesFor(tx, r.queries).GetLoanByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return rowToLoan(row), nil
}

// HasActiveLoan reports whether the borrower has an Active loan.
func (r *LoanRepository) HasActiveLoan(ctx context.Context, tx usecase.Transaction, borrowerID string) (bool, error) {
	return queriesFor(tx, r.queries).HasActiveLoan(ctx, borrowerID)
}

// CountByBorrower counts all loans ever issued to the borrower.
func (r *LoanRepository) CountByBorrower(ctx context.Context, tx usecase.Transaction, borrowerID string) (int, error) {
	n, err := queriesFor(tx, r.queries).CountLoansByBorrower(ctx, borrowerID)
	return int(n), err
}

// Update persists the balance, pricing and status of a loan.
func (r *LoanRepository) Update(ctx context.Context, tx usecase.Transaction, l *domain.Loan) error {
	n, err := queriesFor(tx, r.queries).UpdateLoan(ctx, generated.UpdateLoanParams{
		ID:            l.ID,
		Principal:     decimalToNumeric(l.Principal),
		ProcessingFee: decimalToNumeric(l.ProcessingFee),
		Interest:      decimalToNumeric(l.Interest),
		TotalToRepay:  decimalToNumeric(l.TotalToRepay),
		AmountPaid:    decimalToNumeric(l.AmountPaid),
		Remaining:     decimalToNumeric(l.Remaining),
		Status:        string(l.Status),
		Notes:         stringToPgText(l.Notes),
		UpdatedAt:     timeToPgTimestamptz(l.UpdatedAt),
	})
	if err != nil {
		if pgErrorCode(err) == pgErrCheckViolation {
			return fmt.Errorf("%w: loan %s balance rejected by store", domain.ErrInvalid, l.ID)
		}
		return err
	}
	if n == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}

// Delete removes a loan.
func (r *LoanRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := queriesFor(tx, r.queries).DeleteLoan(ctx, id)
	if err != nil {
		if pgErrorCode(err) == pgErrForeignKeyViolation {
			return domain.ErrLoanHasPayments
		}
		return err
	}
	if n == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}

// List lists loans newest first.
func (r *LoanRepository) List(ctx context.Context, filter usecase.LoanFilter) ([]*domain.Loan, error) {
	rows, err := r.queries.ListLoans(ctx, generated.ListLoansParams{
		BorrowerID: filter.BorrowerID,
		Status:     string(filter.Status),
		Limit:      int32(filter.Limit),
		Offset:     int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	loans := make([]*domain.Loan, 0, len(rows))
	for _, row := range rows {
		loan := rowToLoan(row.Loan)
		loan.BorrowerName = row.BorrowerName
		loans = append(loans, loan)
	}
	return loans, nil
}

func rowToLoan(row generated.Loan) *domain.Loan {
	return &domain.Loan{
		ID:            row.ID,
		BorrowerID:    row.BorrowerID,
		PeriodID:      row.CashbookID,
		Principal:     numericToDecimal(row.Principal),
		ProcessingFee: numericToDecimal(row.ProcessingFee),
		Interest:      numericToDecimal(row.Interest),
		TotalToRepay:  numericToDecimal(row.TotalToRepay),
		AmountPaid:    numericToDecimal(row.AmountPaid),
		Remaining:     numericToDecimal(row.Remaining),
		Status:        domain.LoanStatus(row.Status),
		StartDate:     row.StartDate.Time,
		Notes:         pgTextToString(row.Notes),
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}

// Portfolio aggregates the loan book in one query.
func (r *LoanRepository) Portfolio(ctx context.Context) (*domain.Portfolio, error) {
	row, err := r.queries.GetLoanPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Portfolio{
		Borrowers:        row.BorrowerCount,
		Loans:            row.LoanCount,
		ActiveLoans:      row.ActiveLoans,
		CompletedLoans:   row.CompletedLoans,
		TotalPrincipal:   numericToDecimal(row.TotalPrincipal),
		TotalRepaid:      numericToDecimal(row.TotalRepaid),
		TotalOutstanding: numericToDecimal(row.TotalOutstanding),
	}, nil
}
