package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

func TestLoanRepositoryGetByIDIncludesBorrowerName(t *testing.T) {
	pool := newMockPool(t)
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	pool.ExpectQuery("JOIN borrowers").
		WithArgs("l-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "borrower_id", "cashbook_id", "principal", "processing_fee", "interest",
			"total_to_repay", "amount_paid", "remaining", "status", "start_date", "notes",
			"created_at", "updated_at", "borrower_name",
		}).AddRow("l-1", "b-1", "cb-1", "100000.00", "10000.00", "10000.00",
			"120000.00", "20000.00", "100000.00", "Active", day, nil, now, now, "Alice Uwase"))

	loan, err := NewLoanRepository(pool).GetByID(context.Background(), "l-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loan.BorrowerName != "Alice Uwase" {
		t.Fatalf("expected borrower name, got %q", loan.BorrowerName)
	}
	if !loan.Remaining.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("expected remaining 100000, got %s", loan.Remaining)
	}
	if loan.Status != domain.LoanStatusActive {
		t.Fatalf("expected Active, got %s", loan.Status)
	}
	if loan.PeriodID != "cb-1" {
		t.Fatalf("expected period cb-1, got %s", loan.PeriodID)
	}

	assertExpectations(t, pool)
}

func TestLoanRepositoryGetByIDForUpdateNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FOR UPDATE").WithArgs("l-404").WillReturnError(pgx.ErrNoRows)

	_, err := NewLoanRepository(pool).GetByIDForUpdate(context.Background(), nil, "l-404")
	if !errors.Is(err, domain.ErrLoanNotFound) {
		t.Fatalf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestLoanRepositoryHasActiveLoan(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("SELECT EXISTS").
		WithArgs("b-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	active, err := NewLoanRepository(pool).HasActiveLoan(context.Background(), nil, "b-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !active {
		t.Fatalf("expected active loan")
	}
	assertExpectations(t, pool)
}

func TestLoanRepositoryUpdateMissing(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("UPDATE loans").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	loan := &domain.Loan{ID: "l-404", Status: domain.LoanStatusActive, UpdatedAt: time.Now()}
	err := NewLoanRepository(pool).Update(context.Background(), nil, loan)
	if !errors.Is(err, domain.ErrLoanNotFound) {
		t.Fatalf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestLoanRepositoryPortfolio(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("total_outstanding").
		WillReturnRows(pgxmock.NewRows([]string{
			"borrower_count", "loan_count", "active_loans", "completed_loans",
			"total_principal", "total_repaid", "total_outstanding",
		}).AddRow(int64(4), int64(3), int64(2), int64(1), "6000.00", "11400.00", "25200.00"))

	p, err := NewLoanRepository(pool).Portfolio(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Borrowers != 4 || p.Loans != 3 || p.ActiveLoans != 2 || p.CompletedLoans != 1 {
		t.Fatalf("unexpected counts: %+v", p)
	}
	if !p.TotalOutstanding.Equal(decimal.NewFromInt(25200)) {
		t.Fatalf("expected outstanding 25200, got %s", p.TotalOutstanding)
	}
	if !p.TotalRepaid.Equal(decimal.NewFromInt(11400)) {
		t.Fatalf("expected repaid 11400, got %s", p.TotalRepaid)
	}
	assertExpectations(t, pool)
}

func TestLoanRepositoryUpdateMapsBalanceViolation(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("UPDATE loans").
		WillReturnError(&pgconn.PgError{Code: pgErrCheckViolation, ConstraintName: "loans_balance_check"})

	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	err := NewLoanRepository(pool).Update(context.Background(), nil, &domain.Loan{ID: "l-1", Status: domain.LoanStatusActive, UpdatedAt: now})
	if !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	assertExpectations(t, pool)
}
