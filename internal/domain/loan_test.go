package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestLoan(t *testing.T, principal int64) *Loan {
	t.Helper()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	loan, err := NewLoan("loan-1", "b-1", "p-1", decimal.NewFromInt(principal), DefaultLoanPolicy(), now, nil, now)
	if err != nil {
		t.Fatalf("NewLoan failed: %v", err)
	}
	return loan
}

func TestNewLoanPricing(t *testing.T) {
	t.Parallel()

	loan := newTestLoan(t, 100000)

	if !loan.Interest.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("expected interest 10000, got %s", loan.Interest)
	}
	if !loan.TotalToRepay.Equal(decimal.NewFromInt(120000)) {
		t.Fatalf("expected total 120000, got %s", loan.TotalToRepay)
	}
	if !loan.Remaining.Equal(loan.TotalToRepay) || !loan.AmountPaid.IsZero() {
		t.Fatalf("expected untouched balance, got paid=%s remaining=%s", loan.AmountPaid, loan.Remaining)
	}
	if loan.Status != LoanStatusActive {
		t.Fatalf("expected Active, got %s", loan.Status)
	}
}

func TestNewLoanRejectsNonPositivePrincipal(t *testing.T) {
	t.Parallel()

	_, err := NewLoan("loan-1", "b-1", "p-1", decimal.Zero, DefaultLoanPolicy(), time.Now(), nil, time.Now())
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestLoanApplyPayment(t *testing.T) {
	t.Parallel()

	t.Run("partial payment keeps loan active", func(t *testing.T) {
		loan := newTestLoan(t, 100000)
		if err := loan.ApplyPayment(decimal.NewFromInt(20000), time.Now()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !loan.Remaining.Equal(decimal.NewFromInt(100000)) {
			t.Fatalf("expected remaining 100000, got %s", loan.Remaining)
		}
		if loan.Status != LoanStatusActive {
			t.Fatalf("expected Active, got %s", loan.Status)
		}
	})

	t.Run("full payment completes loan", func(t *testing.T) {
		loan := newTestLoan(t, 100000)
		if err := loan.ApplyPayment(decimal.NewFromInt(120000), time.Now()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !loan.Remaining.IsZero() || loan.Status != LoanStatusCompleted {
			t.Fatalf("expected completed loan, got remaining=%s status=%s", loan.Remaining, loan.Status)
		}
	})

	t.Run("overpayment rejected without change", func(t *testing.T) {
		loan := newTestLoan(t, 100000)
		_ = loan.ApplyPayment(decimal.NewFromInt(20000), time.Now())

		err := loan.ApplyPayment(decimal.NewFromInt(150000), time.Now())
		if !errors.Is(err, ErrExceedsRemaining) {
			t.Fatalf("expected ErrExceedsRemaining, got %v", err)
		}
		if !loan.Remaining.Equal(decimal.NewFromInt(100000)) || !loan.AmountPaid.Equal(decimal.NewFromInt(20000)) {
			t.Fatalf("loan changed after rejected payment: paid=%s remaining=%s", loan.AmountPaid, loan.Remaining)
		}
	})

	t.Run("balance invariant holds", func(t *testing.T) {
		loan := newTestLoan(t, 50000)
		for _, amt := range []int64{1000, 2500, 7500, 49000} {
			if err := loan.ApplyPayment(decimal.NewFromInt(amt), time.Now()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !loan.AmountPaid.Add(loan.Remaining).Equal(loan.TotalToRepay) {
				t.Fatalf("paid + remaining != total: %s + %s != %s", loan.AmountPaid, loan.Remaining, loan.TotalToRepay)
			}
			if (loan.Status == LoanStatusCompleted) != loan.Remaining.IsZero() {
				t.Fatalf("status %s does not match remaining %s", loan.Status, loan.Remaining)
			}
		}
	})
}

func TestLoanReprice(t *testing.T) {
	t.Parallel()

	loan := newTestLoan(t, 100000)
	if err := loan.Reprice(decimal.NewFromInt(50000), DefaultLoanPolicy(), time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loan.TotalToRepay.Equal(decimal.NewFromInt(65000)) {
		t.Fatalf("expected total 65000, got %s", loan.TotalToRepay)
	}

	_ = loan.ApplyPayment(decimal.NewFromInt(1000), time.Now())
	if err := loan.Reprice(decimal.NewFromInt(70000), DefaultLoanPolicy(), time.Now()); !errors.Is(err, ErrLoanHasPayments) {
		t.Fatalf("expected ErrLoanHasPayments, got %v", err)
	}
}

func TestLoanPolicyValidate(t *testing.T) {
	t.Parallel()

	p := LoanPolicy{InterestRate: decimal.NewFromFloat(-0.1), ProcessingFee: decimal.Zero}
	if err := p.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected invalid policy, got %v", err)
	}
}
