package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the repayment state of a loan.
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "Active"
	LoanStatusCompleted LoanStatus = "Completed"
)

// ParseLoanStatus converts a string to a LoanStatus.
func ParseLoanStatus(s string) (LoanStatus, error) {
	switch LoanStatus(s) {
	case LoanStatusActive, LoanStatusCompleted:
		return LoanStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown loan status %q", ErrInvalid, s)
}

// LoanPolicy holds the pricing applied to every loan.
type LoanPolicy struct {
	InterestRate  decimal.Decimal
	ProcessingFee decimal.Decimal
}

// DefaultLoanPolicy is 10% interest and a flat 10000 processing fee.
func DefaultLoanPolicy() LoanPolicy {
	return LoanPolicy{
		InterestRate:  decimal.NewFromFloat(0.10),
		ProcessingFee: decimal.NewFromInt(10000),
	}
}

// Validate checks the policy is usable.
func (p LoanPolicy) Validate() error {
	if p.InterestRate.IsNegative() {
		return fmt.Errorf("%w: interest rate must not be negative", ErrInvalidLoanPolicy)
	}
	if p.ProcessingFee.IsNegative() {
		return fmt.Errorf("%w: processing fee must not be negative", ErrInvalidLoanPolicy)
	}
	return nil
}

// Terms returns the interest and total to repay for a principal.
func (p LoanPolicy) Terms(principal decimal.Decimal) (interest, total decimal.Decimal) {
	interest = principal.Mul(p.InterestRate).Round(2)
	total = principal.Add(interest).Add(p.ProcessingFee)
	return interest, total
}

// Loan is cash lent to a borrower and its repayment state.
//
// Remaining always equals TotalToRepay - AmountPaid and Status is Completed
// exactly when Remaining is zero.
type Loan struct {
	ID            string
	BorrowerID    string
	PeriodID      string
	Principal     decimal.Decimal
	ProcessingFee decimal.Decimal
	Interest      decimal.Decimal
	TotalToRepay  decimal.Decimal
	AmountPaid    decimal.Decimal
	Remaining     decimal.Decimal
	Status        LoanStatus
	StartDate     time.Time
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Populated by read queries only.
	BorrowerName string
}

// NewLoan prices a new active loan.
func NewLoan(id, borrowerID, periodID string, principal decimal.Decimal, policy LoanPolicy, startDate time.Time, notes *string, now time.Time) (*Loan, error) {
	if err := ValidateAmount(principal); err != nil {
		return nil, err
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	interest, total := policy.Terms(principal)

	return &Loan{
		ID:            id,
		BorrowerID:    borrowerID,
		PeriodID:      periodID,
		Principal:     principal,
		ProcessingFee: policy.ProcessingFee,
		Interest:      interest,
		TotalToRepay:  total,
		AmountPaid:    decimal.Zero,
		Remaining:     total,
		Status:        LoanStatusActive,
		StartDate:     startDate,
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsActive reports whether the loan still has an outstanding balance.
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// ValidatePayment checks a repayment amount against the outstanding balance.
func (l *Loan) ValidatePayment(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if amount.GreaterThan(l.Remaining) {
		return fmt.Errorf("%w: amount %s, remaining %s", ErrExceedsRemaining, amount, l.Remaining)
	}
	return nil
}

// ApplyPayment records a repayment on the loan.
func (l *Loan) ApplyPayment(amount decimal.Decimal, now time.Time) error {
	if err := l.ValidatePayment(amount); err != nil {
		return err
	}

	l.AmountPaid = l.AmountPaid.Add(amount)
	l.Remaining = l.TotalToRepay.Sub(l.AmountPaid)
	l.Status = statusFor(l.Remaining)
	l.UpdatedAt = now

	return nil
}

// Reprice changes the principal of a loan nothing has been paid against yet.
func (l *Loan) Reprice(principal decimal.Decimal, policy LoanPolicy, now time.Time) error {
	if !l.AmountPaid.IsZero() {
		return ErrLoanHasPayments
	}
	if err := ValidateAmount(principal); err != nil {
		return err
	}
	if err := policy.Validate(); err != nil {
		return err
	}

	interest, total := policy.Terms(principal)
	l.Principal = principal
	l.ProcessingFee = policy.ProcessingFee
	l.Interest = interest
	l.TotalToRepay = total
	l.Remaining = total
	l.Status = statusFor(total)
	l.UpdatedAt = now

	return nil
}

func statusFor(remaining decimal.Decimal) LoanStatus {
	if remaining.IsZero() {
		return LoanStatusCompleted
	}
	return LoanStatusActive
}
