package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseSource tells whether an expense was entered by hand or booked by a
// loan issuance.
type ExpenseSource string

const (
	ExpenseSourceManual ExpenseSource = "manual"
	ExpenseSourceLoan   ExpenseSource = "loan"
)

// LoanIssuedDescription is the description of the expense booked for a loan.
const LoanIssuedDescription = "Loan issued"

// Expense is a cash outflow booked into a period.
type Expense struct {
	ID          string
	PeriodID    string
	Description string
	Amount      decimal.Decimal
	Source      ExpenseSource
	ReferenceID *string
	CreatedAt   time.Time
}

// NewLoanExpense returns the cash-out expense for an issued loan.
func NewLoanExpense(id string, loan *Loan, periodID string, now time.Time) *Expense {
	ref := loan.ID
	return &Expense{
		ID:          id,
		PeriodID:    periodID,
		Description: LoanIssuedDescription,
		Amount:      loan.Principal,
		Source:      ExpenseSourceLoan,
		ReferenceID: &ref,
		CreatedAt:   now,
	}
}

// Validate checks the expense fields.
func (e *Expense) Validate() error {
	if e.PeriodID == "" {
		return ErrMissingIdentifier
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrMissingDescription
	}
	if e.Source != ExpenseSourceManual && e.Source != ExpenseSourceLoan {
		return ErrInvalid
	}
	return ValidateAmount(e.Amount)
}
