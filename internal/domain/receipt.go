package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is a loan repayment booked into a period.
type Receipt struct {
	ID        string
	LoanID    string
	PeriodID  string
	Amount    decimal.Decimal
	PaidAt    time.Time
	Notes     *string
	CreatedAt time.Time

	// Populated by read queries only.
	BorrowerName  string
	BorrowerPhone string
}

// Validate checks the receipt fields.
func (r *Receipt) Validate() error {
	if r.LoanID == "" || r.PeriodID == "" {
		return ErrMissingIdentifier
	}
	return ValidateAmount(r.Amount)
}
