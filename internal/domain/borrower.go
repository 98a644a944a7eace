package domain

import (
	"strings"
	"time"
)

// Borrower is the identity record a loan is issued to.
type Borrower struct {
	ID         string
	FullName   string
	Phone      string
	NationalID *string
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the required borrower fields.
func (b *Borrower) Validate() error {
	if strings.TrimSpace(b.FullName) == "" {
		return ErrMissingBorrowerName
	}
	if strings.TrimSpace(b.Phone) == "" {
		return ErrMissingBorrowerPhone
	}
	return nil
}
