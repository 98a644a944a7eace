package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerTxType is the direction of an owner transaction.
type OwnerTxType string

const (
	OwnerTxCapitalIn OwnerTxType = "CAPITAL_IN"
	OwnerTxDrawing   OwnerTxType = "DRAWING"
)

// ParseOwnerTxType converts a string to an OwnerTxType.
func ParseOwnerTxType(s string) (OwnerTxType, error) {
	switch OwnerTxType(s) {
	case OwnerTxCapitalIn, OwnerTxDrawing:
		return OwnerTxType(s), nil
	}
	return "", ErrInvalidOwnerTxType
}

// OwnerTransaction is capital the owner puts into or draws from the business.
type OwnerTransaction struct {
	ID        string
	PeriodID  string
	Amount    decimal.Decimal
	Type      OwnerTxType
	Note      *string
	CreatedAt time.Time
}

// Validate checks the owner transaction fields.
func (o *OwnerTransaction) Validate() error {
	if o.PeriodID == "" {
		return ErrMissingIdentifier
	}
	if _, err := ParseOwnerTxType(string(o.Type)); err != nil {
		return err
	}
	return ValidateAmount(o.Amount)
}
