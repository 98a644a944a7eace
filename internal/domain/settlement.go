package domain

import "github.com/shopspring/decimal"

// Totals is the aggregate projection of a period's transactions.
type Totals struct {
	Receipts  decimal.Decimal
	Payments  decimal.Decimal
	CapitalIn decimal.Decimal
	Drawings  decimal.Decimal
	Closing   decimal.Decimal
}

// Equal reports whether two projections match amount for amount.
func (t Totals) Equal(o Totals) bool {
	return t.Receipts.Equal(o.Receipts) &&
		t.Payments.Equal(o.Payments) &&
		t.CapitalIn.Equal(o.CapitalIn) &&
		t.Drawings.Equal(o.Drawings) &&
		t.Closing.Equal(o.Closing)
}

// ComputeTotals derives a period's aggregates from its full transaction set:
//
//	closing = opening + receipts - expenses + capital in - drawings
func ComputeTotals(opening decimal.Decimal, receipts []*Receipt, expenses []*Expense, owner []*OwnerTransaction) Totals {
	t := Totals{
		Receipts:  decimal.Zero,
		Payments:  decimal.Zero,
		CapitalIn: decimal.Zero,
		Drawings:  decimal.Zero,
	}

	for _, r := range receipts {
		t.Receipts = t.Receipts.Add(r.Amount)
	}
	for _, e := range expenses {
		t.Payments = t.Payments.Add(e.Amount)
	}
	for _, o := range owner {
		switch o.Type {
		case OwnerTxCapitalIn:
			t.CapitalIn = t.CapitalIn.Add(o.Amount)
		case OwnerTxDrawing:
			t.Drawings = t.Drawings.Add(o.Amount)
		}
	}

	t.Closing = opening.
		Add(t.Receipts).
		Sub(t.Payments).
		Add(t.CapitalIn).
		Sub(t.Drawings)

	return t
}
