package domain

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// ReportLineKind is the human label of a report line.
type ReportLineKind string

const (
	ReportLineReceipt   ReportLineKind = "Receipt"
	ReportLineExpense   ReportLineKind = "Expense"
	ReportLineCapitalIn ReportLineKind = "Capital In"
	ReportLineDrawing   ReportLineKind = "Drawing"
)

// Cash flow direction of a report line.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// ReportLine is one transaction of a locked period, resolved for display.
type ReportLine struct {
	Kind        ReportLineKind
	ID          string
	Description string
	Party       string
	Phone       string
	Direction   string
	Amount      decimal.Decimal
	At          time.Time
}

// Report is the read-only snapshot of a locked period.
type Report struct {
	Period      *Period
	Currency    string
	Lines       []ReportLine
	GeneratedAt time.Time
}

// BuildReport merges a locked period's three transaction streams into one
// timestamp-ordered list.
func BuildReport(period *Period, receipts []*Receipt, expenses []*Expense, owner []*OwnerTransaction, currency string, now time.Time) (*Report, error) {
	if !period.Locked {
		return nil, ErrNotLocked
	}

	lines := make([]ReportLine, 0, len(receipts)+len(expenses)+len(owner))

	for _, r := range receipts {
		desc := "Loan repayment"
		if r.Notes != nil && *r.Notes != "" {
			desc = *r.Notes
		}
		lines = append(lines, ReportLine{
			Kind:        ReportLineReceipt,
			ID:          r.ID,
			Description: desc,
			Party:       r.BorrowerName,
			Phone:       r.BorrowerPhone,
			Direction:   DirectionIn,
			Amount:      r.Amount,
			At:          r.PaidAt,
		})
	}

	for _, e := range expenses {
		lines = append(lines, ReportLine{
			Kind:        ReportLineExpense,
			ID:          e.ID,
			Description: e.Description,
			Direction:   DirectionOut,
			Amount:      e.Amount,
			At:          e.CreatedAt,
		})
	}

	for _, o := range owner {
		kind, dir := ReportLineCapitalIn, DirectionIn
		if o.Type == OwnerTxDrawing {
			kind, dir = ReportLineDrawing, DirectionOut
		}
		desc := string(kind)
		if o.Note != nil && *o.Note != "" {
			desc = *o.Note
		}
		lines = append(lines, ReportLine{
			Kind:        kind,
			ID:          o.ID,
			Description: desc,
			Direction:   dir,
			Amount:      o.Amount,
			At:          o.CreatedAt,
		})
	}

	slices.SortStableFunc(lines, func(a, b ReportLine) int {
		if c := a.At.Compare(b.At); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return &Report{
		Period:      period,
		Currency:    currency,
		Lines:       lines,
		GeneratedAt: now,
	}, nil
}
