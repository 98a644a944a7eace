package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of a period date.
const DateLayout = "2006-01-02"

// Period is the cashbook for one calendar day.
//
// The total and closing fields are projections of the period's transaction
// rows. They are written only through ApplyTotals.
type Period struct {
	ID             string
	Date           time.Time
	OpeningBalance decimal.Decimal
	TotalReceipts  decimal.Decimal
	TotalPayments  decimal.Decimal
	TotalCapitalIn decimal.Decimal
	TotalDrawings  decimal.Decimal
	ClosingBalance decimal.Decimal
	Locked         bool
	LockedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewPeriod opens a period carrying forward the given opening balance.
func NewPeriod(id string, date time.Time, opening decimal.Decimal, now time.Time) *Period {
	return &Period{
		ID:             id,
		Date:           date,
		OpeningBalance: opening,
		TotalReceipts:  decimal.Zero,
		TotalPayments:  decimal.Zero,
		TotalCapitalIn: decimal.Zero,
		TotalDrawings:  decimal.Zero,
		ClosingBalance: opening,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// EnsureWritable fails with ErrPeriodLocked once the period is frozen.
func (p *Period) EnsureWritable() error {
	if p.Locked {
		return ErrPeriodLocked
	}
	return nil
}

// Lock freezes the period. Locking is terminal.
func (p *Period) Lock(at time.Time) error {
	if p.Locked {
		return ErrAlreadyLocked
	}
	p.Locked = true
	p.LockedAt = &at
	p.UpdatedAt = at
	return nil
}

// Totals returns the stored aggregate projection.
func (p *Period) Totals() Totals {
	return Totals{
		Receipts:  p.TotalReceipts,
		Payments:  p.TotalPayments,
		CapitalIn: p.TotalCapitalIn,
		Drawings:  p.TotalDrawings,
		Closing:   p.ClosingBalance,
	}
}

// ApplyTotals overwrites the aggregate projection.
func (p *Period) ApplyTotals(t Totals, now time.Time) {
	p.TotalReceipts = t.Receipts
	p.TotalPayments = t.Payments
	p.TotalCapitalIn = t.CapitalIn
	p.TotalDrawings = t.Drawings
	p.ClosingBalance = t.Closing
	p.UpdatedAt = now
}

// DateString formats the period date as YYYY-MM-DD.
func (p *Period) DateString() string {
	return p.Date.Format(DateLayout)
}

// CalendarDate returns the calendar day of t in loc as a UTC midnight.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}
