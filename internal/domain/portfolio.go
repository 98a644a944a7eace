package domain

import "github.com/shopspring/decimal"

// Portfolio summarizes every loan on the books.
type Portfolio struct {
	Borrowers        int64
	Loans            int64
	ActiveLoans      int64
	CompletedLoans   int64
	TotalPrincipal   decimal.Decimal
	TotalRepaid      decimal.Decimal
	TotalOutstanding decimal.Decimal
}

// Add counts a loan into the summary.
func (p *Portfolio) Add(l *Loan) {
	p.Loans++
	if l.IsActive() {
		p.ActiveLoans++
	} else {
		p.CompletedLoans++
	}
	p.TotalPrincipal = p.TotalPrincipal.Add(l.Principal)
	p.TotalRepaid = p.TotalRepaid.Add(l.AmountPaid)
	p.TotalOutstanding = p.TotalOutstanding.Add(l.Remaining)
}
