package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PeriodResponse represents a cashbook period in API responses.
type PeriodResponse struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalReceipts  decimal.Decimal `json:"total_receipts"`
	TotalPayments  decimal.Decimal `json:"total_payments"`
	TotalCapitalIn decimal.Decimal `json:"total_capital_in"`
	TotalDrawings  decimal.Decimal `json:"total_drawings"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Locked         bool            `json:"locked"`
	LockedAt       *time.Time      `json:"locked_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PeriodFromDomain converts a domain period to response.
func PeriodFromDomain(p *domain.Period) *PeriodResponse {
	return &PeriodResponse{
		ID:             p.ID,
		Date:           p.DateString(),
		OpeningBalance: p.OpeningBalance,
		TotalReceipts:  p.TotalReceipts,
		TotalPayments:  p.TotalPayments,
		TotalCapitalIn: p.TotalCapitalIn,
		TotalDrawings:  p.TotalDrawings,
		ClosingBalance: p.ClosingBalance,
		Locked:         p.Locked,
		LockedAt:       p.LockedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// PeriodsFromDomain converts domain periods to responses.
func PeriodsFromDomain(periods []*domain.Period) []*PeriodResponse {
	result := make([]*PeriodResponse, len(periods))
	for i, p := range periods {
		result[i] = PeriodFromDomain(p)
	}
	return result
}

// ListPeriodsResponse represents a page of periods.
type ListPeriodsResponse struct {
	Periods []*PeriodResponse `json:"periods"`
	Total   int64             `json:"total"`
}

// ReceiptResponse represents a receipt in API responses.
type ReceiptResponse struct {
	ID            string          `json:"id"`
	LoanID        string          `json:"loan_id"`
	PeriodID      string          `json:"period_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAt        time.Time       `json:"paid_at"`
	Notes         *string         `json:"notes,omitempty"`
	BorrowerName  string          `json:"borrower_name,omitempty"`
	BorrowerPhone string          `json:"borrower_phone,omitempty"`
}

// ReceiptFromDomain converts a domain receipt to response.
func ReceiptFromDomain(r *domain.Receipt) *ReceiptResponse {
	return &ReceiptResponse{
		ID:            r.ID,
		LoanID:        r.LoanID,
		PeriodID:      r.PeriodID,
		Amount:        r.Amount,
		PaidAt:        r.PaidAt,
		Notes:         r.Notes,
		BorrowerName:  r.BorrowerName,
		BorrowerPhone: r.BorrowerPhone,
	}
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	PeriodID    string          `json:"period_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source"`
	ReferenceID *string         `json:"reference_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExpenseFromDomain converts a domain expense to response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		PeriodID:    e.PeriodID,
		Description: e.Description,
		Amount:      e.Amount,
		Source:      string(e.Source),
		ReferenceID: e.ReferenceID,
		CreatedAt:   e.CreatedAt,
	}
}

// OwnerTransactionResponse represents an owner transaction in API responses.
type OwnerTransactionResponse struct {
	ID        string          `json:"id"`
	PeriodID  string          `json:"period_id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Note      *string         `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// OwnerTransactionFromDomain converts a domain owner transaction to response.
func OwnerTransactionFromDomain(o *domain.OwnerTransaction) *OwnerTransactionResponse {
	return &OwnerTransactionResponse{
		ID:        o.ID,
		PeriodID:  o.PeriodID,
		Type:      string(o.Type),
		Amount:    o.Amount,
		Note:      o.Note,
		CreatedAt: o.CreatedAt,
	}
}

// PeriodDetailResponse is a period with its transactions.
type PeriodDetailResponse struct {
	Period            *PeriodResponse             `json:"period"`
	Receipts          []*ReceiptResponse          `json:"receipts"`
	Expenses          []*ExpenseResponse          `json:"expenses"`
	OwnerTransactions []*OwnerTransactionResponse `json:"owner_transactions"`
}

// PeriodDetailFromSnapshot converts a period snapshot to response.
func PeriodDetailFromSnapshot(s *usecase.PeriodSnapshot) *PeriodDetailResponse {
	resp := &PeriodDetailResponse{
		Period:            PeriodFromDomain(s.Period),
		Receipts:          make([]*ReceiptResponse, len(s.Receipts)),
		Expenses:          make([]*ExpenseResponse, len(s.Expenses)),
		OwnerTransactions: make([]*OwnerTransactionResponse, len(s.OwnerTransactions)),
	}
	for i, r := range s.Receipts {
		resp.Receipts[i] = ReceiptFromDomain(r)
	}
	for i, e := range s.Expenses {
		resp.Expenses[i] = ExpenseFromDomain(e)
	}
	for i, o := range s.OwnerTransactions {
		resp.OwnerTransactions[i] = OwnerTransactionFromDomain(o)
	}
	return resp
}

// BorrowerResponse represents a borrower in API responses.
type BorrowerResponse struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	NationalID *string   `json:"national_id,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BorrowerFromDomain converts a domain borrower to response.
func BorrowerFromDomain(b *domain.Borrower) *BorrowerResponse {
	return &BorrowerResponse{
		ID:         b.ID,
		FullName:   b.FullName,
		Phone:      b.Phone,
		NationalID: b.NationalID,
		Notes:      b.Notes,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// ListBorrowersResponse represents a page of borrowers.
type ListBorrowersResponse struct {
	Borrowers []*BorrowerResponse `json:"borrowers"`
	Total     int64               `json:"total"`
}

// BorrowersFromDomain converts domain borrowers to responses.
func BorrowersFromDomain(borrowers []*domain.Borrower) []*BorrowerResponse {
	result := make([]*BorrowerResponse, len(borrowers))
	for i, b := range borrowers {
		result[i] = BorrowerFromDomain(b)
	}
	return result
}

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID            string          `json:"id"`
	BorrowerID    string          `json:"borrower_id"`
	BorrowerName  string          `json:"borrower_name,omitempty"`
	PeriodID      string          `json:"period_id"`
	Principal     decimal.Decimal `json:"principal"`
	ProcessingFee decimal.Decimal `json:"processing_fee"`
	Interest      decimal.Decimal `json:"interest"`
	TotalToRepay  decimal.Decimal `json:"total_to_repay"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Remaining     decimal.Decimal `json:"remaining"`
	Status        string          `json:"status"`
	StartDate     string          `json:"start_date"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// LoanFromDomain converts a domain loan to response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	return &LoanResponse{
		ID:            l.ID,
		BorrowerID:    l.BorrowerID,
		BorrowerName:  l.BorrowerName,
		PeriodID:      l.PeriodID,
		Principal:     l.Principal,
		ProcessingFee: l.ProcessingFee,
		Interest:      l.Interest,
		TotalToRepay:  l.TotalToRepay,
		AmountPaid:    l.AmountPaid,
		Remaining:     l.Remaining,
		Status:        string(l.Status),
		StartDate:     l.StartDate.Format(domain.DateLayout),
		Notes:         l.Notes,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.Loan) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}
	return result
}

// ListLoansResponse represents a page of loans.
type ListLoansResponse struct {
	Loans []*LoanResponse `json:"loans"`
	Total int64           `json:"total"`
}

// PaymentResponse is the outcome of a repayment.
type PaymentResponse struct {
	Loan    *LoanResponse    `json:"loan"`
	Receipt *ReceiptResponse `json:"receipt"`
	Period  *PeriodResponse  `json:"period"`
}

// PaymentFromResult converts a payment result to response.
func PaymentFromResult(r *usecase.PaymentResult) *PaymentResponse {
	return &PaymentResponse{
		Loan:    LoanFromDomain(r.Loan),
		Receipt: ReceiptFromDomain(r.Receipt),
		Period:  PeriodFromDomain(r.Period),
	}
}

// ExpenseResultResponse is a recorded expense and the settled period.
type ExpenseResultResponse struct {
	Expense *ExpenseResponse `json:"expense"`
	Period  *PeriodResponse  `json:"period"`
}

// OwnerTransactionResultResponse is a recorded owner transaction and the
// settled period.
type OwnerTransactionResultResponse struct {
	Transaction *OwnerTransactionResponse `json:"transaction"`
	Period      *PeriodResponse           `json:"period"`
}

// TotalsResponse is one set of period aggregates.
type TotalsResponse struct {
	Receipts  decimal.Decimal `json:"receipts"`
	Payments  decimal.Decimal `json:"payments"`
	CapitalIn decimal.Decimal `json:"capital_in"`
	Drawings  decimal.Decimal `json:"drawings"`
	Closing   decimal.Decimal `json:"closing"`
}

func totalsFromDomain(t domain.Totals) TotalsResponse {
	return TotalsResponse{
		Receipts:  t.Receipts,
		Payments:  t.Payments,
		CapitalIn: t.CapitalIn,
		Drawings:  t.Drawings,
		Closing:   t.Closing,
	}
}

// VerificationResponse compares stored and derived aggregates.
type VerificationResponse struct {
	PeriodID   string         `json:"period_id"`
	Date       string         `json:"date"`
	Locked     bool           `json:"locked"`
	Consistent bool           `json:"consistent"`
	Stored     TotalsResponse `json:"stored"`
	Derived    TotalsResponse `json:"derived"`
	CheckedAt  time.Time      `json:"checked_at"`
}

// VerificationFromUseCase converts a verification to response.
func VerificationFromUseCase(v *usecase.Verification) *VerificationResponse {
	return &VerificationResponse{
		PeriodID:   v.PeriodID,
		Date:       v.Date.Format(domain.DateLayout),
		Locked:     v.Locked,
		Consistent: v.Consistent,
		Stored:     totalsFromDomain(v.Stored),
		Derived:    totalsFromDomain(v.Derived),
		CheckedAt:  v.CheckedAt,
	}
}

// ReportLineResponse is one line of a period report.
type ReportLineResponse struct {
	Kind        string          `json:"kind"`
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Party       string          `json:"party,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Direction   string          `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	At          time.Time       `json:"at"`
}

// ReportResponse is the read-only snapshot of a locked period.
type ReportResponse struct {
	Period      *PeriodResponse       `json:"period"`
	Currency    string                `json:"currency"`
	Lines       []*ReportLineResponse `json:"lines"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// ReportFromDomain converts a report to response.
func ReportFromDomain(r *domain.Report) *ReportResponse {
	lines := make([]*ReportLineResponse, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = &ReportLineResponse{
			Kind:        string(l.Kind),
			ID:          l.ID,
			Description: l.Description,
			Party:       l.Party,
			Phone:       l.Phone,
			Direction:   l.Direction,
			Amount:      l.Amount,
			At:          l.At,
		}
	}
	return &ReportResponse{
		Period:      PeriodFromDomain(r.Period),
		Currency:    r.Currency,
		Lines:       lines,
		GeneratedAt: r.GeneratedAt,
	}
}

// PortfolioResponse summarizes the loan book.
type PortfolioResponse struct {
	Borrowers        int64           `json:"borrowers"`
	Loans            int64           `json:"loans"`
	ActiveLoans      int64           `json:"active_loans"`
	CompletedLoans   int64           `json:"completed_loans"`
	TotalPrincipal   decimal.Decimal `json:"total_principal"`
	TotalRepaid      decimal.Decimal `json:"total_repaid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// PortfolioFromDomain converts a domain portfolio to response.
func PortfolioFromDomain(p *domain.Portfolio) *PortfolioResponse {
	return &PortfolioResponse{
		Borrowers:        p.Borrowers,
		Loans:            p.Loans,
		ActiveLoans:      p.ActiveLoans,
		CompletedLoans:   p.CompletedLoans,
		TotalPrincipal:   p.TotalPrincipal,
		TotalRepaid:      p.TotalRepaid,
		TotalOutstanding: p.TotalOutstanding,
	}
}
