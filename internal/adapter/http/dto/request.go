package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// CreateBorrowerRequest represents a request to register a borrower.
type CreateBorrowerRequest struct {
	FullName   string  `json:"full_name"`
	Phone      string  `json:"phone"`
	NationalID *string `json:"national_id,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBorrowerRequest) ToUseCaseInput() usecase.CreateBorrowerInput {
	return usecase.CreateBorrowerInput{
		FullName:   r.FullName,
		Phone:      r.Phone,
		NationalID: r.NationalID,
		Notes:      r.Notes,
	}
}

// UpdateBorrowerRequest is a partial borrower edit.
type UpdateBorrowerRequest struct {
	FullName   *string `json:"full_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	NationalID *string `json:"national_id,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateBorrowerRequest) ToUseCaseInput() usecase.UpdateBorrowerInput {
	return usecase.UpdateBorrowerInput{
		FullName:   r.FullName,
		Phone:      r.Phone,
		NationalID: r.NationalID,
		Notes:      r.Notes,
	}
}

// IssueLoanRequest represents a request to issue a loan.
type IssueLoanRequest struct {
	BorrowerID string          `json:"borrower_id"`
	Principal  decimal.Decimal `json:"principal"`
	Notes      *string         `json:"notes,omitempty"`
	// Date books the cash-out into that day's period, YYYY-MM-DD.
	Date *string `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *IssueLoanRequest) ToUseCaseInput() (usecase.IssueLoanInput, error) {
	asOf, err := parseOptionalDate(r.Date)
	if err != nil {
		return usecase.IssueLoanInput{}, err
	}
	return usecase.IssueLoanInput{
		BorrowerID: r.BorrowerID,
		Principal:  r.Principal,
		Notes:      r.Notes,
		AsOf:       asOf,
	}, nil
}

// UpdateLoanRequest is a partial loan correction.
type UpdateLoanRequest struct {
	Principal *decimal.Decimal `json:"principal,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateLoanRequest) ToUseCaseInput() usecase.UpdateLoanInput {
	return usecase.UpdateLoanInput{
		Principal: r.Principal,
		Notes:     r.Notes,
	}
}

// PaymentRequest represents a loan repayment.
type PaymentRequest struct {
	LoanID string          `json:"loan_id"`
	Amount decimal.Decimal `json:"amount"`
	Notes  *string         `json:"notes,omitempty"`
	Date   *string         `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PaymentRequest) ToUseCaseInput() (usecase.PaymentInput, error) {
	asOf, err := parseOptionalDate(r.Date)
	if err != nil {
		return usecase.PaymentInput{}, err
	}
	return usecase.PaymentInput{
		LoanID: r.LoanID,
		Amount: r.Amount,
		Notes:  r.Notes,
		AsOf:   asOf,
	}, nil
}

// ExpenseRequest represents a manual expense.
type ExpenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input for the given period.
func (r *ExpenseRequest) ToUseCaseInput(periodID string) usecase.AddExpenseInput {
	return usecase.AddExpenseInput{
		PeriodID:    periodID,
		Description: r.Description,
		Amount:      r.Amount,
	}
}

// OwnerTransactionRequest represents capital in or a drawing.
type OwnerTransactionRequest struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Note   *string         `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input for the given period.
func (r *OwnerTransactionRequest) ToUseCaseInput(periodID string) (usecase.AddOwnerTransactionInput, error) {
	typ, err := domain.ParseOwnerTxType(r.Type)
	if err != nil {
		return usecase.AddOwnerTransactionInput{}, err
	}
	return usecase.AddOwnerTransactionInput{
		PeriodID: periodID,
		Type:     typ,
		Amount:   r.Amount,
		Note:     r.Note,
	}, nil
}

// LockRequest locks the period of Date, or today's when empty.
type LockRequest struct {
	Date *string `json:"date,omitempty"`
}

// ParsedDate returns the requested date, nil for today.
func (r *LockRequest) ParsedDate() (*time.Time, error) {
	return parseOptionalDate(r.Date)
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
