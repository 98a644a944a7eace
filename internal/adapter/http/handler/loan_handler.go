package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	IssueLoan(ctx context.Context, input usecase.IssueLoanInput) (*domain.Loan, error)
	ApplyPayment(ctx context.Context, input usecase.PaymentInput) (*usecase.PaymentResult, error)
	UpdateLoan(ctx context.Context, id string, input usecase.UpdateLoanInput) (*domain.Loan, error)
	DeleteLoan(ctx context.Context, id string) error
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	ListLoans(ctx context.Context, filter usecase.LoanFilter) ([]*domain.Loan, error)
	Portfolio(ctx context.Context) (*domain.Portfolio, error)
}

// LoanHandler handles loan and repayment requests.
type LoanHandler struct {
	loanUC LoanService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService) *LoanHandler {
	return &LoanHandler{loanUC: loanUC}
}

// Create issues a loan.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueLoanRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	loan, err := h.loanUC.IssueLoan(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to issue loan", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Pay applies a repayment and books its receipt.
func (h *LoanHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	res, err := h.loanUC.ApplyPayment(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to apply payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromResult(res))
}

// Get retrieves a loan by ID.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	loan, err := h.loanUC.GetLoan(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get loan", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// List lists loans, optionally by ?borrower_id= and ?status=.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.LoanFilter{
		BorrowerID: r.URL.Query().Get("borrower_id"),
		Limit:      parseIntQuery(r, "limit", 20),
		Offset:     parseIntQuery(r, "offset", 0),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status, err := domain.ParseLoanStatus(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid status", err.Error())
			return
		}
		filter.Status = status
	}

	loans, err := h.loanUC.ListLoans(r.Context(), filter)
	if err != nil {
		writeDomainError(w, "failed to list loans", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListLoansResponse{
		Loans: dto.LoansFromDomain(loans),
		Total: int64(len(loans)),
	})
}

// Summary reports loan book totals.
func (h *LoanHandler) Summary(w http.ResponseWriter, r *http.Request) {
	p, err := h.loanUC.Portfolio(r.Context())
	if err != nil {
		writeDomainError(w, "failed to summarize loans", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PortfolioFromDomain(p))
}

// Update corrects a loan's principal or notes.
func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateLoanRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.UpdateLoan(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update loan", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Delete removes a loan nothing has been repaid against.
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.loanUC.DeleteLoan(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete loan", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
