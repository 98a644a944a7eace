package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/usecase"
)

// CashService defines the behavior needed by CashHandler.
type CashService interface {
	AddExpense(ctx context.Context, input usecase.AddExpenseInput) (*usecase.ExpenseResult, error)
	AddOwnerTransaction(ctx context.Context, input usecase.AddOwnerTransactionInput) (*usecase.OwnerTransactionResult, error)
}

// CashHandler books expenses and owner transactions into a period.
type CashHandler struct {
	cashUC CashService
}

// NewCashHandler creates a new CashHandler.
func NewCashHandler(cashUC CashService) *CashHandler {
	return &CashHandler{cashUC: cashUC}
}

// AddExpense records a manual expense in the period of the path.
func (h *CashHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpenseRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	res, err := h.cashUC.AddExpense(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to record expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseResultResponse{
		Expense: dto.ExpenseFromDomain(res.Expense),
		Period:  dto.PeriodFromDomain(res.Period),
	})
}

// AddOwnerTransaction records capital in or a drawing in the period of the
// path.
func (h *CashHandler) AddOwnerTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.OwnerTransactionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid owner transaction", err.Error())
		return
	}

	res, err := h.cashUC.AddOwnerTransaction(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to record owner transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OwnerTransactionResultResponse{
		Transaction: dto.OwnerTransactionFromDomain(res.Transaction),
		Period:      dto.PeriodFromDomain(res.Period),
	})
}
