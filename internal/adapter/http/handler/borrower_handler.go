package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// BorrowerService defines the behavior needed by BorrowerHandler.
type BorrowerService interface {
	CreateBorrower(ctx context.Context, input usecase.CreateBorrowerInput) (*domain.Borrower, error)
	GetBorrower(ctx context.Context, id string) (*domain.Borrower, error)
	ListBorrowers(ctx context.Context, input usecase.ListBorrowersInput) ([]*domain.Borrower, error)
	UpdateBorrower(ctx context.Context, id string, input usecase.UpdateBorrowerInput) (*domain.Borrower, error)
	DeleteBorrower(ctx context.Context, id string) error
}

// BorrowerHandler handles borrower requests.
type BorrowerHandler struct {
	borrowerUC BorrowerService
}

// NewBorrowerHandler creates a new BorrowerHandler.
func NewBorrowerHandler(borrowerUC BorrowerService) *BorrowerHandler {
	return &BorrowerHandler{borrowerUC: borrowerUC}
}

// Create registers a borrower.
func (h *BorrowerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBorrowerRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	borrower, err := h.borrowerUC.CreateBorrower(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create borrower", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BorrowerFromDomain(borrower))
}

// Get retrieves a borrower by ID.
func (h *BorrowerHandler) Get(w http.ResponseWriter, r *http.Request) {
	borrower, err := h.borrowerUC.GetBorrower(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get borrower", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BorrowerFromDomain(borrower))
}

// List lists borrowers by name.
func (h *BorrowerHandler) List(w http.ResponseWriter, r *http.Request) {
	borrowers, err := h.borrowerUC.ListBorrowers(r.Context(), usecase.ListBorrowersInput{
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list borrowers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListBorrowersResponse{
		Borrowers: dto.BorrowersFromDomain(borrowers),
		Total:     int64(len(borrowers)),
	})
}

// Update applies a partial borrower edit.
func (h *BorrowerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBorrowerRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	borrower, err := h.borrowerUC.UpdateBorrower(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update borrower", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BorrowerFromDomain(borrower))
}

// Delete removes a borrower that never had a loan.
func (h *BorrowerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.borrowerUC.DeleteBorrower(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete borrower", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
