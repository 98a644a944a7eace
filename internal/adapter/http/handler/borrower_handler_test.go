package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

type borrowerServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateBorrowerInput) (*domain.Borrower, error)
	getFn    func(ctx context.Context, id string) (*domain.Borrower, error)
	listFn   func(ctx context.Context, input usecase.ListBorrowersInput) ([]*domain.Borrower, error)
	updateFn func(ctx context.Context, id string, input usecase.UpdateBorrowerInput) (*domain.Borrower, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *borrowerServiceStub) CreateBorrower(ctx context.Context, input usecase.CreateBorrowerInput) (*domain.Borrower, error) {
	return s.createFn(ctx, input)
}

func (s *borrowerServiceStub) GetBorrower(ctx context.Context, id string) (*domain.Borrower, error) {
	return s.getFn(ctx, id)
}

func (s *borrowerServiceStub) ListBorrowers(ctx context.Context, input usecase.ListBorrowersInput) ([]*domain.Borrower, error) {
	return s.listFn(ctx, input)
}

func (s *borrowerServiceStub) UpdateBorrower(ctx context.Context, id string, input usecase.UpdateBorrowerInput) (*domain.Borrower, error) {
	return s.updateFn(ctx, id, input)
}

func (s *borrowerServiceStub) DeleteBorrower(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestBorrowerHandler_Create(t *testing.T) {
	h := NewBorrowerHandler(&borrowerServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateBorrowerInput) (*domain.Borrower, error) {
			if input.FullName == "" {
				return nil, domain.ErrMissingBorrowerName
			}
			return &domain.Borrower{ID: "b-1", FullName: input.FullName, Phone: input.Phone}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/borrowers", bytes.NewBufferString(`{"full_name":"Alice","phone":"0788"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BorrowerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "b-1" || resp.FullName != "Alice" {
		t.Fatalf("unexpected borrower: %+v", resp)
	}

	rec = httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/borrowers", bytes.NewBufferString(`{"phone":"0788"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBorrowerHandler_Delete_WithLoans(t *testing.T) {
	h := NewBorrowerHandler(&borrowerServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			return domain.ErrBorrowerHasLoans
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/borrowers/b-1", nil), "id", "b-1")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestBorrowerHandler_GetAndList(t *testing.T) {
	h := NewBorrowerHandler(&borrowerServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Borrower, error) {
			return nil, domain.ErrBorrowerNotFound
		},
		listFn: func(ctx context.Context, input usecase.ListBorrowersInput) ([]*domain.Borrower, error) {
			if input.Limit != 50 {
				t.Fatalf("expected default limit 50, got %d", input.Limit)
			}
			return []*domain.Borrower{{ID: "b-1", FullName: "Alice"}}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/borrowers/b-9", nil), "id", "b-9")
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/borrowers", nil))
	var resp dto.ListBorrowersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected one borrower, got %+v", resp)
	}
}
