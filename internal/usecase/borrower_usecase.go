package usecase

import (
	"context"
	"strings"

	"github.com/iho/cashbook/internal/domain"
)

// BorrowerUseCase manages borrower master records.
type BorrowerUseCase struct {
	deps Deps
}

// NewBorrowerUseCase creates a new BorrowerUseCase.
func NewBorrowerUseCase(deps Deps) *BorrowerUseCase {
	return &BorrowerUseCase{deps: deps.withDefaults()}
}

// CreateBorrowerInput represents input for registering a borrower.
type CreateBorrowerInput struct {
	FullName   string
	Phone      string
	NationalID *string
	Notes      *string
}

// CreateBorrower registers a borrower.
func (uc *BorrowerUseCase) CreateBorrower(ctx context.Context, input CreateBorrowerInput) (*domain.Borrower, error) {
	now := uc.deps.Clock.Now()

	borrower := &domain.Borrower{
		ID:         uc.deps.IDGen.Generate(),
		FullName:   strings.TrimSpace(input.FullName),
		Phone:      strings.TrimSpace(input.Phone),
		NationalID: input.NationalID,
		Notes:      input.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := borrower.Validate(); err != nil {
		return nil, err
	}

	if err := uc.deps.Repos.Borrowers.Create(ctx, borrower); err != nil {
		return nil, err
	}

	return borrower, nil
}

// GetBorrower retrieves a borrower by ID.
func (uc *BorrowerUseCase) GetBorrower(ctx context.Context, id string) (*domain.Borrower, error) {
	return uc.deps.Repos.Borrowers.GetByID(ctx, id)
}

// ListBorrowersInput represents input for listing borrowers.
type ListBorrowersInput struct {
	Limit  int
	Offset int
}

// ListBorrowers lists borrowers by name.
func (uc *BorrowerUseCase) ListBorrowers(ctx context.Context, input ListBorrowersInput) ([]*domain.Borrower, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.deps.Repos.Borrowers.List(ctx, limit, offset)
}

// UpdateBorrowerInput is a partial borrower correction. Nil fields are
// unchanged.
type UpdateBorrowerInput struct {
	FullName   *string
	Phone      *string
	NationalID *string
	Notes      *string
}

// UpdateBorrower applies a corrective edit.
func (uc *BorrowerUseCase) UpdateBorrower(ctx context.Context, id string, input UpdateBorrowerInput) (*domain.Borrower, error) {
	borrower, err := uc.deps.Repos.Borrowers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		borrower.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		borrower.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.NationalID != nil {
		borrower.NationalID = input.NationalID
	}
	if input.Notes != nil {
		borrower.Notes = input.Notes
	}
	borrower.UpdatedAt = uc.deps.Clock.Now()

	if err := borrower.Validate(); err != nil {
		return nil, err
	}

	if err := uc.deps.Repos.Borrowers.Update(ctx, borrower); err != nil {
		return nil, err
	}

	return borrower, nil
}

// DeleteBorrower hard-deletes a borrower that has never had a loan.
func (uc *BorrowerUseCase) DeleteBorrower(ctx context.Context, id string) error {
	return runInTx(ctx, uc.deps, func(ctx context.Context, tx Transaction) error {
		if _, err := uc.deps.Repos.Borrowers.GetByIDForUpdate(ctx, tx, id); err != nil {
			return err
		}

		n, err := uc.deps.Repos.Loans.CountByBorrower(ctx, tx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrBorrowerHasLoans
		}

		return uc.deps.Repos.Borrowers.Delete(ctx, tx, id)
	})
}
