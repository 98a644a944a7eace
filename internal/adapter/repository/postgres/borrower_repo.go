package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbook/internal/usecase"
)

// BorrowerRepository implements usecase.BorrowerRepository.
type BorrowerRepository struct {
	queries *generated.Queries
}

// NewBorrowerRepository creates a new BorrowerRepository.
func NewBorrowerRepository(db generated.DBTX) *BorrowerRepository {
	return &BorrowerRepository{queries: generated.New(db)}
}

// Create inserts a borrower.
func (r *BorrowerRepository) Create(ctx context.Context, b *domain.Borrower) error {
	return r.queries.CreateBorrower(ctx, generated.CreateBorrowerParams{
		ID:         b.ID,
		FullName:   b.FullName,
		Phone:      b.Phone,
		NationalID: stringToPgText(b.NationalID),
		Notes:      stringToPgText(b.Notes),
		CreatedAt:  timeToPgTimestamptz(b.CreatedAt),
		UpdatedAt:  timeToPgTimestamptz(b.UpdatedAt),
	})
}

// GetByID retrieves a borrower by ID.
func (r *BorrowerRepository) GetByID(ctx context.Context, id string) (*domain.Borrower, error) {
	row, err := r.queries.GetBorrowerByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBorrowerNotFound
		}
		return nil, err
	}
	return rowToBorrower(row), nil
}

// GetByIDForUpdate retrieves a borrower with a FOR UPDATE lock.
func (r *BorrowerRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Borrower, error) {
	row, err := queriesFor(tx, r.queries).GetBorrowerByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBorrowerNotFound
		}
		return nil, err
	}
	return rowToBorrower(row), nil
}

// Update overwrites the mutable borrower fields.
func (r *BorrowerRepository) Update(ctx context.Context, b *domain.Borrower) error {
	n, err := r.queries.UpdateBorrower(ctx, generated.UpdateBorrowerParams{
		ID:         b.ID,
		FullName:   b.FullName,
		Phone:      b.Phone,
		NationalID: stringToPgText(b.NationalID),
		Notes:      stringToPgText(b.Notes),
		UpdatedAt:  timeToPgTimestamptz(b.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrBorrowerNotFound
	}
	return nil
}

// Delete removes a borrower. Borrowers referenced by a loan cannot be deleted.
func (r *BorrowerRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := queriesFor(tx, r.queries).DeleteBorrower(ctx, id)
	if err != nil {
		if pgErrorCode(err) == pgErrForeignKeyViolation {
			return domain.ErrBorrowerHasLoans
		}
		return err
	}
	if n == 0 {
		return domain.ErrBorrowerNotFound
	}
	return nil
}

// List lists borrowers ordered by name.
func (r *BorrowerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Borrower, error) {
	rows, err := r.queries.ListBorrowers(ctx, generated.ListBorrowersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	borrowers := make([]*domain.Borrower, 0, len(rows))
	for _, row := range rows {
		borrowers = append(borrowers, rowToBorrower(row))
	}
	return borrowers, nil
}

func rowToBorrower(row generated.Borrower) *domain.Borrower {
	return &domain.Borrower{
		ID:         row.ID,
		FullName:   row.FullName,
		Phone:      row.Phone,
		NationalID: pgTextToString(row.NationalID),
		Notes:      pgTextToString(row.Notes),
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}
