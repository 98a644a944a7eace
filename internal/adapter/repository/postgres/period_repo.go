package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbook/internal/usecase"
)

// PeriodRepository implements usecase.PeriodRepository over the cashbooks
// table.
type PeriodRepository struct {
	queries *generated.Queries
}

// NewPeriodRepository creates a new PeriodRepository.
func NewPeriodRepository(db generated.DBTX) *PeriodRepository {
	return &PeriodRepository{queries: generated.New(db)}
}

// CreateIfAbsent inserts the period unless its date is already taken.
func (r *PeriodRepository) CreateIfAbsent(ctx context.Context, tx usecase.Transaction, p *domain.Period) (bool, error) {
	n, err := queriesFor(tx, r.queries).CreateCashbookIfAbsent(ctx, generated.CreateCashbookIfAbsentParams{
		ID:             p.ID,
		Date:           timeToPgDate(p.Date),
		OpeningBalance: decimalToNumeric(p.OpeningBalance),
		TotalReceipts:  decimalToNumeric(p.TotalReceipts),
		TotalPayments:  decimalToNumeric(p.TotalPayments),
		TotalCapitalIn: decimalToNumeric(p.TotalCapitalIn),
		TotalDrawings:  decimalToNumeric(p.TotalDrawings),
		ClosingBalance: decimalToNumeric(p.ClosingBalance),
		CreatedAt:      timeToPgTimestamptz(p.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(p.UpdatedAt),
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetByID retrieves a period by ID.
func (r *PeriodRepository) GetByID(ctx context.Context, id string) (*domain.Period, error) {
	return r.one(r.queries.GetCashbookByID(ctx, id))
}

// GetByIDTx retrieves a period by ID inside tx without locking it.
func (r *PeriodRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Period, error) {
	return r.one(queriesFor(tx, r.queries).GetCashbookByID(ctx, id))
}

// GetByIDForUpdate retrieves a period with a FOR UPDATE lock.
func (r *PeriodRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Period, error) {
	return r.one(queriesFor(tx, r.queries).GetCashbookByIDForUpdate(ctx, id))
}

// GetByDate retrieves the period for a calendar date.
func (r *PeriodRepository) GetByDate(ctx context.Context, date time.Time) (*domain.Period, error) {
	return r.one(r.queries.GetCashbookByDate(ctx, timeToPgDate(date)))
}

// GetLatestBefore retrieves the latest period dated strictly before date.
func (r *PeriodRepository) GetLatestBefore(ctx context.Context, tx usecase.Transaction, date time.Time) (*domain.Period, error) {
	return r.one(queriesFor(tx, r.queries).GetLatestCashbookBefore(ctx, timeToPgDate(date)))
}

// UpdateTotals writes derived aggregates. A locked row is never touched.
func (r *PeriodRepository) UpdateTotals(ctx context.Context, tx usecase.Transaction, id string, t domain.Totals, updatedAt time.Time) error {
	n, err := queriesFor(tx, r.queries).UpdateCashbookTotals(ctx, generated.UpdateCashbookTotalsParams{
		ID:             id,
		TotalReceipts:  decimalToNumeric(t.Receipts),
		TotalPayments:  decimalToNumeric(t.Payments),
		TotalCapitalIn: decimalToNumeric(t.CapitalIn),
		TotalDrawings:  decimalToNumeric(t.Drawings),
		ClosingBalance: decimalToNumeric(t.Closing),
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		if pgErrorCode(err) == pgErrCheckViolation {
			return domain.ErrPeriodLocked
		}
		return err
	}
	if n == 0 {
		return domain.ErrPeriodLocked
	}
	return nil
}

// Lock flips the period to locked if it is not already.
func (r *PeriodRepository) Lock(ctx context.Context, tx usecase.Transaction, id string, lockedAt time.Time) (bool, error) {
	n, err := queriesFor(tx, r.queries).LockCashbook(ctx, generated.LockCashbookParams{
		ID:       id,
		LockedAt: timeToPgTimestamptz(lockedAt),
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// List lists periods newest date first.
func (r *PeriodRepository) List(ctx context.Context, limit, offset int) ([]*domain.Period, error) {
	rows, err := r.queries.ListCashbooks(ctx, generated.ListCashbooksParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	periods := make([]*domain.Period, 0, len(rows))
	for _, row := range rows {
		periods = append(periods, rowToPeriod(row))
	}
	return periods, nil
}

func (r *PeriodRepository) one(row generated.Cashbook, err error) (*domain.Period, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPeriodNotFound
		}
		return nil, err
	}
	return rowToPeriod(row), nil
}

func rowToPeriod(row generated.Cashbook) *domain.Period {
	return &domain.Period{
		ID:             row.ID,
		Date:           row.Date.Time,
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		TotalReceipts:  numericToDecimal(row.TotalReceipts),
		TotalPayments:  numericToDecimal(row.TotalPayments),
		TotalCapitalIn: numericToDecimal(row.TotalCapitalIn),
		TotalDrawings:  numericToDecimal(row.TotalDrawings),
		ClosingBalance: numericToDecimal(row.ClosingBalance),
		Locked:         row.Locked,
		LockedAt:       optionalTime(row.LockedAt),
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
