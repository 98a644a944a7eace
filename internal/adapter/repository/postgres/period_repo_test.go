package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

var cashbookColumns = []string{
	"id", "date", "opening_balance", "total_receipts", "total_payments",
	"total_capital_in", "total_drawings", "closing_balance", "locked", "locked_at",
	"created_at", "updated_at",
}

func TestPeriodRepositoryGetByIDMapsRow(t *testing.T) {
	pool := newMockPool(t)
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	pool.ExpectQuery("FROM cashbooks").
		WithArgs("cb-1").
		WillReturnRows(pgxmock.NewRows(cashbookColumns).
			AddRow("cb-1", day, "50000.00", "20000.00", "10000.00", "5000.00", "15000.00", "50000.00", false, nil, now, now))

	repo := NewPeriodRepository(pool)
	p, err := repo.GetByID(context.Background(), "cb-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !p.ClosingBalance.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("expected closing 50000, got %s", p.ClosingBalance)
	}
	if !p.TotalDrawings.Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("expected drawings 15000, got %s", p.TotalDrawings)
	}
	if p.Locked || p.LockedAt != nil {
		t.Fatalf("expected unlocked period, got locked=%v at=%v", p.Locked, p.LockedAt)
	}
	if !p.Date.Equal(day) {
		t.Fatalf("expected date %v, got %v", day, p.Date)
	}

	assertExpectations(t, pool)
}

func TestPeriodRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM cashbooks").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	repo := NewPeriodRepository(pool)
	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrPeriodNotFound) {
		t.Fatalf("expected ErrPeriodNotFound, got %v", err)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found family, got %v", err)
	}
}

func TestPeriodRepositoryCreateIfAbsent(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	p := domain.NewPeriod("cb-1", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(100), now)

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "inserted", affected: 1, want: true},
		{name: "date taken", affected: 0, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pool := newMockPool(t)
			pool.ExpectExec("ON CONFLICT \\(date\\) DO NOTHING").
				WithArgs("cb-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
					pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnResult(pgxmock.NewResult("INSERT", tc.affected))

			inserted, err := NewPeriodRepository(pool).CreateIfAbsent(context.Background(), nil, p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if inserted != tc.want {
				t.Fatalf("expected inserted=%v, got %v", tc.want, inserted)
			}
			assertExpectations(t, pool)
		})
	}
}

func TestPeriodRepositoryUpdateTotalsRejectsLockedRow(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectBegin()
	pool.ExpectExec("UPDATE cashbooks").
		WithArgs("cb-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	pool.ExpectRollback()

	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	totals := domain.ComputeTotals(decimal.Zero, nil, nil, nil)
	err = NewPeriodRepository(pool).UpdateTotals(context.Background(), tx, "cb-1", totals, time.Now())
	if !errors.Is(err, domain.ErrPeriodLocked) {
		t.Fatalf("expected ErrPeriodLocked, got %v", err)
	}

	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	assertExpectations(t, pool)
}

func TestPeriodRepositoryUpdateTotalsMapsTriggerViolation(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("UPDATE cashbooks").
		WillReturnError(&pgconn.PgError{Code: pgErrCheckViolation})

	totals := domain.ComputeTotals(decimal.Zero, nil, nil, nil)
	err := NewPeriodRepository(pool).UpdateTotals(context.Background(), nil, "cb-1", totals, time.Now())
	if !errors.Is(err, domain.ErrPeriodLocked) {
		t.Fatalf("expected ErrPeriodLocked, got %v", err)
	}
}

func TestPeriodRepositoryLockReportsTransition(t *testing.T) {
	pool := newMockPool(t)
	at := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)

	pool.ExpectExec("SET locked = true").
		WithArgs("cb-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec("SET locked = true").
		WithArgs("cb-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewPeriodRepository(pool)

	first, err := repo.Lock(context.Background(), nil, "cb-1", at)
	if err != nil || !first {
		t.Fatalf("expected first lock to transition, got %v err=%v", first, err)
	}

	second, err := repo.Lock(context.Background(), nil, "cb-1", at)
	if err != nil || second {
		t.Fatalf("expected second lock to be a no-op, got %v err=%v", second, err)
	}

	assertExpectations(t, pool)
}
