package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

// BorrowerRepository defines data access for borrowers.
type BorrowerRepository interface {
	Create(ctx context.Context, borrower *domain.Borrower) error
	GetByID(ctx context.Context, id string) (*domain.Borrower, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Borrower, error)
	Update(ctx context.Context, borrower *domain.Borrower) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Borrower, error)
}

// LoanFilter narrows a loan listing.
type LoanFilter struct {
	BorrowerID string
	Status     domain.LoanStatus
	Limit      int
	Offset     int
}

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, tx Transaction, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Loan, error)
	HasActiveLoan(ctx context.Context, tx Transaction, borrowerID string) (bool, error)
	CountByBorrower(ctx context.Context, tx Transaction, borrowerID string) (int, error)
	Update(ctx context.Context, tx Transaction, loan *domain.Loan) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, filter LoanFilter) ([]*domain.Loan, error)
	// Portfolio aggregates every loan and counts borrowers.
	Portfolio(ctx context.Context) (*domain.Portfolio, error)
}

// PeriodRepository defines data access for cashbook periods.
type PeriodRepository interface {
	// CreateIfAbsent inserts the period unless one already exists for its
	// date. It reports whether this call created the row.
	CreateIfAbsent(ctx context.Context, tx Transaction, period *domain.Period) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Period, error)
	GetByIDTx(ctx context.Context, tx Transaction, id string) (*domain.Period, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Period, error)
	GetByDate(ctx context.Context, date time.Time) (*domain.Period, error)
	// GetLatestBefore returns the chronologically latest period dated
	// strictly before date.
	GetLatestBefore(ctx context.Context, tx Transaction, date time.Time) (*domain.Period, error)
	// UpdateTotals persists the aggregate fields of an unlocked period.
	UpdateTotals(ctx context.Context, tx Transaction, id string, totals domain.Totals, updatedAt time.Time) error
	// Lock flips locked to true if it is still false and reports whether
	// this call performed the transition.
	Lock(ctx context.Context, tx Transaction, id string, lockedAt time.Time) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Period, error)
}

// ReceiptRepository defines data access for receipts.
type ReceiptRepository interface {
	Create(ctx context.Context, tx Transaction, receipt *domain.Receipt) error
	ListByPeriod(ctx context.Context, tx Transaction, periodID string) ([]*domain.Receipt, error)
	CountByLoan(ctx context.Context, tx Transaction, loanID string) (int, error)
}

// ExpenseRepository defines data access for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	ListByPeriod(ctx context.Context, tx Transaction, periodID string) ([]*domain.Expense, error)
	UpdateLoanExpense(ctx context.Context, tx Transaction, loanID string, amount decimal.Decimal) error
	DeleteByReference(ctx context.Context, tx Transaction, source domain.ExpenseSource, referenceID string) error
}

// OwnerTransactionRepository defines data access for owner transactions.
type OwnerTransactionRepository interface {
	Create(ctx context.Context, tx Transaction, otx *domain.OwnerTransaction) error
	ListByPeriod(ctx context.Context, tx Transaction, periodID string) ([]*domain.OwnerTransaction, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation that failed with a transient store error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not succeed.
	Release(ctx context.Context, key string) error
}
