package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

// Repositories groups the store ports the use cases read and write.
type Repositories struct {
	Borrowers         BorrowerRepository
	Loans             LoanRepository
	Periods           PeriodRepository
	Receipts          ReceiptRepository
	Expenses          ExpenseRepository
	OwnerTransactions OwnerTransactionRepository
	Outbox            OutboxRepository
}

// Deps holds the collaborators shared by all use cases.
type Deps struct {
	TxManager TransactionManager
	Retrier   Retrier
	Repos     Repositories
	IDGen     IDGenerator
	Clock     Clock
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
	// Location is the operating timezone that decides the calendar day.
	Location *time.Location
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = SystemClock{}
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	return d
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// runInTx runs fn in one database transaction bounded by
// DefaultTransactionTimeout. The whole unit is retried on transient store
// errors when a retrier is configured.
func runInTx(ctx context.Context, d Deps, fn func(ctx context.Context, tx Transaction) error) error {
	op := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := d.TxManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if d.Retrier == nil {
		return op()
	}
	return d.Retrier.Retry(ctx, op)
}

func (d Deps) emit(ctx context.Context, tx Transaction, aggregateType, aggregateID, eventType string, payload map[string]any, now time.Time) error {
	if d.Repos.Outbox == nil {
		return nil
	}
	event := domain.NewOutboxEvent(d.IDGen.Generate(), aggregateType, aggregateID, eventType, payload, now)
	return d.Repos.Outbox.Create(ctx, tx, event)
}
