package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultCurrency is the single currency unit every amount is kept in.
	DefaultCurrency = "RWF"

	// DefaultReportCacheTTL is how long a locked period's report stays cached.
	DefaultReportCacheTTL = 24 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
