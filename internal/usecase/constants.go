package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultBalanceCacheTTL bounds how long a computed balance stays in the cache
	DefaultBalanceCacheTTL = 10 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// latestBalanceKey is the cache field for balances without an as-of date
	latestBalanceKey = "latest"
)
