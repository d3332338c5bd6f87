package usecase

import (
	"context"
	"time"

	"github.com/hassanjava2/bi-ledger/internal/domain"
)

// AccountFilter narrows account listings.
type AccountFilter struct {
	Type   domain.AccountType
	Limit  int
	Offset int
}

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	// Create fails with domain.ErrDuplicateCode when the code is taken.
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByIDs returns the accounts that exist; unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, error)
	// IsReferenced reports whether journal lines or child accounts point at the account.
	IsReferenced(ctx context.Context, tx Transaction, id string) (bool, error)
	Delete(ctx context.Context, tx Transaction, id string) error
}

// EntryFilter narrows journal entry listings.
type EntryFilter struct {
	Status domain.EntryStatus
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// EntryRepository defines data access for journal entries and their lines.
type EntryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.JournalEntry, error)
	// GetByIDForUpdate loads the entry and locks it until tx ends.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.JournalEntry, error)
	// Save inserts an entry with Version 0 and otherwise updates it only when the
	// stored version still equals entry.Version, failing with domain.ErrVersionConflict.
	// Lines are replaced as a whole. On success entry.Version is incremented.
	Save(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	// Delete removes a draft and its lines under the same version check as Save.
	Delete(ctx context.Context, tx Transaction, id string, version int64) error
	List(ctx context.Context, filter EntryFilter) ([]*domain.JournalEntry, error)
	// ListPostedEntriesForAccount returns posted and reversed entries with a line on
	// the account, dated on or before asOf when given.
	ListPostedEntriesForAccount(ctx context.Context, accountID string, asOf *time.Time) ([]*domain.JournalEntry, error)
	// NextEntryNumber reserves the next sequence value for year.
	NextEntryNumber(ctx context.Context, tx Transaction, year int) (int64, error)
}

// AccountTotals holds the posted debit and credit sums of one account.
type AccountTotals struct {
	AccountID string
	Debit     domain.Amount
	Credit    domain.Amount
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	// Totals aggregates posted and reversed entries per account.
	Totals(ctx context.Context, asOf *time.Time) ([]AccountTotals, error)
	// Revision returns the counter bumped by every post and reversal.
	Revision(ctx context.Context) (int64, error)
	BumpRevision(ctx context.Context, tx Transaction) (int64, error)
}

// PeriodLockRepository stores the closing date of the books.
type PeriodLockRepository interface {
	Get(ctx context.Context) (domain.PeriodLock, error)
	Set(ctx context.Context, tx Transaction, lock domain.PeriodLock) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
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

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// CachedBalance is an account's posted totals as of a ledger revision.
type CachedBalance struct {
	Revision int64         `json:"revision"`
	Debit    domain.Amount `json:"debit"`
	Credit   domain.Amount `json:"credit"`
}

// BalanceCache stores computed balances per account and as-of date.
// Get returns (nil, nil) on a miss.
type BalanceCache interface {
	Get(ctx context.Context, accountID, asOf string) (*CachedBalance, error)
	Set(ctx context.Context, accountID, asOf string, value CachedBalance, ttl time.Duration) error
	Invalidate(ctx context.Context, accountIDs ...string) error
}

// IdempotencyPending is the value held by a key whose request is still running.
const IdempotencyPending = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so it can be retried.
	Release(ctx context.Context, key string) error
}
