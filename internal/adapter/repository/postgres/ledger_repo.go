package postgres

import (
	"context"
	"time"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/postgres/generated"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// Totals sums posted and reversed lines per account, ordered by account id.
func (r *LedgerRepository) Totals(ctx context.Context, asOf *time.Time) ([]usecase.AccountTotals, error) {
	rows, err := r.queries.LedgerTotals(ctx, optionalDate(asOf))
	if err != nil {
		return nil, err
	}

	totals := make([]usecase.AccountTotals, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, usecase.AccountTotals{
			AccountID: row.AccountID,
			Debit:     domain.Amount(row.TotalDebit),
			Credit:    domain.Amount(row.TotalCredit),
		})
	}
	return totals, nil
}

// Revision returns the committed ledger revision.
func (r *LedgerRepository) Revision(ctx context.Context) (int64, error) {
	state, err := r.queries.GetLedgerState(ctx)
	if err != nil {
		return 0, err
	}
	return state.Revision, nil
}

// BumpRevision increments the revision inside tx. The ledger_state row stays
// locked until tx ends, which orders concurrent posts.
func (r *LedgerRepository) BumpRevision(ctx context.Context, tx usecase.Transaction) (int64, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return 0, err
	}
	return queries.BumpLedgerRevision(ctx)
}

// PeriodLockRepository implements usecase.PeriodLockRepository on the ledger_state row.
type PeriodLockRepository struct {
	queries *generated.Queries
}

// NewPeriodLockRepository creates a new PeriodLockRepository.
func NewPeriodLockRepository(db generated.DBTX) *PeriodLockRepository {
	return &PeriodLockRepository{queries: generated.New(db)}
}

// Get returns the current lock; a nil LockedBefore means the books are open.
func (r *PeriodLockRepository) Get(ctx context.Context) (domain.PeriodLock, error) {
	state, err := r.queries.GetLedgerState(ctx)
	if err != nil {
		return domain.PeriodLock{}, err
	}

	lock := domain.PeriodLock{
		UpdatedBy: state.LockUpdatedBy,
		UpdatedAt: state.LockUpdatedAt.Time,
	}
	if state.LockedBefore.Valid {
		d := pgDateToTime(state.LockedBefore)
		lock.LockedBefore = &d
	}
	return lock, nil
}

// Set replaces the lock inside tx.
func (r *PeriodLockRepository) Set(ctx context.Context, tx usecase.Transaction, lock domain.PeriodLock) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}
	return queries.SetPeriodLock(ctx, generated.SetPeriodLockParams{
		LockedBefore:  optionalDate(lock.LockedBefore),
		LockUpdatedBy: lock.UpdatedBy,
		LockUpdatedAt: timeToPgTimestamptz(lock.UpdatedAt),
	})
}
