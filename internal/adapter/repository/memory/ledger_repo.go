package memory

import (
	"context"
	"sort"
	"time"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// Totals aggregates posted and reversed entries per account.
func (r *LedgerRepository) Totals(_ context.Context, asOf *time.Time) ([]usecase.AccountTotals, error) {
	r.store.mu.RLock()
	byAccount := make(map[string]*usecase.AccountTotals)
	for _, e := range r.store.entries {
		if !e.CountsTowardBalance() {
			continue
		}
		if asOf != nil && e.EntryDate.After(domain.DateOnly(*asOf)) {
			continue
		}
		for _, l := range e.Lines {
			t, ok := byAccount[l.AccountID]
			if !ok {
				t = &usecase.AccountTotals{AccountID: l.AccountID}
				byAccount[l.AccountID] = t
			}
			t.Debit += l.Debit
			t.Credit += l.Credit
		}
	}
	r.store.mu.RUnlock()

	out := make([]usecase.AccountTotals, 0, len(byAccount))
	for _, t := range byAccount {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

// Revision returns the committed ledger revision.
func (r *LedgerRepository) Revision(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.revision, nil
}

// BumpRevision stages an increment of the ledger revision.
func (r *LedgerRepository) BumpRevision(_ context.Context, tx usecase.Transaction) (int64, error) {
	t, err := asTx(tx)
	if err != nil {
		return 0, err
	}

	if !t.hasRevision {
		r.store.mu.RLock()
		t.revision = r.store.revision
		r.store.mu.RUnlock()
		t.hasRevision = true
	}
	t.revision++

	next := t.revision
	t.stage(func(s *Store) { s.revision = next })
	return next, nil
}

// PeriodLockRepository implements usecase.PeriodLockRepository.
type PeriodLockRepository struct {
	store *Store
}

// NewPeriodLockRepository creates a new PeriodLockRepository.
func NewPeriodLockRepository(store *Store) *PeriodLockRepository {
	return &PeriodLockRepository{store: store}
}

// Get returns the current lock.
func (r *PeriodLockRepository) Get(_ context.Context) (domain.PeriodLock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.periodLock, nil
}

// Set stages a new lock.
func (r *PeriodLockRepository) Set(_ context.Context, tx usecase.Transaction, lock domain.PeriodLock) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	t.stage(func(s *Store) { s.periodLock = lock })
	return nil
}
