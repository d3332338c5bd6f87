package memory

import (
	"context"
	"sort"
	"time"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// GetByID retrieves an entry with its lines.
func (r *EntryRepository) GetByID(_ context.Context, id string) (*domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return cloneEntry(e), nil
}

// GetByIDForUpdate reads the entry inside tx. Transactions are serialized,
// so the entry cannot change until tx ends.
func (r *EntryRepository) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id string) (*domain.JournalEntry, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	e := t.entry(id)
	if e == nil {
		return nil, domain.ErrEntryNotFound
	}
	return cloneEntry(e), nil
}

// Save stages an insert or a version-checked update.
func (r *EntryRepository) Save(_ context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	current := t.entry(entry.ID)
	switch {
	case entry.Version == 0 && current != nil:
		return domain.ErrVersionConflict
	case entry.Version > 0 && current == nil:
		return domain.ErrEntryNotFound
	case entry.Version > 0 && current.Version != entry.Version:
		return domain.ErrVersionConflict
	}

	entry.Version++
	c := cloneEntry(entry)
	t.entries[c.ID] = c
	t.stage(func(s *Store) { s.entries[c.ID] = c })
	return nil
}

// Delete stages removal of an entry and its lines.
func (r *EntryRepository) Delete(_ context.Context, tx usecase.Transaction, id string, version int64) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	current := t.entry(id)
	if current == nil {
		return domain.ErrEntryNotFound
	}
	if current.Version != version {
		return domain.ErrVersionConflict
	}

	t.entries[id] = nil
	t.stage(func(s *Store) { delete(s.entries, id) })
	return nil
}

// List returns entries newest first.
func (r *EntryRepository) List(_ context.Context, filter usecase.EntryFilter) ([]*domain.JournalEntry, error) {
	r.store.mu.RLock()
	out := make([]*domain.JournalEntry, 0)
	for _, e := range r.store.entries {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.From != nil && e.EntryDate.Before(domain.DateOnly(*filter.From)) {
			continue
		}
		if filter.To != nil && e.EntryDate.After(domain.DateOnly(*filter.To)) {
			continue
		}
		out = append(out, cloneEntry(e))
	}
	r.store.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.After(out[j].EntryDate)
		}
		return out[i].EntryNumber > out[j].EntryNumber
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

// ListPostedEntriesForAccount returns posted and reversed entries touching the account.
func (r *EntryRepository) ListPostedEntriesForAccount(_ context.Context, accountID string, asOf *time.Time) ([]*domain.JournalEntry, error) {
	r.store.mu.RLock()
	out := make([]*domain.JournalEntry, 0)
	for _, e := range r.store.entries {
		if !e.CountsTowardBalance() || !hasLineOn(e, accountID) {
			continue
		}
		if asOf != nil && e.EntryDate.After(domain.DateOnly(*asOf)) {
			continue
		}
		out = append(out, cloneEntry(e))
	}
	r.store.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.Before(out[j].EntryDate)
		}
		return out[i].EntryNumber < out[j].EntryNumber
	})
	return out, nil
}

// NextEntryNumber reserves the next sequence value for year.
func (r *EntryRepository) NextEntryNumber(_ context.Context, tx usecase.Transaction, year int) (int64, error) {
	t, err := asTx(tx)
	if err != nil {
		return 0, err
	}

	current, staged := t.sequences[year]
	if !staged {
		r.store.mu.RLock()
		current = r.store.sequences[year]
		r.store.mu.RUnlock()
	}

	next := current + 1
	t.sequences[year] = next
	t.stage(func(s *Store) {
		if s.sequences[year] < next {
			s.sequences[year] = next
		}
	})
	return next, nil
}
