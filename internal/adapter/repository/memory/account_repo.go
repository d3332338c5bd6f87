package memory

import (
	"context"
	"sort"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create stages a new account.
func (r *AccountRepository) Create(_ context.Context, tx usecase.Transaction, account *domain.Account) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	if id, staged := t.codes[account.Code]; staged {
		if id != "" {
			return domain.ErrDuplicateCode
		}
	} else {
		r.store.mu.RLock()
		_, taken := r.store.codes[account.Code]
		r.store.mu.RUnlock()
		if taken {
			return domain.ErrDuplicateCode
		}
	}

	c := cloneAccount(account)
	t.accounts[c.ID] = c
	t.codes[c.Code] = c.ID
	t.stage(func(s *Store) {
		s.accounts[c.ID] = c
		s.codes[c.Code] = c.ID
	})
	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

// GetByIDs retrieves the accounts that exist among ids.
func (r *AccountRepository) GetByIDs(_ context.Context, ids []string) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.store.accounts[id]; ok {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

// List returns accounts ordered by code.
func (r *AccountRepository) List(_ context.Context, filter usecase.AccountFilter) ([]*domain.Account, error) {
	r.store.mu.RLock()
	all := make([]*domain.Account, 0, len(r.store.accounts))
	for _, a := range r.store.accounts {
		if filter.Type == "" || a.Type == filter.Type {
			all = append(all, cloneAccount(a))
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return paginate(all, filter.Limit, filter.Offset), nil
}

// IsReferenced reports whether a line or a child account points at the account.
func (r *AccountRepository) IsReferenced(_ context.Context, tx usecase.Transaction, id string) (bool, error) {
	t, err := asTx(tx)
	if err != nil {
		return false, err
	}

	for _, e := range t.entries {
		if e != nil && hasLineOn(e, id) {
			return true, nil
		}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, a := range r.store.accounts {
		if a.ParentID == id {
			return true, nil
		}
	}
	for eid, e := range r.store.entries {
		if _, staged := t.entries[eid]; staged {
			continue
		}
		if hasLineOn(e, id) {
			return true, nil
		}
	}
	return false, nil
}

// Delete stages removal of an account.
func (r *AccountRepository) Delete(_ context.Context, tx usecase.Transaction, id string) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	a := t.account(id)
	if a == nil {
		return domain.ErrAccountNotFound
	}

	t.accounts[id] = nil
	t.codes[a.Code] = ""
	code := a.Code
	t.stage(func(s *Store) {
		delete(s.accounts, id)
		delete(s.codes, code)
	})
	return nil
}

func hasLineOn(e *domain.JournalEntry, accountID string) bool {
	for _, l := range e.Lines {
		if l.AccountID == accountID {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
