// Package memory is a process-local implementation of the ledger storage ports.
// Transactions are serialized; their writes are staged and applied under a
// single write lock on commit, so readers never see a partial transaction.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

var (
	// ErrTxDone is returned when committing a finished transaction.
	ErrTxDone = errors.New("memory: transaction already finished")
	// ErrForeignTx is returned when a repository receives a transaction it did not create.
	ErrForeignTx = errors.New("memory: transaction not created by this store")
)

// Store holds all ledger state.
type Store struct {
	sem chan struct{}

	mu         sync.RWMutex
	accounts   map[string]*domain.Account
	codes      map[string]string
	entries    map[string]*domain.JournalEntry
	sequences  map[int]int64
	revision   int64
	periodLock domain.PeriodLock
	outbox     []*domain.OutboxEvent
	audit      []*domain.AuditLog
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sem:       make(chan struct{}, 1),
		accounts:  make(map[string]*domain.Account),
		codes:     make(map[string]string),
		entries:   make(map[string]*domain.JournalEntry),
		sequences: make(map[int]int64),
	}
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin waits for the running transaction, if any, to finish.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	select {
	case m.store.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &Tx{
		store:     m.store,
		entries:   make(map[string]*domain.JournalEntry),
		accounts:  make(map[string]*domain.Account),
		codes:     make(map[string]string),
		sequences: make(map[int]int64),
	}, nil
}

// Tx stages writes until Commit.
type Tx struct {
	store *Store
	ops   []func(s *Store)
	done  bool

	// staged state; a nil map value marks a deletion
	entries     map[string]*domain.JournalEntry
	accounts    map[string]*domain.Account
	codes       map[string]string
	sequences   map[int]int64
	revision    int64
	hasRevision bool
}

// Commit applies every staged write atomically.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}

	t.store.mu.Lock()
	for _, op := range t.ops {
		op(t.store)
	}
	t.store.mu.Unlock()

	t.finish()
	return nil
}

// Rollback discards staged writes. It is a no-op after Commit.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *Tx) finish() {
	t.done = true
	t.ops = nil
	<-t.store.sem
}

func (t *Tx) stage(op func(s *Store)) {
	t.ops = append(t.ops, op)
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t.done {
		return nil, ErrForeignTx
	}
	return t, nil
}

// entry returns the entry as seen by the transaction.
func (t *Tx) entry(id string) *domain.JournalEntry {
	if e, ok := t.entries[id]; ok {
		return e
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return t.store.entries[id]
}

func (t *Tx) account(id string) *domain.Account {
	if a, ok := t.accounts[id]; ok {
		return a
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return t.store.accounts[id]
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func cloneEntry(e *domain.JournalEntry) *domain.JournalEntry {
	c := *e
	c.Lines = append([]domain.JournalLine(nil), e.Lines...)
	if e.PostedAt != nil {
		at := *e.PostedAt
		c.PostedAt = &at
	}
	return &c
}
