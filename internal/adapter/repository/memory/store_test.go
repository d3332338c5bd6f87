package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

func newEntry(id string) *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:          id,
		EntryNumber: "JE-2025-00001",
		EntryDate:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		Status:      domain.EntryStatusDraft,
		Lines: []domain.JournalLine{
			{ID: "l1", EntryID: id, AccountID: "cash", Debit: 100},
			{ID: "l2", EntryID: id, AccountID: "sales", Credit: 100},
		},
	}
}

func TestTx_CommitAppliesAndRollbackDiscards(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	entries := NewEntryRepository(store)

	tx, err := txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, entries.Save(ctx, tx, newEntry("e1")))

	_, err = entries.GetByID(ctx, "e1")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound, "uncommitted entry must be invisible")

	require.NoError(t, tx.Rollback(ctx))
	_, err = entries.GetByID(ctx, "e1")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	tx, err = txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, entries.Save(ctx, tx, newEntry("e1")))
	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx), "rollback after commit is a no-op")
	assert.ErrorIs(t, tx.Commit(ctx), ErrTxDone)

	got, err := entries.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Len(t, got.Lines, 2)
}

func TestEntryRepository_SaveVersionCheck(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	entries := NewEntryRepository(store)

	tx, _ := txm.Begin(ctx)
	e := newEntry("e1")
	require.NoError(t, entries.Save(ctx, tx, e))
	require.NoError(t, tx.Commit(ctx))

	tx, _ = txm.Begin(ctx)
	stale := newEntry("e1")
	assert.ErrorIs(t, entries.Save(ctx, tx, stale), domain.ErrVersionConflict, "insert over existing id")

	stale.Version = 7
	assert.ErrorIs(t, entries.Save(ctx, tx, stale), domain.ErrVersionConflict)

	fresh, err := entries.GetByIDForUpdate(ctx, tx, "e1")
	require.NoError(t, err)
	fresh.Description = "edited"
	require.NoError(t, entries.Save(ctx, tx, fresh))
	assert.Equal(t, int64(2), fresh.Version)

	seen, err := entries.GetByIDForUpdate(ctx, tx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "edited", seen.Description, "tx reads its own writes")
	require.NoError(t, tx.Commit(ctx))
}

func TestEntryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	entries := NewEntryRepository(store)

	tx, _ := txm.Begin(ctx)
	require.NoError(t, entries.Save(ctx, tx, newEntry("e1")))
	require.NoError(t, tx.Commit(ctx))

	got, _ := entries.GetByID(ctx, "e1")
	got.Lines[0].Debit = 999
	got.Status = domain.EntryStatusPosted

	again, _ := entries.GetByID(ctx, "e1")
	assert.Equal(t, domain.Amount(100), again.Lines[0].Debit)
	assert.Equal(t, domain.EntryStatusDraft, again.Status)
}

func TestEntryRepository_NextEntryNumber(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	entries := NewEntryRepository(store)

	tx, _ := txm.Begin(ctx)
	n1, _ := entries.NextEntryNumber(ctx, tx, 2025)
	n2, _ := entries.NextEntryNumber(ctx, tx, 2025)
	other, _ := entries.NextEntryNumber(ctx, tx, 2026)
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, int64(1), n1)
	assert.Equal(t, int64(2), n2)
	assert.Equal(t, int64(1), other)

	tx, _ = txm.Begin(ctx)
	_, _ = entries.NextEntryNumber(ctx, tx, 2025)
	require.NoError(t, tx.Rollback(ctx))

	tx, _ = txm.Begin(ctx)
	n3, _ := entries.NextEntryNumber(ctx, tx, 2025)
	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, int64(3), n3)
}

func TestEntryRepository_ListAndPosted(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	entries := NewEntryRepository(store)

	tx, _ := txm.Begin(ctx)
	draft := newEntry("d1")
	posted := newEntry("p1")
	posted.Status = domain.EntryStatusPosted
	posted.EntryNumber = "JE-2025-00002"
	later := newEntry("p2")
	later.Status = domain.EntryStatusPosted
	later.EntryNumber = "JE-2025-00003"
	later.EntryDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, e := range []*domain.JournalEntry{draft, posted, later} {
		require.NoError(t, entries.Save(ctx, tx, e))
	}
	require.NoError(t, tx.Commit(ctx))

	all, err := entries.List(ctx, usecase.EntryFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "p2", all[0].ID, "newest first")

	drafts, _ := entries.List(ctx, usecase.EntryFilter{Status: domain.EntryStatusDraft, Limit: 10})
	assert.Len(t, drafts, 1)

	asOf := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	got, err := entries.ListPostedEntriesForAccount(ctx, "cash", &asOf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)

	got, _ = entries.ListPostedEntriesForAccount(ctx, "cash", nil)
	assert.Len(t, got, 2)
}

func TestAccountRepository_DuplicateCodeAndReferences(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	accounts := NewAccountRepository(store)
	entries := NewEntryRepository(store)

	tx, _ := txm.Begin(ctx)
	require.NoError(t, accounts.Create(ctx, tx, &domain.Account{ID: "cash", Code: "1100", Type: domain.AccountTypeAsset}))
	assert.ErrorIs(t, accounts.Create(ctx, tx, &domain.Account{ID: "x", Code: "1100"}), domain.ErrDuplicateCode)
	require.NoError(t, accounts.Create(ctx, tx, &domain.Account{ID: "petty", Code: "1110", ParentID: "cash"}))
	require.NoError(t, accounts.Create(ctx, tx, &domain.Account{ID: "sales", Code: "4100"}))
	require.NoError(t, tx.Commit(ctx))

	tx, _ = txm.Begin(ctx)
	assert.ErrorIs(t, accounts.Create(ctx, tx, &domain.Account{ID: "y", Code: "4100"}), domain.ErrDuplicateCode)

	ref, err := accounts.IsReferenced(ctx, tx, "cash")
	require.NoError(t, err)
	assert.True(t, ref, "child account references parent")

	ref, _ = accounts.IsReferenced(ctx, tx, "sales")
	assert.False(t, ref)

	require.NoError(t, entries.Save(ctx, tx, newEntry("e1")))
	ref, _ = accounts.IsReferenced(ctx, tx, "sales")
	assert.True(t, ref, "staged line references account")
	require.NoError(t, tx.Rollback(ctx))

	tx, _ = txm.Begin(ctx)
	require.NoError(t, accounts.Delete(ctx, tx, "sales"))
	require.NoError(t, accounts.Create(ctx, tx, &domain.Account{ID: "sales2", Code: "4100"}), "code is free after staged delete")
	require.NoError(t, tx.Commit(ctx))

	list, err := accounts.List(ctx, usecase.AccountFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"1100", "1110", "4100"}, []string{list[0].Code, list[1].Code, list[2].Code})
}

func TestTxManager_BeginHonorsContext(t *testing.T) {
	store := NewStore()
	txm := NewTxManager(store)

	tx, err := txm.Begin(context.Background())
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = txm.Begin(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLedgerRepository_RevisionAndTotals(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	ledger := NewLedgerRepository(store)
	entries := NewEntryRepository(store)

	tx, _ := txm.Begin(ctx)
	e := newEntry("e1")
	e.Status = domain.EntryStatusPosted
	require.NoError(t, entries.Save(ctx, tx, e))
	rev, err := ledger.BumpRevision(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	current, _ := ledger.Revision(ctx)
	assert.Equal(t, int64(0), current, "revision is invisible until commit")
	require.NoError(t, tx.Commit(ctx))

	current, _ = ledger.Revision(ctx)
	assert.Equal(t, int64(1), current)

	totals, err := ledger.Totals(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []usecase.AccountTotals{
		{AccountID: "cash", Debit: 100},
		{AccountID: "sales", Credit: 100},
	}, totals)
}

func TestOutboxAndAudit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	txm := NewTxManager(store)
	outbox := NewOutboxRepository(store)
	audit := NewAuditRepository(store)

	tx, _ := txm.Begin(ctx)
	require.NoError(t, outbox.Create(ctx, tx, &domain.OutboxEvent{ID: "ev1", EventType: domain.EventTypeJournalPosted}))
	require.NoError(t, audit.CreateTx(ctx, tx, &domain.AuditLog{ID: "a1", ResourceType: "journal_entry", ResourceID: "e1"}))
	require.NoError(t, tx.Commit(ctx))

	pending, err := outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	now := time.Now()
	require.NoError(t, outbox.MarkPublished(ctx, "ev1", now))
	pending, _ = outbox.GetUnpublished(ctx, 10)
	assert.Empty(t, pending)

	require.NoError(t, outbox.DeletePublished(ctx, now.Add(time.Second)))
	assert.Empty(t, store.outbox)

	logs, err := audit.GetByResourceID(ctx, "journal_entry", "e1")
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
