package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hassanjava2/bi-ledger/internal/adapter/repository/memory"
	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) Generate() string {
	return fmt.Sprintf("id-%04d", s.n.Add(1))
}

var testNow = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

type ledgerFixture struct {
	journal  *usecase.JournalUseCase
	ledger   *usecase.LedgerUseCase
	accounts *usecase.AccountUseCase
	periods  *usecase.PeriodUseCase
	store    *memory.Store

	cash, sales, rent string
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	store := memory.NewStore()
	txm := memory.NewTxManager(store)
	accountRepo := memory.NewAccountRepository(store)
	entryRepo := memory.NewEntryRepository(store)
	ledgerRepo := memory.NewLedgerRepository(store)
	periodRepo := memory.NewPeriodLockRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)
	auditRepo := memory.NewAuditRepository(store)
	ids := &seqIDs{}
	logger := zerolog.Nop()

	f := &ledgerFixture{
		journal: usecase.NewJournalUseCase(usecase.JournalConfig{
			TxManager:   txm,
			AccountRepo: accountRepo,
			EntryRepo:   entryRepo,
			LedgerRepo:  ledgerRepo,
			PeriodRepo:  periodRepo,
			OutboxRepo:  outboxRepo,
			AuditRepo:   auditRepo,
			IDGen:       ids,
			Logger:      logger,
			Clock:       func() time.Time { return testNow },
		}),
		ledger: usecase.NewLedgerUseCase(usecase.LedgerConfig{
			LedgerRepo:  ledgerRepo,
			AccountRepo: accountRepo,
			EntryRepo:   entryRepo,
			Logger:      logger,
		}),
		accounts: usecase.NewAccountUseCase(txm, accountRepo, outboxRepo, auditRepo, ids, nil, logger),
		periods:  usecase.NewPeriodUseCase(txm, periodRepo, outboxRepo, auditRepo, ids, logger),
		store:    store,
	}

	create := func(code, name, typ string) string {
		a, err := f.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{Code: code, Name: name, Type: typ})
		if err != nil {
			t.Fatalf("create account %s: %v", code, err)
		}
		return a.ID
	}
	f.cash = create("1100", "Cash", "asset")
	f.sales = create("4100", "Sales", "revenue")
	f.rent = create("5200", "Rent", "expense")

	return f
}

func (f *ledgerFixture) draft(t *testing.T, date time.Time, lines ...usecase.LineInput) *domain.JournalEntry {
	t.Helper()
	entry, err := f.journal.CreateDraftEntry(context.Background(), usecase.CreateEntryInput{
		EntryDate:   date,
		Description: "test entry",
		Lines:       lines,
		Actor:       "alice",
	})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	return entry
}

func (f *ledgerFixture) post(t *testing.T, id string) *domain.JournalEntry {
	t.Helper()
	entry, err := f.journal.PostEntry(context.Background(), usecase.PostEntryInput{ID: id, Actor: "bob"})
	if err != nil {
		t.Fatalf("post %s: %v", id, err)
	}
	return entry
}

func (f *ledgerFixture) balance(t *testing.T, accountID string, asOf *time.Time) domain.Amount {
	t.Helper()
	b, err := f.ledger.AccountBalance(context.Background(), accountID, asOf)
	if err != nil {
		t.Fatalf("balance of %s: %v", accountID, err)
	}
	return b.Balance
}

func TestJournalUseCase_PostBalancedEntry(t *testing.T) {
	f := newLedgerFixture(t)

	draft := f.draft(t, day(10),
		usecase.LineInput{AccountID: f.cash, Debit: 100},
		usecase.LineInput{AccountID: f.sales, Credit: 100},
	)
	if draft.Status != domain.EntryStatusDraft {
		t.Fatalf("expected draft, got %s", draft.Status)
	}
	if draft.EntryNumber != "JE-2025-00001" {
		t.Errorf("expected JE-2025-00001, got %s", draft.EntryNumber)
	}
	if draft.CreatedBy != "alice" {
		t.Errorf("expected creator alice, got %s", draft.CreatedBy)
	}

	if got := f.balance(t, f.cash, nil); got != 0 {
		t.Fatalf("drafts must not move balances, got %d", got)
	}

	posted := f.post(t, draft.ID)
	if posted.Status != domain.EntryStatusPosted {
		t.Fatalf("expected posted, got %s", posted.Status)
	}
	if posted.PostedBy != "bob" || posted.PostedAt == nil || !posted.PostedAt.Equal(testNow) {
		t.Errorf("unexpected posting stamp %s %v", posted.PostedBy, posted.PostedAt)
	}

	if got := f.balance(t, f.cash, nil); got != 100 {
		t.Errorf("cash balance = %d, want 100", got)
	}
	if got := f.balance(t, f.sales, nil); got != 100 {
		t.Errorf("sales balance = %d, want 100", got)
	}

	ok, err := f.ledger.CheckConsistency(context.Background())
	if err != nil || !ok {
		t.Fatalf("ledger inconsistent: %v", err)
	}
}

func TestJournalUseCase_PostRejections(t *testing.T) {
	tests := []struct {
		name  string
		lines func(f *ledgerFixture) []usecase.LineInput
		check func(t *testing.T, err error)
	}{
		{
			name: "unbalanced",
			lines: func(f *ledgerFixture) []usecase.LineInput {
				return []usecase.LineInput{
					{AccountID: f.cash, Debit: 100},
					{AccountID: f.sales, Credit: 90},
				}
			},
			check: func(t *testing.T, err error) {
				var ue *domain.UnbalancedError
				if !errors.As(err, &ue) {
					t.Fatalf("expected UnbalancedError, got %v", err)
				}
				if ue.TotalDebit != 100 || ue.TotalCredit != 90 || ue.Difference != 10 {
					t.Errorf("unexpected totals %+v", ue)
				}
			},
		},
		{
			name: "single line",
			lines: func(f *ledgerFixture) []usecase.LineInput {
				return []usecase.LineInput{{AccountID: f.cash, Debit: 100}}
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, domain.ErrTooFewLines) {
					t.Fatalf("expected ErrTooFewLines, got %v", err)
				}
			},
		},
		{
			name: "no lines",
			lines: func(*ledgerFixture) []usecase.LineInput {
				return nil
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, domain.ErrTooFewLines) {
					t.Fatalf("expected ErrTooFewLines, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			draft := f.draft(t, day(10), tt.lines(f)...)

			_, err := f.journal.PostEntry(context.Background(), usecase.PostEntryInput{ID: draft.ID})
			tt.check(t, err)

			stored, err := f.journal.GetEntry(context.Background(), draft.ID)
			if err != nil {
				t.Fatalf("get entry: %v", err)
			}
			if stored.Status != domain.EntryStatusDraft {
				t.Errorf("rejected post must leave a draft, got %s", stored.Status)
			}
		})
	}
}

func TestJournalUseCase_CreateCollectsLineErrors(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.journal.CreateDraftEntry(context.Background(), usecase.CreateEntryInput{
		EntryDate: day(10),
		Lines: []usecase.LineInput{
			{AccountID: "missing", Debit: 100},
			{AccountID: f.sales, Credit: -5},
			{AccountID: f.rent, Debit: 5, Credit: 5},
			{AccountID: f.cash, Debit: 1},
		},
	})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Lines) != 3 {
		t.Fatalf("expected 3 line errors, got %d", len(ve.Lines))
	}
	want := []error{domain.ErrUnknownAccount, domain.ErrNegativeAmount, domain.ErrAmbiguousSide}
	for i, le := range ve.Lines {
		if le.Index != i || !errors.Is(le, want[i]) {
			t.Errorf("line error %d = %v, want %v", i, le, want[i])
		}
	}

	entries, _ := f.journal.ListEntries(context.Background(), usecase.ListEntriesInput{})
	if len(entries) != 0 {
		t.Errorf("rejected draft must not be stored, got %d entries", len(entries))
	}
}

func TestJournalUseCase_ConcurrentPost(t *testing.T) {
	f := newLedgerFixture(t)
	draft := f.draft(t, day(10),
		usecase.LineInput{AccountID: f.cash, Debit: 100},
		usecase.LineInput{AccountID: f.sales, Credit: 100},
	)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.journal.PostEntry(context.Background(), usecase.PostEntryInput{ID: draft.ID})
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		var te *domain.TransitionError
		switch {
		case err == nil:
			ok++
		case errors.As(err, &te) && te.From == domain.EntryStatusPosted && te.To == domain.EntryStatusPosted:
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || rejected != 1 {
		t.Fatalf("expected one success and one rejection, got %d/%d", ok, rejected)
	}

	if got := f.balance(t, f.cash, nil); got != 100 {
		t.Errorf("entry must count once, cash = %d", got)
	}
}

func TestJournalUseCase_ReverseEntry(t *testing.T) {
	f := newLedgerFixture(t)
	draft := f.draft(t, day(10),
		usecase.LineInput{AccountID: f.rent, Debit: 250},
		usecase.LineInput{AccountID: f.cash, Credit: 250},
	)
	f.post(t, draft.ID)

	early := day(9)
	if _, _, err := f.journal.ReverseEntry(context.Background(), usecase.ReverseEntryInput{ID: draft.ID, EntryDate: &early}); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	reversal, original, err := f.journal.ReverseEntry(context.Background(), usecase.ReverseEntryInput{ID: draft.ID, Actor: "carol"})
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}

	if original.Status != domain.EntryStatusReversed || original.ReversedBy != reversal.ID {
		t.Errorf("unexpected original %s reversed by %q", original.Status, original.ReversedBy)
	}
	if reversal.Status != domain.EntryStatusPosted || reversal.ReversalOf != draft.ID {
		t.Errorf("unexpected reversal %s of %q", reversal.Status, reversal.ReversalOf)
	}
	if !reversal.EntryDate.Equal(day(15)) {
		t.Errorf("reversal should default to today, got %s", reversal.EntryDate)
	}
	if reversal.Lines[0].Credit != 250 || reversal.Lines[1].Debit != 250 {
		t.Errorf("reversal lines are not mirrored: %+v", reversal.Lines)
	}

	for _, acc := range []string{f.cash, f.rent} {
		if got := f.balance(t, acc, nil); got != 0 {
			t.Errorf("balance of %s = %d after reversal, want 0", acc, got)
		}
	}
	asOf := day(12)
	if got := f.balance(t, f.rent, &asOf); got != 250 {
		t.Errorf("rent as of the 12th = %d, want 250", got)
	}

	_, _, err = f.journal.ReverseEntry(context.Background(), usecase.ReverseEntryInput{ID: draft.ID})
	var te *domain.TransitionError
	if !errors.As(err, &te) || te.From != domain.EntryStatusReversed {
		t.Fatalf("expected transition error from reversed, got %v", err)
	}

	if _, _, err := f.journal.ReverseEntry(context.Background(), usecase.ReverseEntryInput{ID: reversal.ID}); err != nil {
		t.Fatalf("reversing a reversal should succeed: %v", err)
	}
	if got := f.balance(t, f.rent, nil); got != 250 {
		t.Errorf("rent after double reversal = %d, want 250", got)
	}
}

func TestJournalUseCase_DraftEditing(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	draft := f.draft(t, day(10),
		usecase.LineInput{AccountID: f.cash, Debit: 100},
	)

	edits := []usecase.UpdateLineInput{
		{Index: 1, Field: domain.LineFieldAccount, Value: f.sales},
		{Index: 1, Field: domain.LineFieldDebit, Value: "0.050"},
		{Index: 1, Field: domain.LineFieldCredit, Value: "0.100"},
		{Index: 1, Field: domain.LineFieldCostCenter, Value: "HQ"},
	}
	var entry *domain.JournalEntry
	for _, e := range edits {
		e.ID = draft.ID
		var err error
		entry, err = f.journal.UpdateDraftLine(ctx, e)
		if err != nil {
			t.Fatalf("edit %s: %v", e.Field, err)
		}
	}

	if len(entry.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(entry.Lines))
	}
	line := entry.Lines[1]
	if line.Debit != 0 || line.Credit != 100 || line.CostCenter != "HQ" {
		t.Errorf("unexpected edited line %+v", line)
	}
	if entry.Lines[0].ID != draft.Lines[0].ID {
		t.Errorf("existing line id changed")
	}

	_, err := f.journal.UpdateDraftLine(ctx, usecase.UpdateLineInput{ID: draft.ID, Index: 7, Field: domain.LineFieldDebit, Value: "1"})
	if !errors.Is(err, domain.ErrLineIndexOutOfRange) {
		t.Errorf("expected ErrLineIndexOutOfRange, got %v", err)
	}
	_, err = f.journal.UpdateDraftLine(ctx, usecase.UpdateLineInput{ID: draft.ID, Index: 0, Field: "amount", Value: "1"})
	if !errors.Is(err, domain.ErrInvalidLineField) {
		t.Errorf("expected ErrInvalidLineField, got %v", err)
	}
	_, err = f.journal.UpdateDraftLine(ctx, usecase.UpdateLineInput{ID: draft.ID, Index: 0, Field: domain.LineFieldAccount, Value: "ghost"})
	if !errors.Is(err, domain.ErrUnknownAccount) {
		t.Errorf("expected ErrUnknownAccount, got %v", err)
	}

	posted := f.post(t, draft.ID)
	if _, err := f.journal.UpdateDraftLine(ctx, usecase.UpdateLineInput{ID: posted.ID, Index: 0, Field: domain.LineFieldDebit, Value: "1"}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("posted entries are immutable, got %v", err)
	}
	if _, err := f.journal.UpdateDraft(ctx, usecase.UpdateEntryInput{ID: posted.ID}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("posted entries are immutable, got %v", err)
	}
}

func TestJournalUseCase_PostDropsBlankRows(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	draft := f.draft(t, day(11),
		usecase.LineInput{AccountID: f.cash, Debit: 250},
		usecase.LineInput{AccountID: f.sales, Credit: 250},
	)
	// Appending a row and only giving it a note leaves it blank.
	if _, err := f.journal.UpdateDraftLine(ctx, usecase.UpdateLineInput{
		ID: draft.ID, Index: 2, Field: domain.LineFieldDescription, Value: "note",
	}); err != nil {
		t.Fatalf("append row: %v", err)
	}

	posted := f.post(t, draft.ID)
	if len(posted.Lines) != 2 {
		t.Fatalf("expected blank row to be dropped, got %d lines", len(posted.Lines))
	}
	if posted.Lines[0].ID != draft.Lines[0].ID || posted.Lines[1].ID != draft.Lines[1].ID {
		t.Errorf("kept rows changed ids")
	}

	stored, err := f.journal.GetEntry(ctx, draft.ID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if len(stored.Lines) != 2 || stored.Status != domain.EntryStatusPosted {
		t.Errorf("unexpected stored entry: status %s, %d lines", stored.Status, len(stored.Lines))
	}
}

type failingAccountRepo struct {
	usecase.AccountRepository
	err error
}

func (r failingAccountRepo) GetByID(context.Context, string) (*domain.Account, error) {
	return nil, r.err
}

func TestJournalUseCase_UpdateDraftLineStorageFailure(t *testing.T) {
	f := newLedgerFixture(t)
	draft := f.draft(t, day(11),
		usecase.LineInput{AccountID: f.cash, Debit: 250},
		usecase.LineInput{AccountID: f.sales, Credit: 250},
	)

	dbDown := errors.New("connection refused")
	journal := usecase.NewJournalUseCase(usecase.JournalConfig{
		TxManager:   memory.NewTxManager(f.store),
		AccountRepo: failingAccountRepo{AccountRepository: memory.NewAccountRepository(f.store), err: dbDown},
		EntryRepo:   memory.NewEntryRepository(f.store),
		LedgerRepo:  memory.NewLedgerRepository(f.store),
		PeriodRepo:  memory.NewPeriodLockRepository(f.store),
		OutboxRepo:  memory.NewOutboxRepository(f.store),
		AuditRepo:   memory.NewAuditRepository(f.store),
		IDGen:       &seqIDs{},
		Logger:      zerolog.Nop(),
		Clock:       func() time.Time { return testNow },
	})

	_, err := journal.UpdateDraftLine(context.Background(), usecase.UpdateLineInput{
		ID: draft.ID, Index: 1, Field: domain.LineFieldAccount, Value: f.rent,
	})
	if !errors.Is(err, dbDown) {
		t.Fatalf("expected storage error to pass through, got %v", err)
	}
	if errors.Is(err, domain.ErrUnknownAccount) {
		t.Fatalf("storage failure reported as unknown account: %v", err)
	}

	_, err = f.journal.UpdateDraftLine(context.Background(), usecase.UpdateLineInput{
		ID: draft.ID, Index: 1, Field: domain.LineFieldAccount, Value: "missing",
	})
	if !errors.Is(err, domain.ErrUnknownAccount) {
		t.Fatalf("expected unknown account for a missing id, got %v", err)
	}
}

func TestJournalUseCase_UpdateDraft(t *testing.T) {
	f := newLedgerFixture(t)
	draft := f.draft(t, day(10),
		usecase.LineInput{AccountID: f.cash, Debit: 100},
		usecase.LineInput{AccountID: f.sales, Credit: 90},
	)

	updated, err := f.journal.UpdateDraft(context.Background(), usecase.UpdateEntryInput{
		ID:          draft.ID,
		EntryDate:   day(11),
		Description: "  corrected  ",
		Lines: []usecase.LineInput{
			{AccountID: f.cash, Debit: 90},
			{AccountID: f.sales, Credit: 90},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "corrected" || !updated.EntryDate.Equal(day(11)) {
		t.Errorf("header not updated: %q %s", updated.Description, updated.EntryDate)
	}
	if updated.Version != draft.Version+1 {
		t.Errorf("version = %d, want %d", updated.Version, draft.Version+1)
	}

	f.post(t, draft.ID)

	history, err := f.journal.EntryHistory(context.Background(), draft.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	actions := make([]string, len(history))
	for i, h := range history {
		actions[i] = h.Action
	}
	want := []string{"journal.create", "journal.update", "journal.post"}
	if fmt.Sprint(actions) != fmt.Sprint(want) {
		t.Errorf("history = %v, want %v", actions, want)
	}
}

func TestJournalUseCase_DiscardDraft(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	draft := f.draft(t, day(10),
		usecase.LineInput{AccountID: f.cash, Debit: 100},
		usecase.LineInput{AccountID: f.sales, Credit: 100},
	)
	if err := f.journal.DiscardDraft(ctx, usecase.DiscardEntryInput{ID: draft.ID}); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if _, err := f.journal.GetEntry(ctx, draft.ID); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	other := f.draft(t, day(10),
		usecase.LineInput{AccountID: f.cash, Debit: 100},
		usecase.LineInput{AccountID: f.sales, Credit: 100},
	)
	f.post(t, other.ID)

	err := f.journal.DiscardDraft(ctx, usecase.DiscardEntryInput{ID: other.ID})
	var te *domain.TransitionError
	if !errors.As(err, &te) || te.From != domain.EntryStatusPosted || te.To != domain.EntryStatusDiscarded {
		t.Fatalf("expected posted -> discarded rejection, got %v", err)
	}
}

func TestJournalUseCase_PeriodLock(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	early := f.draft(t, day(5),
		usecase.LineInput{AccountID: f.cash, Debit: 100},
		usecase.LineInput{AccountID: f.sales, Credit: 100},
	)

	lockDate := day(10)
	if _, err := f.periods.SetPeriodLock(ctx, usecase.SetPeriodLockInput{LockedBefore: &lockDate}); err != nil {
		t.Fatalf("set lock: %v", err)
	}

	if _, err := f.journal.PostEntry(ctx, usecase.PostEntryInput{ID: early.ID}); !errors.Is(err, domain.ErrPeriodLocked) {
		t.Errorf("posting into a locked period: got %v", err)
	}
	_, err := f.journal.CreateDraftEntry(ctx, usecase.CreateEntryInput{
		EntryDate: day(9),
		Lines:     []usecase.LineInput{{AccountID: f.cash, Debit: 1}},
	})
	if !errors.Is(err, domain.ErrPeriodLocked) {
		t.Errorf("creating in a locked period: got %v", err)
	}

	onLockDay := f.draft(t, day(10),
		usecase.LineInput{AccountID: f.cash, Debit: 100},
		usecase.LineInput{AccountID: f.sales, Credit: 100},
	)
	f.post(t, onLockDay.ID)

	if _, err := f.periods.SetPeriodLock(ctx, usecase.SetPeriodLockInput{}); err != nil {
		t.Fatalf("clear lock: %v", err)
	}
	f.post(t, early.ID)
}

func TestJournalUseCase_ListEntries(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	a := f.draft(t, day(1),
		usecase.LineInput{AccountID: f.cash, Debit: 10},
		usecase.LineInput{AccountID: f.sales, Credit: 10},
	)
	f.draft(t, day(20),
		usecase.LineInput{AccountID: f.cash, Debit: 10},
		usecase.LineInput{AccountID: f.sales, Credit: 10},
	)
	f.post(t, a.ID)

	posted, err := f.journal.ListEntries(ctx, usecase.ListEntriesInput{Status: "POSTED"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posted) != 1 || posted[0].ID != a.ID {
		t.Errorf("unexpected posted listing %v", posted)
	}

	from := day(10)
	recent, _ := f.journal.ListEntries(ctx, usecase.ListEntriesInput{From: &from})
	if len(recent) != 1 || recent[0].ID == a.ID {
		t.Errorf("unexpected date-filtered listing %v", recent)
	}

	if _, err := f.journal.ListEntries(ctx, usecase.ListEntriesInput{Status: "archived"}); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestJournalUseCase_Evaluate(t *testing.T) {
	f := newLedgerFixture(t)

	result, err := f.journal.Evaluate(context.Background(), []usecase.LineInput{
		{AccountID: f.cash, Debit: 100},
		{AccountID: f.sales, Credit: 40},
		{AccountID: f.rent, Credit: 60},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !result.IsBalanced() || result.TotalDebit != 100 {
		t.Errorf("unexpected result %+v", result)
	}

	entries, _ := f.journal.ListEntries(context.Background(), usecase.ListEntriesInput{})
	if len(entries) != 0 {
		t.Errorf("evaluate must not store anything")
	}
}
