package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/postgres/generated"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: generated.New(db)}
}

// GetByID retrieves an entry with its lines.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	row, err := r.queries.GetJournalEntry(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	entries, err := withLines(ctx, r.queries, []generated.JournalEntry{row})
	if err != nil {
		return nil, err
	}
	return entries[0], nil
}

// GetByIDForUpdate loads the entry with SELECT ... FOR UPDATE.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.JournalEntry, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetJournalEntryForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	entries, err := withLines(ctx, queries, []generated.JournalEntry{row})
	if err != nil {
		return nil, err
	}
	return entries[0], nil
}

// Save inserts a new entry or updates an existing one under a version check.
// Lines are rewritten on insert and while the entry is a draft; posted lines
// never change.
func (r *EntryRepository) Save(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	if entry.Version == 0 {
		err = queries.InsertJournalEntry(ctx, generated.InsertJournalEntryParams{
			ID:            entry.ID,
			EntryNumber:   entry.EntryNumber,
			EntryDate:     timeToPgDate(entry.EntryDate),
			Description:   entry.Description,
			ReferenceType: entry.ReferenceType,
			ReferenceID:   entry.ReferenceID,
			Status:        string(entry.Status),
			Version:       1,
			CreatedBy:     entry.CreatedBy,
			CreatedAt:     timeToPgTimestamptz(entry.CreatedAt),
			UpdatedAt:     timeToPgTimestamptz(entry.UpdatedAt),
			PostedBy:      entry.PostedBy,
			PostedAt:      optionalTimestamptz(entry.PostedAt),
			ReversalOf:    textOrNull(entry.ReversalOf),
			ReversedBy:    textOrNull(entry.ReversedBy),
		})
		if err != nil {
			if pgErrorCode(err) == pgErrUniqueViolation {
				return domain.ErrVersionConflict
			}
			return err
		}
		if err := insertLines(ctx, queries, entry); err != nil {
			return err
		}
		entry.Version = 1
		return nil
	}

	n, err := queries.UpdateJournalEntry(ctx, generated.UpdateJournalEntryParams{
		ID:            entry.ID,
		EntryDate:     timeToPgDate(entry.EntryDate),
		Description:   entry.Description,
		ReferenceType: entry.ReferenceType,
		ReferenceID:   entry.ReferenceID,
		Status:        string(entry.Status),
		UpdatedAt:     timeToPgTimestamptz(entry.UpdatedAt),
		PostedBy:      entry.PostedBy,
		PostedAt:      optionalTimestamptz(entry.PostedAt),
		ReversedBy:    textOrNull(entry.ReversedBy),
		Version:       entry.Version,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrVersionConflict
	}

	if entry.Status == domain.EntryStatusDraft {
		if err := queries.DeleteJournalLines(ctx, entry.ID); err != nil {
			return err
		}
		if err := insertLines(ctx, queries, entry); err != nil {
			return err
		}
	}

	entry.Version++
	return nil
}

// Delete removes a draft; its lines go with it through ON DELETE CASCADE.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string, version int64) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	n, err := queries.DeleteJournalEntry(ctx, generated.DeleteJournalEntryParams{ID: id, Version: version})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// List returns entries newest first.
func (r *EntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.JournalEntry, error) {
	rows, err := r.queries.ListJournalEntries(ctx, generated.ListJournalEntriesParams{
		Status:   string(filter.Status),
		FromDate: optionalDate(filter.From),
		ToDate:   optionalDate(filter.To),
		Limit:    int32(filter.Limit),
		Offset:   int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}
	return withLines(ctx, r.queries, rows)
}

// ListPostedEntriesForAccount returns posted and reversed entries touching the account.
func (r *EntryRepository) ListPostedEntriesForAccount(ctx context.Context, accountID string, asOf *time.Time) ([]*domain.JournalEntry, error) {
	rows, err := r.queries.ListPostedEntriesForAccount(ctx, generated.ListPostedEntriesForAccountParams{
		AccountID: textOrNull(accountID),
		AsOf:      optionalDate(asOf),
	})
	if err != nil {
		return nil, err
	}
	return withLines(ctx, r.queries, rows)
}

// NextEntryNumber reserves the next sequence value for year. The sequence row
// stays locked until tx ends, so numbers are gap-free per committed entry.
func (r *EntryRepository) NextEntryNumber(ctx context.Context, tx usecase.Transaction, year int) (int64, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return 0, err
	}
	return queries.NextEntrySequence(ctx, int32(year))
}

func insertLines(ctx context.Context, queries *generated.Queries, entry *domain.JournalEntry) error {
	for i, l := range entry.Lines {
		err := queries.InsertJournalLine(ctx, generated.InsertJournalLineParams{
			ID:          l.ID,
			EntryID:     entry.ID,
			LineNo:      int32(i),
			AccountID:   textOrNull(l.AccountID),
			Debit:       int64(l.Debit),
			Credit:      int64(l.Credit),
			Description: l.Description,
			CostCenter:  l.CostCenter,
		})
		if err != nil {
			if pgErrorCode(err) == pgErrForeignKeyViolation {
				return &domain.ValidationError{Lines: []*domain.LineError{{
					Index: i, AccountID: l.AccountID, Err: domain.ErrUnknownAccount,
				}}}
			}
			return err
		}
	}
	return nil
}

// withLines loads the lines of every row in one query and assembles the entries.
func withLines(ctx context.Context, queries *generated.Queries, rows []generated.JournalEntry) ([]*domain.JournalEntry, error) {
	entries := make([]*domain.JournalEntry, 0, len(rows))
	if len(rows) == 0 {
		return entries, nil
	}

	ids := make([]string, len(rows))
	byID := make(map[string]*domain.JournalEntry, len(rows))
	for i, row := range rows {
		e := rowToEntry(row)
		ids[i] = e.ID
		byID[e.ID] = e
		entries = append(entries, e)
	}

	lines, err := queries.ListJournalLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		e := byID[l.EntryID]
		e.Lines = append(e.Lines, domain.JournalLine{
			ID:          l.ID,
			EntryID:     l.EntryID,
			AccountID:   l.AccountID.String,
			Debit:       domain.Amount(l.Debit),
			Credit:      domain.Amount(l.Credit),
			Description: l.Description,
			CostCenter:  l.CostCenter,
		})
	}

	return entries, nil
}

func rowToEntry(row generated.JournalEntry) *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:            row.ID,
		EntryNumber:   row.EntryNumber,
		EntryDate:     pgDateToTime(row.EntryDate),
		Description:   row.Description,
		ReferenceType: row.ReferenceType,
		ReferenceID:   row.ReferenceID,
		Status:        domain.EntryStatus(row.Status),
		Version:       row.Version,
		CreatedBy:     row.CreatedBy,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
		PostedBy:      row.PostedBy,
		PostedAt:      timestamptzPtr(row.PostedAt),
		ReversalOf:    row.ReversalOf.String,
		ReversedBy:    row.ReversedBy.String,
	}
}
