package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/metrics"
)

// JournalUseCase drives journal entries through draft, posted and reversed.
type JournalUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	entryRepo    EntryRepository
	ledgerRepo   LedgerRepository
	periodRepo   PeriodLockRepository
	auditRepo    AuditRepository
	balanceCache BalanceCache
	retrier      Retrier
	idGen        IDGenerator
	trail        trail
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	scale        int32
	now          func() time.Time
}

// JournalConfig wires a JournalUseCase. BalanceCache, OutboxRepo, AuditRepo,
// Retrier and Metrics are optional.
type JournalConfig struct {
	TxManager     TransactionManager
	AccountRepo   AccountRepository
	EntryRepo     EntryRepository
	LedgerRepo    LedgerRepository
	PeriodRepo    PeriodLockRepository
	OutboxRepo    OutboxRepository
	AuditRepo     AuditRepository
	BalanceCache  BalanceCache
	Retrier       Retrier
	IDGen         IDGenerator
	Metrics       *metrics.Metrics
	Logger        zerolog.Logger
	CurrencyScale int32
	Clock         func() time.Time
}

// NewJournalUseCase creates a new JournalUseCase.
func NewJournalUseCase(cfg JournalConfig) *JournalUseCase {
	if cfg.Retrier == nil {
		cfg.Retrier = noRetry{}
	}
	if cfg.Clock == nil {
		cfg.Clock = func() time.Time { return time.Now().UTC() }
	}
	if cfg.CurrencyScale == 0 {
		cfg.CurrencyScale = domain.DefaultScale
	}

	return &JournalUseCase{
		txManager:    cfg.TxManager,
		accountRepo:  cfg.AccountRepo,
		entryRepo:    cfg.EntryRepo,
		ledgerRepo:   cfg.LedgerRepo,
		periodRepo:   cfg.PeriodRepo,
		auditRepo:    cfg.AuditRepo,
		balanceCache: cfg.BalanceCache,
		retrier:      cfg.Retrier,
		idGen:        cfg.IDGen,
		trail:        trail{outboxRepo: cfg.OutboxRepo, auditRepo: cfg.AuditRepo, idGen: cfg.IDGen, metrics: cfg.Metrics},
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		scale:        cfg.CurrencyScale,
		now:          cfg.Clock,
	}
}

type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error { return operation() }

// LineInput is one proposed journal line.
type LineInput struct {
	AccountID   string
	Debit       domain.Amount
	Credit      domain.Amount
	Description string
	CostCenter  string
}

// CreateEntryInput represents input for creating a draft entry.
type CreateEntryInput struct {
	EntryDate     time.Time
	Description   string
	ReferenceType string
	ReferenceID   string
	Lines         []LineInput
	Actor         string
}

// CreateDraftEntry validates every line and stores the entry as a draft.
// The balance invariant is only enforced when the entry is posted.
func (uc *JournalUseCase) CreateDraftEntry(ctx context.Context, input CreateEntryInput) (*domain.JournalEntry, error) {
	now := uc.now()
	date := input.EntryDate
	if date.IsZero() {
		date = now
	}
	date = domain.DateOnly(date)

	if err := uc.checkHeader(input.Description, len(input.Lines)); err != nil {
		return nil, err
	}
	if err := uc.checkPeriod(ctx, date); err != nil {
		return nil, err
	}

	lines := uc.buildLines(input.Lines)
	accounts, err := uc.lookupAccounts(ctx, lines)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateLines(lines, accounts); err != nil {
		uc.rejected(err)
		return nil, err
	}

	actor := actorOrSystem(input.Actor)
	entry := &domain.JournalEntry{
		ID:            uc.idGen.Generate(),
		EntryDate:     date,
		Description:   strings.TrimSpace(input.Description),
		ReferenceType: input.ReferenceType,
		ReferenceID:   input.ReferenceID,
		Status:        domain.EntryStatusDraft,
		CreatedBy:     actor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := entry.ReplaceLines(lines, now); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	seq, err := uc.entryRepo.NextEntryNumber(txCtx, tx, date.Year())
	if err != nil {
		return nil, err
	}
	entry.EntryNumber = domain.FormatEntryNumber(date.Year(), seq)

	if err := uc.entryRepo.Save(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.trail.record(txCtx, tx, trailRecord{
		Actor:         actor,
		Action:        domain.AuditActionJournalCreate,
		EventType:     domain.EventTypeJournalCreated,
		AggregateType: domain.AggregateTypeJournalEntry,
		AggregateID:   entry.ID,
		Payload:       domain.JournalEventPayload(entry, actor),
		After:         entry,
		At:            now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesCreated.Inc()
	}
	uc.logger.Info().
		Str("entry_id", entry.ID).
		Str("entry_number", entry.EntryNumber).
		Int("lines", len(entry.Lines)).
		Str("actor", actor).
		Msg("journal entry created")

	return entry, nil
}

// GetEntry retrieves an entry with its lines.
func (uc *JournalUseCase) GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// ListEntries lists entries newest first.
func (uc *JournalUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.JournalEntry, error) {
	filter := EntryFilter{From: input.From, To: input.To}
	if input.Status != "" {
		filter.Status = domain.EntryStatus(strings.ToLower(input.Status))
		if !filter.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, input.Status)
		}
	}
	filter.Limit, filter.Offset = domain.ValidatePagination(input.Limit, input.Offset)

	return uc.entryRepo.List(ctx, filter)
}

// EntryHistory returns the audit trail of an entry.
func (uc *JournalUseCase) EntryHistory(ctx context.Context, id string) ([]*domain.AuditLog, error) {
	if _, err := uc.entryRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if uc.auditRepo == nil {
		return nil, nil
	}
	return uc.auditRepo.GetByResourceID(ctx, domain.AggregateTypeJournalEntry, id)
}

// Evaluate is a dry run of the balancer over proposed lines.
func (uc *JournalUseCase) Evaluate(ctx context.Context, inputs []LineInput) (domain.BalanceResult, error) {
	if len(inputs) > domain.MaxEntryLines {
		return domain.BalanceResult{}, domain.ErrTooManyLines
	}
	lines := uc.buildLines(inputs)
	accounts, err := uc.lookupAccounts(ctx, lines)
	if err != nil {
		return domain.BalanceResult{}, err
	}
	return domain.Evaluate(lines, accounts), nil
}

// UpdateEntryInput replaces the header and lines of a draft.
type UpdateEntryInput struct {
	ID            string
	EntryDate     time.Time
	Description   string
	ReferenceType string
	ReferenceID   string
	Lines         []LineInput
	Actor         string
}

// UpdateDraft replaces a draft's header and line set.
func (uc *JournalUseCase) UpdateDraft(ctx context.Context, input UpdateEntryInput) (*domain.JournalEntry, error) {
	if err := uc.checkHeader(input.Description, len(input.Lines)); err != nil {
		return nil, err
	}

	lines := uc.buildLines(input.Lines)
	accounts, err := uc.lookupAccounts(ctx, lines)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateLines(lines, accounts); err != nil {
		uc.rejected(err)
		return nil, err
	}

	return uc.editDraft(ctx, input.ID, input.Actor, func(entry *domain.JournalEntry, now time.Time) error {
		date := input.EntryDate
		if date.IsZero() {
			date = entry.EntryDate
		}
		if err := uc.checkPeriod(ctx, date); err != nil {
			return err
		}
		if err := entry.UpdateHeader(date, strings.TrimSpace(input.Description), input.ReferenceType, input.ReferenceID, now); err != nil {
			return err
		}
		return entry.ReplaceLines(lines, now)
	})
}

// UpdateLineInput sets one field of one draft line. Index equal to the
// current line count appends a new line.
type UpdateLineInput struct {
	ID    string
	Index int
	Field domain.LineField
	Value string
	Actor string
}

// UpdateDraftLine applies a single-cell edit to a draft. A positive amount on
// one side clears the other side of the same line.
func (uc *JournalUseCase) UpdateDraftLine(ctx context.Context, input UpdateLineInput) (*domain.JournalEntry, error) {
	return uc.editDraft(ctx, input.ID, input.Actor, func(entry *domain.JournalEntry, now time.Time) error {
		draft := entry.Draft()
		if input.Index == draft.Len() {
			if draft.Len() >= domain.MaxEntryLines {
				return domain.ErrTooManyLines
			}
			draft = draft.WithLineAdded(domain.DraftLine{})
		}

		next, err := draft.WithLineUpdated(input.Index, input.Field, input.Value, uc.scale)
		if err != nil {
			return err
		}

		lines := uc.keepLineIDs(entry.Lines, next.JournalLines())
		if err := entry.ReplaceLines(lines, now); err != nil {
			return err
		}

		// A half-filled row is allowed while editing; only the account must resolve.
		line := entry.Lines[input.Index]
		if line.AccountID != "" {
			if _, err := uc.accountRepo.GetByID(ctx, line.AccountID); err != nil {
				if !errors.Is(err, domain.ErrAccountNotFound) {
					return err
				}
				return &domain.ValidationError{Lines: []*domain.LineError{{
					Index: input.Index, AccountID: line.AccountID, Err: domain.ErrUnknownAccount,
				}}}
			}
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return &domain.ValidationError{Lines: []*domain.LineError{{
				Index: input.Index, AccountID: line.AccountID, Err: domain.ErrNegativeAmount,
			}}}
		}
		return nil
	})
}

func (uc *JournalUseCase) editDraft(
	ctx context.Context,
	id, actor string,
	apply func(entry *domain.JournalEntry, now time.Time) error,
) (*domain.JournalEntry, error) {
	actor = actorOrSystem(actor)
	var updated *domain.JournalEntry

	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}
		if entry.Status != domain.EntryStatusDraft {
			return &domain.TransitionError{From: entry.Status, To: domain.EntryStatusDraft}
		}
		if err := uc.checkPeriod(txCtx, entry.EntryDate); err != nil {
			return err
		}

		before := domain.MarshalState(entry)
		now := uc.now()
		if err := apply(entry, now); err != nil {
			return err
		}

		if err := uc.entryRepo.Save(txCtx, tx, entry); err != nil {
			return err
		}

		if err := uc.trail.record(txCtx, tx, trailRecord{
			Actor:         actor,
			Action:        domain.AuditActionJournalUpdate,
			EventType:     domain.EventTypeJournalUpdated,
			AggregateType: domain.AggregateTypeJournalEntry,
			AggregateID:   entry.ID,
			Payload:       domain.JournalEventPayload(entry, actor),
			Before:        before,
			After:         entry,
			At:            now,
		}); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}
		updated = entry
		return nil
	})
	if err != nil {
		uc.rejected(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesUpdated.Inc()
	}
	uc.logger.Debug().Str("entry_id", updated.ID).Str("actor", actor).Msg("journal entry updated")

	return updated, nil
}

// DiscardEntryInput represents input for discarding a draft.
type DiscardEntryInput struct {
	ID    string
	Actor string
}

// DiscardDraft deletes a draft together with its lines.
func (uc *JournalUseCase) DiscardDraft(ctx context.Context, input DiscardEntryInput) error {
	actor := actorOrSystem(input.Actor)

	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, input.ID)
		if err != nil {
			return err
		}
		if err := entry.CheckDiscard(); err != nil {
			return err
		}

		if err := uc.entryRepo.Delete(txCtx, tx, entry.ID, entry.Version); err != nil {
			return err
		}

		if err := uc.trail.record(txCtx, tx, trailRecord{
			Actor:         actor,
			Action:        domain.AuditActionJournalDiscard,
			EventType:     domain.EventTypeJournalDiscarded,
			AggregateType: domain.AggregateTypeJournalEntry,
			AggregateID:   entry.ID,
			Payload:       domain.JournalEventPayload(entry, actor),
			Before:        entry,
			At:            uc.now(),
		}); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		uc.rejected(err)
		return err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesDiscarded.Inc()
	}
	uc.logger.Info().Str("entry_id", input.ID).Str("actor", actor).Msg("journal entry discarded")

	return nil
}

// PostEntryInput represents input for posting an entry.
type PostEntryInput struct {
	ID    string
	Actor string
}

// PostEntry re-evaluates a draft and makes it immutable. Of two concurrent
// posts of the same draft exactly one succeeds; the other observes the entry
// already posted and fails with an InvalidTransition.
func (uc *JournalUseCase) PostEntry(ctx context.Context, input PostEntryInput) (*domain.JournalEntry, error) {
	start := time.Now()
	actor := actorOrSystem(input.Actor)
	var posted *domain.JournalEntry

	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, input.ID)
		if err != nil {
			return err
		}
		if entry.Status != domain.EntryStatusDraft {
			return &domain.TransitionError{From: entry.Status, To: domain.EntryStatusPosted}
		}
		if err := uc.checkPeriod(txCtx, entry.EntryDate); err != nil {
			return err
		}

		now := uc.now()
		// Rows appended by cell edits and left empty are not part of the entry.
		dropped, err := entry.DropBlankLines(now)
		if err != nil {
			return err
		}
		if dropped {
			if err := uc.entryRepo.Save(txCtx, tx, entry); err != nil {
				return err
			}
		}

		accounts, err := uc.lookupAccounts(txCtx, entry.Lines)
		if err != nil {
			return err
		}

		if err := entry.Post(domain.Evaluate(entry.Lines, accounts), actor, now); err != nil {
			return err
		}

		if err := uc.entryRepo.Save(txCtx, tx, entry); err != nil {
			return err
		}
		if _, err := uc.ledgerRepo.BumpRevision(txCtx, tx); err != nil {
			return err
		}

		if err := uc.trail.record(txCtx, tx, trailRecord{
			Actor:         actor,
			Action:        domain.AuditActionJournalPost,
			EventType:     domain.EventTypeJournalPosted,
			AggregateType: domain.AggregateTypeJournalEntry,
			AggregateID:   entry.ID,
			Payload:       domain.JournalEventPayload(entry, actor),
			After:         entry,
			At:            now,
		}); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}
		posted = entry
		return nil
	})
	if err != nil {
		uc.rejected(err)
		return nil, err
	}

	uc.invalidateBalances(ctx, posted.AccountIDs())

	if uc.metrics != nil {
		debit, _ := posted.Totals()
		uc.metrics.EntriesPosted.Inc()
		uc.metrics.PostedAmount.Observe(float64(debit))
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
	}
	uc.logger.Info().
		Str("entry_id", posted.ID).
		Str("entry_number", posted.EntryNumber).
		Str("actor", actor).
		Msg("journal entry posted")

	return posted, nil
}

// ReverseEntryInput represents input for reversing a posted entry.
type ReverseEntryInput struct {
	ID        string
	EntryDate *time.Time
	Actor     string
}

// ReverseEntry creates a posted mirror of a posted entry and marks the
// original reversed. It returns the mirror and the updated original.
func (uc *JournalUseCase) ReverseEntry(ctx context.Context, input ReverseEntryInput) (*domain.JournalEntry, *domain.JournalEntry, error) {
	start := time.Now()
	actor := actorOrSystem(input.Actor)
	var reversal, original *domain.JournalEntry

	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, input.ID)
		if err != nil {
			return err
		}
		if entry.Status != domain.EntryStatusPosted {
			return &domain.TransitionError{From: entry.Status, To: domain.EntryStatusReversed}
		}

		now := uc.now()
		date := domain.DateOnly(now)
		if input.EntryDate != nil {
			date = domain.DateOnly(*input.EntryDate)
		}
		if date.Before(entry.EntryDate) {
			return fmt.Errorf("%w: reversal cannot be dated before %s",
				domain.ErrInvalidDate, entry.EntryDate.Format(domain.DateLayout))
		}
		if err := uc.checkPeriod(txCtx, date); err != nil {
			return err
		}

		seq, err := uc.entryRepo.NextEntryNumber(txCtx, tx, date.Year())
		if err != nil {
			return err
		}

		mirror, err := entry.Reverse(domain.Reversal{
			ID:          uc.idGen.Generate(),
			EntryNumber: domain.FormatEntryNumber(date.Year(), seq),
			EntryDate:   date,
			Actor:       actor,
			Now:         now,
			NewLineID:   uc.idGen.Generate,
		})
		if err != nil {
			return err
		}

		if err := uc.entryRepo.Save(txCtx, tx, mirror); err != nil {
			return err
		}
		if err := uc.entryRepo.Save(txCtx, tx, entry); err != nil {
			return err
		}
		if _, err := uc.ledgerRepo.BumpRevision(txCtx, tx); err != nil {
			return err
		}

		if err := uc.trail.record(txCtx, tx, trailRecord{
			Actor:         actor,
			Action:        domain.AuditActionJournalReverse,
			EventType:     domain.EventTypeJournalReversed,
			AggregateType: domain.AggregateTypeJournalEntry,
			AggregateID:   entry.ID,
			Payload:       domain.JournalEventPayload(entry, actor),
			After:         entry,
			At:            now,
		}); err != nil {
			return err
		}
		if err := uc.trail.record(txCtx, tx, trailRecord{
			Actor:         actor,
			Action:        domain.AuditActionJournalCreate,
			AggregateType: domain.AggregateTypeJournalEntry,
			AggregateID:   mirror.ID,
			After:         mirror,
			At:            now,
		}); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}
		reversal, original = mirror, entry
		return nil
	})
	if err != nil {
		uc.rejected(err)
		return nil, nil, err
	}

	uc.invalidateBalances(ctx, original.AccountIDs())

	if uc.metrics != nil {
		uc.metrics.EntriesReversed.Inc()
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
	}
	uc.logger.Info().
		Str("entry_id", original.ID).
		Str("reversal_id", reversal.ID).
		Str("reversal_number", reversal.EntryNumber).
		Str("actor", actor).
		Msg("journal entry reversed")

	return reversal, original, nil
}

func (uc *JournalUseCase) checkHeader(description string, lineCount int) error {
	if err := domain.ValidateDescription(description); err != nil {
		return err
	}
	if lineCount > domain.MaxEntryLines {
		return fmt.Errorf("%w: %d > %d", domain.ErrTooManyLines, lineCount, domain.MaxEntryLines)
	}
	return nil
}

func (uc *JournalUseCase) checkPeriod(ctx context.Context, date time.Time) error {
	if uc.periodRepo == nil {
		return nil
	}
	lock, err := uc.periodRepo.Get(ctx)
	if err != nil {
		return err
	}
	return lock.Check(date)
}

func (uc *JournalUseCase) buildLines(inputs []LineInput) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(inputs))
	for i, in := range inputs {
		lines[i] = domain.JournalLine{
			ID:          uc.idGen.Generate(),
			AccountID:   strings.TrimSpace(in.AccountID),
			Debit:       in.Debit,
			Credit:      in.Credit,
			Description: in.Description,
			CostCenter:  in.CostCenter,
		}
	}
	return lines
}

// keepLineIDs carries existing line ids over to the edited line set by position.
func (uc *JournalUseCase) keepLineIDs(old, edited []domain.JournalLine) []domain.JournalLine {
	for i := range edited {
		if i < len(old) {
			edited[i].ID = old[i].ID
		} else {
			edited[i].ID = uc.idGen.Generate()
		}
	}
	return edited
}

func (uc *JournalUseCase) lookupAccounts(ctx context.Context, lines []domain.JournalLine) (domain.AccountSet, error) {
	seen := make(map[string]bool, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.AccountID != "" && !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}
	if len(ids) == 0 {
		return domain.AccountSet{}, nil
	}

	accounts, err := uc.accountRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return domain.NewAccountSet(accounts...), nil
}

func (uc *JournalUseCase) invalidateBalances(ctx context.Context, accountIDs []string) {
	if uc.balanceCache == nil {
		return
	}
	if err := uc.balanceCache.Invalidate(ctx, accountIDs...); err != nil {
		uc.logger.Warn().Err(err).Strs("account_ids", accountIDs).Msg("failed to invalidate balance cache")
	}
}

func (uc *JournalUseCase) rejected(err error) {
	if uc.metrics == nil || err == nil {
		return
	}
	var te *domain.TransitionError
	if errors.As(err, &te) {
		uc.metrics.TransitionRejects.WithLabelValues(string(te.From), string(te.To)).Inc()
		return
	}
	if reason := metrics.RejectionReason(err); reason != "other" {
		uc.metrics.ValidationFailures.WithLabelValues(reason).Inc()
	}
}
