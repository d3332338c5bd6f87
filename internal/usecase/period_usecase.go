package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hassanjava2/bi-ledger/internal/domain"
)

// PeriodUseCase manages the closing date of the books.
type PeriodUseCase struct {
	txManager  TransactionManager
	periodRepo PeriodLockRepository
	trail      trail
	logger     zerolog.Logger
}

// NewPeriodUseCase creates a new PeriodUseCase.
func NewPeriodUseCase(
	txManager TransactionManager,
	periodRepo PeriodLockRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *PeriodUseCase {
	return &PeriodUseCase{
		txManager:  txManager,
		periodRepo: periodRepo,
		trail:      trail{outboxRepo: outboxRepo, auditRepo: auditRepo, idGen: idGen},
		logger:     logger,
	}
}

// GetPeriodLock returns the current lock. A nil LockedBefore means no lock.
func (uc *PeriodUseCase) GetPeriodLock(ctx context.Context) (domain.PeriodLock, error) {
	return uc.periodRepo.Get(ctx)
}

// SetPeriodLockInput represents input for moving the lock date.
type SetPeriodLockInput struct {
	LockedBefore *time.Time
	Actor        string
}

// SetPeriodLock moves or clears the lock date.
func (uc *PeriodUseCase) SetPeriodLock(ctx context.Context, input SetPeriodLockInput) (domain.PeriodLock, error) {
	actor := actorOrSystem(input.Actor)
	now := time.Now().UTC()

	lock := domain.PeriodLock{UpdatedBy: actor, UpdatedAt: now}
	if input.LockedBefore != nil {
		d := domain.DateOnly(*input.LockedBefore)
		lock.LockedBefore = &d
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return domain.PeriodLock{}, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	previous, err := uc.periodRepo.Get(txCtx)
	if err != nil {
		return domain.PeriodLock{}, err
	}

	if err := uc.periodRepo.Set(txCtx, tx, lock); err != nil {
		return domain.PeriodLock{}, err
	}

	payload := map[string]any{"actor": actor, "locked_before": nil}
	if lock.LockedBefore != nil {
		payload["locked_before"] = lock.LockedBefore.Format(domain.DateLayout)
	}
	if err := uc.trail.record(txCtx, tx, trailRecord{
		Actor:         actor,
		Action:        domain.AuditActionPeriodLock,
		EventType:     domain.EventTypePeriodLocked,
		AggregateType: domain.AggregateTypePeriod,
		AggregateID:   "period_lock",
		Payload:       payload,
		Before:        previous,
		After:         lock,
		At:            now,
	}); err != nil {
		return domain.PeriodLock{}, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return domain.PeriodLock{}, err
	}

	uc.logger.Info().Interface("locked_before", lock.LockedBefore).Str("actor", actor).Msg("period lock updated")

	return lock, nil
}
