package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/metrics"
)

// AccountUseCase handles the chart of accounts.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	idGen       IDGenerator
	trail       trail
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		idGen:       idGen,
		trail:       trail{outboxRepo: outboxRepo, auditRepo: auditRepo, idGen: idGen, metrics: m},
		metrics:     m,
		logger:      logger,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Code     string
	Name     string
	NameAr   string
	Type     string
	ParentID string
	IsSystem bool
	Actor    string
}

// CreateAccount registers a new account. The normal side follows from the type.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	code := strings.TrimSpace(input.Code)
	if err := domain.ValidateAccountCode(code); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if err := domain.ValidateAccountName(name); err != nil {
		return nil, err
	}
	typ := domain.AccountType(strings.ToLower(strings.TrimSpace(input.Type)))
	if !typ.Valid() {
		return nil, domain.ErrInvalidAccountType
	}

	if input.ParentID != "" {
		if _, err := uc.accountRepo.GetByID(ctx, input.ParentID); err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return nil, domain.ErrParentNotFound
			}
			return nil, err
		}
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:         uc.idGen.Generate(),
		Code:       code,
		Name:       name,
		NameAr:     strings.TrimSpace(input.NameAr),
		Type:       typ,
		NormalSide: typ.NormalSide(),
		ParentID:   input.ParentID,
		IsSystem:   input.IsSystem,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, err
	}

	actor := actorOrSystem(input.Actor)
	if err := uc.trail.record(txCtx, tx, trailRecord{
		Actor:         actor,
		Action:        domain.AuditActionAccountCreate,
		EventType:     domain.EventTypeAccountCreated,
		AggregateType: domain.AggregateTypeAccount,
		AggregateID:   account.ID,
		Payload:       domain.AccountEventPayload(account, actor),
		After:         account,
		At:            now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}
	uc.logger.Info().
		Str("account_id", account.ID).
		Str("code", account.Code).
		Str("type", string(account.Type)).
		Msg("account created")

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Type   string
	Limit  int
	Offset int
}

// ListAccounts lists accounts ordered by code.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	filter := AccountFilter{}
	if input.Type != "" {
		filter.Type = domain.AccountType(strings.ToLower(input.Type))
		if !filter.Type.Valid() {
			return nil, domain.ErrInvalidAccountType
		}
	}
	filter.Limit, filter.Offset = domain.ValidatePagination(input.Limit, input.Offset)

	return uc.accountRepo.List(ctx, filter)
}

// DeleteAccountInput represents input for deleting an account.
type DeleteAccountInput struct {
	ID    string
	Actor string
}

// DeleteAccount removes an account that no line or child account references.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, input DeleteAccountInput) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByID(txCtx, input.ID)
	if err != nil {
		return err
	}

	if account.IsSystem {
		return domain.ErrSystemAccount
	}

	referenced, err := uc.accountRepo.IsReferenced(txCtx, tx, account.ID)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrAccountInUse
	}

	if err := uc.accountRepo.Delete(txCtx, tx, account.ID); err != nil {
		return err
	}

	actor := actorOrSystem(input.Actor)
	if err := uc.trail.record(txCtx, tx, trailRecord{
		Actor:         actor,
		Action:        domain.AuditActionAccountDelete,
		EventType:     domain.EventTypeAccountDeleted,
		AggregateType: domain.AggregateTypeAccount,
		AggregateID:   account.ID,
		Payload:       domain.AccountEventPayload(account, actor),
		Before:        account,
		At:            time.Now().UTC(),
	}); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsDeleted.Inc()
	}
	uc.logger.Info().Str("account_id", account.ID).Str("code", account.Code).Msg("account deleted")

	return nil
}
