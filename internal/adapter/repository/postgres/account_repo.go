package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/postgres/generated"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create inserts an account inside tx.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	err = queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:         account.ID,
		Code:       account.Code,
		Name:       account.Name,
		NameAr:     account.NameAr,
		Type:       string(account.Type),
		NormalSide: string(account.NormalSide),
		ParentID:   textOrNull(account.ParentID),
		IsSystem:   account.IsSystem,
		CreatedAt:  timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:  timeToPgTimestamptz(account.UpdatedAt),
	})
	switch pgErrorCode(err) {
	case pgErrUniqueViolation:
		return domain.ErrDuplicateCode
	case pgErrForeignKeyViolation:
		return domain.ErrParentNotFound
	}
	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDs retrieves the accounts that exist among ids.
func (r *AccountRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Account, error) {
	rows, err := r.queries.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// List lists accounts ordered by code.
func (r *AccountRepository) List(ctx context.Context, filter usecase.AccountFilter) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Type:   string(filter.Type),
		Limit:  int32(filter.Limit),
		Offset: int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// IsReferenced reports whether a journal line or a child account points at the account.
func (r *AccountRepository) IsReferenced(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return false, err
	}
	return queries.AccountIsReferenced(ctx, textOrNull(id))
}

// Delete removes an account inside tx.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	n, err := queries.DeleteAccount(ctx, id)
	if err != nil {
		if pgErrorCode(err) == pgErrForeignKeyViolation {
			return domain.ErrAccountInUse
		}
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:         row.ID,
		Code:       row.Code,
		Name:       row.Name,
		NameAr:     row.NameAr,
		Type:       domain.AccountType(row.Type),
		NormalSide: domain.Side(row.NormalSide),
		ParentID:   row.ParentID.String,
		IsSystem:   row.IsSystem,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}
