package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/metrics"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

// LedgerUseCase answers read-side questions over posted entries.
type LedgerUseCase struct {
	ledgerRepo  LedgerRepository
	accountRepo AccountRepository
	entryRepo   EntryRepository
	cache       BalanceCache
	cacheTTL    time.Duration
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// LedgerConfig wires a LedgerUseCase. Cache and Metrics are optional.
type LedgerConfig struct {
	LedgerRepo  LedgerRepository
	AccountRepo AccountRepository
	EntryRepo   EntryRepository
	Cache       BalanceCache
	CacheTTL    time.Duration
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(cfg LedgerConfig) *LedgerUseCase {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultBalanceCacheTTL
	}
	return &LedgerUseCase{
		ledgerRepo:  cfg.LedgerRepo,
		accountRepo: cfg.AccountRepo,
		entryRepo:   cfg.EntryRepo,
		cache:       cfg.Cache,
		cacheTTL:    cfg.CacheTTL,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
}

// AccountBalance is the signed balance of one account.
type AccountBalance struct {
	Account  *domain.Account
	Debit    domain.Amount
	Credit   domain.Amount
	Balance  domain.Amount
	AsOf     *time.Time
	Revision int64
}

// AccountBalance sums the account's lines over posted entries dated on or
// before asOf and signs the result by the account's normal side. Cached values
// are only served while the ledger revision is unchanged.
func (uc *LedgerUseCase) AccountBalance(ctx context.Context, accountID string, asOf *time.Time) (*AccountBalance, error) {
	start := time.Now()
	defer func() {
		if uc.metrics != nil {
			uc.metrics.BalanceDuration.Observe(time.Since(start).Seconds())
		}
	}()

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	key := latestBalanceKey
	if asOf != nil {
		d := domain.DateOnly(*asOf)
		asOf = &d
		key = d.Format(domain.DateLayout)
	}

	revision, err := uc.ledgerRepo.Revision(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, accountID, key)
		if err != nil {
			uc.logger.Warn().Err(err).Str("account_id", accountID).Msg("balance cache read failed")
		}
		if cached != nil && cached.Revision == revision {
			if uc.metrics != nil {
				uc.metrics.BalanceCacheHits.Inc()
			}
			return uc.balance(account, cached.Debit, cached.Credit, asOf, revision), nil
		}
		if uc.metrics != nil {
			uc.metrics.BalanceCacheMisses.Inc()
		}
	}

	debit, credit, err := uc.computeTotals(ctx, accountID, asOf)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		value := CachedBalance{Revision: revision, Debit: debit, Credit: credit}
		if err := uc.cache.Set(ctx, accountID, key, value, uc.cacheTTL); err != nil {
			uc.logger.Warn().Err(err).Str("account_id", accountID).Msg("balance cache write failed")
		}
	}

	return uc.balance(account, debit, credit, asOf, revision), nil
}

func (uc *LedgerUseCase) computeTotals(ctx context.Context, accountID string, asOf *time.Time) (domain.Amount, domain.Amount, error) {
	entries, err := uc.entryRepo.ListPostedEntriesForAccount(ctx, accountID, asOf)
	if err != nil {
		return 0, 0, err
	}

	var debit, credit domain.Amount
	for _, e := range entries {
		if !e.CountsTowardBalance() {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				debit += l.Debit
				credit += l.Credit
			}
		}
	}
	return debit, credit, nil
}

func (uc *LedgerUseCase) balance(account *domain.Account, debit, credit domain.Amount, asOf *time.Time, revision int64) *AccountBalance {
	return &AccountBalance{
		Account:  account,
		Debit:    debit,
		Credit:   credit,
		Balance:  account.SignedBalance(debit, credit),
		AsOf:     asOf,
		Revision: revision,
	}
}

// TrialBalanceRow is one account line of a trial balance.
type TrialBalanceRow struct {
	Account *domain.Account
	Debit   domain.Amount
	Credit  domain.Amount
	Balance domain.Amount
}

// TrialBalance lists posted totals for every account with activity.
type TrialBalance struct {
	AsOf        *time.Time
	Rows        []TrialBalanceRow
	TotalDebit  domain.Amount
	TotalCredit domain.Amount
}

// Balanced reports whether both columns agree.
func (tb *TrialBalance) Balanced() bool {
	return tb.TotalDebit == tb.TotalCredit
}

// TrialBalance aggregates posted totals per account, ordered by account code.
func (uc *LedgerUseCase) TrialBalance(ctx context.Context, asOf *time.Time) (*TrialBalance, error) {
	if asOf != nil {
		d := domain.DateOnly(*asOf)
		asOf = &d
	}

	totals, err := uc.ledgerRepo.Totals(ctx, asOf)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(totals))
	for _, t := range totals {
		ids = append(ids, t.AccountID)
	}
	accounts := domain.AccountSet{}
	if len(ids) > 0 {
		list, err := uc.accountRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		accounts = domain.NewAccountSet(list...)
	}

	tb := &TrialBalance{AsOf: asOf, Rows: make([]TrialBalanceRow, 0, len(totals))}
	for _, t := range totals {
		account, ok := accounts.LookupAccount(t.AccountID)
		if !ok {
			return nil, domain.ErrAccountNotFound
		}
		tb.Rows = append(tb.Rows, TrialBalanceRow{
			Account: account,
			Debit:   t.Debit,
			Credit:  t.Credit,
			Balance: account.SignedBalance(t.Debit, t.Credit),
		})
		tb.TotalDebit += t.Debit
		tb.TotalCredit += t.Credit
	}

	sort.Slice(tb.Rows, func(i, j int) bool {
		return tb.Rows[i].Account.Code < tb.Rows[j].Account.Code
	})

	return tb, nil
}

// CheckConsistency verifies that posted debits equal posted credits ledger-wide.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	totals, err := uc.ledgerRepo.Totals(ctx, nil)
	if err != nil {
		return false, err
	}

	var debit, credit domain.Amount
	for _, t := range totals {
		debit += t.Debit
		credit += t.Credit
	}

	if debit != credit {
		uc.logger.Error().
			Int64("total_debit", int64(debit)).
			Int64("total_credit", int64(credit)).
			Msg("ledger inconsistency detected")
		return false, ErrInconsistentLedger
	}

	return true, nil
}
