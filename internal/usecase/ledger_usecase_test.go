package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/metrics"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
	"github.com/hassanjava2/bi-ledger/internal/usecase/mocks"
)

type ledgerMocks struct {
	ledgerRepo  *mocks.MockLedgerRepository
	accountRepo *mocks.MockAccountRepository
	entryRepo   *mocks.MockEntryRepository
	cache       *mocks.MockBalanceCache
	metrics     *metrics.Metrics
}

func newLedgerMocks(ctrl *gomock.Controller) ledgerMocks {
	return ledgerMocks{
		ledgerRepo:  mocks.NewMockLedgerRepository(ctrl),
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		entryRepo:   mocks.NewMockEntryRepository(ctrl),
		cache:       mocks.NewMockBalanceCache(ctrl),
		metrics:     metrics.New(prometheus.NewRegistry()),
	}
}

func (m ledgerMocks) useCase() *usecase.LedgerUseCase {
	return usecase.NewLedgerUseCase(usecase.LedgerConfig{
		LedgerRepo:  m.ledgerRepo,
		AccountRepo: m.accountRepo,
		EntryRepo:   m.entryRepo,
		Cache:       m.cache,
		Metrics:     m.metrics,
		Logger:      zerolog.Nop(),
	})
}

var revenueAccount = &domain.Account{
	ID:         "sales",
	Code:       "4100",
	Type:       domain.AccountTypeRevenue,
	NormalSide: domain.SideCredit,
}

func postedOn(accountID string, debit, credit domain.Amount) *domain.JournalEntry {
	return &domain.JournalEntry{
		Status: domain.EntryStatusPosted,
		Lines: []domain.JournalLine{
			{AccountID: accountID, Debit: debit, Credit: credit},
			{AccountID: "other", Debit: credit, Credit: debit},
		},
	}
}

func TestLedgerUseCase_AccountBalance(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(m ledgerMocks)
		want       domain.Amount
		hits       float64
		misses     float64
	}{
		{
			name: "cache hit at current revision",
			setupMocks: func(m ledgerMocks) {
				m.ledgerRepo.EXPECT().Revision(gomock.Any()).Return(int64(4), nil)
				m.cache.EXPECT().Get(gomock.Any(), "sales", "latest").
					Return(&usecase.CachedBalance{Revision: 4, Debit: 10, Credit: 75}, nil)
			},
			want: 65,
			hits: 1,
		},
		{
			name: "stale revision recomputes",
			setupMocks: func(m ledgerMocks) {
				m.ledgerRepo.EXPECT().Revision(gomock.Any()).Return(int64(5), nil)
				m.cache.EXPECT().Get(gomock.Any(), "sales", "latest").
					Return(&usecase.CachedBalance{Revision: 4, Credit: 75}, nil)
				m.entryRepo.EXPECT().ListPostedEntriesForAccount(gomock.Any(), "sales", nil).
					Return([]*domain.JournalEntry{postedOn("sales", 0, 100), postedOn("sales", 30, 0)}, nil)
				m.cache.EXPECT().Set(gomock.Any(), "sales", "latest",
					usecase.CachedBalance{Revision: 5, Debit: 30, Credit: 100}, usecase.DefaultBalanceCacheTTL).Return(nil)
			},
			want:   70,
			misses: 1,
		},
		{
			name: "cache failures fall through",
			setupMocks: func(m ledgerMocks) {
				m.ledgerRepo.EXPECT().Revision(gomock.Any()).Return(int64(1), nil)
				m.cache.EXPECT().Get(gomock.Any(), "sales", "latest").Return(nil, errors.New("redis down"))
				m.entryRepo.EXPECT().ListPostedEntriesForAccount(gomock.Any(), "sales", nil).
					Return([]*domain.JournalEntry{postedOn("sales", 0, 40)}, nil)
				m.cache.EXPECT().Set(gomock.Any(), "sales", "latest", gomock.Any(), gomock.Any()).
					Return(errors.New("redis down"))
			},
			want:   40,
			misses: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := newLedgerMocks(ctrl)
			m.accountRepo.EXPECT().GetByID(gomock.Any(), "sales").Return(revenueAccount, nil)
			tt.setupMocks(m)

			got, err := m.useCase().AccountBalance(context.Background(), "sales", nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Balance != tt.want {
				t.Errorf("balance = %d, want %d", got.Balance, tt.want)
			}
			if v := testutil.ToFloat64(m.metrics.BalanceCacheHits); v != tt.hits {
				t.Errorf("cache hits = %v, want %v", v, tt.hits)
			}
			if v := testutil.ToFloat64(m.metrics.BalanceCacheMisses); v != tt.misses {
				t.Errorf("cache misses = %v, want %v", v, tt.misses)
			}
		})
	}
}

func TestLedgerUseCase_AccountBalanceAsOfKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newLedgerMocks(ctrl)

	asOf := time.Date(2025, 3, 31, 18, 0, 0, 0, time.UTC)
	day := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	m.accountRepo.EXPECT().GetByID(gomock.Any(), "sales").Return(revenueAccount, nil)
	m.ledgerRepo.EXPECT().Revision(gomock.Any()).Return(int64(2), nil)
	m.cache.EXPECT().Get(gomock.Any(), "sales", "2025-03-31").Return(nil, nil)
	m.entryRepo.EXPECT().ListPostedEntriesForAccount(gomock.Any(), "sales", &day).Return(nil, nil)
	m.cache.EXPECT().Set(gomock.Any(), "sales", "2025-03-31", usecase.CachedBalance{Revision: 2}, gomock.Any()).Return(nil)

	got, err := m.useCase().AccountBalance(context.Background(), "sales", &asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Balance != 0 || !got.AsOf.Equal(day) {
		t.Errorf("unexpected balance %+v", got)
	}
}

func TestLedgerUseCase_AccountBalanceUnknownAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newLedgerMocks(ctrl)
	m.accountRepo.EXPECT().GetByID(gomock.Any(), "nope").Return(nil, domain.ErrAccountNotFound)

	if _, err := m.useCase().AccountBalance(context.Background(), "nope", nil); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestLedgerUseCase_TrialBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newLedgerMocks(ctrl)

	cash := &domain.Account{ID: "cash", Code: "1100", Type: domain.AccountTypeAsset, NormalSide: domain.SideDebit}
	m.ledgerRepo.EXPECT().Totals(gomock.Any(), nil).Return([]usecase.AccountTotals{
		{AccountID: "sales", Credit: 150},
		{AccountID: "cash", Debit: 200, Credit: 50},
	}, nil)
	m.accountRepo.EXPECT().GetByIDs(gomock.Any(), []string{"sales", "cash"}).
		Return([]*domain.Account{revenueAccount, cash}, nil)

	tb, err := m.useCase().TrialBalance(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tb.Rows) != 2 || tb.Rows[0].Account.Code != "1100" {
		t.Fatalf("rows not ordered by code: %+v", tb.Rows)
	}
	if tb.Rows[0].Balance != 150 || tb.Rows[1].Balance != 150 {
		t.Errorf("unexpected balances %d %d", tb.Rows[0].Balance, tb.Rows[1].Balance)
	}
	if !tb.Balanced() || tb.TotalDebit != 200 {
		t.Errorf("expected balanced totals, got %d/%d", tb.TotalDebit, tb.TotalCredit)
	}
}

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	tests := []struct {
		name        string
		totals      []usecase.AccountTotals
		repoErr     error
		want        bool
		expectedErr error
	}{
		{
			name: "balanced ledger",
			totals: []usecase.AccountTotals{
				{AccountID: "cash", Debit: 100},
				{AccountID: "sales", Credit: 100},
			},
			want: true,
		},
		{
			name: "empty ledger",
			want: true,
		},
		{
			name:        "repo error surfaces",
			repoErr:     errors.New("db down"),
			expectedErr: errors.New("db down"),
		},
		{
			name: "debits exceed credits",
			totals: []usecase.AccountTotals{
				{AccountID: "cash", Debit: 100},
				{AccountID: "sales", Credit: 99},
			},
			expectedErr: usecase.ErrInconsistentLedger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := newLedgerMocks(ctrl)
			m.ledgerRepo.EXPECT().Totals(gomock.Any(), nil).Return(tt.totals, tt.repoErr)

			got, err := m.useCase().CheckConsistency(context.Background())

			if tt.expectedErr != nil {
				if err == nil || err.Error() != tt.expectedErr.Error() {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Fatalf("CheckConsistency() = %v, want %v", got, tt.want)
			}
		})
	}
}
