package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hassanjava2/bi-ledger/internal/adapter/http/dto"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	AccountBalance(ctx context.Context, accountID string, asOf *time.Time) (*usecase.AccountBalance, error)
	TrialBalance(ctx context.Context, asOf *time.Time) (*usecase.TrialBalance, error)
	CheckConsistency(ctx context.Context) (bool, error)
}

// LedgerHandler handles ledger-wide reports.
type LedgerHandler struct {
	ledgerUC LedgerService
	scale    int32
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, scale int32) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, scale: scale}
}

// AccountBalance returns an account's balance, optionally ?as_of=YYYY-MM-DD.
func (h *LedgerHandler) AccountBalance(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDateQuery(r, "as_of")
	if err != nil {
		respondError(w, r, "invalid as_of date", err, h.scale)
		return
	}

	balance, err := h.ledgerUC.AccountBalance(r.Context(), chi.URLParam(r, "id"), asOf)
	if err != nil {
		respondError(w, r, "failed to get account balance", err, h.scale)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountBalanceFromUseCase(balance, h.scale))
}

// TrialBalance lists posted totals per account.
func (h *LedgerHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDateQuery(r, "as_of")
	if err != nil {
		respondError(w, r, "invalid as_of date", err, h.scale)
		return
	}

	tb, err := h.ledgerUC.TrialBalance(r.Context(), asOf)
	if err != nil {
		respondError(w, r, "failed to build trial balance", err, h.scale)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromUseCase(tb, h.scale))
}

// CheckConsistency checks if the ledger is consistent.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	consistent, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrInconsistentLedger) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"status":     "inconsistent",
				"consistent": false,
				"message":    err.Error(),
			})
			return
		}
		respondError(w, r, "failed to check consistency", err, h.scale)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "consistent",
		"consistent": consistent,
	})
}
