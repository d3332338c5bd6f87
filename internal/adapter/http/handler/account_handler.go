package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hassanjava2/bi-ledger/internal/adapter/http/dto"
	"github.com/hassanjava2/bi-ledger/internal/adapter/http/middleware"
	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	DeleteAccount(ctx context.Context, input usecase.DeleteAccountInput) error
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(middleware.ActorFromContext(r.Context())))
	if err != nil {
		respondError(w, r, "failed to create account", err, domain.DefaultScale)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, "failed to get account", err, domain.DefaultScale)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts ordered by code, optionally filtered by ?type=.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Type:   r.URL.Query().Get("type"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(w, r, "failed to list accounts", err, domain.DefaultScale)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Delete removes an account that no journal line references.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.accountUC.DeleteAccount(r.Context(), usecase.DeleteAccountInput{
		ID:    chi.URLParam(r, "id"),
		Actor: middleware.ActorFromContext(r.Context()),
	})
	if err != nil {
		respondError(w, r, "failed to delete account", err, domain.DefaultScale)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
