package handler

import (
	"context"
	"net/http"

	"github.com/hassanjava2/bi-ledger/internal/adapter/http/dto"
	"github.com/hassanjava2/bi-ledger/internal/adapter/http/middleware"
	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// PeriodService defines the behavior needed by PeriodHandler.
type PeriodService interface {
	GetPeriodLock(ctx context.Context) (domain.PeriodLock, error)
	SetPeriodLock(ctx context.Context, input usecase.SetPeriodLockInput) (domain.PeriodLock, error)
}

// PeriodHandler exposes the period lock.
type PeriodHandler struct {
	periodUC PeriodService
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodUC PeriodService) *PeriodHandler {
	return &PeriodHandler{periodUC: periodUC}
}

// Get returns the current lock date.
func (h *PeriodHandler) Get(w http.ResponseWriter, r *http.Request) {
	lock, err := h.periodUC.GetPeriodLock(r.Context())
	if err != nil {
		respondError(w, r, "failed to get period lock", err, domain.DefaultScale)
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodLockFromDomain(lock))
}

// Set moves or clears the lock date.
func (h *PeriodHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req dto.SetPeriodLockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(middleware.ActorFromContext(r.Context()))
	if err != nil {
		respondError(w, r, "invalid period lock", err, domain.DefaultScale)
		return
	}

	lock, err := h.periodUC.SetPeriodLock(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to set period lock", err, domain.DefaultScale)
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodLockFromDomain(lock))
}
