package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hassanjava2/bi-ledger/internal/adapter/http/dto"
	"github.com/hassanjava2/bi-ledger/internal/adapter/http/middleware"
	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	CreateDraftEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.JournalEntry, error)
	GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.JournalEntry, error)
	EntryHistory(ctx context.Context, id string) ([]*domain.AuditLog, error)
	Evaluate(ctx context.Context, inputs []usecase.LineInput) (domain.BalanceResult, error)
	UpdateDraft(ctx context.Context, input usecase.UpdateEntryInput) (*domain.JournalEntry, error)
	UpdateDraftLine(ctx context.Context, input usecase.UpdateLineInput) (*domain.JournalEntry, error)
	DiscardDraft(ctx context.Context, input usecase.DiscardEntryInput) error
	PostEntry(ctx context.Context, input usecase.PostEntryInput) (*domain.JournalEntry, error)
	ReverseEntry(ctx context.Context, input usecase.ReverseEntryInput) (*domain.JournalEntry, *domain.JournalEntry, error)
}

// EntryHandler handles journal entry HTTP requests.
type EntryHandler struct {
	entryUC EntryService
	scale   int32
}

// NewEntryHandler creates a new EntryHandler. Amounts are rendered with
// scale fraction digits.
func NewEntryHandler(entryUC EntryService, scale int32) *EntryHandler {
	return &EntryHandler{entryUC: entryUC, scale: scale}
}

// Create stores a new draft entry.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.EntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToCreateInput(h.scale, middleware.ActorFromContext(r.Context()))
	if err != nil {
		respondError(w, r, "invalid journal entry", err, h.scale)
		return
	}

	entry, err := h.entryUC.CreateDraftEntry(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to create journal entry", err, h.scale)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry, h.scale))
}

// Get retrieves an entry with its lines.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entryUC.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, "failed to get journal entry", err, h.scale)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry, h.scale))
}

// List lists entries newest first, filtered by ?status=&from=&to=.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		respondError(w, r, "invalid from date", err, h.scale)
		return
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		respondError(w, r, "invalid to date", err, h.scale)
		return
	}

	input := usecase.ListEntriesInput{
		Status: r.URL.Query().Get("status"),
		From:   from,
		To:     to,
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	}
	entries, err := h.entryUC.ListEntries(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to list journal entries", err, h.scale)
		return
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries, h.scale),
		Limit:   limit,
		Offset:  offset,
	})
}

// History returns the audit trail of an entry.
func (h *EntryHandler) History(w http.ResponseWriter, r *http.Request) {
	logs, err := h.entryUC.EntryHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, "failed to get journal entry history", err, h.scale)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"history": dto.AuditLogsFromDomain(logs)})
}

// Evaluate returns the balance verdict for proposed lines without storing them.
func (h *EntryHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req dto.EvaluateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lines, err := dto.LinesToInput(req.Lines, h.scale)
	if err != nil {
		respondError(w, r, "invalid journal lines", err, h.scale)
		return
	}

	result, err := h.entryUC.Evaluate(r.Context(), lines)
	if err != nil {
		respondError(w, r, "failed to evaluate journal lines", err, h.scale)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResultFromDomain(result, h.scale))
}

// Update replaces a draft's header and lines.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.EntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUpdateInput(chi.URLParam(r, "id"), h.scale, middleware.ActorFromContext(r.Context()))
	if err != nil {
		respondError(w, r, "invalid journal entry", err, h.scale)
		return
	}

	entry, err := h.entryUC.UpdateDraft(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to update journal entry", err, h.scale)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry, h.scale))
}

// UpdateLine edits one cell of a draft line. The index in the path is zero-based.
func (h *EntryHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid line index", err.Error())
		return
	}

	var req dto.UpdateLineRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := req.ToUseCaseInput(chi.URLParam(r, "id"), index, middleware.ActorFromContext(r.Context()))
	entry, err := h.entryUC.UpdateDraftLine(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to update journal line", err, h.scale)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry, h.scale))
}

// Discard deletes a draft.
func (h *EntryHandler) Discard(w http.ResponseWriter, r *http.Request) {
	err := h.entryUC.DiscardDraft(r.Context(), usecase.DiscardEntryInput{
		ID:    chi.URLParam(r, "id"),
		Actor: middleware.ActorFromContext(r.Context()),
	})
	if err != nil {
		respondError(w, r, "failed to discard journal entry", err, h.scale)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Post validates a draft and makes it immutable.
func (h *EntryHandler) Post(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entryUC.PostEntry(r.Context(), usecase.PostEntryInput{
		ID:    chi.URLParam(r, "id"),
		Actor: middleware.ActorFromContext(r.Context()),
	})
	if err != nil {
		respondError(w, r, "failed to post journal entry", err, h.scale)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry, h.scale))
}

// Reverse posts a mirror of a posted entry.
func (h *EntryHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	var req dto.ReverseEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"), middleware.ActorFromContext(r.Context()))
	if err != nil {
		respondError(w, r, "invalid reversal", err, h.scale)
		return
	}

	reversal, original, err := h.entryUC.ReverseEntry(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to reverse journal entry", err, h.scale)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReverseEntryResponse{
		Original: dto.EntryFromDomain(original, h.scale),
		Reversal: dto.EntryFromDomain(reversal, h.scale),
	})
}
