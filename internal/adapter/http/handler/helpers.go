package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hassanjava2/bi-ledger/internal/adapter/http/dto"
	"github.com/hassanjava2/bi-ledger/internal/domain"
)

// maxBodyBytes bounds request bodies; 500 lines fit comfortably.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// decodeJSON reads a request body into dst and runs its validation tags. It
// writes the 400 response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}

	if fields := dto.Validate(dst); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:  "request validation failed",
			Fields: fields,
		})
		return false
	}
	return true
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrDuplicateCode),
		errors.Is(err, domain.ErrAccountInUse),
		errors.Is(err, domain.ErrSystemAccount),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUnbalanced),
		errors.Is(err, domain.ErrTooFewLines),
		errors.Is(err, domain.ErrTooManyLines),
		errors.Is(err, domain.ErrPeriodLocked),
		errors.Is(err, domain.ErrParentNotFound),
		errors.Is(err, domain.ErrLineIndexOutOfRange),
		errors.Is(err, domain.ErrUnknownAccount),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrAmbiguousSide),
		errors.Is(err, domain.ErrAmountTooLarge):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidLineField),
		errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrInvalidAccountCode),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrDescriptionTooLong):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its status and any structured detail the
// error carries. Unexpected errors are logged and hidden from the caller.
func respondError(w http.ResponseWriter, r *http.Request, message string, err error, scale int32) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(message)
		writeError(w, status, message, "internal error")
		return
	}

	resp := dto.ErrorResponse{Error: message, Message: err.Error()}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.LineErrors = dto.LineErrorsFromDomain(verr.Lines)
	}
	var uerr *domain.UnbalancedError
	if errors.As(err, &uerr) {
		resp.TotalDebit = uerr.TotalDebit.Format(scale)
		resp.TotalCredit = uerr.TotalCredit.Format(scale)
		resp.Difference = uerr.Difference.Format(scale)
	}
	var terr *domain.TransitionError
	if errors.As(err, &terr) {
		resp.From = string(terr.From)
		resp.To = string(terr.To)
	}

	writeJSON(w, status, resp)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter.
func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
