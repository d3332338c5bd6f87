package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggingMiddleware(zerolog.New(&buf))

	var requestID string
	h := chimiddleware.RequestID(mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = usecase.RequestIDFromContext(r.Context())
		zerolog.Ctx(r.Context()).Debug().Msg("inside handler")
		w.WriteHeader(http.StatusUnprocessableEntity)
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/journal-entries", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if requestID != "req-42" {
		t.Fatalf("expected request id in use case context, got %q", requestID)
	}
	if rr.Header().Get(RequestIDHeader) != "req-42" {
		t.Fatalf("expected request id header, got %q", rr.Header().Get(RequestIDHeader))
	}

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var last map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &last); err != nil {
		t.Fatalf("invalid log line: %v", err)
	}
	if last["level"] != "warn" || last["status"] != float64(422) || last["request_id"] != "req-42" {
		t.Fatalf("unexpected completion log %v", last)
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("internal server error")) {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}
