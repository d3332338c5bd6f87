package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// RequestIDHeader echoes the request ID back to the caller.
const RequestIDHeader = "X-Request-ID"

// LoggingMiddleware logs HTTP requests and attaches a request-scoped logger
// to the context. It expects chi's RequestID middleware to run first.
type LoggingMiddleware struct {
	logger zerolog.Logger
}

// NewLoggingMiddleware creates a new LoggingMiddleware.
func NewLoggingMiddleware(logger zerolog.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// Wrap wraps an http.Handler with logging.
func (m *LoggingMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := chimiddleware.GetReqID(r.Context())

		reqLogger := m.logger.With().Str("request_id", requestID).Logger()
		ctx := reqLogger.WithContext(r.Context())
		ctx = usecase.WithRequestID(ctx, requestID)
		if requestID != "" {
			w.Header().Set(RequestIDHeader, requestID)
		}

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r.WithContext(ctx))

		// Authenticate may have added the actor to the context logger.
		l := zerolog.Ctx(ctx)
		var event *zerolog.Event
		switch {
		case wrapped.statusCode >= 500:
			event = l.Error()
		case wrapped.statusCode >= 400:
			event = l.Warn()
		default:
			event = l.Info()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.statusCode).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("request completed")
	})
}

type statusRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
