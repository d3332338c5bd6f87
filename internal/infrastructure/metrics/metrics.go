package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hassanjava2/bi-ledger/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Journal metrics
	EntriesCreated     prometheus.Counter
	EntriesUpdated     prometheus.Counter
	EntriesPosted      prometheus.Counter
	EntriesReversed    prometheus.Counter
	EntriesDiscarded   prometheus.Counter
	PostingDuration    prometheus.Histogram
	PostedAmount       prometheus.Histogram
	ValidationFailures *prometheus.CounterVec
	TransitionRejects  *prometheus.CounterVec

	// Account metrics
	AccountsCreated prometheus.Counter
	AccountsDeleted prometheus.Counter

	// Balance metrics
	BalanceCacheHits   prometheus.Counter
	BalanceCacheMisses prometheus.Counter
	BalanceDuration    prometheus.Histogram

	// Outbox metrics
	EventsPublished     prometheus.Counter
	EventPublishFailure *prometheus.CounterVec

	// API metrics
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	RateLimitHits        *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		EntriesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_journal_entries_created_total",
			Help: "Total number of draft journal entries created",
		}),
		EntriesUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_journal_entries_updated_total",
			Help: "Total number of draft journal entry edits",
		}),
		EntriesPosted: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_journal_entries_posted_total",
			Help: "Total number of journal entries posted",
		}),
		EntriesReversed: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_journal_entries_reversed_total",
			Help: "Total number of journal entries reversed",
		}),
		EntriesDiscarded: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_journal_entries_discarded_total",
			Help: "Total number of draft journal entries discarded",
		}),
		PostingDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_posting_duration_seconds",
			Help:    "Duration of post and reverse operations including retries",
			Buckets: prometheus.DefBuckets,
		}),
		PostedAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_posted_amount_minor_units",
			Help:    "Debit total of posted entries in minor units",
			Buckets: prometheus.ExponentialBuckets(1000, 10, 10),
		}),
		ValidationFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_validation_failures_total",
				Help: "Rejected journal entries by reason",
			},
			[]string{"reason"},
		),
		TransitionRejects: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transition_rejects_total",
				Help: "Rejected lifecycle transitions by source and target status",
			},
			[]string{"from", "to"},
		),

		AccountsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_deleted_total",
			Help: "Total number of accounts deleted",
		}),

		BalanceCacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_balance_cache_hits_total",
			Help: "Balance queries served from cache",
		}),
		BalanceCacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_balance_cache_misses_total",
			Help: "Balance queries recomputed from posted entries",
		}),
		BalanceDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_balance_query_duration_seconds",
			Help:    "Duration of account balance queries",
			Buckets: prometheus.DefBuckets,
		}),

		EventsPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_outbox_events_published_total",
			Help: "Outbox events delivered to the publisher",
		}),
		EventPublishFailure: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_outbox_publish_failures_total",
				Help: "Outbox events that failed to publish by event type",
			},
			[]string{"event_type"},
		),

		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_rate_limit_hits_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"path"},
		),

		AuditLogsCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_audit_logs_created_total",
				Help: "Audit log records written by action",
			},
			[]string{"action"},
		),
	}
}

// RejectionReason maps a journal error to a low-cardinality label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownAccount):
		return "unknown_account"
	case errors.Is(err, domain.ErrNegativeAmount):
		return "negative_amount"
	case errors.Is(err, domain.ErrAmbiguousSide):
		return "ambiguous_side"
	case errors.Is(err, domain.ErrAmountTooLarge):
		return "amount_too_large"
	case errors.Is(err, domain.ErrUnbalanced):
		return "unbalanced"
	case errors.Is(err, domain.ErrTooFewLines):
		return "too_few_lines"
	case errors.Is(err, domain.ErrTooManyLines):
		return "too_many_lines"
	case errors.Is(err, domain.ErrPeriodLocked):
		return "period_locked"
	default:
		return "other"
	}
}
