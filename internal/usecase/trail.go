package usecase

import (
	"context"
	"time"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/infrastructure/metrics"
)

// trail writes the outbox event and audit record of a change inside its transaction.
type trail struct {
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

type trailRecord struct {
	Actor         string
	Action        domain.AuditAction
	EventType     string
	AggregateType string
	AggregateID   string
	Payload       map[string]any
	Before        any
	After         any
	At            time.Time
}

func (t trail) record(ctx context.Context, tx Transaction, rec trailRecord) error {
	if t.outboxRepo != nil && rec.EventType != "" {
		event := &domain.OutboxEvent{
			ID:            t.idGen.Generate(),
			AggregateID:   rec.AggregateID,
			AggregateType: rec.AggregateType,
			EventType:     rec.EventType,
			Payload:       rec.Payload,
			CreatedAt:     rec.At,
		}
		if err := t.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}
	}

	if t.auditRepo != nil {
		log := &domain.AuditLog{
			ID:           t.idGen.Generate(),
			UserID:       rec.Actor,
			Action:       string(rec.Action),
			ResourceType: rec.AggregateType,
			ResourceID:   rec.AggregateID,
			RequestID:    RequestIDFromContext(ctx),
			AfterState:   domain.MarshalState(rec.After),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    rec.At,
		}
		if rec.Before != nil {
			log.BeforeState = domain.MarshalState(rec.Before)
		}
		if err := t.auditRepo.CreateTx(ctx, tx, log); err != nil {
			return err
		}
		if t.metrics != nil {
			t.metrics.AuditLogsCreated.WithLabelValues(log.Action).Inc()
		}
	}

	return nil
}

func actorOrSystem(actor string) string {
	if actor == "" {
		return domain.SystemActor
	}
	return actor
}

type requestIDKey struct{}

// WithRequestID attaches a request id that audit records will carry.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
