package domain

import "time"

// Event types
const (
	EventTypeJournalCreated   = "journal.created"
	EventTypeJournalUpdated   = "journal.updated"
	EventTypeJournalPosted    = "journal.posted"
	EventTypeJournalReversed  = "journal.reversed"
	EventTypeJournalDiscarded = "journal.discarded"
	EventTypeAccountCreated   = "account.created"
	EventTypeAccountDeleted   = "account.deleted"
	EventTypePeriodLocked     = "period.locked"
)

// Aggregate types
const (
	AggregateTypeJournalEntry = "journal_entry"
	AggregateTypeAccount      = "account"
	AggregateTypePeriod       = "period"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// JournalEventPayload builds the payload shared by journal lifecycle events.
func JournalEventPayload(e *JournalEntry, actor string) map[string]any {
	debit, credit := e.Totals()
	payload := map[string]any{
		"entry_id":     e.ID,
		"entry_number": e.EntryNumber,
		"entry_date":   e.EntryDate.Format(DateLayout),
		"status":       string(e.Status),
		"total_debit":  int64(debit),
		"total_credit": int64(credit),
		"actor":        actor,
	}
	if e.ReversalOf != "" {
		payload["reversal_of"] = e.ReversalOf
	}
	if e.ReversedBy != "" {
		payload["reversed_by"] = e.ReversedBy
	}
	return payload
}

// AccountEventPayload builds the payload of account events.
func AccountEventPayload(a *Account, actor string) map[string]any {
	return map[string]any{
		"account_id": a.ID,
		"code":       a.Code,
		"name":       a.Name,
		"type":       string(a.Type),
		"actor":      actor,
	}
}
