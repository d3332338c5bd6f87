package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry
type AuditLog struct {
	ID           string
	UserID       string // Who performed the action
	Action       string // journal.post, account.create, ...
	ResourceType string // journal_entry, account, period
	ResourceID   string
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionAccountCreate AuditAction = "account.create"
	AuditActionAccountDelete AuditAction = "account.delete"

	AuditActionJournalCreate  AuditAction = "journal.create"
	AuditActionJournalUpdate  AuditAction = "journal.update"
	AuditActionJournalPost    AuditAction = "journal.post"
	AuditActionJournalReverse AuditAction = "journal.reverse"
	AuditActionJournalDiscard AuditAction = "journal.discard"

	AuditActionPeriodLock AuditAction = "period.lock"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// SystemActor is recorded when no caller identity was supplied.
const SystemActor = "system"

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}
