package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is an append-only record of a state-changing operation, kept
// for the compliance trail. Entries are never updated or deleted.
type AuditLog struct {
	ID           string
	Actor        string // Who performed the action
	Action       string // What action (journal.post, bank_txn.reconcile, ...)
	ResourceType string // Type of resource (journal, bank_txn, reminder)
	ResourceID   string // ID of the resource
	RequestID    string // Request ID for tracing
	BeforeState  JSON   // State before the action
	AfterState   JSON   // State after the action
	Status       string // success, failure
	Notes        string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionJournalPost      AuditAction = "journal.post"
	AuditActionReconcile        AuditAction = "bank_txn.reconcile"
	AuditActionReconcileRollbck AuditAction = "bank_txn.reconcile_rollback"
	AuditActionPeriodCreate     AuditAction = "accounting_period.create"
	AuditActionReminderCreate   AuditAction = "reminder.create"
	AuditActionReminderUpdate   AuditAction = "reminder.update"
	AuditActionReminderOverdue  AuditAction = "reminder.overdue"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

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

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	Actor        string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
