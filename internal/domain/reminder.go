package domain

import "time"

// ReminderStatus is the lifecycle state of a compliance reminder.
type ReminderStatus string

const (
	ReminderPending      ReminderStatus = "pending"
	ReminderAcknowledged ReminderStatus = "acknowledged"
	ReminderCompleted    ReminderStatus = "completed"
	ReminderOverdue      ReminderStatus = "overdue"
)

// ReminderPriority ranks how urgent a reminder is.
type ReminderPriority string

const (
	PriorityCritical ReminderPriority = "critical"
	PriorityHigh     ReminderPriority = "high"
	PriorityMedium   ReminderPriority = "medium"
	PriorityLow      ReminderPriority = "low"
)

var validReminderStatuses = map[ReminderStatus]bool{
	ReminderPending:      true,
	ReminderAcknowledged: true,
	ReminderCompleted:    true,
	ReminderOverdue:      true,
}

// IsValid checks if the status is a known reminder status.
func (s ReminderStatus) IsValid() bool {
	return validReminderStatuses[s]
}

// reminderTransitions is the allowed user-driven transition table.
// pending -> overdue is system-initiated only (the daily sweep) and is
// deliberately absent here.
var reminderTransitions = map[ReminderStatus]map[ReminderStatus]bool{
	ReminderPending: {
		ReminderAcknowledged: true,
		ReminderCompleted:    true,
	},
	ReminderAcknowledged: {
		ReminderCompleted: true,
	},
	ReminderOverdue: {
		ReminderCompleted: true,
	},
}

// CanTransition reports whether a user action may move a reminder from
// one status to another. Completed is terminal.
func CanTransition(from, to ReminderStatus) bool {
	return reminderTransitions[from][to]
}

// Reminder is a compliance deadline derived from an accounting period.
type Reminder struct {
	ID           string
	PeriodID     string
	BuildingID   string
	Title        string
	Description  string
	DueDate      time.Time
	ReminderDays int
	Status       ReminderStatus
	Priority     ReminderPriority
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DaysUntilDue is the number of whole days between now and the due date;
// negative for overdue items.
func (r *Reminder) DaysUntilDue(now time.Time) int {
	return int(r.DueDate.Sub(now).Hours() / 24)
}
