package domain

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    ReminderStatus
		to      ReminderStatus
		allowed bool
	}{
		{ReminderPending, ReminderAcknowledged, true},
		{ReminderPending, ReminderCompleted, true},
		{ReminderAcknowledged, ReminderCompleted, true},
		{ReminderOverdue, ReminderCompleted, true},
		{ReminderCompleted, ReminderPending, false},
		{ReminderCompleted, ReminderAcknowledged, false},
		{ReminderCompleted, ReminderOverdue, false},
		{ReminderPending, ReminderOverdue, false}, // sweep-only, not user-driven
		{ReminderAcknowledged, ReminderPending, false},
		{ReminderOverdue, ReminderPending, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.allowed {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestDaysUntilDue(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	r := &Reminder{DueDate: now.AddDate(0, 0, 10)}
	if got := r.DaysUntilDue(now); got != 10 {
		t.Errorf("expected 10 days, got %d", got)
	}

	overdue := &Reminder{DueDate: now.AddDate(0, 0, -3)}
	if got := overdue.DaysUntilDue(now); got != -3 {
		t.Errorf("expected -3 days, got %d", got)
	}
}
