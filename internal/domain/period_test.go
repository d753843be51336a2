package domain

import (
	"testing"
	"time"
)

func TestPeriodLocks(t *testing.T) {
	p := &AccountingPeriod{
		PeriodName:   "FY2025",
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		LockedBefore: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name   string
		date   time.Time
		locked bool
	}{
		{"before lock boundary", time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), true},
		{"on lock boundary", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), false},
		{"after lock boundary", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), false},
		{"outside period entirely", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), false},
		{"first day of period", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Locks(tt.date); got != tt.locked {
				t.Errorf("Locks(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.locked)
			}
		})
	}
}

func TestPeriodCovers(t *testing.T) {
	p := &AccountingPeriod{
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	if !p.Covers(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("start date should be covered")
	}
	if !p.Covers(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)) {
		t.Error("end date should be covered")
	}
	if p.Covers(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("day after end should not be covered")
	}
}
