package domain

import "time"

// AccountingPeriod defines a fiscal window for a building. Postings dated
// before LockedBefore must be rejected while the date falls inside the
// period's range. Periods are not mutated once reminders reference them.
type AccountingPeriod struct {
	ID           string
	BuildingID   string
	PeriodName   string
	StartDate    time.Time
	EndDate      time.Time
	LockedBefore time.Time
	CreatedAt    time.Time
}

// Covers reports whether the date falls inside the period's range.
// Boundaries are inclusive.
func (p *AccountingPeriod) Covers(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}

// Locks reports whether a posting dated at the given date would violate
// the period's close boundary.
func (p *AccountingPeriod) Locks(date time.Time) bool {
	return p.Covers(date) && date.Before(p.LockedBefore)
}
