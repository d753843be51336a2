package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/propfolio/ledger/internal/domain"
)

// ReminderUseCase tracks compliance deadlines derived from accounting
// periods. It reads the period model but never writes to the ledger.
type ReminderUseCase struct {
	reminderRepo ReminderRepository
	periodRepo   PeriodRepository
	auditRepo    AuditRepository
	idGen        IDGenerator
	logger       zerolog.Logger
}

// NewReminderUseCase creates a new ReminderUseCase.
func NewReminderUseCase(
	reminderRepo ReminderRepository,
	periodRepo PeriodRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *ReminderUseCase {
	return &ReminderUseCase{
		reminderRepo: reminderRepo,
		periodRepo:   periodRepo,
		auditRepo:    auditRepo,
		idGen:        idGen,
		logger:       logger,
	}
}

// reminderRule derives one reminder from a period's boundaries.
type reminderRule struct {
	title        string
	description  string
	priority     domain.ReminderPriority
	reminderDays int
	dueDate      func(p *domain.AccountingPeriod) time.Time
}

// Fiscal-year periods get the budget and year-end rules; quarters get the
// review rule.
var fiscalYearRules = []reminderRule{
	{
		title:        "Budget preparation",
		description:  "Prepare and circulate the service charge budget for the next year",
		priority:     domain.PriorityCritical,
		reminderDays: 90,
		dueDate: func(p *domain.AccountingPeriod) time.Time {
			return p.EndDate.AddDate(0, 0, -90)
		},
	},
	{
		title:        "Year-end accounts and audit",
		description:  "Finalize year-end accounts and instruct the external accountant",
		priority:     domain.PriorityHigh,
		reminderDays: 30,
		dueDate: func(p *domain.AccountingPeriod) time.Time {
			return p.EndDate.AddDate(0, 0, 120)
		},
	},
}

var quarterRules = []reminderRule{
	{
		title:        "Quarterly review",
		description:  "Review arrears, expenditure against budget, and unreconciled bank lines",
		priority:     domain.PriorityMedium,
		reminderDays: 14,
		dueDate: func(p *domain.AccountingPeriod) time.Time {
			return p.EndDate.AddDate(0, 0, -14)
		},
	},
}

// GenerateRemindersForPeriod creates the reminders a period's boundaries
// imply. Idempotent per rule: a reminder that already exists for the
// period is skipped, so a retry after a partial failure fills in only the
// missing ones.
func (uc *ReminderUseCase) GenerateRemindersForPeriod(ctx context.Context, periodID string) (int, error) {
	period, err := uc.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return 0, err
	}

	existing, err := uc.reminderRepo.ListByPeriod(ctx, periodID)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, r := range existing {
		have[r.Title] = true
	}

	rules := quarterRules
	if strings.HasPrefix(period.PeriodName, "FY") {
		rules = fiscalYearRules
	}

	now := time.Now().UTC()
	created := 0

	for _, rule := range rules {
		title := fmt.Sprintf("%s (%s)", rule.title, period.PeriodName)
		if have[title] {
			continue
		}

		reminder := &domain.Reminder{
			ID:           uc.idGen.Generate(),
			PeriodID:     period.ID,
			BuildingID:   period.BuildingID,
			Title:        title,
			Description:  rule.description,
			DueDate:      rule.dueDate(period),
			ReminderDays: rule.reminderDays,
			Status:       domain.ReminderPending,
			Priority:     rule.priority,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := uc.reminderRepo.Create(ctx, reminder); err != nil {
			return created, err
		}

		created++
	}

	if created == 0 {
		return 0, nil
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		Actor:        "system",
		Action:       string(domain.AuditActionReminderCreate),
		ResourceType: "accounting_period",
		ResourceID:   periodID,
		AfterState:   domain.JSON{"reminders": created},
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	})

	return created, nil
}

// UpcomingReminder annotates a reminder with its distance to the due date.
type UpcomingReminder struct {
	*domain.Reminder
	DaysUntilDue int
}

// GetUpcomingReminders returns a building's reminders due within daysAhead
// days, sorted by due date ascending. Overdue items carry a negative
// DaysUntilDue.
func (uc *ReminderUseCase) GetUpcomingReminders(ctx context.Context, buildingID string, daysAhead int) ([]UpcomingReminder, error) {
	if daysAhead <= 0 {
		daysAhead = 30
	}

	now := time.Now().UTC()
	before := now.AddDate(0, 0, daysAhead)

	reminders, err := uc.reminderRepo.ListUpcoming(ctx, buildingID, before)
	if err != nil {
		return nil, err
	}

	upcoming := make([]UpcomingReminder, 0, len(reminders))
	for _, r := range reminders {
		upcoming = append(upcoming, UpcomingReminder{
			Reminder:     r,
			DaysUntilDue: r.DaysUntilDue(now),
		})
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(upcoming[j].DueDate)
	})

	return upcoming, nil
}

// UpdateReminderStatus applies a user-driven status transition. Disallowed
// transitions (completed back to pending, user-set overdue) fail rather
// than silently succeeding.
func (uc *ReminderUseCase) UpdateReminderStatus(ctx context.Context, reminderID string, status domain.ReminderStatus, actor, notes string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, status)
	}

	reminder, err := uc.reminderRepo.GetByID(ctx, reminderID)
	if err != nil {
		return err
	}

	if !domain.CanTransition(reminder.Status, status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, reminder.Status, status)
	}

	now := time.Now().UTC()
	if err := uc.reminderRepo.UpdateStatus(ctx, reminderID, status, now); err != nil {
		return err
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		Actor:        actor,
		Action:       string(domain.AuditActionReminderUpdate),
		ResourceType: "reminder",
		ResourceID:   reminderID,
		BeforeState:  domain.JSON{"status": string(reminder.Status)},
		AfterState:   domain.JSON{"status": string(status)},
		Status:       string(domain.AuditStatusSuccess),
		Notes:        notes,
		CreatedAt:    now,
	})

	return nil
}

// SweepOverdue transitions pending reminders past their due date to
// overdue. The only system-initiated transition. Re-runnable: the update
// predicate matches nothing on a second run, so no duplicate audit
// entries are written.
func (uc *ReminderUseCase) SweepOverdue(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	transitioned, err := uc.reminderRepo.MarkOverdue(ctx, today, now)
	if err != nil {
		return 0, err
	}

	for _, r := range transitioned {
		_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
			Actor:        "system",
			Action:       string(domain.AuditActionReminderOverdue),
			ResourceType: "reminder",
			ResourceID:   r.ID,
			BeforeState:  domain.JSON{"status": string(domain.ReminderPending)},
			AfterState:   domain.JSON{"status": string(domain.ReminderOverdue)},
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		})
	}

	if len(transitioned) > 0 {
		uc.logger.Info().Int("count", len(transitioned)).Msg("reminders marked overdue")
	}

	return len(transitioned), nil
}

// DeadlineAnalysis summarizes a building's reminder pipeline.
type DeadlineAnalysis struct {
	BuildingID string
	Overdue    int
	DueSoon    int // due within 30 days
	OnTrack    int
	NextDue    *UpcomingReminder
}

// AnalyzeDeadlines classifies a building's open reminders by urgency.
func (uc *ReminderUseCase) AnalyzeDeadlines(ctx context.Context, buildingID string) (*DeadlineAnalysis, error) {
	upcoming, err := uc.GetUpcomingReminders(ctx, buildingID, 365)
	if err != nil {
		return nil, err
	}

	analysis := &DeadlineAnalysis{BuildingID: buildingID}

	for i := range upcoming {
		r := upcoming[i]

		switch {
		case r.Status == domain.ReminderOverdue || r.DaysUntilDue < 0:
			analysis.Overdue++
		case r.DaysUntilDue <= 30:
			analysis.DueSoon++
		default:
			analysis.OnTrack++
		}

		if analysis.NextDue == nil && r.DaysUntilDue >= 0 {
			analysis.NextDue = &upcoming[i]
		}
	}

	return analysis, nil
}
