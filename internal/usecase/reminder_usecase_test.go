package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/propfolio/ledger/internal/domain"
	"github.com/propfolio/ledger/internal/usecase"
	"github.com/propfolio/ledger/internal/usecase/mocks"
)

type reminderFixture struct {
	reminderRepo *mocks.MockReminderRepository
	periodRepo   *mocks.MockPeriodRepository
	auditRepo    *mocks.MockAuditRepository
	uc           *usecase.ReminderUseCase
}

func newReminderFixture() *reminderFixture {
	f := &reminderFixture{
		reminderRepo: mocks.NewMockReminderRepository(),
		periodRepo:   mocks.NewMockPeriodRepository(),
		auditRepo:    mocks.NewMockAuditRepository(),
	}

	f.uc = usecase.NewReminderUseCase(
		f.reminderRepo,
		f.periodRepo,
		f.auditRepo,
		mocks.NewMockIDGenerator(),
		zerolog.Nop(),
	)

	return f
}

func addPeriod(f *reminderFixture, id, name string, year int) {
	f.periodRepo.Add(&domain.AccountingPeriod{
		ID:         id,
		BuildingID: "bld-1",
		PeriodName: name,
		StartDate:  time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
	})
}

func TestReminderUseCase_GenerateRemindersForPeriod(t *testing.T) {
	t.Run("fiscal year period", func(t *testing.T) {
		f := newReminderFixture()
		addPeriod(f, "per-fy", "FY2026", 2026)

		count, err := f.uc.GenerateRemindersForPeriod(context.Background(), "per-fy")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 2 {
			t.Fatalf("expected 2 reminders for a fiscal year, got %d", count)
		}

		reminders, _ := f.reminderRepo.ListByPeriod(context.Background(), "per-fy")
		priorities := make(map[domain.ReminderPriority]int)
		for _, r := range reminders {
			priorities[r.Priority]++
			if r.Status != domain.ReminderPending {
				t.Errorf("new reminder status = %s, want pending", r.Status)
			}
			if r.BuildingID != "bld-1" {
				t.Errorf("reminder building = %s", r.BuildingID)
			}
		}
		if priorities[domain.PriorityCritical] != 1 || priorities[domain.PriorityHigh] != 1 {
			t.Errorf("priorities = %v, want one critical and one high", priorities)
		}
	})

	t.Run("quarter period", func(t *testing.T) {
		f := newReminderFixture()
		addPeriod(f, "per-q1", "Q1 2026", 2026)

		count, err := f.uc.GenerateRemindersForPeriod(context.Background(), "per-q1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 reminder for a quarter, got %d", count)
		}
	})

	t.Run("rerun creates nothing", func(t *testing.T) {
		f := newReminderFixture()
		addPeriod(f, "per-fy", "FY2026", 2026)

		if _, err := f.uc.GenerateRemindersForPeriod(context.Background(), "per-fy"); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		count, err := f.uc.GenerateRemindersForPeriod(context.Background(), "per-fy")
		if err != nil {
			t.Fatalf("second run failed: %v", err)
		}
		if count != 0 {
			t.Errorf("rerun created %d reminders, want 0", count)
		}
	})

	t.Run("retry after partial failure fills in missing reminders", func(t *testing.T) {
		f := newReminderFixture()
		addPeriod(f, "per-fy", "FY2026", 2026)

		// First rule persists, second insert fails.
		storageErr := errors.New("connection reset")
		calls := 0
		f.reminderRepo.CreateFunc = func(ctx context.Context, reminder *domain.Reminder) error {
			calls++
			if calls == 2 {
				return storageErr
			}
			f.reminderRepo.Add(reminder)
			return nil
		}

		count, err := f.uc.GenerateRemindersForPeriod(context.Background(), "per-fy")
		if !errors.Is(err, storageErr) {
			t.Fatalf("expected storage error, got %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 reminder before the failure, got %d", count)
		}

		// Storage healthy again: the retry creates only the missing rule.
		f.reminderRepo.CreateFunc = nil
		count, err = f.uc.GenerateRemindersForPeriod(context.Background(), "per-fy")
		if err != nil {
			t.Fatalf("retry failed: %v", err)
		}
		if count != 1 {
			t.Fatalf("retry created %d reminders, want 1", count)
		}

		reminders, _ := f.reminderRepo.ListByPeriod(context.Background(), "per-fy")
		if len(reminders) != 2 {
			t.Fatalf("fiscal year period has %d reminders, want 2", len(reminders))
		}
		titles := make(map[string]int)
		for _, r := range reminders {
			titles[r.Title]++
		}
		for title, n := range titles {
			if n != 1 {
				t.Errorf("reminder %q created %d times", title, n)
			}
		}
	})

	t.Run("unknown period", func(t *testing.T) {
		f := newReminderFixture()

		_, err := f.uc.GenerateRemindersForPeriod(context.Background(), "per-missing")
		if !errors.Is(err, domain.ErrPeriodNotFound) {
			t.Fatalf("expected ErrPeriodNotFound, got %v", err)
		}
	})
}

func TestReminderUseCase_UpdateReminderStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.ReminderStatus
		to      domain.ReminderStatus
		wantErr error
	}{
		{"pending to acknowledged", domain.ReminderPending, domain.ReminderAcknowledged, nil},
		{"pending to completed", domain.ReminderPending, domain.ReminderCompleted, nil},
		{"acknowledged to completed", domain.ReminderAcknowledged, domain.ReminderCompleted, nil},
		{"overdue to completed", domain.ReminderOverdue, domain.ReminderCompleted, nil},
		{"completed is terminal", domain.ReminderCompleted, domain.ReminderPending, domain.ErrInvalidTransition},
		{"users cannot set overdue", domain.ReminderPending, domain.ReminderOverdue, domain.ErrInvalidTransition},
		{"unknown status", domain.ReminderPending, domain.ReminderStatus("snoozed"), domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReminderFixture()
			f.reminderRepo.Add(&domain.Reminder{
				ID:         "rem-1",
				BuildingID: "bld-1",
				Status:     tt.from,
			})

			err := f.uc.UpdateReminderStatus(context.Background(), "rem-1", tt.to, "usr-1", "")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				if got := f.reminderRepo.Get("rem-1").Status; got != tt.from {
					t.Errorf("status changed to %s on rejected transition", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := f.reminderRepo.Get("rem-1").Status; got != tt.to {
				t.Errorf("status = %s, want %s", got, tt.to)
			}
			if f.auditRepo.CountByAction(domain.AuditActionReminderUpdate) != 1 {
				t.Error("expected one reminder.update audit entry")
			}
		})
	}
}

func TestReminderUseCase_SweepOverdue(t *testing.T) {
	f := newReminderFixture()
	now := time.Now().UTC()

	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-past", BuildingID: "bld-1",
		Status:  domain.ReminderPending,
		DueDate: now.AddDate(0, 0, -3),
	})
	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-future", BuildingID: "bld-1",
		Status:  domain.ReminderPending,
		DueDate: now.AddDate(0, 0, 3),
	})
	// Acknowledged reminders are left alone even when past due.
	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-acked", BuildingID: "bld-1",
		Status:  domain.ReminderAcknowledged,
		DueDate: now.AddDate(0, 0, -3),
	})

	count, err := f.uc.SweepOverdue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 transition, got %d", count)
	}
	if got := f.reminderRepo.Get("rem-past").Status; got != domain.ReminderOverdue {
		t.Errorf("rem-past status = %s, want overdue", got)
	}
	if got := f.reminderRepo.Get("rem-future").Status; got != domain.ReminderPending {
		t.Errorf("rem-future status = %s, want pending", got)
	}
	if got := f.reminderRepo.Get("rem-acked").Status; got != domain.ReminderAcknowledged {
		t.Errorf("rem-acked status = %s, want acknowledged", got)
	}

	// A second sweep the same day finds nothing and audits nothing new.
	count, err = f.uc.SweepOverdue(context.Background())
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if count != 0 {
		t.Errorf("second sweep transitioned %d, want 0", count)
	}
	if got := f.auditRepo.CountByAction(domain.AuditActionReminderOverdue); got != 1 {
		t.Errorf("expected 1 overdue audit entry, got %d", got)
	}
}

func TestReminderUseCase_AnalyzeDeadlines(t *testing.T) {
	f := newReminderFixture()
	now := time.Now().UTC()

	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-overdue", BuildingID: "bld-1",
		Status:  domain.ReminderOverdue,
		DueDate: now.AddDate(0, 0, -10),
	})
	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-soon", BuildingID: "bld-1",
		Status:  domain.ReminderPending,
		DueDate: now.AddDate(0, 0, 7),
	})
	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-later", BuildingID: "bld-1",
		Status:  domain.ReminderPending,
		DueDate: now.AddDate(0, 0, 90),
	})

	analysis, err := f.uc.AnalyzeDeadlines(context.Background(), "bld-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.Overdue != 1 || analysis.DueSoon != 1 || analysis.OnTrack != 1 {
		t.Errorf("analysis = %+v, want 1/1/1", analysis)
	}
	if analysis.NextDue == nil || analysis.NextDue.ID != "rem-soon" {
		t.Errorf("next due = %+v, want rem-soon", analysis.NextDue)
	}
}

func TestReminderUseCase_GetUpcomingReminders(t *testing.T) {
	f := newReminderFixture()
	now := time.Now().UTC()

	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-in-window", BuildingID: "bld-1",
		Status:  domain.ReminderPending,
		DueDate: now.AddDate(0, 0, 10),
	})
	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-outside", BuildingID: "bld-1",
		Status:  domain.ReminderPending,
		DueDate: now.AddDate(0, 0, 60),
	})
	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-done", BuildingID: "bld-1",
		Status:  domain.ReminderCompleted,
		DueDate: now.AddDate(0, 0, 5),
	})

	upcoming, err := f.uc.GetUpcomingReminders(context.Background(), "bld-1", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(upcoming) != 1 {
		t.Fatalf("expected 1 upcoming reminder, got %d", len(upcoming))
	}
	if upcoming[0].ID != "rem-in-window" {
		t.Errorf("got %s, want rem-in-window", upcoming[0].ID)
	}
	if upcoming[0].DaysUntilDue < 9 || upcoming[0].DaysUntilDue > 10 {
		t.Errorf("days until due = %d, want ~10", upcoming[0].DaysUntilDue)
	}
}
