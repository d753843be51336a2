package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/propfolio/ledger/internal/adapter/http/dto"
	"github.com/propfolio/ledger/internal/domain"
)

func deadlineBody(t *testing.T, req dto.DeadlineActionRequest) *bytes.Reader {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	return bytes.NewReader(body)
}

func TestDeadlineHandler_Post_CreatePeriods(t *testing.T) {
	f := newFixture()
	h := NewDeadlineHandler(f.reminderUC, f.periodUC)

	body := deadlineBody(t, dto.DeadlineActionRequest{
		Action:     dto.DeadlineActionCreate,
		BuildingID: "bld-1",
		Year:       2026,
	})

	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/deadlines", body), domain.RoleOwner)
	rec := httptest.NewRecorder()

	h.Post(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp []*dto.PeriodResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// Fiscal year plus four quarters.
	if len(resp) != 5 {
		t.Fatalf("expected 5 periods, got %d", len(resp))
	}

	// Repeat is a no-op, not an error.
	body = deadlineBody(t, dto.DeadlineActionRequest{
		Action:     dto.DeadlineActionCreate,
		BuildingID: "bld-1",
		Year:       2026,
	})
	rec = httptest.NewRecorder()
	h.Post(rec, asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/deadlines", body), domain.RoleOwner))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat create, got %d", rec.Code)
	}
	if f.periodRepo.Count() != 5 {
		t.Fatalf("expected period count unchanged, got %d", f.periodRepo.Count())
	}
}

func TestDeadlineHandler_Post_ViewerForbidden(t *testing.T) {
	f := newFixture()
	h := NewDeadlineHandler(f.reminderUC, f.periodUC)

	body := deadlineBody(t, dto.DeadlineActionRequest{Action: dto.DeadlineActionSweep})
	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/deadlines", body), domain.RoleViewer)
	rec := httptest.NewRecorder()

	h.Post(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestDeadlineHandler_Post_CompleteReminder(t *testing.T) {
	f := newFixture()
	h := NewDeadlineHandler(f.reminderUC, f.periodUC)

	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-1", PeriodID: "per-1", BuildingID: "bld-1",
		Title:   "Quarterly review (Q1 2026)",
		DueDate: time.Now().UTC().AddDate(0, 0, 7),
		Status:  domain.ReminderPending,
	})

	body := deadlineBody(t, dto.DeadlineActionRequest{
		Action:     dto.DeadlineActionComplete,
		ReminderID: "rem-1",
		Notes:      "reviewed at the board meeting",
	})

	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/deadlines", body), domain.RoleManager)
	rec := httptest.NewRecorder()

	h.Post(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if got := f.reminderRepo.Get("rem-1").Status; got != domain.ReminderCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
}

func TestDeadlineHandler_Post_InvalidTransition(t *testing.T) {
	f := newFixture()
	h := NewDeadlineHandler(f.reminderUC, f.periodUC)

	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-1", PeriodID: "per-1", BuildingID: "bld-1",
		DueDate: time.Now().UTC().AddDate(0, 0, 7),
		Status:  domain.ReminderCompleted,
	})

	body := deadlineBody(t, dto.DeadlineActionRequest{
		Action:     dto.DeadlineActionUpdate,
		ReminderID: "rem-1",
		Status:     "pending",
	})

	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/deadlines", body), domain.RoleManager)
	rec := httptest.NewRecorder()

	h.Post(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeadlineHandler_Post_Sweep(t *testing.T) {
	f := newFixture()
	h := NewDeadlineHandler(f.reminderUC, f.periodUC)

	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-late", PeriodID: "per-1", BuildingID: "bld-1",
		DueDate: time.Now().UTC().AddDate(0, 0, -10),
		Status:  domain.ReminderPending,
	})

	body := deadlineBody(t, dto.DeadlineActionRequest{Action: dto.DeadlineActionSweep})
	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/deadlines", body), domain.RoleOwner)
	rec := httptest.NewRecorder()

	h.Post(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SweepResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Transitioned != 1 {
		t.Fatalf("expected 1 transitioned reminder, got %d", resp.Transitioned)
	}
}

func TestDeadlineHandler_Post_UnknownAction(t *testing.T) {
	f := newFixture()
	h := NewDeadlineHandler(f.reminderUC, f.periodUC)

	body := deadlineBody(t, dto.DeadlineActionRequest{Action: "archive"})
	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/deadlines", body), domain.RoleOwner)
	rec := httptest.NewRecorder()

	h.Post(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeadlineHandler_Get_List(t *testing.T) {
	f := newFixture()
	h := NewDeadlineHandler(f.reminderUC, f.periodUC)

	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-1", PeriodID: "per-1", BuildingID: "bld-1",
		Title:    "Quarterly review (Q1 2026)",
		DueDate:  time.Now().UTC().AddDate(0, 0, 10),
		Status:   domain.ReminderPending,
		Priority: domain.PriorityMedium,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deadlines?building_id=bld-1&days_ahead=30", nil)
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp []*dto.ReminderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp) != 1 || resp[0].ID != "rem-1" {
		t.Fatalf("unexpected reminders: %+v", resp)
	}
}

func TestDeadlineHandler_Get_Analyze(t *testing.T) {
	f := newFixture()
	h := NewDeadlineHandler(f.reminderUC, f.periodUC)

	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-late", PeriodID: "per-1", BuildingID: "bld-1",
		DueDate: time.Now().UTC().AddDate(0, 0, -5),
		Status:  domain.ReminderOverdue,
	})
	f.reminderRepo.Add(&domain.Reminder{
		ID: "rem-soon", PeriodID: "per-1", BuildingID: "bld-1",
		DueDate: time.Now().UTC().AddDate(0, 0, 10),
		Status:  domain.ReminderPending,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deadlines?building_id=bld-1&action=analyze", nil)
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.DeadlineAnalysisResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Overdue != 1 || resp.DueSoon != 1 {
		t.Fatalf("unexpected analysis: %+v", resp)
	}
	if resp.NextDue == nil || resp.NextDue.ID != "rem-soon" {
		t.Fatalf("expected rem-soon as next due, got %+v", resp.NextDue)
	}
}

func TestDeadlineHandler_Get_MissingBuilding(t *testing.T) {
	f := newFixture()
	h := NewDeadlineHandler(f.reminderUC, f.periodUC)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deadlines", nil)
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
