package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/propfolio/ledger/internal/adapter/http/dto"
	"github.com/propfolio/ledger/internal/domain"
	"github.com/propfolio/ledger/internal/usecase"
)

// DeadlineHandler handles compliance deadline HTTP requests: upcoming
// reminders, urgency analysis, and the period/reminder lifecycle.
type DeadlineHandler struct {
	reminderUC *usecase.ReminderUseCase
	periodUC   *usecase.PeriodUseCase
}

// NewDeadlineHandler creates a new DeadlineHandler.
func NewDeadlineHandler(reminderUC *usecase.ReminderUseCase, periodUC *usecase.PeriodUseCase) *DeadlineHandler {
	return &DeadlineHandler{
		reminderUC: reminderUC,
		periodUC:   periodUC,
	}
}

// Get lists or analyzes a building's deadlines depending on the action
// parameter (list by default, analyze for the urgency summary).
func (h *DeadlineHandler) Get(w http.ResponseWriter, r *http.Request) {
	buildingID := r.URL.Query().Get("building_id")
	if buildingID == "" {
		writeError(w, http.StatusBadRequest, "missing building_id parameter", "")
		return
	}

	switch action := r.URL.Query().Get("action"); action {
	case "", "list":
		daysAhead := parseIntQuery(r, "days_ahead", 30)

		reminders, err := h.reminderUC.GetUpcomingReminders(r.Context(), buildingID, daysAhead)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list deadlines", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, dto.RemindersFromUseCase(reminders))

	case "analyze":
		analysis, err := h.reminderUC.AnalyzeDeadlines(r.Context(), buildingID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to analyze deadlines", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, dto.AnalysisFromUseCase(analysis))

	default:
		writeError(w, http.StatusBadRequest, "invalid action parameter", "expected list or analyze")
	}
}

// Post applies a deadline action: create standard periods, update or
// complete a reminder, or sweep overdue reminders.
func (h *DeadlineHandler) Post(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)
	if !caller.Role.CanReconcile() {
		err := fmt.Errorf("%w: role %s cannot manage deadlines", domain.ErrAccessDenied, caller.Role)
		writeError(w, http.StatusForbidden, "failed to apply deadline action", err.Error())
		return
	}

	var req dto.DeadlineActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	switch req.Action {
	case dto.DeadlineActionCreate:
		h.createPeriods(w, r, req, caller)
	case dto.DeadlineActionUpdate:
		h.updateReminder(w, r, req, domain.ReminderStatus(req.Status), caller)
	case dto.DeadlineActionComplete:
		h.updateReminder(w, r, req, domain.ReminderCompleted, caller)
	case dto.DeadlineActionSweep:
		h.sweep(w, r)
	default:
		writeError(w, http.StatusBadRequest, "invalid action", "expected create, update, complete or sweep")
	}
}

func (h *DeadlineHandler) createPeriods(w http.ResponseWriter, r *http.Request, req dto.DeadlineActionRequest, caller domain.Caller) {
	if req.BuildingID == "" {
		writeError(w, http.StatusBadRequest, "missing building_id", "")
		return
	}

	year := req.Year
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	periods, err := h.periodUC.CreateStandardPeriods(r.Context(), req.BuildingID, year, caller.ID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create periods", err.Error())

		return
	}

	if len(periods) == 0 {
		// Periods for this year already exist.
		writeJSON(w, http.StatusOK, dto.PeriodsFromDomain(nil))
		return
	}

	writeJSON(w, http.StatusCreated, dto.PeriodsFromDomain(periods))
}

func (h *DeadlineHandler) updateReminder(w http.ResponseWriter, r *http.Request, req dto.DeadlineActionRequest, status domain.ReminderStatus, caller domain.Caller) {
	if req.ReminderID == "" {
		writeError(w, http.StatusBadRequest, "missing reminder_id", "")
		return
	}

	if err := h.reminderUC.UpdateReminderStatus(r.Context(), req.ReminderID, status, caller.ID, req.Notes); err != nil {
		code := mapDomainError(err)
		writeError(w, code, "failed to update reminder", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"reminder_id": req.ReminderID,
		"status":      string(status),
	})
}

func (h *DeadlineHandler) sweep(w http.ResponseWriter, r *http.Request) {
	transitioned, err := h.reminderUC.SweepOverdue(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to sweep overdue reminders", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SweepResponse{Transitioned: transitioned})
}
