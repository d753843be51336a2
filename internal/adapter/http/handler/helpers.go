package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/propfolio/ledger/internal/adapter/http/dto"
	"github.com/propfolio/ledger/internal/adapter/http/middleware"
	"github.com/propfolio/ledger/internal/domain"
)

const dateLayout = "2006-01-02"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, errMsg, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   errMsg,
		Message: message,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrJournalNotFound),
		errors.Is(err, domain.ErrBankTxnNotFound),
		errors.Is(err, domain.ErrReceiptNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrPeriodNotFound),
		errors.Is(err, domain.ErrReminderNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrAlreadyReconciled),
		errors.Is(err, domain.ErrTargetAlreadyReconciled),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict

	case errors.Is(err, domain.ErrPeriodLocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrUnbalancedJournal),
		errors.Is(err, domain.ErrEmptyJournal),
		errors.Is(err, domain.ErrInvalidLine),
		errors.Is(err, domain.ErrInvalidMemo),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrAmountMismatch),
		errors.Is(err, domain.ErrBuildingMismatch),
		errors.Is(err, domain.ErrInvalidMatchEntity),
		errors.Is(err, domain.ErrAccountAmbiguous):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, name string, defaultValue int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

// parseDateQuery parses a YYYY-MM-DD query parameter, returning the
// default when absent.
func parseDateQuery(r *http.Request, name string, defaultValue time.Time) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return defaultValue, nil
	}

	return time.Parse(dateLayout, value)
}

// parseBoolQuery parses an optional boolean query parameter. Absent means
// nil, not false.
func parseBoolQuery(r *http.Request, name string) (*bool, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}

// callerFrom returns the authenticated caller, or the anonymous owner
// identity when authentication is disabled and no caller was attached.
func callerFrom(r *http.Request) domain.Caller {
	if caller, ok := middleware.GetCallerFromContext(r.Context()); ok {
		return caller
	}

	return domain.Caller{ID: "anonymous", Role: domain.RoleOwner}
}
