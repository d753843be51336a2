package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propfolio/ledger/internal/domain"
	"github.com/propfolio/ledger/internal/usecase"
)

const dateLayout = "2006-01-02"

// PostJournalRequest represents a request to post a balanced journal.
type PostJournalRequest struct {
	BuildingID     string               `json:"building_id"`
	Date           string               `json:"date"`
	Memo           string               `json:"memo,omitempty"`
	IdempotencyKey string               `json:"idempotency_key,omitempty"`
	Lines          []JournalLineRequest `json:"lines"`
}

// JournalLineRequest is one requested journal line. Exactly one of
// debit/credit should be positive.
type JournalLineRequest struct {
	AccountID string          `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// ToUseCaseInput converts the request to use case input.
func (r *PostJournalRequest) ToUseCaseInput(actor string) (usecase.PostBalancedInput, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return usecase.PostBalancedInput{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", r.Date)
	}

	lines := make([]usecase.PostLineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = usecase.PostLineInput{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
		}
	}

	return usecase.PostBalancedInput{
		BuildingID:     r.BuildingID,
		Date:           date,
		Memo:           r.Memo,
		IdempotencyKey: r.IdempotencyKey,
		Actor:          actor,
		Lines:          lines,
	}, nil
}

// ReconcileRequest represents a request to reconcile a bank transaction
// against a receivable or payable.
type ReconcileRequest struct {
	BankTxnID              string `json:"bank_txn_id"`
	TargetEntity           string `json:"target_entity"`
	TargetID               string `json:"target_id"`
	OverrideAmountMismatch bool   `json:"override_amount_mismatch,omitempty"`
}

// ToUseCaseInput converts the request to use case input.
func (r *ReconcileRequest) ToUseCaseInput(caller domain.Caller) usecase.ReconcileInput {
	return usecase.ReconcileInput{
		BankTxnID:              r.BankTxnID,
		TargetEntity:           domain.MatchedEntity(r.TargetEntity),
		TargetID:               r.TargetID,
		OverrideAmountMismatch: r.OverrideAmountMismatch,
		Caller:                 caller,
	}
}

// Deadline actions accepted by POST /api/v1/deadlines.
const (
	DeadlineActionCreate   = "create"
	DeadlineActionUpdate   = "update"
	DeadlineActionComplete = "complete"
	DeadlineActionSweep    = "sweep"
)

// DeadlineActionRequest drives the deadline endpoint. Action selects the
// verb; the remaining fields apply to the matching action only.
type DeadlineActionRequest struct {
	Action string `json:"action"`

	// create: standard fiscal periods and their reminders
	BuildingID string `json:"building_id,omitempty"`
	Year       int    `json:"year,omitempty"`

	// update / complete: reminder status transitions
	ReminderID string `json:"reminder_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Notes      string `json:"notes,omitempty"`
}
