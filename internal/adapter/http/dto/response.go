package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/propfolio/ledger/internal/domain"
	"github.com/propfolio/ledger/internal/usecase"
)

// JournalResponse represents a posted journal in API responses.
type JournalResponse struct {
	ID             string                `json:"id"`
	BuildingID     string                `json:"building_id"`
	Date           string                `json:"date"`
	Memo           string                `json:"memo,omitempty"`
	IdempotencyKey string                `json:"idempotency_key,omitempty"`
	CreatedBy      string                `json:"created_by,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	Lines          []JournalLineResponse `json:"lines"`
}

// JournalLineResponse represents a journal line in API responses.
type JournalLineResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// JournalFromDomain converts a domain journal to a response.
func JournalFromDomain(j *domain.Journal) *JournalResponse {
	lines := make([]JournalLineResponse, len(j.Lines))
	for i, l := range j.Lines {
		lines[i] = JournalLineResponse{
			ID:        l.ID,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
		}
	}

	return &JournalResponse{
		ID:             j.ID,
		BuildingID:     j.BuildingID,
		Date:           j.Date.Format(dateLayout),
		Memo:           j.Memo,
		IdempotencyKey: j.IdempotencyKey,
		CreatedBy:      j.CreatedBy,
		CreatedAt:      j.CreatedAt,
		Lines:          lines,
	}
}

// BankTransactionResponse represents a bank statement line in API responses.
type BankTransactionResponse struct {
	ID            string          `json:"id"`
	BankAccountID string          `json:"bank_account_id"`
	BuildingID    string          `json:"building_id"`
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	ExternalRef   string          `json:"external_ref,omitempty"`
	Reconciled    bool            `json:"reconciled"`
	MatchedEntity string          `json:"matched_entity,omitempty"`
	MatchedID     string          `json:"matched_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BankTransactionFromDomain converts a domain bank transaction to a response.
func BankTransactionFromDomain(t *domain.BankTransaction) *BankTransactionResponse {
	return &BankTransactionResponse{
		ID:            t.ID,
		BankAccountID: t.BankAccountID,
		BuildingID:    t.BuildingID,
		Date:          t.Date.Format(dateLayout),
		Amount:        t.Amount,
		Description:   t.Description,
		ExternalRef:   t.ExternalRef,
		Reconciled:    t.Reconciled,
		MatchedEntity: string(t.MatchedEntity),
		MatchedID:     t.MatchedID,
		CreatedAt:     t.CreatedAt,
	}
}

// BankTransactionsFromDomain converts domain bank transactions to responses.
func BankTransactionsFromDomain(txns []*domain.BankTransaction) []*BankTransactionResponse {
	result := make([]*BankTransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = BankTransactionFromDomain(t)
	}
	return result
}

// SuggestionResponse is one ranked reconciliation candidate.
type SuggestionResponse struct {
	TargetEntity string          `json:"target_entity"`
	TargetID     string          `json:"target_id"`
	Ref          string          `json:"ref,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	MatchScore   float64         `json:"match_score"`
}

// SuggestionsFromUseCase converts ranked suggestions to responses.
func SuggestionsFromUseCase(suggestions []usecase.Suggestion) []SuggestionResponse {
	result := make([]SuggestionResponse, len(suggestions))
	for i, s := range suggestions {
		result[i] = SuggestionResponse{
			TargetEntity: string(s.Entity),
			TargetID:     s.ID,
			Ref:          s.Ref,
			Amount:       s.Amount,
			Date:         s.Date.Format(dateLayout),
			MatchScore:   s.Score,
		}
	}
	return result
}

// ReconcileResultResponse summarizes a successful reconciliation.
type ReconcileResultResponse struct {
	BankTxnID    string          `json:"bank_txn_id"`
	TargetEntity string          `json:"target_entity"`
	TargetID     string          `json:"target_id"`
	JournalID    string          `json:"journal_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// ReconcileResultFromUseCase converts a reconciliation result to a response.
func ReconcileResultFromUseCase(r *usecase.ReconcileResult) *ReconcileResultResponse {
	return &ReconcileResultResponse{
		BankTxnID:    r.BankTxnID,
		TargetEntity: string(r.TargetEntity),
		TargetID:     r.TargetID,
		JournalID:    r.JournalID,
		Amount:       r.Amount,
	}
}

// BalanceResponse is a derived bank account balance.
type BalanceResponse struct {
	BankAccountID string          `json:"bank_account_id"`
	BuildingID    string          `json:"building_id"`
	AsOf          string          `json:"as_of"`
	Balance       decimal.Decimal `json:"balance"`
}

// ConsistencyResponse is the result of a full-ledger balance check.
type ConsistencyResponse struct {
	TotalDebits  decimal.Decimal `json:"total_debits"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	Difference   decimal.Decimal `json:"difference"`
	Balanced     bool            `json:"balanced"`
}

// ConsistencyFromUseCase converts a consistency report to a response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		TotalDebits:  r.TotalDebits,
		TotalCredits: r.TotalCredits,
		Difference:   r.Difference,
		Balanced:     r.Balanced,
	}
}

// PeriodResponse represents an accounting period in API responses.
type PeriodResponse struct {
	ID           string `json:"id"`
	BuildingID   string `json:"building_id"`
	PeriodName   string `json:"period_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	LockedBefore string `json:"locked_before"`
}

// PeriodsFromDomain converts domain periods to responses.
func PeriodsFromDomain(periods []*domain.AccountingPeriod) []*PeriodResponse {
	result := make([]*PeriodResponse, len(periods))
	for i, p := range periods {
		result[i] = &PeriodResponse{
			ID:           p.ID,
			BuildingID:   p.BuildingID,
			PeriodName:   p.PeriodName,
			StartDate:    p.StartDate.Format(dateLayout),
			EndDate:      p.EndDate.Format(dateLayout),
			LockedBefore: p.LockedBefore.Format(dateLayout),
		}
	}
	return result
}

// ReminderResponse represents a compliance reminder in API responses.
type ReminderResponse struct {
	ID           string `json:"id"`
	PeriodID     string `json:"period_id"`
	BuildingID   string `json:"building_id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	DueDate      string `json:"due_date"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	DaysUntilDue int    `json:"days_until_due"`
}

// RemindersFromUseCase converts upcoming reminders to responses.
func RemindersFromUseCase(reminders []usecase.UpcomingReminder) []*ReminderResponse {
	result := make([]*ReminderResponse, len(reminders))
	for i := range reminders {
		result[i] = reminderFromUseCase(&reminders[i])
	}
	return result
}

func reminderFromUseCase(r *usecase.UpcomingReminder) *ReminderResponse {
	return &ReminderResponse{
		ID:           r.ID,
		PeriodID:     r.PeriodID,
		BuildingID:   r.BuildingID,
		Title:        r.Title,
		Description:  r.Description,
		DueDate:      r.DueDate.Format(dateLayout),
		Status:       string(r.Status),
		Priority:     string(r.Priority),
		DaysUntilDue: r.DaysUntilDue,
	}
}

// DeadlineAnalysisResponse summarizes a building's reminder pipeline.
type DeadlineAnalysisResponse struct {
	BuildingID string            `json:"building_id"`
	Overdue    int               `json:"overdue"`
	DueSoon    int               `json:"due_soon"`
	OnTrack    int               `json:"on_track"`
	NextDue    *ReminderResponse `json:"next_due,omitempty"`
}

// AnalysisFromUseCase converts a deadline analysis to a response.
func AnalysisFromUseCase(a *usecase.DeadlineAnalysis) *DeadlineAnalysisResponse {
	resp := &DeadlineAnalysisResponse{
		BuildingID: a.BuildingID,
		Overdue:    a.Overdue,
		DueSoon:    a.DueSoon,
		OnTrack:    a.OnTrack,
	}
	if a.NextDue != nil {
		resp.NextDue = reminderFromUseCase(a.NextDue)
	}
	return resp
}

// SweepResponse reports how many reminders a sweep transitioned.
type SweepResponse struct {
	Transitioned int `json:"transitioned"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
