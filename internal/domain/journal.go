package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Journal represents one balanced financial event. Journals are immutable
// once written; there is no update path.
type Journal struct {
	ID             string
	BuildingID     string
	Date           time.Time
	Memo           string
	IdempotencyKey string
	CreatedBy      string
	CreatedAt      time.Time
	Lines          []JournalLine
}

// JournalLine is a single debit or credit against an account. Exactly one
// of Debit/Credit is non-zero, and both are always non-negative.
type JournalLine struct {
	ID        string
	JournalID string
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// SignedAmount is the line's effect on its account: debits positive,
// credits negative.
func (l JournalLine) SignedAmount() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// ValidateLines enforces the double-entry invariants: at least one line,
// each line single-sided and non-negative, and total debits exactly equal
// total credits.
func ValidateLines(lines []JournalLine) error {
	if len(lines) == 0 {
		return ErrEmptyJournal
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for i, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", ErrInvalidLine, i)
		}

		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()

		if debitSet == creditSet {
			return fmt.Errorf("%w: line %d", ErrInvalidLine, i)
		}

		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: debits=%s credits=%s",
			ErrUnbalancedJournal, totalDebit.String(), totalCredit.String())
	}

	return nil
}

// Validate checks the journal header and its lines.
func (j *Journal) Validate() error {
	if j.BuildingID == "" {
		return fmt.Errorf("journal requires a building")
	}

	if j.Date.IsZero() {
		return fmt.Errorf("journal requires a date")
	}

	return ValidateLines(j.Lines)
}
