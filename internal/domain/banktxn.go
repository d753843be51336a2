package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchedEntity identifies which kind of settlement record a bank
// transaction has been reconciled against.
type MatchedEntity string

const (
	MatchARReceipt MatchedEntity = "ar_receipt"
	MatchAPPayment MatchedEntity = "ap_payment"
)

// IsValid checks if the matched entity kind is known.
func (m MatchedEntity) IsValid() bool {
	return m == MatchARReceipt || m == MatchAPPayment
}

// BankTransaction is one imported bank-statement line. Amount is signed:
// positive for money in, negative for money out. Reconciled flips to true
// exactly once through the matcher; it only ever returns to false as a
// compensating rollback after a failed posting.
type BankTransaction struct {
	ID            string
	BankAccountID string
	BuildingID    string
	Date          time.Time
	Amount        decimal.Decimal
	Description   string
	ExternalRef   string
	Reconciled    bool
	MatchedEntity MatchedEntity
	MatchedID     string
	CreatedAt     time.Time
}
