package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is an expected inflow (accounts receivable) supplied by the
// payment-capture module. Amount is always positive.
type Receipt struct {
	ID            string
	BuildingID    string
	BankAccountID string
	Amount        decimal.Decimal
	Date          time.Time
	Description   string
	PayerRef      string
	CreatedBy     string
	CreatedAt     time.Time
}

// Payment is an expected outflow (accounts payable) supplied by the
// invoicing module. Amount is always positive; the matching bank
// transaction carries the negative sign.
type Payment struct {
	ID            string
	BuildingID    string
	BankAccountID string
	Amount        decimal.Decimal
	Date          time.Time
	Description   string
	PayeeRef      string
	CreatedBy     string
	CreatedAt     time.Time
}
