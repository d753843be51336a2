package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidMemo    = errors.New("invalid journal memo")
	ErrAmountTooLarge = errors.New("amount exceeds maximum allowed")
)

// Validation constants
const (
	MaxMemoLength   = 500
	MaxLineAmount   = "1000000000" // 1 billion, per line
	MaxJournalLines = 200
)

// ValidateMemo validates a journal memo.
func ValidateMemo(memo string) error {
	memo = strings.TrimSpace(memo)

	if memo == "" {
		return fmt.Errorf("%w: memo cannot be empty", ErrInvalidMemo)
	}

	if len(memo) > MaxMemoLength {
		return fmt.Errorf("%w: memo exceeds %d characters", ErrInvalidMemo, MaxMemoLength)
	}

	return nil
}

// ValidatePositiveAmount validates a settlement or line amount.
func ValidatePositiveAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxLineAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxLineAmount)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
