package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerUseCase exposes ledger-wide aggregates: the global debit/credit
// totals that must agree to the penny across every posted journal.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
	logger     zerolog.Logger
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository, logger zerolog.Logger) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// ConsistencyReport is the result of a full-ledger balance check.
type ConsistencyReport struct {
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	Difference   decimal.Decimal
	Balanced     bool
}

// CheckConsistency sums every journal line in the ledger. Posting is
// atomic and validated, so any nonzero difference means storage-level
// corruption and is logged at error level.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	debits, credits, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	diff := debits.Sub(credits)
	report := &ConsistencyReport{
		TotalDebits:  debits,
		TotalCredits: credits,
		Difference:   diff,
		Balanced:     diff.IsZero(),
	}

	if !report.Balanced {
		uc.logger.Error().
			Str("total_debits", debits.String()).
			Str("total_credits", credits.String()).
			Str("difference", diff.String()).
			Msg("ledger consistency check failed")
	}

	return report, nil
}
