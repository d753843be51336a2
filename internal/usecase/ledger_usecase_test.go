package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/propfolio/ledger/internal/usecase"
	"github.com/propfolio/ledger/internal/usecase/mocks"
)

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	tests := []struct {
		name     string
		debits   string
		credits  string
		balanced bool
		diff     string
	}{
		{"balanced ledger", "10500.00", "10500.00", true, "0"},
		{"empty ledger", "0", "0", true, "0"},
		{"corrupted by a penny", "10500.00", "10499.99", false, "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledgerRepo := mocks.NewMockLedgerRepository()
			ledgerRepo.TotalDebits = decimal.RequireFromString(tt.debits)
			ledgerRepo.TotalCredits = decimal.RequireFromString(tt.credits)

			uc := usecase.NewLedgerUseCase(ledgerRepo, zerolog.Nop())
			report, err := uc.CheckConsistency(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if report.Balanced != tt.balanced {
				t.Errorf("balanced = %v, want %v", report.Balanced, tt.balanced)
			}
			if !report.Difference.Equal(decimal.RequireFromString(tt.diff)) {
				t.Errorf("difference = %s, want %s", report.Difference, tt.diff)
			}
		})
	}
}
