package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LedgerRepository implements usecase.LedgerRepository. Balances are
// always derived by summing journal lines; no running total is stored.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// AccountBalance sums the signed effect of every line on the account up
// to and including asOf.
func (r *LedgerRepository) AccountBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(jl.debit - jl.credit), 0)
		FROM journal_lines jl
		JOIN journals j ON j.id = jl.journal_id
		WHERE jl.account_id = $1 AND j.date <= $2
	`

	var balance pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, accountID, asOf).Scan(&balance); err != nil {
		return decimal.Zero, err
	}

	return toDecimal(balance)
}

// CheckConsistency sums all debits and all credits across the ledger.
// The two totals must agree exactly for every validly posted journal.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (totalDebits, totalCredits decimal.Decimal, err error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM journal_lines
	`

	var debits, credits pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query).Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	if totalDebits, err = toDecimal(debits); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if totalCredits, err = toDecimal(credits); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return totalDebits, totalCredits, nil
}
