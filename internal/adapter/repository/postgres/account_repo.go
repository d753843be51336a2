package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propfolio/ledger/internal/domain"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, building_id, bank_account_id, role, name, active, created_at`

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	return account, nil
}

// FindByRole returns all active accounts matching the building and role.
// For the bank role, a non-empty bankAccountID narrows the match.
func (r *AccountRepository) FindByRole(ctx context.Context, buildingID string, role domain.AccountRole, bankAccountID string) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE building_id = $1 AND role = $2 AND active
	`
	args := []any{buildingID, string(role)}

	if role == domain.RoleBank && bankAccountID != "" {
		query += ` AND bank_account_id = $3`
		args = append(args, bankAccountID)
	}

	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var bankAccountID *string

	err := row.Scan(
		&account.ID,
		&account.BuildingID,
		&bankAccountID,
		&account.Role,
		&account.Name,
		&account.Active,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if bankAccountID != nil {
		account.BankAccountID = *bankAccountID
	}

	return &account, nil
}
