package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propfolio/ledger/internal/domain"
	"github.com/propfolio/ledger/internal/usecase"
)

// uniqueMatchConstraint backs the one-to-one rule between bank
// transactions and settlement targets: a partial unique index over
// (matched_entity, matched_id) WHERE reconciled.
const uniqueMatchConstraint = "bank_txns_matched_target_key"

// BankTxnRepository implements usecase.BankTxnRepository.
type BankTxnRepository struct {
	pool *pgxpool.Pool
}

// NewBankTxnRepository creates a new BankTxnRepository.
func NewBankTxnRepository(pool *pgxpool.Pool) *BankTxnRepository {
	return &BankTxnRepository{pool: pool}
}

const bankTxnColumns = `id, bank_account_id, building_id, date, amount, description,
	COALESCE(external_ref, ''), reconciled, COALESCE(matched_entity, ''), COALESCE(matched_id, ''), created_at`

// GetByID retrieves a bank transaction by ID.
func (r *BankTxnRepository) GetByID(ctx context.Context, id string) (*domain.BankTransaction, error) {
	query := `SELECT ` + bankTxnColumns + ` FROM bank_txns WHERE id = $1`
	return scanBankTxn(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a bank transaction with a row lock, so two
// concurrent reconciliation attempts on the same line serialize.
func (r *BankTxnRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.BankTransaction, error) {
	pgxTx, err := txFrom(tx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + bankTxnColumns + ` FROM bank_txns WHERE id = $1 FOR UPDATE`
	return scanBankTxn(pgxTx.QueryRow(ctx, query, id))
}

// ListByBankAccount lists a bank account's transactions, optionally
// filtered by reconciliation state, newest first.
func (r *BankTxnRepository) ListByBankAccount(ctx context.Context, bankAccountID string, reconciled *bool, limit, offset int) ([]*domain.BankTransaction, error) {
	query := `SELECT ` + bankTxnColumns + ` FROM bank_txns WHERE bank_account_id = $1`
	args := []any{bankAccountID}

	if reconciled != nil {
		query += fmt.Sprintf(` AND reconciled = $%d`, len(args)+1)
		args = append(args, *reconciled)
	}

	query += fmt.Sprintf(` ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.BankTransaction
	for rows.Next() {
		txn, err := scanBankTxn(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// MarkReconciled flips the reconciled flag and records the match inside
// the caller's transaction. A concurrent match against the same target
// trips the partial unique index and surfaces as
// domain.ErrTargetAlreadyReconciled.
func (r *BankTxnRepository) MarkReconciled(ctx context.Context, tx usecase.Transaction, id string, entity domain.MatchedEntity, targetID string) error {
	pgxTx, err := txFrom(tx)
	if err != nil {
		return err
	}

	query := `
		UPDATE bank_txns
		SET reconciled = true, matched_entity = $2, matched_id = $3
		WHERE id = $1 AND NOT reconciled
	`

	tag, err := pgxTx.Exec(ctx, query, id, string(entity), targetID)
	if err != nil {
		if isUniqueViolation(err, uniqueMatchConstraint) {
			return fmt.Errorf("%w: %s=%s", domain.ErrTargetAlreadyReconciled, entity, targetID)
		}
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bank_txn=%s", domain.ErrAlreadyReconciled, id)
	}

	return nil
}

// ClearReconciled is the compensating rollback after a failed posting. It
// runs on the pool rather than a transaction: the mark has already
// committed, and the rollback must go through even if the caller's work
// is being abandoned.
func (r *BankTxnRepository) ClearReconciled(ctx context.Context, id string) error {
	query := `
		UPDATE bank_txns
		SET reconciled = false, matched_entity = NULL, matched_id = NULL
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBankTxnNotFound
	}

	return nil
}

// TargetMatched reports whether any reconciled bank transaction already
// references the target.
func (r *BankTxnRepository) TargetMatched(ctx context.Context, tx usecase.Transaction, entity domain.MatchedEntity, targetID string) (bool, error) {
	pgxTx, err := txFrom(tx)
	if err != nil {
		return false, err
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM bank_txns
			WHERE reconciled AND matched_entity = $1 AND matched_id = $2
		)
	`

	var matched bool
	if err := pgxTx.QueryRow(ctx, query, string(entity), targetID).Scan(&matched); err != nil {
		return false, err
	}

	return matched, nil
}

func scanBankTxn(row pgx.Row) (*domain.BankTransaction, error) {
	var txn domain.BankTransaction
	var amount pgtype.Numeric
	var matchedEntity string

	err := row.Scan(
		&txn.ID,
		&txn.BankAccountID,
		&txn.BuildingID,
		&txn.Date,
		&amount,
		&txn.Description,
		&txn.ExternalRef,
		&txn.Reconciled,
		&matchedEntity,
		&txn.MatchedID,
		&txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBankTxnNotFound
		}
		return nil, err
	}

	txn.MatchedEntity = domain.MatchedEntity(matchedEntity)

	if txn.Amount, err = toDecimal(amount); err != nil {
		return nil, err
	}

	return &txn, nil
}
