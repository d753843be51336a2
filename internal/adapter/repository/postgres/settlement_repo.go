package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propfolio/ledger/internal/domain"
)

// SettlementRepository implements usecase.SettlementRepository. Receipts
// and payments are written by other platform modules; this service only
// reads them while matching.
type settlementPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type SettlementRepository struct {
	pool settlementPool
}

// NewSettlementRepository creates a new SettlementRepository.
func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return newSettlementRepositoryWithPool(pool)
}

func newSettlementRepositoryWithPool(pool settlementPool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

const receiptColumns = `id, building_id, bank_account_id, amount, date,
	COALESCE(description, ''), COALESCE(payer_ref, ''), COALESCE(created_by, ''), created_at`

const paymentColumns = `id, building_id, bank_account_id, amount, date,
	COALESCE(description, ''), COALESCE(payee_ref, ''), COALESCE(created_by, ''), created_at`

// GetReceipt retrieves a receipt by ID.
func (r *SettlementRepository) GetReceipt(ctx context.Context, id string) (*domain.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM ar_receipts WHERE id = $1`

	receipt, err := scanReceipt(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, err
	}

	return receipt, nil
}

// GetPayment retrieves a payment by ID.
func (r *SettlementRepository) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM ap_payments WHERE id = $1`

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	return payment, nil
}

// ListOpenReceipts returns receipts on the bank account not yet claimed
// by any reconciled bank transaction.
func (r *SettlementRepository) ListOpenReceipts(ctx context.Context, bankAccountID string) ([]*domain.Receipt, error) {
	query := `
		SELECT ` + receiptColumns + `
		FROM ar_receipts rc
		WHERE rc.bank_account_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM bank_txns bt
			WHERE bt.reconciled AND bt.matched_entity = 'ar_receipt' AND bt.matched_id = rc.id
		  )
		ORDER BY rc.date DESC, rc.id
	`

	rows, err := r.pool.Query(ctx, query, bankAccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []*domain.Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}

	return receipts, rows.Err()
}

// ListOpenPayments returns payments on the bank account not yet claimed
// by any reconciled bank transaction.
func (r *SettlementRepository) ListOpenPayments(ctx context.Context, bankAccountID string) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM ap_payments pm
		WHERE pm.bank_account_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM bank_txns bt
			WHERE bt.reconciled AND bt.matched_entity = 'ap_payment' AND bt.matched_id = pm.id
		  )
		ORDER BY pm.date DESC, pm.id
	`

	rows, err := r.pool.Query(ctx, query, bankAccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func scanReceipt(row pgx.Row) (*domain.Receipt, error) {
	var receipt domain.Receipt
	var amount pgtype.Numeric

	err := row.Scan(
		&receipt.ID,
		&receipt.BuildingID,
		&receipt.BankAccountID,
		&amount,
		&receipt.Date,
		&receipt.Description,
		&receipt.PayerRef,
		&receipt.CreatedBy,
		&receipt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if receipt.Amount, err = toDecimal(amount); err != nil {
		return nil, err
	}

	return &receipt, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment
	var amount pgtype.Numeric

	err := row.Scan(
		&payment.ID,
		&payment.BuildingID,
		&payment.BankAccountID,
		&amount,
		&payment.Date,
		&payment.Description,
		&payment.PayeeRef,
		&payment.CreatedBy,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if payment.Amount, err = toDecimal(amount); err != nil {
		return nil, err
	}

	return &payment, nil
}
