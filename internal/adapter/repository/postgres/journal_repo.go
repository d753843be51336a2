package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propfolio/ledger/internal/domain"
	"github.com/propfolio/ledger/internal/usecase"
)

// JournalRepository implements usecase.JournalRepository. Journals are
// immutable: there are inserts and reads, never updates or deletes.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

// CreateHeader inserts the journal header inside the caller's transaction.
func (r *JournalRepository) CreateHeader(ctx context.Context, tx usecase.Transaction, journal *domain.Journal) error {
	pgxTx, err := txFrom(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO journals (id, building_id, date, memo, idempotency_key, created_by, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
	`

	_, err = pgxTx.Exec(ctx, query,
		journal.ID,
		journal.BuildingID,
		journal.Date,
		journal.Memo,
		journal.IdempotencyKey,
		journal.CreatedBy,
		journal.CreatedAt,
	)
	if isUniqueViolation(err, "journals_idempotency_key_key") {
		// A racing writer committed the same logical event between the
		// caller's pre-check and this insert.
		return domain.ErrDuplicateJournal
	}

	return err
}

// CreateLines inserts the journal's lines inside the caller's transaction.
func (r *JournalRepository) CreateLines(ctx context.Context, tx usecase.Transaction, lines []domain.JournalLine) error {
	pgxTx, err := txFrom(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO journal_lines (id, journal_id, account_id, debit, credit)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		debit, err := toNumeric(line.Debit)
		if err != nil {
			return err
		}
		credit, err := toNumeric(line.Credit)
		if err != nil {
			return err
		}

		batch.Queue(query, line.ID, line.JournalID, line.AccountID, debit, credit)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range lines {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return results.Close()
}

const journalColumns = `id, building_id, date, memo, COALESCE(idempotency_key, ''), created_by, created_at`

// GetByID retrieves a journal and its lines.
func (r *JournalRepository) GetByID(ctx context.Context, id string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE id = $1`
	return r.get(ctx, query, id)
}

// GetByIdempotencyKey retrieves the journal posted with the given key.
func (r *JournalRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE idempotency_key = $1`
	return r.get(ctx, query, key)
}

func (r *JournalRepository) get(ctx context.Context, query string, arg any) (*domain.Journal, error) {
	var journal domain.Journal

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&journal.ID,
		&journal.BuildingID,
		&journal.Date,
		&journal.Memo,
		&journal.IdempotencyKey,
		&journal.CreatedBy,
		&journal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJournalNotFound
		}
		return nil, err
	}

	lines, err := r.linesFor(ctx, journal.ID)
	if err != nil {
		return nil, err
	}
	journal.Lines = lines

	return &journal, nil
}

func (r *JournalRepository) linesFor(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	query := `
		SELECT id, journal_id, account_id, debit, credit
		FROM journal_lines
		WHERE journal_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var line domain.JournalLine
		var debit, credit pgtype.Numeric

		if err := rows.Scan(&line.ID, &line.JournalID, &line.AccountID, &debit, &credit); err != nil {
			return nil, err
		}

		if line.Debit, err = toDecimal(debit); err != nil {
			return nil, err
		}
		if line.Credit, err = toDecimal(credit); err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	return lines, rows.Err()
}
