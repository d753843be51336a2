package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propfolio/ledger/internal/domain"
	"github.com/propfolio/ledger/internal/usecase"
)

// PeriodRepository implements usecase.PeriodRepository.
type PeriodRepository struct {
	pool *pgxpool.Pool
}

// NewPeriodRepository creates a new PeriodRepository.
func NewPeriodRepository(pool *pgxpool.Pool) *PeriodRepository {
	return &PeriodRepository{pool: pool}
}

const periodColumns = `id, building_id, period_name, start_date, end_date, locked_before, created_at`

// Create inserts a period inside the caller's transaction.
func (r *PeriodRepository) Create(ctx context.Context, tx usecase.Transaction, period *domain.AccountingPeriod) error {
	pgxTx, err := txFrom(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO accounting_periods (id, building_id, period_name, start_date, end_date, locked_before, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = pgxTx.Exec(ctx, query,
		period.ID,
		period.BuildingID,
		period.PeriodName,
		period.StartDate,
		period.EndDate,
		period.LockedBefore,
		period.CreatedAt,
	)

	return err
}

// GetByID retrieves a period by ID.
func (r *PeriodRepository) GetByID(ctx context.Context, id string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE id = $1`

	period, err := scanPeriod(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPeriodNotFound
		}
		return nil, err
	}

	return period, nil
}

// ListByBuilding returns a building's periods, oldest first.
func (r *PeriodRepository) ListByBuilding(ctx context.Context, buildingID string) ([]*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE building_id = $1
		ORDER BY start_date, period_name
	`

	return r.list(ctx, query, buildingID)
}

// AnyInRange reports whether the building has a period starting inside
// [from, to]. Used as the idempotency guard for standard-period creation.
func (r *PeriodRepository) AnyInRange(ctx context.Context, buildingID string, from, to time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM accounting_periods
			WHERE building_id = $1 AND start_date >= $2 AND start_date <= $3
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, buildingID, from, to).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// ListCovering returns periods whose range includes the date.
func (r *PeriodRepository) ListCovering(ctx context.Context, buildingID string, date time.Time) ([]*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE building_id = $1 AND start_date <= $2 AND end_date >= $2
	`

	return r.list(ctx, query, buildingID, date)
}

func (r *PeriodRepository) list(ctx context.Context, query string, args ...any) ([]*domain.AccountingPeriod, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []*domain.AccountingPeriod
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}

	return periods, rows.Err()
}

func scanPeriod(row pgx.Row) (*domain.AccountingPeriod, error) {
	var period domain.AccountingPeriod

	err := row.Scan(
		&period.ID,
		&period.BuildingID,
		&period.PeriodName,
		&period.StartDate,
		&period.EndDate,
		&period.LockedBefore,
		&period.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &period, nil
}
