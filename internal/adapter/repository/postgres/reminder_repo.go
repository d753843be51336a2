package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propfolio/ledger/internal/domain"
)

// ReminderRepository implements usecase.ReminderRepository.
type ReminderRepository struct {
	pool *pgxpool.Pool
}

// NewReminderRepository creates a new ReminderRepository.
func NewReminderRepository(pool *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{pool: pool}
}

const reminderColumns = `id, period_id, building_id, title, COALESCE(description, ''),
	due_date, reminder_days, status, priority, created_at, updated_at`

// Create inserts a reminder.
func (r *ReminderRepository) Create(ctx context.Context, reminder *domain.Reminder) error {
	query := `
		INSERT INTO reminders (id, period_id, building_id, title, description,
			due_date, reminder_days, status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		reminder.ID,
		reminder.PeriodID,
		reminder.BuildingID,
		reminder.Title,
		reminder.Description,
		reminder.DueDate,
		reminder.ReminderDays,
		string(reminder.Status),
		string(reminder.Priority),
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)

	return err
}

// GetByID retrieves a reminder by ID.
func (r *ReminderRepository) GetByID(ctx context.Context, id string) (*domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`

	reminder, err := scanReminder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReminderNotFound
		}
		return nil, err
	}

	return reminder, nil
}

// ListByPeriod returns a period's reminders.
func (r *ReminderRepository) ListByPeriod(ctx context.Context, periodID string) ([]*domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE period_id = $1 ORDER BY due_date`
	return r.list(ctx, query, periodID)
}

// ListUpcoming returns a building's open reminders due before the cutoff,
// soonest first. Completed reminders are excluded; overdue ones are not.
func (r *ReminderRepository) ListUpcoming(ctx context.Context, buildingID string, before time.Time) ([]*domain.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE building_id = $1 AND status != 'completed' AND due_date < $2
		ORDER BY due_date, id
	`

	return r.list(ctx, query, buildingID, before)
}

// UpdateStatus sets a reminder's status.
func (r *ReminderRepository) UpdateStatus(ctx context.Context, id string, status domain.ReminderStatus, updatedAt time.Time) error {
	query := `UPDATE reminders SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, string(status), updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReminderNotFound
	}

	return nil
}

// MarkOverdue transitions every pending reminder due before the cutoff to
// overdue and returns the transitioned rows. The status predicate makes a
// rerun a no-op, so the daily sweep can be fired more than once safely.
func (r *ReminderRepository) MarkOverdue(ctx context.Context, before, updatedAt time.Time) ([]*domain.Reminder, error) {
	query := `
		UPDATE reminders
		SET status = 'overdue', updated_at = $2
		WHERE status = 'pending' AND due_date < $1
		RETURNING ` + reminderColumns

	rows, err := r.pool.Query(ctx, query, before, updatedAt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transitioned []*domain.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		transitioned = append(transitioned, reminder)
	}

	return transitioned, rows.Err()
}

func (r *ReminderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Reminder, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []*domain.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}

	return reminders, rows.Err()
}

func scanReminder(row pgx.Row) (*domain.Reminder, error) {
	var reminder domain.Reminder
	var status, priority string

	err := row.Scan(
		&reminder.ID,
		&reminder.PeriodID,
		&reminder.BuildingID,
		&reminder.Title,
		&reminder.Description,
		&reminder.DueDate,
		&reminder.ReminderDays,
		&status,
		&priority,
		&reminder.CreatedAt,
		&reminder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	reminder.Status = domain.ReminderStatus(status)
	reminder.Priority = domain.ReminderPriority(priority)

	return &reminder, nil
}
