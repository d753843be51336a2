package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/propfolio/ledger/internal/domain"
)

// ReminderSeeder derives reminders from a newly created period.
// Implemented by ReminderUseCase.
type ReminderSeeder interface {
	GenerateRemindersForPeriod(ctx context.Context, periodID string) (int, error)
}

// PeriodUseCase manages accounting periods: the locked windows that gate
// retroactive postings, and the fiscal calendar that seeds compliance
// reminders.
type PeriodUseCase struct {
	txManager  TransactionManager
	periodRepo PeriodRepository
	auditRepo  AuditRepository
	reminders  ReminderSeeder
	idGen      IDGenerator
	logger     zerolog.Logger
}

// NewPeriodUseCase creates a new PeriodUseCase.
func NewPeriodUseCase(
	txManager TransactionManager,
	periodRepo PeriodRepository,
	auditRepo AuditRepository,
	reminders ReminderSeeder,
	idGen IDGenerator,
	logger zerolog.Logger,
) *PeriodUseCase {
	return &PeriodUseCase{
		txManager:  txManager,
		periodRepo: periodRepo,
		auditRepo:  auditRepo,
		reminders:  reminders,
		idGen:      idGen,
		logger:     logger,
	}
}

// CreateStandardPeriods creates the fiscal-year period and its four
// quarters for a building. Idempotent: if the building already has any
// period starting inside the target year, nothing is written.
func (uc *PeriodUseCase) CreateStandardPeriods(ctx context.Context, buildingID string, year int, actor string) ([]*domain.AccountingPeriod, error) {
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)

	exists, err := uc.periodRepo.AnyInRange(ctx, buildingID, yearStart, yearEnd)
	if err != nil {
		return nil, err
	}
	if exists {
		uc.logger.Info().
			Str("building_id", buildingID).
			Int("year", year).
			Msg("standard periods already exist, skipping")
		return nil, nil
	}

	now := time.Now().UTC()
	periods := standardPeriods(buildingID, year, now)
	for _, p := range periods {
		p.ID = uc.idGen.Generate()
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, p := range periods {
		if err := uc.periodRepo.Create(ctx, tx, p); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	for _, p := range periods {
		count, err := uc.reminders.GenerateRemindersForPeriod(ctx, p.ID)
		if err != nil {
			// Periods are committed; reminder generation can be retried.
			uc.logger.Error().Err(err).
				Str("period_id", p.ID).
				Msg("failed to generate reminders for period")
			continue
		}

		uc.logger.Debug().
			Str("period_id", p.ID).
			Int("reminders", count).
			Msg("generated reminders for period")
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		Actor:        actor,
		Action:       string(domain.AuditActionPeriodCreate),
		ResourceType: "accounting_period",
		ResourceID:   buildingID,
		AfterState:   domain.JSON{"year": year, "periods": len(periods)},
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	})

	return periods, nil
}

// IsDateLocked reports whether a posting dated at the given date would
// fall before the close boundary of any period covering it. Consulted by
// the posting engine before every write.
func (uc *PeriodUseCase) IsDateLocked(ctx context.Context, buildingID string, date time.Time) (bool, error) {
	periods, err := uc.periodRepo.ListCovering(ctx, buildingID, date)
	if err != nil {
		return false, err
	}

	for _, p := range periods {
		if p.Locks(date) {
			return true, nil
		}
	}

	return false, nil
}

// ListPeriods returns a building's accounting periods.
func (uc *PeriodUseCase) ListPeriods(ctx context.Context, buildingID string) ([]*domain.AccountingPeriod, error) {
	return uc.periodRepo.ListByBuilding(ctx, buildingID)
}

// standardPeriods builds the fiscal-year period plus four quarters. Each
// period opens with locked_before at its start date, so nothing inside a
// freshly created year is locked; the close process advances the boundary.
func standardPeriods(buildingID string, year int, now time.Time) []*domain.AccountingPeriod {
	date := func(month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}

	periods := []*domain.AccountingPeriod{
		{
			BuildingID:   buildingID,
			PeriodName:   fmt.Sprintf("FY%d", year),
			StartDate:    date(time.January, 1),
			EndDate:      date(time.December, 31),
			LockedBefore: date(time.January, 1),
			CreatedAt:    now,
		},
	}

	quarters := []struct {
		name       string
		start, end time.Time
	}{
		{fmt.Sprintf("Q1 %d", year), date(time.January, 1), date(time.March, 31)},
		{fmt.Sprintf("Q2 %d", year), date(time.April, 1), date(time.June, 30)},
		{fmt.Sprintf("Q3 %d", year), date(time.July, 1), date(time.September, 30)},
		{fmt.Sprintf("Q4 %d", year), date(time.October, 1), date(time.December, 31)},
	}

	for _, q := range quarters {
		periods = append(periods, &domain.AccountingPeriod{
			BuildingID:   buildingID,
			PeriodName:   q.name,
			StartDate:    q.start,
			EndDate:      q.end,
			LockedBefore: q.start,
			CreatedAt:    now,
		})
	}

	return periods
}
