package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/propfolio/ledger/internal/domain"
)

func TestCreateHeaderMapsIdempotencyKeyConflict(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO journals").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{
		Code:           "23505",
		ConstraintName: "journals_idempotency_key_key",
	})
	mockPool.ExpectRollback()

	manager := newTxManagerWithPool(mockPool)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	defer tx.Rollback(context.Background())

	repo := &JournalRepository{}
	err = repo.CreateHeader(context.Background(), tx, &domain.Journal{
		ID:             "jrn-1",
		BuildingID:     "bld-1",
		Date:           time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Memo:           "rent receipt",
		IdempotencyKey: "bank_txn:txn-1",
		CreatedBy:      "usr-1",
		CreatedAt:      time.Now().UTC(),
	})

	if !errors.Is(err, domain.ErrDuplicateJournal) {
		t.Fatalf("expected ErrDuplicateJournal, got %v", err)
	}
}

func TestCreateHeaderPassesThroughOtherErrors(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	pkErr := &pgconn.PgError{Code: "23505", ConstraintName: "journals_pkey"}
	mockPool.ExpectExec("INSERT INTO journals").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pkErr)
	mockPool.ExpectRollback()

	manager := newTxManagerWithPool(mockPool)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	defer tx.Rollback(context.Background())

	repo := &JournalRepository{}
	err = repo.CreateHeader(context.Background(), tx, &domain.Journal{
		ID:        "jrn-1",
		CreatedAt: time.Now().UTC(),
	})

	if errors.Is(err, domain.ErrDuplicateJournal) {
		t.Fatal("a primary key conflict must not map to ErrDuplicateJournal")
	}
	if !errors.Is(err, pkErr) {
		t.Fatalf("expected the raw error, got %v", err)
	}
}
