package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propfolio/ledger/internal/domain"
)

// AccountRepository defines data access for ledger accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// FindByRole returns all active accounts matching the building and role.
	// For the bank role, bankAccountID narrows the match; it is ignored for
	// other roles.
	FindByRole(ctx context.Context, buildingID string, role domain.AccountRole, bankAccountID string) ([]*domain.Account, error)
}

// JournalRepository defines data access for journals and their lines.
type JournalRepository interface {
	CreateHeader(ctx context.Context, tx Transaction, journal *domain.Journal) error
	CreateLines(ctx context.Context, tx Transaction, lines []domain.JournalLine) error
	GetByID(ctx context.Context, id string) (*domain.Journal, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Journal, error)
}

// LedgerRepository defines data access for ledger-wide aggregates. Balances
// are always derived from journal lines; there is no stored running total.
type LedgerRepository interface {
	AccountBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)
	CheckConsistency(ctx context.Context) (totalDebits, totalCredits decimal.Decimal, err error)
}

// BankTxnRepository defines data access for imported bank transactions.
type BankTxnRepository interface {
	GetByID(ctx context.Context, id string) (*domain.BankTransaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.BankTransaction, error)
	ListByBankAccount(ctx context.Context, bankAccountID string, reconciled *bool, limit, offset int) ([]*domain.BankTransaction, error)
	// MarkReconciled sets the reconciled flag and match pointers. The backing
	// store's partial unique index on (matched_entity, matched_id) makes a
	// concurrent double-match surface as domain.ErrTargetAlreadyReconciled.
	MarkReconciled(ctx context.Context, tx Transaction, id string, entity domain.MatchedEntity, targetID string) error
	// ClearReconciled is the compensating rollback after a failed posting.
	ClearReconciled(ctx context.Context, id string) error
	// TargetMatched reports whether a reconciled bank transaction already
	// references the target.
	TargetMatched(ctx context.Context, tx Transaction, entity domain.MatchedEntity, targetID string) (bool, error)
}

// SettlementRepository defines data access for receivables and payables.
type SettlementRepository interface {
	GetReceipt(ctx context.Context, id string) (*domain.Receipt, error)
	GetPayment(ctx context.Context, id string) (*domain.Payment, error)
	// ListOpenReceipts returns receipts on the bank account not yet matched
	// by any reconciled bank transaction.
	ListOpenReceipts(ctx context.Context, bankAccountID string) ([]*domain.Receipt, error)
	ListOpenPayments(ctx context.Context, bankAccountID string) ([]*domain.Payment, error)
}

// PeriodRepository defines data access for accounting periods.
type PeriodRepository interface {
	Create(ctx context.Context, tx Transaction, period *domain.AccountingPeriod) error
	GetByID(ctx context.Context, id string) (*domain.AccountingPeriod, error)
	ListByBuilding(ctx context.Context, buildingID string) ([]*domain.AccountingPeriod, error)
	// AnyInRange reports whether the building already has a period starting
	// inside [from, to].
	AnyInRange(ctx context.Context, buildingID string, from, to time.Time) (bool, error)
	// ListCovering returns periods whose date range includes the date.
	ListCovering(ctx context.Context, buildingID string, date time.Time) ([]*domain.AccountingPeriod, error)
}

// ReminderRepository defines data access for compliance reminders.
type ReminderRepository interface {
	Create(ctx context.Context, reminder *domain.Reminder) error
	GetByID(ctx context.Context, id string) (*domain.Reminder, error)
	ListByPeriod(ctx context.Context, periodID string) ([]*domain.Reminder, error)
	ListUpcoming(ctx context.Context, buildingID string, before time.Time) ([]*domain.Reminder, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReminderStatus, updatedAt time.Time) error
	// MarkOverdue transitions every pending reminder due before the cutoff
	// to overdue and returns the transitioned rows. Running it again the
	// same day matches nothing.
	MarkOverdue(ctx context.Context, before time.Time, updatedAt time.Time) ([]*domain.Reminder, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs a storage operation that failed on a transient error,
// such as a deadlock or serialization conflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the caller can retry after a failure.
	Release(ctx context.Context, key string) error
}
