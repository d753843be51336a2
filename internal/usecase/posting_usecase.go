package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propfolio/ledger/internal/domain"
	"github.com/propfolio/ledger/internal/infrastructure/metrics"
)

// PeriodGate answers whether a posting date falls inside a locked
// accounting period. Implemented by PeriodUseCase.
type PeriodGate interface {
	IsDateLocked(ctx context.Context, buildingID string, date time.Time) (bool, error)
}

// PostingUseCase is the journal posting engine. Every financial event
// routes through PostBalanced, which persists the journal header and its
// lines as one atomic transaction.
type PostingUseCase struct {
	txManager   TransactionManager
	registry    *RegistryUseCase
	journalRepo JournalRepository
	ledgerRepo  LedgerRepository
	settleRepo  SettlementRepository
	bankTxnRepo BankTxnRepository
	auditRepo   AuditRepository
	periods     PeriodGate
	idGen       IDGenerator
	metrics     *metrics.Metrics
	retrier     Retrier
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	registry *RegistryUseCase,
	journalRepo JournalRepository,
	ledgerRepo LedgerRepository,
	settleRepo SettlementRepository,
	bankTxnRepo BankTxnRepository,
	auditRepo AuditRepository,
	periods PeriodGate,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:   txManager,
		registry:    registry,
		journalRepo: journalRepo,
		ledgerRepo:  ledgerRepo,
		settleRepo:  settleRepo,
		bankTxnRepo: bankTxnRepo,
		auditRepo:   auditRepo,
		periods:     periods,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// WithRetrier re-runs the journal persistence transaction on transient
// storage errors.
func (uc *PostingUseCase) WithRetrier(r Retrier) *PostingUseCase {
	uc.retrier = r
	return uc
}

func (uc *PostingUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

// PostBalancedInput represents input for posting a balanced journal.
type PostBalancedInput struct {
	BuildingID     string
	Date           time.Time
	Memo           string
	IdempotencyKey string
	Actor          string
	Lines          []PostLineInput
}

// PostLineInput is one requested journal line.
type PostLineInput struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// PostBalanced validates and persists one journal atomically. Retries with
// the same idempotency key return the journal created by the first attempt
// instead of posting twice.
func (uc *PostingUseCase) PostBalanced(ctx context.Context, input PostBalancedInput) (*domain.Journal, error) {
	if err := domain.ValidateMemo(input.Memo); err != nil {
		return nil, err
	}

	if len(input.Lines) > domain.MaxJournalLines {
		return nil, fmt.Errorf("%w: too many lines", domain.ErrInvalidLine)
	}

	now := time.Now().UTC()

	journal := &domain.Journal{
		ID:             uc.idGen.Generate(),
		BuildingID:     input.BuildingID,
		Date:           input.Date,
		Memo:           input.Memo,
		IdempotencyKey: input.IdempotencyKey,
		CreatedBy:      input.Actor,
		CreatedAt:      now,
	}

	journal.Lines = make([]domain.JournalLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		journal.Lines = append(journal.Lines, domain.JournalLine{
			ID:        uc.idGen.Generate(),
			JournalID: journal.ID,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
		})
	}

	if err := journal.Validate(); err != nil {
		if uc.metrics != nil {
			uc.metrics.JournalRejects.WithLabelValues("validation").Inc()
		}
		return nil, err
	}

	// Idempotent retry: same logical event, same journal.
	if input.IdempotencyKey != "" {
		existing, err := uc.journalRepo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, domain.ErrJournalNotFound) {
			return nil, err
		}
	}

	locked, err := uc.periods.IsDateLocked(ctx, input.BuildingID, input.Date)
	if err != nil {
		return nil, err
	}
	if locked {
		if uc.metrics != nil {
			uc.metrics.PostingsLocked.Inc()
			uc.metrics.JournalRejects.WithLabelValues("period_locked").Inc()
		}
		return nil, fmt.Errorf("%w: building=%s date=%s",
			domain.ErrPeriodLocked, input.BuildingID, input.Date.Format("2006-01-02"))
	}

	persist := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.journalRepo.CreateHeader(ctx, tx, journal); err != nil {
			return err
		}

		if err := uc.journalRepo.CreateLines(ctx, tx, journal.Lines); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	if err := uc.retry(ctx, persist); err != nil {
		// Losing an idempotency-key race is a replay, not a failure: the
		// winner's journal is the journal for this event.
		if errors.Is(err, domain.ErrDuplicateJournal) && input.IdempotencyKey != "" {
			return uc.journalRepo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.JournalsPosted.Inc()
		uc.metrics.PostingDuration.Observe(time.Since(now).Seconds())
		totalDebits := decimal.Zero
		for _, l := range journal.Lines {
			totalDebits = totalDebits.Add(l.Debit)
		}
		uc.metrics.JournalAmount.Observe(totalDebits.InexactFloat64())
	}

	uc.audit(ctx, input.Actor, domain.AuditActionJournalPost, "journal", journal.ID, nil, domain.JSON{
		"memo":       journal.Memo,
		"date":       journal.Date.Format("2006-01-02"),
		"line_count": len(journal.Lines),
	})

	return journal, nil
}

// PostBankReceipt posts the journal settling a reconciled bank receipt:
// debit the building's bank account, credit AR control, both by the bank
// transaction's amount.
func (uc *PostingUseCase) PostBankReceipt(ctx context.Context, receiptID, bankTxnID, actor string) (*domain.Journal, error) {
	receipt, err := uc.settleRepo.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	bankTxn, err := uc.bankTxnRepo.GetByID(ctx, bankTxnID)
	if err != nil {
		return nil, err
	}

	if receipt.BuildingID != bankTxn.BuildingID {
		return nil, fmt.Errorf("%w: receipt=%s bank_txn=%s",
			domain.ErrBuildingMismatch, receipt.BuildingID, bankTxn.BuildingID)
	}

	bankAccount, err := uc.registry.ResolveAccount(ctx, receipt.BuildingID, domain.RoleBank, receipt.BankAccountID)
	if err != nil {
		return nil, err
	}

	arAccount, err := uc.registry.ResolveAccount(ctx, receipt.BuildingID, domain.RoleAR, "")
	if err != nil {
		return nil, err
	}

	amount := bankTxn.Amount
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}

	return uc.PostBalanced(ctx, PostBalancedInput{
		BuildingID:     receipt.BuildingID,
		Date:           bankTxn.Date,
		Memo:           fmt.Sprintf("Bank receipt reconciliation - %s", bankTxn.Description),
		IdempotencyKey: bankTxnJournalKey(bankTxnID),
		Actor:          actor,
		Lines: []PostLineInput{
			{AccountID: bankAccount.ID, Debit: amount},
			{AccountID: arAccount.ID, Credit: amount},
		},
	})
}

// PostBankPayment posts the journal settling a reconciled bank payment.
// Payment bank transactions carry a negative amount; ledger lines are
// always non-negative, so the sign is normalized here: debit AP, credit
// bank, both by the absolute amount.
func (uc *PostingUseCase) PostBankPayment(ctx context.Context, paymentID, bankTxnID, actor string) (*domain.Journal, error) {
	payment, err := uc.settleRepo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	bankTxn, err := uc.bankTxnRepo.GetByID(ctx, bankTxnID)
	if err != nil {
		return nil, err
	}

	if payment.BuildingID != bankTxn.BuildingID {
		return nil, fmt.Errorf("%w: payment=%s bank_txn=%s",
			domain.ErrBuildingMismatch, payment.BuildingID, bankTxn.BuildingID)
	}

	bankAccount, err := uc.registry.ResolveAccount(ctx, payment.BuildingID, domain.RoleBank, payment.BankAccountID)
	if err != nil {
		return nil, err
	}

	apAccount, err := uc.registry.ResolveAccount(ctx, payment.BuildingID, domain.RoleAP, "")
	if err != nil {
		return nil, err
	}

	amount := bankTxn.Amount.Abs()
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}

	return uc.PostBalanced(ctx, PostBalancedInput{
		BuildingID:     payment.BuildingID,
		Date:           bankTxn.Date,
		Memo:           fmt.Sprintf("Bank payment reconciliation - %s", bankTxn.Description),
		IdempotencyKey: bankTxnJournalKey(bankTxnID),
		Actor:          actor,
		Lines: []PostLineInput{
			{AccountID: apAccount.ID, Debit: amount},
			{AccountID: bankAccount.ID, Credit: amount},
		},
	})
}

// BankAccountBalance derives the bank account's ledger balance from
// journal lines up to and including asOf. The sum of signed line effects
// is the source of truth; no cached running total exists to drift.
func (uc *PostingUseCase) BankAccountBalance(ctx context.Context, buildingID, bankAccountID string, asOf time.Time) (decimal.Decimal, error) {
	account, err := uc.registry.ResolveAccount(ctx, buildingID, domain.RoleBank, bankAccountID)
	if err != nil {
		return decimal.Zero, err
	}

	return uc.ledgerRepo.AccountBalance(ctx, account.ID, asOf)
}

// GetJournal retrieves a journal with its lines.
func (uc *PostingUseCase) GetJournal(ctx context.Context, id string) (*domain.Journal, error) {
	return uc.journalRepo.GetByID(ctx, id)
}

func (uc *PostingUseCase) audit(ctx context.Context, actor string, action domain.AuditAction, resourceType, resourceID string, before, after domain.JSON) {
	// Audit writes happen after the commit and never fail the operation.
	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		Actor:        actor,
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeState:  before,
		AfterState:   after,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}

// bankTxnJournalKey is the natural idempotency key for reconciliation
// postings: one journal per bank transaction.
func bankTxnJournalKey(bankTxnID string) string {
	return "bank_txn:" + bankTxnID
}
