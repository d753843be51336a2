package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/propfolio/ledger/internal/domain"
	"github.com/propfolio/ledger/internal/infrastructure/metrics"
)

// ReconciliationUseCase pairs unreconciled bank transactions with the
// receivables and payables they settle. Each bank transaction reconciles
// exactly once; each target is matched by at most one bank transaction.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	bankTxnRepo BankTxnRepository
	settleRepo  SettlementRepository
	posting     *PostingUseCase
	auditRepo   AuditRepository
	epsilon     decimal.Decimal
	logger      zerolog.Logger
	metrics     *metrics.Metrics
	retrier     Retrier
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	txManager TransactionManager,
	bankTxnRepo BankTxnRepository,
	settleRepo SettlementRepository,
	posting *PostingUseCase,
	auditRepo AuditRepository,
	epsilon decimal.Decimal,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *ReconciliationUseCase {
	if epsilon.LessThanOrEqual(decimal.Zero) {
		epsilon = decimal.RequireFromString(DefaultAmountEpsilon)
	}

	return &ReconciliationUseCase{
		txManager:   txManager,
		bankTxnRepo: bankTxnRepo,
		settleRepo:  settleRepo,
		posting:     posting,
		auditRepo:   auditRepo,
		epsilon:     epsilon,
		logger:      logger,
		metrics:     metrics,
	}
}

// WithRetrier re-runs the reconciliation marking transaction on transient
// storage errors. The row locks taken there make deadlocks possible under
// concurrent matching.
func (uc *ReconciliationUseCase) WithRetrier(r Retrier) *ReconciliationUseCase {
	uc.retrier = r
	return uc
}

func (uc *ReconciliationUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

// MatchType selects which settlement kinds to suggest.
type MatchType string

const (
	MatchTypeAR   MatchType = "ar"
	MatchTypeAP   MatchType = "ap"
	MatchTypeBoth MatchType = "both"
)

// Suggestion is one ranked reconciliation candidate.
type Suggestion struct {
	Entity domain.MatchedEntity
	ID     string
	Ref    string
	Amount decimal.Decimal
	Date   time.Time
	Score  float64
}

// SuggestMatches ranks open receivables/payables on the transaction's bank
// account by amount and date proximity. Read-only; mutates nothing.
func (uc *ReconciliationUseCase) SuggestMatches(ctx context.Context, bankTxnID string, matchType MatchType) ([]Suggestion, error) {
	bankTxn, err := uc.bankTxnRepo.GetByID(ctx, bankTxnID)
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion

	if matchType == MatchTypeAR || matchType == MatchTypeBoth {
		receipts, err := uc.settleRepo.ListOpenReceipts(ctx, bankTxn.BankAccountID)
		if err != nil {
			return nil, err
		}

		for _, r := range receipts {
			suggestions = append(suggestions, Suggestion{
				Entity: domain.MatchARReceipt,
				ID:     r.ID,
				Ref:    r.PayerRef,
				Amount: r.Amount,
				Date:   r.Date,
				Score:  matchScore(bankTxn.Amount, r.Amount, bankTxn.Date, r.Date),
			})
		}
	}

	if matchType == MatchTypeAP || matchType == MatchTypeBoth {
		payments, err := uc.settleRepo.ListOpenPayments(ctx, bankTxn.BankAccountID)
		if err != nil {
			return nil, err
		}

		for _, p := range payments {
			suggestions = append(suggestions, Suggestion{
				Entity: domain.MatchAPPayment,
				ID:     p.ID,
				Ref:    p.PayeeRef,
				Amount: p.Amount,
				Date:   p.Date,
				// Payments settle outflows: compare against the negated amount.
				Score: matchScore(bankTxn.Amount, p.Amount.Neg(), bankTxn.Date, p.Date),
			})
		}
	}

	// Rank by score, ties broken by closest date then smallest id so the
	// ordering is deterministic.
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}

		di := absDuration(bankTxn.Date.Sub(suggestions[i].Date))
		dj := absDuration(bankTxn.Date.Sub(suggestions[j].Date))
		if di != dj {
			return di < dj
		}

		return suggestions[i].ID < suggestions[j].ID
	})

	if uc.metrics != nil {
		uc.metrics.SuggestionsServed.Inc()
	}

	return suggestions, nil
}

// ReconcileInput represents input for reconciling a bank transaction.
type ReconcileInput struct {
	BankTxnID              string
	TargetEntity           domain.MatchedEntity
	TargetID               string
	OverrideAmountMismatch bool
	Caller                 domain.Caller
}

// ReconcileResult summarizes a successful reconciliation.
type ReconcileResult struct {
	BankTxnID    string
	TargetEntity domain.MatchedEntity
	TargetID     string
	JournalID    string
	Amount       decimal.Decimal
}

// Reconcile drives the UNRECONCILED -> RECONCILED transition. The flag is
// set first, then the journal is posted; a failed posting rolls the flag
// back so the transaction never stays reconciled without a journal.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, input ReconcileInput) (*ReconcileResult, error) {
	if !input.Caller.Role.CanReconcile() {
		return nil, fmt.Errorf("%w: role %s cannot reconcile", domain.ErrAccessDenied, input.Caller.Role)
	}

	if !input.TargetEntity.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMatchEntity, input.TargetEntity)
	}

	bankTxn, expected, err := uc.markReconciled(ctx, input)
	if err != nil {
		return nil, err
	}

	journal, err := uc.post(ctx, input)
	if err != nil {
		uc.compensate(ctx, input, err)
		return nil, err
	}

	uc.auditReconcile(ctx, input, bankTxn, expected, journal.ID)

	if uc.metrics != nil {
		uc.metrics.Reconciliations.Inc()
	}

	return &ReconcileResult{
		BankTxnID:    input.BankTxnID,
		TargetEntity: input.TargetEntity,
		TargetID:     input.TargetID,
		JournalID:    journal.ID,
		Amount:       bankTxn.Amount,
	}, nil
}

// markReconciled validates the pair and flips the reconciled flag inside
// one transaction. Row locks and the partial unique index serialize
// concurrent attempts: the loser sees AlreadyReconciled or
// TargetAlreadyReconciled, never corrupted state.
func (uc *ReconciliationUseCase) markReconciled(ctx context.Context, input ReconcileInput) (*domain.BankTransaction, decimal.Decimal, error) {
	var (
		bankTxn  *domain.BankTransaction
		expected decimal.Decimal
	)

	mark := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		bankTxn, err = uc.bankTxnRepo.GetByIDForUpdate(ctx, tx, input.BankTxnID)
		if err != nil {
			return err
		}

		if bankTxn.Reconciled {
			return fmt.Errorf("%w: bank_txn=%s matched=%s/%s",
				domain.ErrAlreadyReconciled, bankTxn.ID, bankTxn.MatchedEntity, bankTxn.MatchedID)
		}

		expected, err = uc.expectedAmount(ctx, bankTxn, input.TargetEntity, input.TargetID)
		if err != nil {
			return err
		}

		matched, err := uc.bankTxnRepo.TargetMatched(ctx, tx, input.TargetEntity, input.TargetID)
		if err != nil {
			return err
		}
		if matched {
			return fmt.Errorf("%w: %s=%s",
				domain.ErrTargetAlreadyReconciled, input.TargetEntity, input.TargetID)
		}

		delta := bankTxn.Amount.Sub(expected).Abs()
		if delta.GreaterThan(uc.epsilon) && !input.OverrideAmountMismatch {
			return fmt.Errorf("%w: bank=%s expected=%s delta=%s",
				domain.ErrAmountMismatch, bankTxn.Amount.String(), expected.String(), delta.String())
		}

		if err := uc.bankTxnRepo.MarkReconciled(ctx, tx, bankTxn.ID, input.TargetEntity, input.TargetID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	if err := uc.retry(ctx, mark); err != nil {
		return nil, decimal.Zero, err
	}

	return bankTxn, expected, nil
}

// expectedAmount loads the target, checks scoping, and returns the signed
// amount the bank transaction should carry to settle it.
func (uc *ReconciliationUseCase) expectedAmount(ctx context.Context, bankTxn *domain.BankTransaction, entity domain.MatchedEntity, targetID string) (decimal.Decimal, error) {
	switch entity {
	case domain.MatchARReceipt:
		receipt, err := uc.settleRepo.GetReceipt(ctx, targetID)
		if err != nil {
			return decimal.Zero, err
		}
		if receipt.BuildingID != bankTxn.BuildingID || receipt.BankAccountID != bankTxn.BankAccountID {
			return decimal.Zero, fmt.Errorf("%w: receipt %s", domain.ErrReceiptNotFound, targetID)
		}
		return receipt.Amount, nil

	case domain.MatchAPPayment:
		payment, err := uc.settleRepo.GetPayment(ctx, targetID)
		if err != nil {
			return decimal.Zero, err
		}
		if payment.BuildingID != bankTxn.BuildingID || payment.BankAccountID != bankTxn.BankAccountID {
			return decimal.Zero, fmt.Errorf("%w: payment %s", domain.ErrPaymentNotFound, targetID)
		}
		// Outflows appear negative on the statement.
		return payment.Amount.Neg(), nil

	default:
		return decimal.Zero, domain.ErrInvalidMatchEntity
	}
}

func (uc *ReconciliationUseCase) post(ctx context.Context, input ReconcileInput) (*domain.Journal, error) {
	if input.TargetEntity == domain.MatchARReceipt {
		return uc.posting.PostBankReceipt(ctx, input.TargetID, input.BankTxnID, input.Caller.ID)
	}

	return uc.posting.PostBankPayment(ctx, input.TargetID, input.BankTxnID, input.Caller.ID)
}

// compensate rolls the reconciled flag and match pointers back after a
// failed posting. The transaction must never stay reconciled without a
// corresponding journal.
func (uc *ReconciliationUseCase) compensate(ctx context.Context, input ReconcileInput, postErr error) {
	if uc.metrics != nil {
		uc.metrics.ReconcileCompensations.Inc()
	}

	if err := uc.bankTxnRepo.ClearReconciled(ctx, input.BankTxnID); err != nil {
		// Manual-resolution territory: both the posting and the rollback
		// failed. Log everything a human needs.
		uc.logger.Error().
			Err(err).
			AnErr("posting_error", postErr).
			Str("bank_txn_id", input.BankTxnID).
			Str("target_entity", string(input.TargetEntity)).
			Str("target_id", input.TargetID).
			Msg("reconciliation compensation failed")
		return
	}

	uc.logger.Info().
		AnErr("posting_error", postErr).
		Str("bank_txn_id", input.BankTxnID).
		Msg("reconciliation rolled back after posting failure")

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		Actor:        input.Caller.ID,
		Action:       string(domain.AuditActionReconcileRollbck),
		ResourceType: "bank_txn",
		ResourceID:   input.BankTxnID,
		Status:       string(domain.AuditStatusFailure),
		Notes:        postErr.Error(),
		CreatedAt:    time.Now().UTC(),
	})
}

func (uc *ReconciliationUseCase) auditReconcile(ctx context.Context, input ReconcileInput, bankTxn *domain.BankTransaction, expected decimal.Decimal, journalID string) {
	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		Actor:        input.Caller.ID,
		Action:       string(domain.AuditActionReconcile),
		ResourceType: "bank_txn",
		ResourceID:   input.BankTxnID,
		BeforeState:  domain.JSON{"reconciled": false},
		AfterState: domain.JSON{
			"reconciled":      true,
			"matched_entity":  string(input.TargetEntity),
			"matched_id":      input.TargetID,
			"bank_amount":     bankTxn.Amount.String(),
			"expected_amount": expected.String(),
			"journal_id":      journalID,
		},
		Status:    string(domain.AuditStatusSuccess),
		CreatedAt: time.Now().UTC(),
	})
}

// ListTransactions lists bank transactions for an account, optionally
// filtered by reconciliation state.
func (uc *ReconciliationUseCase) ListTransactions(ctx context.Context, bankAccountID string, reconciled *bool, limit, offset int) ([]*domain.BankTransaction, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.bankTxnRepo.ListByBankAccount(ctx, bankAccountID, reconciled, limit, offset)
}

// matchScore combines amount proximity and date proximity into [0,1].
func matchScore(bankAmount, candidateAmount decimal.Decimal, bankDate, candidateDate time.Time) float64 {
	amountScore := 0.0

	delta := bankAmount.Sub(candidateAmount).Abs()
	base := decimal.Max(bankAmount.Abs(), candidateAmount.Abs())
	if base.IsPositive() {
		ratio, _ := delta.Div(base).Float64()
		if ratio < 1 {
			amountScore = 1 - ratio
		}
	}

	dateScore := 0.0

	drift := absDuration(bankDate.Sub(candidateDate))
	if drift < suggestionDateWindow {
		dateScore = 1 - float64(drift)/float64(suggestionDateWindow)
	}

	return amountScoreWeight*amountScore + dateScoreWeight*dateScore
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
