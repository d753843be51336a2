package domain

import "errors"

var (
	// Account registry errors
	ErrAccountNotFound  = errors.New("ledger account not found")
	ErrAccountAmbiguous = errors.New("more than one ledger account matches")

	// Journal errors
	ErrUnbalancedJournal = errors.New("journal debits and credits do not balance")
	ErrEmptyJournal      = errors.New("journal requires at least one line")
	ErrInvalidLine       = errors.New("journal line must have exactly one of debit or credit")
	ErrJournalNotFound   = errors.New("journal not found")
	ErrDuplicateJournal  = errors.New("journal with this idempotency key already exists")
	ErrPeriodLocked      = errors.New("posting date falls within a locked accounting period")

	// Reconciliation errors
	ErrBankTxnNotFound         = errors.New("bank transaction not found")
	ErrAlreadyReconciled       = errors.New("bank transaction is already reconciled")
	ErrTargetAlreadyReconciled = errors.New("target is already matched to another bank transaction")
	ErrAmountMismatch          = errors.New("bank transaction amount does not match target")
	ErrReceiptNotFound         = errors.New("receipt not found")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrBuildingMismatch        = errors.New("entities belong to different buildings")
	ErrInvalidMatchEntity      = errors.New("invalid reconciliation target entity")

	// Period and reminder errors
	ErrPeriodNotFound    = errors.New("accounting period not found")
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrInvalidTransition = errors.New("reminder status transition not allowed")
	ErrInvalidAmount     = errors.New("amount must be positive")

	// Auth errors
	ErrAccessDenied = errors.New("insufficient permissions")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
