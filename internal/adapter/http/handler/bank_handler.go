package handler

import (
	"encoding/json"
	"net/http"

	"github.com/propfolio/ledger/internal/adapter/http/dto"
	"github.com/propfolio/ledger/internal/usecase"
)

// BankHandler handles bank transaction and reconciliation HTTP requests.
type BankHandler struct {
	reconUC *usecase.ReconciliationUseCase
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(reconUC *usecase.ReconciliationUseCase) *BankHandler {
	return &BankHandler{reconUC: reconUC}
}

// ListTransactions lists imported bank transactions for a bank account,
// optionally filtered by reconciliation state.
func (h *BankHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	bankAccountID := r.URL.Query().Get("bank_account_id")
	if bankAccountID == "" {
		writeError(w, http.StatusBadRequest, "missing bank_account_id parameter", "")
		return
	}

	reconciled, err := parseBoolQuery(r, "reconciled")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reconciled parameter", err.Error())
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.reconUC.ListTransactions(r.Context(), bankAccountID, reconciled, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BankTransactionsFromDomain(txns))
}

// Suggest ranks open receivables and payables as reconciliation
// candidates for a bank transaction.
func (h *BankHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	bankTxnID := r.URL.Query().Get("bank_txn_id")
	if bankTxnID == "" {
		writeError(w, http.StatusBadRequest, "missing bank_txn_id parameter", "")
		return
	}

	matchType := usecase.MatchType(r.URL.Query().Get("match_type"))
	switch matchType {
	case "":
		matchType = usecase.MatchTypeBoth
	case usecase.MatchTypeAR, usecase.MatchTypeAP, usecase.MatchTypeBoth:
	default:
		writeError(w, http.StatusBadRequest, "invalid match_type parameter", "expected ar, ap or both")
		return
	}

	suggestions, err := h.reconUC.SuggestMatches(r.Context(), bankTxnID, matchType)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to suggest matches", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.SuggestionsFromUseCase(suggestions))
}

// Reconcile matches a bank transaction against a receivable or payable
// and posts the settling journal.
func (h *BankHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req dto.ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.BankTxnID == "" || req.TargetID == "" {
		writeError(w, http.StatusBadRequest, "missing bank_txn_id or target_id", "")
		return
	}

	result, err := h.reconUC.Reconcile(r.Context(), req.ToUseCaseInput(callerFrom(r)))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reconcile", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ReconcileResultFromUseCase(result))
}
