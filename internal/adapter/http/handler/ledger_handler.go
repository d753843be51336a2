package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propfolio/ledger/internal/adapter/http/dto"
	"github.com/propfolio/ledger/internal/usecase"
)

// LedgerHandler handles ledger aggregate HTTP requests: derived balances
// and the global consistency check.
type LedgerHandler struct {
	ledgerUC  *usecase.LedgerUseCase
	postingUC *usecase.PostingUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase, postingUC *usecase.PostingUseCase) *LedgerHandler {
	return &LedgerHandler{
		ledgerUC:  ledgerUC,
		postingUC: postingUC,
	}
}

// AccountBalance returns a bank account's ledger balance derived from
// journal lines as of a date.
func (h *LedgerHandler) AccountBalance(w http.ResponseWriter, r *http.Request) {
	bankAccountID := chi.URLParam(r, "id")
	if bankAccountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	buildingID := r.URL.Query().Get("building_id")
	if buildingID == "" {
		writeError(w, http.StatusBadRequest, "missing building_id parameter", "")
		return
	}

	asOf, err := parseDateQuery(r, "as_of", time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of date", err.Error())
		return
	}

	balance, err := h.postingUC.BankAccountBalance(r.Context(), buildingID, bankAccountID, asOf)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		BankAccountID: bankAccountID,
		BuildingID:    buildingID,
		AsOf:          asOf.Format(dateLayout),
		Balance:       balance,
	})
}

// Consistency runs the full-ledger debit/credit check.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromUseCase(report))
}
