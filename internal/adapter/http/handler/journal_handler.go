package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/propfolio/ledger/internal/adapter/http/dto"
	"github.com/propfolio/ledger/internal/domain"
	"github.com/propfolio/ledger/internal/usecase"
)

// JournalHandler handles journal-related HTTP requests.
type JournalHandler struct {
	postingUC *usecase.PostingUseCase
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(postingUC *usecase.PostingUseCase) *JournalHandler {
	return &JournalHandler{postingUC: postingUC}
}

// Post posts a balanced journal.
func (h *JournalHandler) Post(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)
	if !caller.Role.CanReconcile() {
		err := fmt.Errorf("%w: role %s cannot post journals", domain.ErrAccessDenied, caller.Role)
		writeError(w, http.StatusForbidden, "failed to post journal", err.Error())
		return
	}

	var req dto.PostJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(caller.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	journal, err := h.postingUC.PostBalanced(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to post journal", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.JournalFromDomain(journal))
}

// Get retrieves a journal with its lines.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing journal ID", "")
		return
	}

	journal, err := h.postingUC.GetJournal(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get journal", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.JournalFromDomain(journal))
}
