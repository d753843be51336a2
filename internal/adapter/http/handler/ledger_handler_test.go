package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/propfolio/ledger/internal/adapter/http/dto"
	"github.com/propfolio/ledger/internal/domain"
)

func TestLedgerHandler_Consistency(t *testing.T) {
	f := newFixture()
	f.ledgerRepo.TotalDebits = decimal.RequireFromString("1200.00")
	f.ledgerRepo.TotalCredits = decimal.RequireFromString("1200.00")
	h := NewLedgerHandler(f.ledgerUC, f.postingUC)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	h.Consistency(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.Balanced || !resp.Difference.IsZero() {
		t.Fatalf("expected balanced ledger, got %+v", resp)
	}
}

func TestLedgerHandler_Consistency_Imbalance(t *testing.T) {
	f := newFixture()
	f.ledgerRepo.TotalDebits = decimal.RequireFromString("1200.01")
	f.ledgerRepo.TotalCredits = decimal.RequireFromString("1200.00")
	h := NewLedgerHandler(f.ledgerUC, f.postingUC)

	rec := httptest.NewRecorder()
	h.Consistency(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil))

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Balanced || !resp.Difference.Equal(decimal.RequireFromString("0.01")) {
		t.Fatalf("expected penny imbalance reported, got %+v", resp)
	}
}

func TestLedgerHandler_AccountBalance(t *testing.T) {
	f := newFixture()
	f.seedReceiptPair()
	f.ledgerRepo.Balances["acc-bank"] = decimal.RequireFromString("812.40")
	h := NewLedgerHandler(f.ledgerUC, f.postingUC)

	req := withURLParam(
		httptest.NewRequest(http.MethodGet, "/api/v1/accounts/ba-1/balance?building_id=bld-1&as_of=2026-03-31", nil),
		"id", "ba-1",
	)
	rec := httptest.NewRecorder()

	h.AccountBalance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.Balance.Equal(decimal.RequireFromString("812.40")) {
		t.Fatalf("expected derived balance 812.40, got %s", resp.Balance)
	}
	if resp.AsOf != "2026-03-31" {
		t.Fatalf("expected as_of echoed, got %s", resp.AsOf)
	}
}

func TestLedgerHandler_AccountBalance_MissingBuilding(t *testing.T) {
	f := newFixture()
	h := NewLedgerHandler(f.ledgerUC, f.postingUC)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/accounts/ba-1/balance", nil), "id", "ba-1")
	rec := httptest.NewRecorder()

	h.AccountBalance(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_AccountBalance_UnknownAccount(t *testing.T) {
	f := newFixture()
	h := NewLedgerHandler(f.ledgerUC, f.postingUC)

	req := withURLParam(
		httptest.NewRequest(http.MethodGet, "/api/v1/accounts/ba-missing/balance?building_id=bld-1", nil),
		"id", "ba-missing",
	)
	rec := httptest.NewRecorder()

	h.AccountBalance(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

// Unauthenticated requests fall back to the anonymous owner identity so a
// deployment without JWT configured still works end to end.
func TestCallerFrom_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	caller := callerFrom(req)
	if caller.Role != domain.RoleOwner || caller.ID != "anonymous" {
		t.Fatalf("unexpected default caller: %+v", caller)
	}
}
