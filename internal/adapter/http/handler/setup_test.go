package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/propfolio/ledger/internal/adapter/http/middleware"
	"github.com/propfolio/ledger/internal/domain"
	"github.com/propfolio/ledger/internal/usecase"
	"github.com/propfolio/ledger/internal/usecase/mocks"
)

// fixture wires the full use case stack on top of in-memory mocks, so
// handler tests exercise real validation and error mapping.
type fixture struct {
	accountRepo  *mocks.MockAccountRepository
	journalRepo  *mocks.MockJournalRepository
	ledgerRepo   *mocks.MockLedgerRepository
	settleRepo   *mocks.MockSettlementRepository
	bankTxnRepo  *mocks.MockBankTxnRepository
	periodRepo   *mocks.MockPeriodRepository
	reminderRepo *mocks.MockReminderRepository
	auditRepo    *mocks.MockAuditRepository

	postingUC  *usecase.PostingUseCase
	reconUC    *usecase.ReconciliationUseCase
	ledgerUC   *usecase.LedgerUseCase
	periodUC   *usecase.PeriodUseCase
	reminderUC *usecase.ReminderUseCase
}

func newFixture() *fixture {
	f := &fixture{
		accountRepo:  mocks.NewMockAccountRepository(),
		journalRepo:  mocks.NewMockJournalRepository(),
		ledgerRepo:   mocks.NewMockLedgerRepository(),
		settleRepo:   mocks.NewMockSettlementRepository(),
		bankTxnRepo:  mocks.NewMockBankTxnRepository(),
		periodRepo:   mocks.NewMockPeriodRepository(),
		reminderRepo: mocks.NewMockReminderRepository(),
		auditRepo:    mocks.NewMockAuditRepository(),
	}

	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	logger := zerolog.Nop()

	f.reminderUC = usecase.NewReminderUseCase(f.reminderRepo, f.periodRepo, f.auditRepo, idGen, logger)
	f.periodUC = usecase.NewPeriodUseCase(txMgr, f.periodRepo, f.auditRepo, f.reminderUC, idGen, logger)

	f.postingUC = usecase.NewPostingUseCase(
		txMgr,
		usecase.NewRegistryUseCase(f.accountRepo),
		f.journalRepo,
		f.ledgerRepo,
		f.settleRepo,
		f.bankTxnRepo,
		f.auditRepo,
		f.periodUC,
		idGen,
		nil,
	)

	f.reconUC = usecase.NewReconciliationUseCase(
		txMgr,
		f.bankTxnRepo,
		f.settleRepo,
		f.postingUC,
		f.auditRepo,
		decimal.RequireFromString("0.01"),
		logger,
		nil,
	)

	f.ledgerUC = usecase.NewLedgerUseCase(f.ledgerRepo, logger)

	return f
}

// seedReceiptPair sets up one building with bank, AR and AP accounts, an
// unreconciled 500.00 receipt and the matching bank transaction.
func (f *fixture) seedReceiptPair() {
	f.accountRepo.Add(&domain.Account{
		ID: "acc-bank", BuildingID: "bld-1", BankAccountID: "ba-1",
		Role: domain.RoleBank, Name: "Current account", Active: true,
	})
	f.accountRepo.Add(&domain.Account{
		ID: "acc-ar", BuildingID: "bld-1",
		Role: domain.RoleAR, Name: "Service charge arrears", Active: true,
	})
	f.accountRepo.Add(&domain.Account{
		ID: "acc-ap", BuildingID: "bld-1",
		Role: domain.RoleAP, Name: "Supplier payables", Active: true,
	})

	f.settleRepo.AddReceipt(&domain.Receipt{
		ID: "rcpt-1", BuildingID: "bld-1", BankAccountID: "ba-1",
		Amount: decimal.RequireFromString("500.00"),
		Date:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})

	f.bankTxnRepo.Add(&domain.BankTransaction{
		ID: "txn-1", BankAccountID: "ba-1", BuildingID: "bld-1",
		Date:        time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("500.00"),
		Description: "FPS CREDIT FLAT 4",
	})
}

// asCaller attaches an authenticated caller, the way the auth middleware
// would.
func asCaller(r *http.Request, role domain.Role) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.CallerContextKey, domain.Caller{
		ID:   "usr-1",
		Role: role,
	})
	return r.WithContext(ctx)
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
