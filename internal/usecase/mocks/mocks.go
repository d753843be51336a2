package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propfolio/ledger/internal/domain"
	"github.com/propfolio/ledger/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	GetByIDFunc    func(ctx context.Context, id string) (*domain.Account, error)
	FindByRoleFunc func(ctx context.Context, buildingID string, role domain.AccountRole, bankAccountID string) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Add seeds an account into the mock store.
func (m *MockAccountRepository) Add(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) FindByRole(ctx context.Context, buildingID string, role domain.AccountRole, bankAccountID string) ([]*domain.Account, error) {
	if m.FindByRoleFunc != nil {
		return m.FindByRoleFunc(ctx, buildingID, role, bankAccountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matches []*domain.Account
	for _, acc := range m.accounts {
		if !acc.Active || acc.BuildingID != buildingID || acc.Role != role {
			continue
		}
		if role == domain.RoleBank && bankAccountID != "" && acc.BankAccountID != bankAccountID {
			continue
		}
		matches = append(matches, acc)
	}
	return matches, nil
}

// MockJournalRepository is a mock implementation of JournalRepository.
type MockJournalRepository struct {
	mu       sync.RWMutex
	journals map[string]*domain.Journal
	byKey    map[string]*domain.Journal

	CreateHeaderFunc        func(ctx context.Context, tx usecase.Transaction, journal *domain.Journal) error
	CreateLinesFunc         func(ctx context.Context, tx usecase.Transaction, lines []domain.JournalLine) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Journal, error)
	GetByIdempotencyKeyFunc func(ctx context.Context, key string) (*domain.Journal, error)
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{
		journals: make(map[string]*domain.Journal),
		byKey:    make(map[string]*domain.Journal),
	}
}

func (m *MockJournalRepository) CreateHeader(ctx context.Context, tx usecase.Transaction, journal *domain.Journal) error {
	if m.CreateHeaderFunc != nil {
		return m.CreateHeaderFunc(ctx, tx, journal)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.journals[journal.ID] = journal
	if journal.IdempotencyKey != "" {
		m.byKey[journal.IdempotencyKey] = journal
	}
	return nil
}

func (m *MockJournalRepository) CreateLines(ctx context.Context, tx usecase.Transaction, lines []domain.JournalLine) error {
	if m.CreateLinesFunc != nil {
		return m.CreateLinesFunc(ctx, tx, lines)
	}
	return nil
}

func (m *MockJournalRepository) GetByID(ctx context.Context, id string) (*domain.Journal, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if j, ok := m.journals[id]; ok {
		return j, nil
	}
	return nil, domain.ErrJournalNotFound
}

func (m *MockJournalRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Journal, error) {
	if m.GetByIdempotencyKeyFunc != nil {
		return m.GetByIdempotencyKeyFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if j, ok := m.byKey[key]; ok {
		return j, nil
	}
	return nil, domain.ErrJournalNotFound
}

// Count returns the number of stored journals.
func (m *MockJournalRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.journals)
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	Balances     map[string]decimal.Decimal
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal

	AccountBalanceFunc   func(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)
	CheckConsistencyFunc func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		Balances: make(map[string]decimal.Decimal),
	}
}

func (m *MockLedgerRepository) AccountBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	if m.AccountBalanceFunc != nil {
		return m.AccountBalanceFunc(ctx, accountID, asOf)
	}
	return m.Balances[accountID], nil
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	return m.TotalDebits, m.TotalCredits, nil
}

// MockBankTxnRepository is a mock implementation of BankTxnRepository.
type MockBankTxnRepository struct {
	mu   sync.RWMutex
	txns map[string]*domain.BankTransaction

	GetByIDFunc          func(ctx context.Context, id string) (*domain.BankTransaction, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.BankTransaction, error)
	ListByBankAccountFunc func(ctx context.Context, bankAccountID string, reconciled *bool, limit, offset int) ([]*domain.BankTransaction, error)
	MarkReconciledFunc   func(ctx context.Context, tx usecase.Transaction, id string, entity domain.MatchedEntity, targetID string) error
	ClearReconciledFunc  func(ctx context.Context, id string) error
	TargetMatchedFunc    func(ctx context.Context, tx usecase.Transaction, entity domain.MatchedEntity, targetID string) (bool, error)
}

func NewMockBankTxnRepository() *MockBankTxnRepository {
	return &MockBankTxnRepository{
		txns: make(map[string]*domain.BankTransaction),
	}
}

// Add seeds a bank transaction into the mock store.
func (m *MockBankTxnRepository) Add(txn *domain.BankTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[txn.ID] = txn
}

// Get returns the stored transaction, for state assertions.
func (m *MockBankTxnRepository) Get(id string) *domain.BankTransaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.txns[id]
}

func (m *MockBankTxnRepository) GetByID(ctx context.Context, id string) (*domain.BankTransaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.txns[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, domain.ErrBankTxnNotFound
}

func (m *MockBankTxnRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.BankTransaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockBankTxnRepository) ListByBankAccount(ctx context.Context, bankAccountID string, reconciled *bool, limit, offset int) ([]*domain.BankTransaction, error) {
	if m.ListByBankAccountFunc != nil {
		return m.ListByBankAccountFunc(ctx, bankAccountID, reconciled, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.BankTransaction
	for _, t := range m.txns {
		if t.BankAccountID != bankAccountID {
			continue
		}
		if reconciled != nil && t.Reconciled != *reconciled {
			continue
		}
		copied := *t
		txns = append(txns, &copied)
	}
	return txns, nil
}

func (m *MockBankTxnRepository) MarkReconciled(ctx context.Context, tx usecase.Transaction, id string, entity domain.MatchedEntity, targetID string) error {
	if m.MarkReconciledFunc != nil {
		return m.MarkReconciledFunc(ctx, tx, id, entity, targetID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.txns[id]
	if !ok {
		return domain.ErrBankTxnNotFound
	}
	for _, other := range m.txns {
		if other.ID != id && other.Reconciled && other.MatchedEntity == entity && other.MatchedID == targetID {
			return fmt.Errorf("%w: %s=%s", domain.ErrTargetAlreadyReconciled, entity, targetID)
		}
	}
	t.Reconciled = true
	t.MatchedEntity = entity
	t.MatchedID = targetID
	return nil
}

func (m *MockBankTxnRepository) ClearReconciled(ctx context.Context, id string) error {
	if m.ClearReconciledFunc != nil {
		return m.ClearReconciledFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.txns[id]
	if !ok {
		return domain.ErrBankTxnNotFound
	}
	t.Reconciled = false
	t.MatchedEntity = ""
	t.MatchedID = ""
	return nil
}

func (m *MockBankTxnRepository) TargetMatched(ctx context.Context, tx usecase.Transaction, entity domain.MatchedEntity, targetID string) (bool, error) {
	if m.TargetMatchedFunc != nil {
		return m.TargetMatchedFunc(ctx, tx, entity, targetID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.txns {
		if t.Reconciled && t.MatchedEntity == entity && t.MatchedID == targetID {
			return true, nil
		}
	}
	return false, nil
}

// MockSettlementRepository is a mock implementation of SettlementRepository.
type MockSettlementRepository struct {
	mu       sync.RWMutex
	receipts map[string]*domain.Receipt
	payments map[string]*domain.Payment

	GetReceiptFunc       func(ctx context.Context, id string) (*domain.Receipt, error)
	GetPaymentFunc       func(ctx context.Context, id string) (*domain.Payment, error)
	ListOpenReceiptsFunc func(ctx context.Context, bankAccountID string) ([]*domain.Receipt, error)
	ListOpenPaymentsFunc func(ctx context.Context, bankAccountID string) ([]*domain.Payment, error)
}

func NewMockSettlementRepository() *MockSettlementRepository {
	return &MockSettlementRepository{
		receipts: make(map[string]*domain.Receipt),
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockSettlementRepository) AddReceipt(r *domain.Receipt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts[r.ID] = r
}

func (m *MockSettlementRepository) AddPayment(p *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
}

func (m *MockSettlementRepository) GetReceipt(ctx context.Context, id string) (*domain.Receipt, error) {
	if m.GetReceiptFunc != nil {
		return m.GetReceiptFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.receipts[id]; ok {
		return r, nil
	}
	return nil, domain.ErrReceiptNotFound
}

func (m *MockSettlementRepository) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	if m.GetPaymentFunc != nil {
		return m.GetPaymentFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockSettlementRepository) ListOpenReceipts(ctx context.Context, bankAccountID string) ([]*domain.Receipt, error) {
	if m.ListOpenReceiptsFunc != nil {
		return m.ListOpenReceiptsFunc(ctx, bankAccountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var receipts []*domain.Receipt
	for _, r := range m.receipts {
		if r.BankAccountID == bankAccountID {
			receipts = append(receipts, r)
		}
	}
	return receipts, nil
}

func (m *MockSettlementRepository) ListOpenPayments(ctx context.Context, bankAccountID string) ([]*domain.Payment, error) {
	if m.ListOpenPaymentsFunc != nil {
		return m.ListOpenPaymentsFunc(ctx, bankAccountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var payments []*domain.Payment
	for _, p := range m.payments {
		if p.BankAccountID == bankAccountID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

// MockPeriodRepository is a mock implementation of PeriodRepository.
type MockPeriodRepository struct {
	mu      sync.RWMutex
	periods map[string]*domain.AccountingPeriod

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, period *domain.AccountingPeriod) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.AccountingPeriod, error)
	ListByBuildingFunc func(ctx context.Context, buildingID string) ([]*domain.AccountingPeriod, error)
	AnyInRangeFunc     func(ctx context.Context, buildingID string, from, to time.Time) (bool, error)
	ListCoveringFunc   func(ctx context.Context, buildingID string, date time.Time) ([]*domain.AccountingPeriod, error)
}

func NewMockPeriodRepository() *MockPeriodRepository {
	return &MockPeriodRepository{
		periods: make(map[string]*domain.AccountingPeriod),
	}
}

func (m *MockPeriodRepository) Add(p *domain.AccountingPeriod) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[p.ID] = p
}

func (m *MockPeriodRepository) Create(ctx context.Context, tx usecase.Transaction, period *domain.AccountingPeriod) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[period.ID] = period
	return nil
}

func (m *MockPeriodRepository) GetByID(ctx context.Context, id string) (*domain.AccountingPeriod, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.periods[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPeriodNotFound
}

func (m *MockPeriodRepository) ListByBuilding(ctx context.Context, buildingID string) ([]*domain.AccountingPeriod, error) {
	if m.ListByBuildingFunc != nil {
		return m.ListByBuildingFunc(ctx, buildingID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var periods []*domain.AccountingPeriod
	for _, p := range m.periods {
		if p.BuildingID == buildingID {
			periods = append(periods, p)
		}
	}
	return periods, nil
}

func (m *MockPeriodRepository) AnyInRange(ctx context.Context, buildingID string, from, to time.Time) (bool, error) {
	if m.AnyInRangeFunc != nil {
		return m.AnyInRangeFunc(ctx, buildingID, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.periods {
		if p.BuildingID == buildingID && !p.StartDate.Before(from) && !p.StartDate.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPeriodRepository) ListCovering(ctx context.Context, buildingID string, date time.Time) ([]*domain.AccountingPeriod, error) {
	if m.ListCoveringFunc != nil {
		return m.ListCoveringFunc(ctx, buildingID, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var periods []*domain.AccountingPeriod
	for _, p := range m.periods {
		if p.BuildingID == buildingID && p.Covers(date) {
			periods = append(periods, p)
		}
	}
	return periods, nil
}

// Count returns the number of stored periods.
func (m *MockPeriodRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.periods)
}

// MockReminderRepository is a mock implementation of ReminderRepository.
type MockReminderRepository struct {
	mu        sync.RWMutex
	reminders map[string]*domain.Reminder

	CreateFunc       func(ctx context.Context, reminder *domain.Reminder) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Reminder, error)
	ListByPeriodFunc func(ctx context.Context, periodID string) ([]*domain.Reminder, error)
	ListUpcomingFunc func(ctx context.Context, buildingID string, before time.Time) ([]*domain.Reminder, error)
	UpdateStatusFunc func(ctx context.Context, id string, status domain.ReminderStatus, updatedAt time.Time) error
	MarkOverdueFunc  func(ctx context.Context, before, updatedAt time.Time) ([]*domain.Reminder, error)
}

func NewMockReminderRepository() *MockReminderRepository {
	return &MockReminderRepository{
		reminders: make(map[string]*domain.Reminder),
	}
}

func (m *MockReminderRepository) Add(r *domain.Reminder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders[r.ID] = r
}

func (m *MockReminderRepository) Get(id string) *domain.Reminder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reminders[id]
}

func (m *MockReminderRepository) Create(ctx context.Context, reminder *domain.Reminder) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, reminder)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders[reminder.ID] = reminder
	return nil
}

func (m *MockReminderRepository) GetByID(ctx context.Context, id string) (*domain.Reminder, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.reminders[id]; ok {
		return r, nil
	}
	return nil, domain.ErrReminderNotFound
}

func (m *MockReminderRepository) ListByPeriod(ctx context.Context, periodID string) ([]*domain.Reminder, error) {
	if m.ListByPeriodFunc != nil {
		return m.ListByPeriodFunc(ctx, periodID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var reminders []*domain.Reminder
	for _, r := range m.reminders {
		if r.PeriodID == periodID {
			reminders = append(reminders, r)
		}
	}
	return reminders, nil
}

func (m *MockReminderRepository) ListUpcoming(ctx context.Context, buildingID string, before time.Time) ([]*domain.Reminder, error) {
	if m.ListUpcomingFunc != nil {
		return m.ListUpcomingFunc(ctx, buildingID, before)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var reminders []*domain.Reminder
	for _, r := range m.reminders {
		if r.BuildingID == buildingID && r.Status != domain.ReminderCompleted && r.DueDate.Before(before) {
			reminders = append(reminders, r)
		}
	}
	return reminders, nil
}

func (m *MockReminderRepository) UpdateStatus(ctx context.Context, id string, status domain.ReminderStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reminders[id]
	if !ok {
		return domain.ErrReminderNotFound
	}
	r.Status = status
	r.UpdatedAt = updatedAt
	return nil
}

func (m *MockReminderRepository) MarkOverdue(ctx context.Context, before, updatedAt time.Time) ([]*domain.Reminder, error) {
	if m.MarkOverdueFunc != nil {
		return m.MarkOverdueFunc(ctx, before, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var transitioned []*domain.Reminder
	for _, r := range m.reminders {
		if r.Status == domain.ReminderPending && r.DueDate.Before(before) {
			r.Status = domain.ReminderOverdue
			r.UpdatedAt = updatedAt
			transitioned = append(transitioned, r)
		}
	}
	return transitioned, nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, l := range m.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && l.ResourceType != filter.ResourceType {
			continue
		}
		logs = append(logs, l)
	}
	return logs, nil
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, l := range m.logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

// Entries returns all recorded audit logs.
func (m *MockAuditRepository) Entries() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...)
}

// CountByAction returns the number of entries recorded for an action.
func (m *MockAuditRepository) CountByAction(action domain.AuditAction) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, l := range m.logs {
		if l.Action == string(action) {
			count++
		}
	}
	return count
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	Transactions []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// MockIDGenerator generates sequential IDs for deterministic tests.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%04d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu     sync.Mutex
	values map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		values: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.values[key]; ok {
		return true, existing, nil
	}
	m.values[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
