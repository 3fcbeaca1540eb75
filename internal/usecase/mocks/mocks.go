package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/andviana23/trato-sub001/internal/domain"
	"github.com/andviana23/trato-sub001/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	defaults map[string]*domain.Account // key: unitID + "/" + role

	CreateFunc     func(ctx context.Context, account *domain.Account) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.Account, error)
	GetByCodeFunc  func(ctx context.Context, code string) (*domain.Account, error)
	GetDefaultFunc func(ctx context.Context, unitID string, role domain.AccountRole) (*domain.Account, error)
	ListFunc       func(ctx context.Context) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
		defaults: make(map[string]*domain.Account),
	}
}

// SetDefault registers a default account for a unit and role.
func (m *MockAccountRepository) SetDefault(unitID string, role domain.AccountRole, account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	m.defaults[unitID+"/"+string(role)] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
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

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Code == code {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetDefault(ctx context.Context, unitID string, role domain.AccountRole) (*domain.Account, error) {
	if m.GetDefaultFunc != nil {
		return m.GetDefaultFunc(ctx, unitID, role)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.defaults[unitID+"/"+string(role)]; ok {
		return acc, nil
	}
	return nil, domain.ErrDefaultAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.LedgerEntry

	CreateFunc                func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	DeleteFunc                func(ctx context.Context, id string) error
	GetByIDFunc               func(ctx context.Context, id string) (*domain.LedgerEntry, error)
	ListConfirmedByPeriodFunc func(ctx context.Context, unitID string, period domain.Period) ([]*domain.LedgerEntry, error)
	SumByAccountFunc          func(ctx context.Context, unitID string, period domain.Period) ([]*domain.AccountBalance, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{entries: make(map[string]*domain.LedgerEntry)}
}

// Count returns the number of stored entries.
func (m *MockEntryRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) ListConfirmedByPeriod(ctx context.Context, unitID string, period domain.Period) ([]*domain.LedgerEntry, error) {
	if m.ListConfirmedByPeriodFunc != nil {
		return m.ListConfirmedByPeriodFunc(ctx, unitID, period)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.UnitID == unitID && e.Status == domain.EntryStatusConfirmed {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) SumByAccount(ctx context.Context, unitID string, period domain.Period) ([]*domain.AccountBalance, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, unitID, period)
	}
	return nil, nil
}

// MockRevenueRepository is a mock implementation of RevenueRepository.
type MockRevenueRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.RevenueRecord // keyed by payment id

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, record *domain.RevenueRecord) error
	GetByPaymentIDFunc func(ctx context.Context, paymentID string) (*domain.RevenueRecord, error)
	DeleteFunc         func(ctx context.Context, id string) error
}

func NewMockRevenueRepository() *MockRevenueRepository {
	return &MockRevenueRepository{records: make(map[string]*domain.RevenueRecord)}
}

func (m *MockRevenueRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.RevenueRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.PaymentID]; ok {
		return domain.ErrDuplicatePayment
	}
	m.records[record.PaymentID] = record
	return nil
}

func (m *MockRevenueRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.RevenueRecord, error) {
	if m.GetByPaymentIDFunc != nil {
		return m.GetByPaymentIDFunc(ctx, paymentID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.records[paymentID]; ok {
		return r, nil
	}
	return nil, domain.ErrRevenueRecordNotFound
}

func (m *MockRevenueRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for paymentID, r := range m.records {
		if r.ID == id {
			delete(m.records, paymentID)
			return nil
		}
	}
	return domain.ErrRevenueRecordNotFound
}

// MockWebhookLogRepository is a mock implementation of WebhookLogRepository.
type MockWebhookLogRepository struct {
	mu   sync.RWMutex
	logs []*domain.WebhookLog

	CreateFunc func(ctx context.Context, log *domain.WebhookLog) error
}

func NewMockWebhookLogRepository() *MockWebhookLogRepository {
	return &MockWebhookLogRepository{}
}

func (m *MockWebhookLogRepository) Create(ctx context.Context, log *domain.WebhookLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockWebhookLogRepository) List(ctx context.Context, limit, offset int) ([]*domain.WebhookLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.WebhookLog(nil), m.logs...), nil
}

// Logs returns the logged rows.
func (m *MockWebhookLogRepository) Logs() []*domain.WebhookLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.WebhookLog(nil), m.logs...)
}

// MockJobQueue is a mock implementation of JobQueue.
type MockJobQueue struct {
	mu        sync.RWMutex
	Enqueued  []*domain.Job
	Completed []*domain.Job
	Retried   []*domain.Job
	Failed    []*domain.Job

	EnqueueFunc  func(ctx context.Context, job *domain.Job) error
	DequeueFunc  func(ctx context.Context) (*domain.Job, error)
	CompleteFunc func(ctx context.Context, job *domain.Job) error
	RetryFunc    func(ctx context.Context, job *domain.Job, cause error) error
}

func NewMockJobQueue() *MockJobQueue {
	return &MockJobQueue{}
}

func (m *MockJobQueue) Enqueue(ctx context.Context, job *domain.Job) error {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, job)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Enqueued = append(m.Enqueued, job)
	return nil
}

func (m *MockJobQueue) Dequeue(ctx context.Context) (*domain.Job, error) {
	if m.DequeueFunc != nil {
		return m.DequeueFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Enqueued) == 0 {
		return nil, nil
	}
	job := m.Enqueued[0]
	m.Enqueued = m.Enqueued[1:]
	return job, nil
}

func (m *MockJobQueue) Complete(ctx context.Context, job *domain.Job) error {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, job)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Completed = append(m.Completed, job)
	return nil
}

func (m *MockJobQueue) Retry(ctx context.Context, job *domain.Job, cause error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, job, cause)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	job.AttemptsMade++
	if !domain.IsRetryable(cause) || job.AttemptsMade >= job.MaxAttempts {
		m.Failed = append(m.Failed, job)
		return nil
	}
	m.Retried = append(m.Retried, job)
	return nil
}

func (m *MockJobQueue) ListFailed(ctx context.Context, limit int) ([]*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Job(nil), m.Failed...), nil
}

// MockTransaction records commit/rollback calls.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	t.RolledBack = true
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	LastTx *MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.LastTx = &MockTransaction{}
	return m.LastTx, nil
}

// MockIDGenerator generates sequential test IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

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
	m.next++
	return fmt.Sprintf("id-%04d", m.next)
}
