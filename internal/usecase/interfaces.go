package usecase

import (
	"context"

	"github.com/andviana23/trato-sub001/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	// GetDefault resolves the configured default account for a unit and role.
	GetDefault(ctx context.Context, unitID string, role domain.AccountRole) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
}

// EntryRepository defines data access for ledger entries. A nil Transaction
// executes against the pool directly.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	// ListConfirmedByPeriod returns confirmed entries for a unit whose
	// competence date falls inside the period.
	ListConfirmedByPeriod(ctx context.Context, unitID string, period domain.Period) ([]*domain.LedgerEntry, error)
	// SumByAccount aggregates confirmed entry amounts per account for a unit
	// and period, split into debit-side and credit-side totals.
	SumByAccount(ctx context.Context, unitID string, period domain.Period) ([]*domain.AccountBalance, error)
}

// RevenueRepository defines data access for revenue records.
type RevenueRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.RevenueRecord) error
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.RevenueRecord, error)
	Delete(ctx context.Context, id string) error
}

// CustomerRepository looks up local customers by the gateway's external id.
type CustomerRepository interface {
	GetByExternalID(ctx context.Context, externalID string) (*domain.Customer, error)
}

// WebhookLogRepository defines data access for the webhook audit log.
type WebhookLogRepository interface {
	Create(ctx context.Context, log *domain.WebhookLog) error
	List(ctx context.Context, limit, offset int) ([]*domain.WebhookLog, error)
}

// JobQueue is the durable, priority-ordered work queue between the webhook
// gateway and the revenue worker.
type JobQueue interface {
	Enqueue(ctx context.Context, job *domain.Job) error
	// Dequeue returns the next ready job respecting priority order, or nil
	// when the queue is empty.
	Dequeue(ctx context.Context) (*domain.Job, error)
	// Complete moves a job to the bounded completed set.
	Complete(ctx context.Context, job *domain.Job) error
	// Retry re-queues a failed job with backoff, or moves it to the failed
	// set when the failure is non-retryable or attempts are exhausted.
	Retry(ctx context.Context, job *domain.Job, cause error) error
	ListFailed(ctx context.Context, limit int) ([]*domain.Job, error)
}

// Cache invalidates derived views after a successful posting.
type Cache interface {
	Delete(ctx context.Context, keys ...string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle. Implementations may be
// absent (nil) for stores without multi-statement transactions, in which
// case the revenue processor falls back to compensating deletes.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient persistence errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
