package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andviana23/trato-sub001/internal/domain"
)

// RevenueUseCase turns one accepted payment event into one ledger posting
// plus one revenue record, exactly once per payment id.
type RevenueUseCase struct {
	txManager    TransactionManager
	retrier      Retrier
	accountRepo  AccountRepository
	entryRepo    EntryRepository
	revenueRepo  RevenueRepository
	customerRepo CustomerRepository
	cache        Cache
	idGen        IDGenerator
}

// NewRevenueUseCase creates a new RevenueUseCase. txManager may be nil for
// stores without multi-statement transactions; the processor then falls back
// to two separate writes with a compensating delete.
func NewRevenueUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	revenueRepo RevenueRepository,
	customerRepo CustomerRepository,
	cache Cache,
	idGen IDGenerator,
) *RevenueUseCase {
	return &RevenueUseCase{
		txManager:    txManager,
		retrier:      retrier,
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		revenueRepo:  revenueRepo,
		customerRepo: customerRepo,
		cache:        cache,
		idGen:        idGen,
	}
}

// ProcessPaymentInput is one job payload: the webhook's payment sub-object
// plus envelope.
type ProcessPaymentInput struct {
	Event     string
	WebhookID string
	Timestamp string
	UnitID    string
	Payment   domain.PaymentPayload
	CreatedBy string
}

// Cache keys invalidated after a successful posting so dependent dashboard
// views refresh.
func dashboardKeys(unitID string) []string {
	return []string{
		"dashboard:revenue:" + unitID,
		"dashboard:dre:" + unitID,
	}
}

// resolveAccountError keeps a genuinely missing default account non-retryable
// while letting transient store failures propagate unchanged.
func resolveAccountError(err error, role, unitID string) error {
	if errors.Is(err, domain.ErrDefaultAccountNotFound) || errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("%w: %s account for unit %s", domain.ErrDefaultAccountNotFound, role, unitID)
	}
	return fmt.Errorf("resolve %s account for unit %s: %w", role, unitID, err)
}

// ProcessPayment posts one confirmed payment. Repeats of an already-posted
// payment id return domain.ErrDuplicatePayment rather than a silent success
// so operators can see gateway retransmission volume.
func (uc *RevenueUseCase) ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*domain.RevenueRecord, error) {
	// 1. Idempotency guard. The unique constraint on payment_id is the real
	// barrier under concurrent workers; this lookup only short-circuits the
	// common retransmission case before any write.
	existing, err := uc.revenueRepo.GetByPaymentID(ctx, input.Payment.ID)
	if err != nil && !errors.Is(err, domain.ErrRevenueRecordNotFound) {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: payment %s", domain.ErrDuplicatePayment, input.Payment.ID)
	}

	// 2. Account resolution. Missing configuration is non-retryable; a
	// transient store failure here must stay retryable.
	cashAccount, err := uc.accountRepo.GetDefault(ctx, input.UnitID, domain.AccountRoleCash)
	if err != nil {
		return nil, resolveAccountError(err, "cash", input.UnitID)
	}

	revenueAccount, err := uc.accountRepo.GetDefault(ctx, input.UnitID, domain.AccountRoleRevenue)
	if err != nil {
		return nil, resolveAccountError(err, "revenue", input.UnitID)
	}

	// 3. Customer enrichment, best-effort.
	var customerID *string
	if customer, err := uc.customerRepo.GetByExternalID(ctx, input.Payment.Customer); err == nil && customer != nil {
		customerID = &customer.ID
	}

	now := time.Now().UTC()
	value := domain.ValueFromCents(input.Payment.Value)

	entry := &domain.LedgerEntry{
		ID:              uc.idGen.Generate(),
		EntryDate:       now,
		CompetenceDate:  input.Payment.CompetenceDate(now),
		DocumentNumber:  input.Payment.ID,
		Description:     input.Payment.Description,
		Amount:          value,
		Side:            domain.EntrySideCredit,
		DebitAccountID:  cashAccount.ID,
		CreditAccountID: revenueAccount.ID,
		UnitID:          input.UnitID,
		Status:          domain.EntryStatusConfirmed,
		CreatedBy:       input.CreatedBy,
		CreatedAt:       now,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	record := &domain.RevenueRecord{
		ID:            uc.idGen.Generate(),
		PaymentID:     input.Payment.ID,
		CustomerID:    customerID,
		Value:         value,
		Description:   input.Payment.Description,
		LedgerEntryID: entry.ID,
		CreatedAt:     now,
	}

	// 4+5. Ledger posting and revenue record, atomically when the store
	// supports transactions.
	persist := func() error {
		if uc.txManager != nil {
			return uc.persistTx(ctx, entry, record)
		}
		return uc.persistWithCompensation(ctx, entry, record)
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, persist)
	} else {
		err = persist()
	}
	if err != nil {
		return nil, err
	}

	// 7. Downstream cache invalidation, best-effort.
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, dashboardKeys(input.UnitID)...)
	}

	return record, nil
}

// persistTx writes both rows inside one transaction; a failure of either
// write rolls back the other.
func (uc *RevenueUseCase) persistTx(ctx context.Context, entry *domain.LedgerEntry, record *domain.RevenueRecord) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}

	if err := uc.revenueRepo.Create(ctx, tx, record); err != nil {
		if errors.Is(err, domain.ErrDuplicatePayment) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrRevenueRecordCreation, err)
	}

	return tx.Commit(ctx)
}

// persistWithCompensation is the fallback for stores without multi-statement
// transactions: two separate writes, deleting the ledger entry when the
// revenue record write fails so no orphan posting survives.
func (uc *RevenueUseCase) persistWithCompensation(ctx context.Context, entry *domain.LedgerEntry, record *domain.RevenueRecord) error {
	if err := uc.entryRepo.Create(ctx, nil, entry); err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}

	if err := uc.revenueRepo.Create(ctx, nil, record); err != nil {
		if delErr := uc.entryRepo.Delete(ctx, entry.ID); delErr != nil {
			return fmt.Errorf("%w: %v (compensation failed: %v)", domain.ErrRevenueRecordCreation, err, delErr)
		}
		if errors.Is(err, domain.ErrDuplicatePayment) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrRevenueRecordCreation, err)
	}

	return nil
}
