package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/andviana23/trato-sub001/internal/domain"
	"github.com/andviana23/trato-sub001/internal/usecase"
	"github.com/andviana23/trato-sub001/internal/usecase/mocks"
)

func paymentInput() usecase.ProcessPaymentInput {
	return usecase.ProcessPaymentInput{
		Event:     "PAYMENT_CONFIRMED",
		WebhookID: "evt_001",
		UnitID:    "unit-1",
		CreatedBy: "webhook",
		Payment: domain.PaymentPayload{
			ID:          "pay_123",
			Customer:    "cus_456",
			Value:       150000,
			Description: "Assinatura mensal",
			DueDate:     "2025-06-10",
			Status:      "CONFIRMED",
		},
	}
}

func seedDefaultAccounts(repo *mocks.MockAccountRepository) (cash, revenue *domain.Account) {
	cash = &domain.Account{ID: "acc-cash", Code: "1.1.01", Name: "Caixa", Type: domain.AccountTypeAsset, Level: 3, Active: true}
	revenue = &domain.Account{ID: "acc-rev", Code: "3.1.01", Name: "Receita de Assinaturas", Type: domain.AccountTypeRevenue, Level: 3, Active: true}
	repo.SetDefault("unit-1", domain.AccountRoleCash, cash)
	repo.SetDefault("unit-1", domain.AccountRoleRevenue, revenue)
	return cash, revenue
}

func TestRevenueUseCase_ProcessPayment_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository()
	cash, revenue := seedDefaultAccounts(accountRepo)

	entryRepo := mocks.NewMockEntryRepository()
	revenueRepo := mocks.NewMockRevenueRepository()
	txManager := mocks.NewMockTransactionManager()

	customerRepo := mocks.NewMockCustomerRepository(ctrl)
	customerRepo.EXPECT().GetByExternalID(gomock.Any(), "cus_456").
		Return(&domain.Customer{ID: "local-cust-1", ExternalID: "cus_456"}, nil)

	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Delete(gomock.Any(), "dashboard:revenue:unit-1", "dashboard:dre:unit-1").Return(nil)

	uc := usecase.NewRevenueUseCase(txManager, nil, accountRepo, entryRepo, revenueRepo, customerRepo, cache, mocks.NewMockIDGenerator())

	record, err := uc.ProcessPayment(context.Background(), paymentInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.PaymentID != "pay_123" {
		t.Errorf("expected payment id pay_123, got %s", record.PaymentID)
	}
	if !record.Value.Equal(decimal.RequireFromString("1500.00")) {
		t.Errorf("expected value 1500.00, got %s", record.Value)
	}
	if record.CustomerID == nil || *record.CustomerID != "local-cust-1" {
		t.Errorf("expected customer enrichment, got %v", record.CustomerID)
	}

	if !txManager.LastTx.Committed {
		t.Error("expected transaction to be committed")
	}

	entry, err := entryRepo.GetByID(context.Background(), record.LedgerEntryID)
	if err != nil {
		t.Fatalf("expected ledger entry to exist: %v", err)
	}
	if entry.DebitAccountID != cash.ID || entry.CreditAccountID != revenue.ID {
		t.Errorf("wrong account pair: debit %s credit %s", entry.DebitAccountID, entry.CreditAccountID)
	}
	if entry.Status != domain.EntryStatusConfirmed {
		t.Errorf("expected confirmed entry, got %s", entry.Status)
	}
	if entry.DocumentNumber != "pay_123" {
		t.Errorf("expected document number pay_123, got %s", entry.DocumentNumber)
	}
	if entry.CompetenceDate.Format("2006-01-02") != "2025-06-10" {
		t.Errorf("expected competence date from due date, got %s", entry.CompetenceDate)
	}
}

func TestRevenueUseCase_ProcessPayment_DuplicateShortCircuit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository()
	seedDefaultAccounts(accountRepo)

	entryRepo := mocks.NewMockEntryRepository()

	revenueRepo := mocks.NewMockRevenueRepository()
	revenueRepo.GetByPaymentIDFunc = func(ctx context.Context, paymentID string) (*domain.RevenueRecord, error) {
		return &domain.RevenueRecord{ID: "rev-1", PaymentID: paymentID}, nil
	}

	uc := usecase.NewRevenueUseCase(mocks.NewMockTransactionManager(), nil, accountRepo, entryRepo, revenueRepo,
		mocks.NewMockCustomerRepository(ctrl), nil, mocks.NewMockIDGenerator())

	_, err := uc.ProcessPayment(context.Background(), paymentInput())
	if !errors.Is(err, domain.ErrDuplicatePayment) {
		t.Fatalf("expected ErrDuplicatePayment, got %v", err)
	}

	if domain.IsRetryable(err) {
		t.Error("duplicate payment must not be retryable")
	}
	if entryRepo.Count() != 0 {
		t.Errorf("expected no ledger writes, got %d", entryRepo.Count())
	}
}

func TestRevenueUseCase_ProcessPayment_MissingDefaultAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository() // no defaults registered

	uc := usecase.NewRevenueUseCase(mocks.NewMockTransactionManager(), nil, accountRepo,
		mocks.NewMockEntryRepository(), mocks.NewMockRevenueRepository(),
		mocks.NewMockCustomerRepository(ctrl), nil, mocks.NewMockIDGenerator())

	_, err := uc.ProcessPayment(context.Background(), paymentInput())
	if !errors.Is(err, domain.ErrDefaultAccountNotFound) {
		t.Fatalf("expected ErrDefaultAccountNotFound, got %v", err)
	}

	if domain.IsRetryable(err) {
		t.Error("missing account configuration must not be retryable")
	}
}

func TestRevenueUseCase_ProcessPayment_AccountLookupOutageIsRetryable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository()
	seedDefaultAccounts(accountRepo)
	accountRepo.GetDefaultFunc = func(ctx context.Context, unitID string, role domain.AccountRole) (*domain.Account, error) {
		return nil, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	}

	uc := usecase.NewRevenueUseCase(mocks.NewMockTransactionManager(), nil, accountRepo,
		mocks.NewMockEntryRepository(), mocks.NewMockRevenueRepository(),
		mocks.NewMockCustomerRepository(ctrl), nil, mocks.NewMockIDGenerator())

	_, err := uc.ProcessPayment(context.Background(), paymentInput())
	if err == nil {
		t.Fatal("expected error from account lookup outage")
	}

	if errors.Is(err, domain.ErrDefaultAccountNotFound) {
		t.Errorf("store outage must not be reported as missing configuration: %v", err)
	}
	if !domain.IsRetryable(err) {
		t.Errorf("store outage must stay retryable: %v", err)
	}
}

func TestRevenueUseCase_ProcessPayment_UnknownCustomerStillPosts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository()
	seedDefaultAccounts(accountRepo)

	entryRepo := mocks.NewMockEntryRepository()
	revenueRepo := mocks.NewMockRevenueRepository()
	txManager := mocks.NewMockTransactionManager()

	customerRepo := mocks.NewMockCustomerRepository(ctrl)
	customerRepo.EXPECT().GetByExternalID(gomock.Any(), "cus_456").
		Return(nil, domain.ErrCustomerNotFound)

	uc := usecase.NewRevenueUseCase(txManager, nil, accountRepo, entryRepo, revenueRepo, customerRepo, nil, mocks.NewMockIDGenerator())

	record, err := uc.ProcessPayment(context.Background(), paymentInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.CustomerID != nil {
		t.Errorf("expected nil customer id for unsynchronized customer, got %v", *record.CustomerID)
	}
	if !txManager.LastTx.Committed {
		t.Error("expected transaction to be committed")
	}
	if _, err := entryRepo.GetByID(context.Background(), record.LedgerEntryID); err != nil {
		t.Fatalf("expected ledger entry to exist: %v", err)
	}
}

func TestRevenueUseCase_ProcessPayment_UniqueViolationInsideTx(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository()
	seedDefaultAccounts(accountRepo)

	entryRepo := mocks.NewMockEntryRepository()

	// Lookup sees nothing, but the insert hits the unique constraint. This is
	// the concurrent-worker race.
	revenueRepo := mocks.NewMockRevenueRepository()
	revenueRepo.CreateFunc = func(ctx context.Context, tx usecase.Transaction, record *domain.RevenueRecord) error {
		return domain.ErrDuplicatePayment
	}

	customerRepo := mocks.NewMockCustomerRepository(ctrl)
	customerRepo.EXPECT().GetByExternalID(gomock.Any(), gomock.Any()).Return(nil, domain.ErrCustomerNotFound)

	txManager := mocks.NewMockTransactionManager()

	uc := usecase.NewRevenueUseCase(txManager, nil, accountRepo, entryRepo, revenueRepo, customerRepo, nil, mocks.NewMockIDGenerator())

	_, err := uc.ProcessPayment(context.Background(), paymentInput())
	if !errors.Is(err, domain.ErrDuplicatePayment) {
		t.Fatalf("expected ErrDuplicatePayment, got %v", err)
	}

	if txManager.LastTx.Committed {
		t.Error("transaction must not commit on a duplicate")
	}
	if !txManager.LastTx.RolledBack {
		t.Error("expected transaction rollback")
	}
}

func TestRevenueUseCase_ProcessPayment_CompensationOnRecordFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository()
	seedDefaultAccounts(accountRepo)

	entryRepo := mocks.NewMockEntryRepository()

	revenueRepo := mocks.NewMockRevenueRepository()
	revenueRepo.CreateFunc = func(ctx context.Context, tx usecase.Transaction, record *domain.RevenueRecord) error {
		return errors.New("write failed")
	}

	customerRepo := mocks.NewMockCustomerRepository(ctrl)
	customerRepo.EXPECT().GetByExternalID(gomock.Any(), gomock.Any()).Return(nil, domain.ErrCustomerNotFound)

	// nil transaction manager forces the compensation path.
	uc := usecase.NewRevenueUseCase(nil, nil, accountRepo, entryRepo, revenueRepo, customerRepo, nil, mocks.NewMockIDGenerator())

	_, err := uc.ProcessPayment(context.Background(), paymentInput())
	if !errors.Is(err, domain.ErrRevenueRecordCreation) {
		t.Fatalf("expected ErrRevenueRecordCreation, got %v", err)
	}

	if entryRepo.Count() != 0 {
		t.Errorf("expected compensating delete to remove the orphan entry, got %d entries", entryRepo.Count())
	}
}

func TestRevenueUseCase_ProcessPayment_RetrierRunsPersistence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository()
	seedDefaultAccounts(accountRepo)

	entryRepo := mocks.NewMockEntryRepository()
	revenueRepo := mocks.NewMockRevenueRepository()

	customerRepo := mocks.NewMockCustomerRepository(ctrl)
	customerRepo.EXPECT().GetByExternalID(gomock.Any(), gomock.Any()).Return(nil, domain.ErrCustomerNotFound)

	retrier := mocks.NewMockRetrier(ctrl)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, op func() error) error { return op() },
	)

	uc := usecase.NewRevenueUseCase(mocks.NewMockTransactionManager(), retrier, accountRepo, entryRepo, revenueRepo, customerRepo, nil, mocks.NewMockIDGenerator())

	record, err := uc.ProcessPayment(context.Background(), paymentInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record == nil || record.LedgerEntryID == "" {
		t.Fatal("expected a persisted record linked to a ledger entry")
	}
	if entryRepo.Count() != 1 {
		t.Errorf("expected one ledger entry, got %d", entryRepo.Count())
	}
}
