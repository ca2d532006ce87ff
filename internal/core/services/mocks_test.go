package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/stelvault/timelock_app/internal/core/domain"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) InsertAccount(ctx context.Context, account domain.TimeLockAccount) (*domain.TimeLockAccount, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeLockAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.TimeLockAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeLockAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.TimeLockAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeLockAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByOwner(ctx context.Context, ownerAddress string) ([]domain.TimeLockAccount, error) {
	args := m.Called(ctx, ownerAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeLockAccount), args.Error(1)
}

func (m *MockAccountRepository) MarkWithdrawn(ctx context.Context, accountID, withdrawalRef string, now time.Time) (*domain.TimeLockAccount, error) {
	args := m.Called(ctx, accountID, withdrawalRef, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeLockAccount), args.Error(1)
}

func (m *MockAccountRepository) CountAccounts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) CountAccountsByStatus(ctx context.Context, status domain.AccountStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) SumPrincipalByStatus(ctx context.Context, status domain.AccountStatus) (decimal.Decimal, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) SumInterest(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockSettlementJournalRepository is a mock type for the SettlementJournalRepository interface
type MockSettlementJournalRepository struct {
	mock.Mock
}

func (m *MockSettlementJournalRepository) SavePending(ctx context.Context, pending domain.PendingSettlement) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

func (m *MockSettlementJournalRepository) ListPending(ctx context.Context, limit int) ([]domain.PendingSettlement, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingSettlement), args.Error(1)
}

func (m *MockSettlementJournalRepository) RecordAttempt(ctx context.Context, settlementRef string) error {
	args := m.Called(ctx, settlementRef)
	return args.Error(0)
}

func (m *MockSettlementJournalRepository) DeletePending(ctx context.Context, settlementRef string) error {
	args := m.Called(ctx, settlementRef)
	return args.Error(0)
}

// MockSettlementClient is a mock type for the SettlementClient interface
type MockSettlementClient struct {
	mock.Mock
}

func (m *MockSettlementClient) SubmitLock(ctx context.Context, amount decimal.Decimal, unlockAt time.Time) (string, error) {
	args := m.Called(ctx, amount, unlockAt)
	return args.String(0), args.Error(1)
}

func (m *MockSettlementClient) SubmitPayout(ctx context.Context, destination string, amount decimal.Decimal) (string, error) {
	args := m.Called(ctx, destination, amount)
	return args.String(0), args.Error(1)
}
