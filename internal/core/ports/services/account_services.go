package services

import (
	"context"

	"github.com/stelvault/timelock_app/internal/core/domain"
	"github.com/stelvault/timelock_app/internal/dto"
)

// AccountSvcFacade orchestrates time-lock account creation and queries.
// Creation sequences "settle first, record second": a ledger record is only
// inserted once a confirmed settlement reference exists.
type AccountSvcFacade interface {
	CreateTimeLock(ctx context.Context, req dto.CreateAccountRequest) (*domain.TimeLockAccount, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.TimeLockAccount, error)
	ListAccounts(ctx context.Context) ([]domain.TimeLockAccount, error)
	ListAccountsByOwner(ctx context.Context, ownerAddress string) ([]domain.TimeLockAccount, error)
}

// WithdrawalSvcFacade is the withdrawal guard: it enforces maturity and
// single-withdrawal rules and confirms payout settlement before the ledger flip.
type WithdrawalSvcFacade interface {
	Withdraw(ctx context.Context, accountID string) (*domain.TimeLockAccount, error)
}

// StatsSvcFacade exposes read-only rollups over the ledger. It never mutates state.
type StatsSvcFacade interface {
	GetStats(ctx context.Context) (*domain.LedgerStats, error)
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account    AccountSvcFacade
	Withdrawal WithdrawalSvcFacade
	Stats      StatsSvcFacade
}
