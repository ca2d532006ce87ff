package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stelvault/timelock_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a time-lock account.
// SettlementRef is optional: the browser-wallet flow submits the lock transfer
// itself and posts only the confirmed transaction hash; when it is empty the
// backend performs the transfer through the settlement client.
type CreateAccountRequest struct {
	OwnerAddress   string          `json:"ownerAddress" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	LockPeriodDays int             `json:"lockPeriod" binding:"required,gt=0"`
	SettlementRef  string          `json:"settlementRef"`
}

// AccountResponse defines the data returned for a time-lock account.
// Mirrors domain.TimeLockAccount.
type AccountResponse struct {
	AccountID               string          `json:"id"`
	OwnerAddress            string          `json:"ownerAddress"`
	Principal               decimal.Decimal `json:"principal"`
	LockPeriodDays          int             `json:"lockPeriod"`
	InterestAmount          decimal.Decimal `json:"interestAmount"`
	Status                  string          `json:"status"`
	SettlementRef           string          `json:"settlementRef"`
	WithdrawalSettlementRef string          `json:"withdrawalSettlementRef,omitempty"`
	CreatedAt               time.Time       `json:"createdAt"`
	UnlockAt                time.Time       `json:"unlockAt"`
	WithdrawnAt             *time.Time      `json:"withdrawnAt,omitempty"`
}

// ToAccountResponse converts a domain.TimeLockAccount to AccountResponse.
func ToAccountResponse(acc *domain.TimeLockAccount) AccountResponse {
	return AccountResponse{
		AccountID:               acc.AccountID,
		OwnerAddress:            acc.OwnerAddress,
		Principal:               acc.Principal,
		LockPeriodDays:          acc.LockPeriodDays,
		InterestAmount:          acc.InterestAmount,
		Status:                  string(acc.Status),
		SettlementRef:           acc.SettlementRef,
		WithdrawalSettlementRef: acc.WithdrawalSettlementRef,
		CreatedAt:               acc.CreatedAt,
		UnlockAt:                acc.UnlockAt,
		WithdrawnAt:             acc.WithdrawnAt,
	}
}

// ToListAccountResponse converts a slice of domain.TimeLockAccount to DTOs.
func ToListAccountResponse(accounts []domain.TimeLockAccount) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}
