package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus mirrors the ledger status enum as stored in the database.
type AccountStatus string

const (
	StatusLocked    AccountStatus = "LOCKED"
	StatusWithdrawn AccountStatus = "WITHDRAWN"
)

// TimeLockAccount is the database representation of a locked deposit.
// Note: Amounts use github.com/shopspring/decimal mapped to NUMERIC columns.
type TimeLockAccount struct {
	AccountID        string          `db:"account_id"`
	OwnerAddress     string          `db:"owner_address"`
	Principal        decimal.Decimal `db:"principal"`
	LockPeriodDays   int             `db:"lock_period_days"`
	InterestAmount   decimal.Decimal `db:"interest_amount"`
	Status           AccountStatus   `db:"status"`
	LockTxHash       string          `db:"lock_tx_hash"`
	WithdrawalTxHash string          `db:"withdrawal_tx_hash"` // Nullable
	CreatedAt        time.Time       `db:"created_at"`
	UnlockAt         time.Time       `db:"unlock_at"`
	WithdrawnAt      *time.Time      `db:"withdrawn_at"` // Nullable
}
