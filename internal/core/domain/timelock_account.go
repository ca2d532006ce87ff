package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus describes the lifecycle state of a time-lock account.
// The only legal transition is Locked -> Withdrawn, exactly once.
type AccountStatus string

const (
	StatusLocked    AccountStatus = "LOCKED"
	StatusWithdrawn AccountStatus = "WITHDRAWN"
)

// TimeLockAccount represents a single locked deposit in the ledger.
// InterestAmount is frozen at creation time; a later schedule change must not
// retroactively alter an existing commitment.
type TimeLockAccount struct {
	AccountID               string
	OwnerAddress            string
	Principal               decimal.Decimal
	LockPeriodDays          int
	InterestAmount          decimal.Decimal
	Status                  AccountStatus
	SettlementRef           string
	WithdrawalSettlementRef string // set iff Status == StatusWithdrawn
	CreatedAt               time.Time
	UnlockAt                time.Time
	WithdrawnAt             *time.Time
}

// PayoutAmount returns principal + interest, summed at payout time.
func (a TimeLockAccount) PayoutAmount() decimal.Decimal {
	return a.Principal.Add(a.InterestAmount)
}

// Matured reports whether the account is eligible for withdrawal at the given time.
func (a TimeLockAccount) Matured(now time.Time) bool {
	return !now.Before(a.UnlockAt)
}
