package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrNotMatured indicates a withdrawal attempt before the account's unlock time.
var ErrNotMatured = errors.New("account not matured")

// ErrAlreadyWithdrawn indicates a withdrawal attempt on an already withdrawn account.
var ErrAlreadyWithdrawn = errors.New("account already withdrawn")

// ErrUnsupportedPeriod indicates a lock period outside the supported schedule.
var ErrUnsupportedPeriod = errors.New("unsupported lock period")

// ErrSettlementFailed indicates the settlement network rejected the transfer.
// No ledger side effect has occurred when this is returned.
var ErrSettlementFailed = errors.New("settlement failed")

// ErrSettlementUnconfirmed indicates the settlement outcome is unknown (timeout or
// ambiguous response). The caller must re-check settlement status before retrying;
// a blind retry risks a double transfer.
var ErrSettlementUnconfirmed = errors.New("settlement outcome unconfirmed")

// SettlementIntent names the ledger write that a confirmed settlement is waiting on.
type SettlementIntent string

const (
	IntentCreate   SettlementIntent = "CREATE"
	IntentWithdraw SettlementIntent = "WITHDRAW"
)

// SettledButNotRecordedError reports that funds moved on the settlement network but
// the corresponding ledger write failed. It carries the settlement reference and the
// intended write so that reconciliation can complete the ledger update later.
type SettledButNotRecordedError struct {
	Intent        SettlementIntent
	AccountID     string
	SettlementRef string
	Err           error
}

func (e *SettledButNotRecordedError) Error() string {
	return fmt.Sprintf("settled but not recorded (intent=%s, account=%s, ref=%s): %v",
		e.Intent, e.AccountID, e.SettlementRef, e.Err)
}

func (e *SettledButNotRecordedError) Unwrap() error {
	return e.Err
}
