package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stelvault/timelock_app/internal/core/domain"
)

// AccountReader defines read-only access to the account ledger.
type AccountReader interface {
	// FindAccountByID returns the account or apperrors.ErrNotFound.
	FindAccountByID(ctx context.Context, accountID string) (*domain.TimeLockAccount, error)
	// ListAccounts returns all accounts, newest first.
	ListAccounts(ctx context.Context) ([]domain.TimeLockAccount, error)
	// ListAccountsByOwner returns the owner's accounts, newest first.
	ListAccountsByOwner(ctx context.Context, ownerAddress string) ([]domain.TimeLockAccount, error)
}

// AccountWriter defines the two mutations the ledger supports: append-only insert
// and the single Locked -> Withdrawn transition.
type AccountWriter interface {
	// InsertAccount validates the record, assigns AccountID, persists it with
	// status Locked and returns the stored record. CreatedAt and UnlockAt are
	// stored as supplied when set (the lock window of an already settled
	// commitment must not shift on replay) and derived from the current time when
	// zero. Fails with apperrors.ErrValidation on bad input and
	// apperrors.ErrDuplicate if a record with the same settlement reference
	// already exists.
	InsertAccount(ctx context.Context, account domain.TimeLockAccount) (*domain.TimeLockAccount, error)
	// MarkWithdrawn executes the Locked -> Withdrawn transition as a single
	// conditional update keyed on the current status; the store is the sole arbiter
	// among concurrent attempts. Retrying with the withdrawal reference already
	// recorded on the row is a no-op success, so reconciliation replays converge.
	// Fails with apperrors.ErrNotFound, ErrAlreadyWithdrawn or ErrNotMatured.
	MarkWithdrawn(ctx context.Context, accountID, withdrawalRef string, now time.Time) (*domain.TimeLockAccount, error)
}

// AccountAggregator defines the rollup queries used by the stats service.
// All sums return zero on an empty ledger.
type AccountAggregator interface {
	CountAccounts(ctx context.Context) (int64, error)
	CountAccountsByStatus(ctx context.Context, status domain.AccountStatus) (int64, error)
	SumPrincipalByStatus(ctx context.Context, status domain.AccountStatus) (decimal.Decimal, error)
	SumInterest(ctx context.Context) (decimal.Decimal, error)
}

// AccountRepositoryFacade combines all account repository capabilities.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountAggregator
}
