package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SettlementClient is the capability boundary to the external settlement network.
// Implementations build, sign and submit transfers and normalize every outcome to
// either a confirmed settlement reference or a typed error:
//
//   - apperrors.ErrSettlementFailed when the network rejected the transfer,
//   - apperrors.ErrSettlementUnconfirmed when the outcome is unknown (timeout).
//
// Signing happens entirely inside the implementation; the core never sees secret
// material, only reference strings.
type SettlementClient interface {
	// SubmitLock transfers the principal into the lock-holding destination and
	// returns the confirmed settlement reference. The unlock time is stamped on the
	// transfer so the lock commitment is visible on the network.
	SubmitLock(ctx context.Context, amount decimal.Decimal, unlockAt time.Time) (string, error)
	// SubmitPayout transfers the payout amount to the destination address and
	// returns the confirmed settlement reference.
	SubmitPayout(ctx context.Context, destination string, amount decimal.Decimal) (string, error)
}
