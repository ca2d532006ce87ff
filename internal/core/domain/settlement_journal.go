package domain

import (
	"time"

	"github.com/stelvault/timelock_app/internal/apperrors"
)

// PendingSettlement records a confirmed settlement whose ledger write has not yet
// succeeded. Rows are keyed by the settlement reference so that replaying one is
// idempotent. The reconciler drains this journal.
type PendingSettlement struct {
	SettlementRef string                     `db:"settlement_ref"`
	Intent        apperrors.SettlementIntent `db:"intent"`
	AccountID     string                     `db:"account_id"` // withdraw intents only
	Payload       []byte                     `db:"payload"`    // create intents: JSON of the record to insert
	Attempts      int                        `db:"attempts"`
	CreatedAt     time.Time                  `db:"created_at"`
}
