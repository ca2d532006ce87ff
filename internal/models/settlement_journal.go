package models

import "time"

// PendingSettlement is the database representation of a settlement whose ledger
// write has not completed yet.
type PendingSettlement struct {
	SettlementRef string    `db:"settlement_ref"`
	Intent        string    `db:"intent"`
	AccountID     string    `db:"account_id"` // Nullable, withdraw intents only
	Payload       []byte    `db:"payload"`    // Nullable, create intents only
	Attempts      int       `db:"attempts"`
	CreatedAt     time.Time `db:"created_at"`
}
