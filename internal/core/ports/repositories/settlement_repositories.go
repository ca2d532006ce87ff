package repositories

import (
	"context"

	"github.com/stelvault/timelock_app/internal/core/domain"
)

// SettlementJournalRepository persists confirmed settlements whose ledger write is
// still pending. Saving the same settlement reference twice is a no-op; the journal
// must never lose an entry until its ledger write has been completed.
type SettlementJournalRepository interface {
	SavePending(ctx context.Context, pending domain.PendingSettlement) error
	ListPending(ctx context.Context, limit int) ([]domain.PendingSettlement, error)
	RecordAttempt(ctx context.Context, settlementRef string) error
	DeletePending(ctx context.Context, settlementRef string) error
}
