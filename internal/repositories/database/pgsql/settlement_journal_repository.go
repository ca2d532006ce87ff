package pgsql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stelvault/timelock_app/internal/apperrors"
	"github.com/stelvault/timelock_app/internal/core/domain"
	portsrepo "github.com/stelvault/timelock_app/internal/core/ports/repositories"
	"github.com/stelvault/timelock_app/internal/models"
)

type PgxSettlementJournalRepository struct {
	BaseRepository
}

// newPgxSettlementJournalRepository creates a new repository for pending settlements.
func newPgxSettlementJournalRepository(pool *pgxpool.Pool) portsrepo.SettlementJournalRepository {
	return &PgxSettlementJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxSettlementJournalRepository implements the port
var _ portsrepo.SettlementJournalRepository = (*PgxSettlementJournalRepository)(nil)

// SavePending records a settlement awaiting its ledger write. Saving the same
// settlement reference twice is a no-op so that both the request path and a retry
// can journal the same intent safely.
func (r *PgxSettlementJournalRepository) SavePending(ctx context.Context, pending domain.PendingSettlement) error {
	query := `
		INSERT INTO pending_settlements (settlement_ref, intent, account_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (settlement_ref) DO NOTHING;
	`
	var accountID sql.NullString
	if pending.AccountID != "" {
		accountID = sql.NullString{String: pending.AccountID, Valid: true}
	}

	createdAt := pending.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.Pool.Exec(ctx, query,
		pending.SettlementRef,
		string(pending.Intent),
		accountID,
		pending.Payload,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save pending settlement %s: %w", pending.SettlementRef, err)
	}
	return nil
}

// ListPending returns the oldest pending settlements, up to limit.
func (r *PgxSettlementJournalRepository) ListPending(ctx context.Context, limit int) ([]domain.PendingSettlement, error) {
	query := `
		SELECT settlement_ref, intent, account_id, payload, attempts, created_at
		FROM pending_settlements
		ORDER BY created_at
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending settlements: %w", err)
	}
	defer rows.Close()

	var pending []domain.PendingSettlement
	for rows.Next() {
		var m models.PendingSettlement
		var accountID sql.NullString
		if err := rows.Scan(&m.SettlementRef, &m.Intent, &accountID, &m.Payload, &m.Attempts, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending settlement row: %w", err)
		}
		if accountID.Valid {
			m.AccountID = accountID.String
		}
		pending = append(pending, domain.PendingSettlement{
			SettlementRef: m.SettlementRef,
			Intent:        apperrors.SettlementIntent(m.Intent),
			AccountID:     m.AccountID,
			Payload:       m.Payload,
			Attempts:      m.Attempts,
			CreatedAt:     m.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending settlement rows: %w", err)
	}
	return pending, nil
}

// RecordAttempt increments the replay counter for a pending settlement.
func (r *PgxSettlementJournalRepository) RecordAttempt(ctx context.Context, settlementRef string) error {
	_, err := r.Pool.Exec(ctx,
		`UPDATE pending_settlements SET attempts = attempts + 1 WHERE settlement_ref = $1;`,
		settlementRef,
	)
	if err != nil {
		return fmt.Errorf("failed to record attempt for %s: %w", settlementRef, err)
	}
	return nil
}

// DeletePending removes a journal entry once its ledger write has completed.
func (r *PgxSettlementJournalRepository) DeletePending(ctx context.Context, settlementRef string) error {
	_, err := r.Pool.Exec(ctx,
		`DELETE FROM pending_settlements WHERE settlement_ref = $1;`,
		settlementRef,
	)
	if err != nil {
		return fmt.Errorf("failed to delete pending settlement %s: %w", settlementRef, err)
	}
	return nil
}
