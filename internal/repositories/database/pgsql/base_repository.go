package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides the shared connection pool for all repositories.
// Both ledger mutations (the append-only insert and the conditional withdrawal
// update) are single statements, so no repository needs explicit transactions.
type BaseRepository struct {
	Pool *pgxpool.Pool
}
