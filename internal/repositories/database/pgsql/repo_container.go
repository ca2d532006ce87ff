package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/stelvault/timelock_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:           newPgxAccountRepository(dbPool),
		SettlementJournalRepo: newPgxSettlementJournalRepository(dbPool),
	}
}
