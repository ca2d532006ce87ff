package services

import (
	"time"

	portsrepo "github.com/stelvault/timelock_app/internal/core/ports/repositories"
	portssvc "github.com/stelvault/timelock_app/internal/core/ports/services"
)

// NewContainer creates the service container with properly initialized dependencies.
// The reconciler is returned separately because it has a lifecycle (Start) rather
// than a request-scoped API.
func NewContainer(
	repos *portsrepo.RepositoryProvider,
	settlement portssvc.SettlementClient,
	reconcileInterval time.Duration,
) (*portssvc.ServiceContainer, *ReconcilerService) {
	container := &portssvc.ServiceContainer{
		Account:    NewAccountService(repos.AccountRepo, repos.SettlementJournalRepo, settlement),
		Withdrawal: NewWithdrawalService(repos.AccountRepo, repos.SettlementJournalRepo, settlement),
		Stats:      NewStatsService(repos.AccountRepo),
	}
	reconciler := NewReconcilerService(repos.AccountRepo, repos.SettlementJournalRepo, reconcileInterval)
	return container, reconciler
}
