package services

import (
	"context"

	"github.com/stelvault/timelock_app/internal/core/domain"
	portsrepo "github.com/stelvault/timelock_app/internal/core/ports/repositories"
	portssvc "github.com/stelvault/timelock_app/internal/core/ports/services"
)

// statsServiceImpl implements the StatsSvcFacade interface. Read-only: it never
// mutates ledger state.
type statsServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountAggregator
}

// NewStatsService creates a new stats service over the given aggregator.
func NewStatsService(accountRepo portsrepo.AccountAggregator) portssvc.StatsSvcFacade {
	return &statsServiceImpl{accountRepo: accountRepo}
}

// Ensure statsServiceImpl implements the StatsSvcFacade interface
var _ portssvc.StatsSvcFacade = (*statsServiceImpl)(nil)

// GetStats returns ledger rollups. An empty ledger yields zeros, not an error.
func (s *statsServiceImpl) GetStats(ctx context.Context) (*domain.LedgerStats, error) {
	total, err := s.accountRepo.CountAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to count accounts")
		return nil, err
	}

	active, err := s.accountRepo.CountAccountsByStatus(ctx, domain.StatusLocked)
	if err != nil {
		s.LogError(ctx, err, "Failed to count active accounts")
		return nil, err
	}

	totalLocked, err := s.accountRepo.SumPrincipalByStatus(ctx, domain.StatusLocked)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum locked principal")
		return nil, err
	}

	totalInterest, err := s.accountRepo.SumInterest(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum interest")
		return nil, err
	}

	return &domain.LedgerStats{
		TotalAccounts:          total,
		ActiveAccounts:         active,
		TotalLocked:            totalLocked,
		TotalInterestCommitted: totalInterest,
	}, nil
}
