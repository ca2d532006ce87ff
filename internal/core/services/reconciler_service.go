package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/stelvault/timelock_app/internal/apperrors"
	"github.com/stelvault/timelock_app/internal/core/domain"
	portsrepo "github.com/stelvault/timelock_app/internal/core/ports/repositories"
)

const pendingBatchSize = 50

// ReconcilerService drains the pending-settlement journal: ledger writes that
// failed after their settlement confirmed are replayed until they stick. Replays
// are idempotent, keyed on the settlement reference, so a sweep can race the
// original request path without producing duplicate ledger state.
type ReconcilerService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.SettlementJournalRepository
	interval    time.Duration
	now         func() time.Time
}

// NewReconcilerService creates a reconciler sweeping at the given interval.
func NewReconcilerService(
	accountRepo portsrepo.AccountRepositoryFacade,
	journalRepo portsrepo.SettlementJournalRepository,
	interval time.Duration,
) *ReconcilerService {
	return &ReconcilerService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		interval:    interval,
		now:         time.Now,
	}
}

// Start launches the background sweep loop. It stops when the context is cancelled.
func (s *ReconcilerService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.ProcessPending(ctx)
			}
		}
	}()
}

// ProcessPending replays one batch of journaled settlements against the ledger.
func (s *ReconcilerService) ProcessPending(ctx context.Context) {
	pending, err := s.journalRepo.ListPending(ctx, pendingBatchSize)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending settlements")
		return
	}

	for _, p := range pending {
		if err := s.journalRepo.RecordAttempt(ctx, p.SettlementRef); err != nil {
			s.LogError(ctx, err, "Failed to record reconciliation attempt", slog.String("settlement_ref", p.SettlementRef))
		}

		backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			if err := s.apply(ctx, p); err != nil {
				if isTerminal(err) {
					return err
				}
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			// The journal row stays in place: a terminal error needs an operator,
			// anything else will be retried on the next sweep.
			s.LogError(ctx, err, "Reconciliation replay failed",
				slog.String("settlement_ref", p.SettlementRef),
				slog.String("intent", string(p.Intent)),
				slog.Int("attempts", p.Attempts+1))
			continue
		}

		if err := s.journalRepo.DeletePending(ctx, p.SettlementRef); err != nil {
			s.LogError(ctx, err, "Failed to delete reconciled settlement", slog.String("settlement_ref", p.SettlementRef))
			continue
		}
		s.LogInfo(ctx, "Pending settlement reconciled",
			slog.String("settlement_ref", p.SettlementRef),
			slog.String("intent", string(p.Intent)))
	}
}

func (s *ReconcilerService) apply(ctx context.Context, p domain.PendingSettlement) error {
	switch p.Intent {
	case apperrors.IntentCreate:
		var payload createPayload
		if err := json.Unmarshal(p.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode create intent %s: %w", p.SettlementRef, err)
		}
		_, err := s.accountRepo.InsertAccount(ctx, payload.toAccount())
		if errors.Is(err, apperrors.ErrDuplicate) {
			// The record made it into the ledger on an earlier attempt.
			return nil
		}
		return err
	case apperrors.IntentWithdraw:
		// MarkWithdrawn with the journaled reference is idempotent: if the flip
		// already happened with this reference it returns the record unchanged.
		_, err := s.accountRepo.MarkWithdrawn(ctx, p.AccountID, p.SettlementRef, s.now())
		return err
	default:
		return fmt.Errorf("unknown settlement intent %q for %s", p.Intent, p.SettlementRef)
	}
}

// isTerminal reports whether a replay error can never succeed on retry and needs
// an operator instead (for example a withdrawal already recorded under a different
// settlement reference).
func isTerminal(err error) bool {
	return errors.Is(err, apperrors.ErrAlreadyWithdrawn) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotMatured)
}
