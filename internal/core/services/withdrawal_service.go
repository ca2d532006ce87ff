package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stelvault/timelock_app/internal/apperrors"
	"github.com/stelvault/timelock_app/internal/core/domain"
	portsrepo "github.com/stelvault/timelock_app/internal/core/ports/repositories"
	portssvc "github.com/stelvault/timelock_app/internal/core/ports/services"
)

// withdrawalServiceImpl implements the WithdrawalSvcFacade interface.
// It sequences "settle first, record second": the payout must confirm on the
// settlement network before the ledger flips the account to Withdrawn, and a
// confirmed payout whose ledger write fails is journaled, never dropped.
type withdrawalServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.SettlementJournalRepository
	settlement  portssvc.SettlementClient
	now         func() time.Time
}

// WithdrawalServiceOption is a functional option for configuring the withdrawal service
type WithdrawalServiceOption func(*withdrawalServiceImpl)

// WithWithdrawalClock overrides the clock, used by tests.
func WithWithdrawalClock(now func() time.Time) WithdrawalServiceOption {
	return func(s *withdrawalServiceImpl) {
		s.now = now
	}
}

// NewWithdrawalService creates a new withdrawal service with the provided dependencies
func NewWithdrawalService(
	accountRepo portsrepo.AccountRepositoryFacade,
	journalRepo portsrepo.SettlementJournalRepository,
	settlement portssvc.SettlementClient,
	options ...WithdrawalServiceOption,
) portssvc.WithdrawalSvcFacade {
	svc := &withdrawalServiceImpl{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		settlement:  settlement,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure withdrawalServiceImpl implements the WithdrawalSvcFacade interface
var _ portssvc.WithdrawalSvcFacade = (*withdrawalServiceImpl)(nil)

// Withdraw pays out principal + interest for a matured account and flips it to
// Withdrawn. The pre-checks reject doomed requests before any funds move; the
// atomic MarkWithdrawn is the sole arbiter among concurrent attempts.
func (s *withdrawalServiceImpl) Withdraw(ctx context.Context, accountID string) (*domain.TimeLockAccount, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load account for withdrawal", slog.String("account_id", accountID))
		}
		return nil, err
	}

	now := s.now()
	if account.Status == domain.StatusWithdrawn {
		s.LogWarn(ctx, "Withdrawal rejected: already withdrawn", slog.String("account_id", accountID))
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrAlreadyWithdrawn, accountID)
	}
	if !account.Matured(now) {
		s.LogWarn(ctx, "Withdrawal rejected: not matured",
			slog.String("account_id", accountID),
			slog.Time("unlock_at", account.UnlockAt))
		return nil, fmt.Errorf("%w: account %s unlocks at %s", apperrors.ErrNotMatured, accountID, account.UnlockAt.Format(time.RFC3339))
	}

	// Payout is always principal + interest, summed at payout time.
	payout := account.PayoutAmount()

	settlementRef, err := s.settlement.SubmitPayout(ctx, account.OwnerAddress, payout)
	if err != nil {
		s.LogError(ctx, err, "Payout settlement did not confirm",
			slog.String("account_id", accountID),
			slog.String("payout", payout.String()))
		return nil, err
	}

	updated, err := s.accountRepo.MarkWithdrawn(ctx, accountID, settlementRef, now)
	if err != nil {
		// Funds moved but the ledger write failed. Journal the intent so the
		// reconciler can replay MarkWithdrawn with the same reference, which is
		// idempotent, and surface the reference to the caller.
		s.journalWithdrawIntent(ctx, accountID, settlementRef)
		s.LogError(ctx, err, "Settled but not recorded: withdraw",
			slog.String("account_id", accountID),
			slog.String("settlement_ref", settlementRef))
		return nil, &apperrors.SettledButNotRecordedError{
			Intent:        apperrors.IntentWithdraw,
			AccountID:     accountID,
			SettlementRef: settlementRef,
			Err:           err,
		}
	}

	s.LogInfo(ctx, "Account withdrawn",
		slog.String("account_id", accountID),
		slog.String("payout", payout.String()),
		slog.String("settlement_ref", settlementRef))
	return updated, nil
}

func (s *withdrawalServiceImpl) journalWithdrawIntent(ctx context.Context, accountID, settlementRef string) {
	if err := s.journalRepo.SavePending(ctx, domain.PendingSettlement{
		SettlementRef: settlementRef,
		Intent:        apperrors.IntentWithdraw,
		AccountID:     accountID,
	}); err != nil {
		s.LogError(ctx, err, "Failed to journal withdraw intent",
			slog.String("account_id", accountID),
			slog.String("settlement_ref", settlementRef))
	}
}
