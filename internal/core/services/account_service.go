package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stelvault/timelock_app/internal/apperrors"
	"github.com/stelvault/timelock_app/internal/core/domain"
	portsrepo "github.com/stelvault/timelock_app/internal/core/ports/repositories"
	portssvc "github.com/stelvault/timelock_app/internal/core/ports/services"
	"github.com/stelvault/timelock_app/internal/dto"
)

// createPayload is the journaled form of a creation whose settlement confirmed but
// whose ledger insert failed. The reconciler replays it against InsertAccount.
// CreatedAt and UnlockAt are the timestamps of the original attempt: the unlock
// time is already stamped on the settled transfer, so a replay must store exactly
// that window rather than recompute one from the replay clock.
type createPayload struct {
	OwnerAddress   string          `json:"ownerAddress"`
	Principal      decimal.Decimal `json:"principal"`
	LockPeriodDays int             `json:"lockPeriodDays"`
	InterestAmount decimal.Decimal `json:"interestAmount"`
	SettlementRef  string          `json:"settlementRef"`
	CreatedAt      time.Time       `json:"createdAt"`
	UnlockAt       time.Time       `json:"unlockAt"`
}

func (p createPayload) toAccount() domain.TimeLockAccount {
	return domain.TimeLockAccount{
		OwnerAddress:   p.OwnerAddress,
		Principal:      p.Principal,
		LockPeriodDays: p.LockPeriodDays,
		InterestAmount: p.InterestAmount,
		SettlementRef:  p.SettlementRef,
		CreatedAt:      p.CreatedAt,
		UnlockAt:       p.UnlockAt,
	}
}

// accountServiceImpl implements the AccountSvcFacade interface
type accountServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.SettlementJournalRepository
	settlement  portssvc.SettlementClient
	now         func() time.Time
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountServiceImpl)

// WithAccountClock overrides the clock, used by tests.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountServiceImpl) {
		s.now = now
	}
}

// NewAccountService creates a new account service with the provided dependencies
func NewAccountService(
	accountRepo portsrepo.AccountRepositoryFacade,
	journalRepo portsrepo.SettlementJournalRepository,
	settlement portssvc.SettlementClient,
	options ...AccountServiceOption,
) portssvc.AccountSvcFacade {
	svc := &accountServiceImpl{
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

// Ensure accountServiceImpl implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountServiceImpl)(nil)

// CreateTimeLock validates the request, obtains a confirmed settlement reference
// for the inbound lock transfer, and only then inserts the ledger record. A record
// is never created for an unsettled or ambiguous transfer.
func (s *accountServiceImpl) CreateTimeLock(ctx context.Context, req dto.CreateAccountRequest) (*domain.TimeLockAccount, error) {
	// Reject bad input before any settlement attempt.
	if req.OwnerAddress == "" {
		s.LogWarn(ctx, "Create rejected: missing owner address")
		return nil, fmt.Errorf("%w: owner address is required", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		s.LogWarn(ctx, "Create rejected: non-positive amount", slog.String("amount", req.Amount.String()))
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	interest, err := domain.InterestFor(req.Amount, req.LockPeriodDays)
	if err != nil {
		s.LogWarn(ctx, "Create rejected: unsupported lock period", slog.Int("lock_period_days", req.LockPeriodDays))
		return nil, err
	}

	now := s.now()
	unlockAt := now.AddDate(0, 0, req.LockPeriodDays)

	// The browser-wallet flow settles the lock itself and supplies the reference.
	// Otherwise the settlement client moves the funds under the configured signing
	// mode and we proceed only on a confirmed reference.
	settlementRef := req.SettlementRef
	if settlementRef == "" {
		settlementRef, err = s.settlement.SubmitLock(ctx, req.Amount, unlockAt)
		if err != nil {
			s.LogError(ctx, err, "Lock settlement did not confirm",
				slog.String("owner_address", req.OwnerAddress),
				slog.String("amount", req.Amount.String()))
			return nil, err
		}
	}

	// The lock window is fixed here, before settlement: the stored unlock_at must
	// match the unlock time stamped on the settled transfer even if the ledger
	// write only succeeds later through the reconciler.
	account := domain.TimeLockAccount{
		OwnerAddress:   req.OwnerAddress,
		Principal:      req.Amount,
		LockPeriodDays: req.LockPeriodDays,
		InterestAmount: interest,
		SettlementRef:  settlementRef,
		CreatedAt:      now,
		UnlockAt:       unlockAt,
	}

	saved, err := s.accountRepo.InsertAccount(ctx, account)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// The settlement is already recorded; the ledger is consistent.
			return nil, err
		}
		// Funds moved but the ledger write failed: journal the intent so the
		// reconciler can finish the write, and surface the reference to the caller.
		s.journalCreateIntent(ctx, account)
		s.LogError(ctx, err, "Settled but not recorded: create",
			slog.String("settlement_ref", settlementRef),
			slog.String("owner_address", req.OwnerAddress))
		return nil, &apperrors.SettledButNotRecordedError{
			Intent:        apperrors.IntentCreate,
			SettlementRef: settlementRef,
			Err:           err,
		}
	}

	s.LogInfo(ctx, "Time-lock account created",
		slog.String("account_id", saved.AccountID),
		slog.String("owner_address", saved.OwnerAddress),
		slog.String("settlement_ref", saved.SettlementRef))
	return saved, nil
}

func (s *accountServiceImpl) journalCreateIntent(ctx context.Context, account domain.TimeLockAccount) {
	payload, err := json.Marshal(createPayload{
		OwnerAddress:   account.OwnerAddress,
		Principal:      account.Principal,
		LockPeriodDays: account.LockPeriodDays,
		InterestAmount: account.InterestAmount,
		SettlementRef:  account.SettlementRef,
		CreatedAt:      account.CreatedAt,
		UnlockAt:       account.UnlockAt,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to marshal create intent", slog.String("settlement_ref", account.SettlementRef))
		return
	}
	if err := s.journalRepo.SavePending(ctx, domain.PendingSettlement{
		SettlementRef: account.SettlementRef,
		Intent:        apperrors.IntentCreate,
		Payload:       payload,
	}); err != nil {
		// The caller still receives the settlement reference, so recovery remains
		// possible by hand even when journaling fails.
		s.LogError(ctx, err, "Failed to journal create intent", slog.String("settlement_ref", account.SettlementRef))
	}
}

func (s *accountServiceImpl) GetAccountByID(ctx context.Context, accountID string) (*domain.TimeLockAccount, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountServiceImpl) ListAccounts(ctx context.Context) ([]domain.TimeLockAccount, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *accountServiceImpl) ListAccountsByOwner(ctx context.Context, ownerAddress string) ([]domain.TimeLockAccount, error) {
	accounts, err := s.accountRepo.ListAccountsByOwner(ctx, ownerAddress)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts by owner", slog.String("owner_address", ownerAddress))
		return nil, err
	}
	return accounts, nil
}
