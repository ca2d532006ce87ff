package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/stelvault/timelock_app/internal/apperrors"
	"github.com/stelvault/timelock_app/internal/core/domain"
	portssvc "github.com/stelvault/timelock_app/internal/core/ports/services"
	"github.com/stelvault/timelock_app/internal/core/services"
)

type WithdrawalServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockJournalRepo *MockSettlementJournalRepository
	mockSettlement  *MockSettlementClient
	service         portssvc.WithdrawalSvcFacade
	ctx             context.Context
	now             time.Time
}

func (s *WithdrawalServiceTestSuite) SetupTest() {
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockJournalRepo = new(MockSettlementJournalRepository)
	s.mockSettlement = new(MockSettlementClient)
	s.now = time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	s.service = services.NewWithdrawalService(
		s.mockAccountRepo,
		s.mockJournalRepo,
		s.mockSettlement,
		services.WithWithdrawalClock(func() time.Time { return s.now }),
	)
	s.ctx = context.Background()
}

func (s *WithdrawalServiceTestSuite) lockedAccount(unlockAt time.Time) *domain.TimeLockAccount {
	return &domain.TimeLockAccount{
		AccountID:      "acc-1",
		OwnerAddress:   "GOWNER",
		Principal:      decimal.RequireFromString("100"),
		LockPeriodDays: 30,
		InterestAmount: decimal.RequireFromString("5"),
		Status:         domain.StatusLocked,
		SettlementRef:  "tx-lock-1",
		UnlockAt:       unlockAt,
	}
}

func (s *WithdrawalServiceTestSuite) TestWithdrawSuccessPaysPrincipalPlusInterest() {
	account := s.lockedAccount(s.now.Add(-time.Hour))

	s.mockAccountRepo.On("FindAccountByID", s.ctx, "acc-1").Return(account, nil).Once()
	s.mockSettlement.On("SubmitPayout", s.ctx, "GOWNER", mock.MatchedBy(func(amount decimal.Decimal) bool {
		return amount.Equal(decimal.RequireFromString("105"))
	})).Return("tx-payout-1", nil).Once()

	withdrawn := *account
	withdrawn.Status = domain.StatusWithdrawn
	withdrawn.WithdrawalSettlementRef = "tx-payout-1"
	withdrawn.WithdrawnAt = &s.now
	s.mockAccountRepo.On("MarkWithdrawn", s.ctx, "acc-1", "tx-payout-1", s.now).Return(&withdrawn, nil).Once()

	updated, err := s.service.Withdraw(s.ctx, "acc-1")

	s.Require().NoError(err)
	s.Equal(domain.StatusWithdrawn, updated.Status)
	s.Equal("tx-payout-1", updated.WithdrawalSettlementRef)
	s.mockSettlement.AssertExpectations(s.T())
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *WithdrawalServiceTestSuite) TestWithdrawAtExactUnlockInstant() {
	account := s.lockedAccount(s.now)

	s.mockAccountRepo.On("FindAccountByID", s.ctx, "acc-1").Return(account, nil).Once()
	s.mockSettlement.On("SubmitPayout", s.ctx, "GOWNER", mock.Anything).Return("tx-payout-2", nil).Once()
	s.mockAccountRepo.On("MarkWithdrawn", s.ctx, "acc-1", "tx-payout-2", s.now).
		Return(&domain.TimeLockAccount{AccountID: "acc-1", Status: domain.StatusWithdrawn}, nil).Once()

	_, err := s.service.Withdraw(s.ctx, "acc-1")

	s.NoError(err)
}

func (s *WithdrawalServiceTestSuite) TestWithdrawBeforeMaturityRejected() {
	account := s.lockedAccount(s.now.Add(time.Hour))

	s.mockAccountRepo.On("FindAccountByID", s.ctx, "acc-1").Return(account, nil).Once()

	_, err := s.service.Withdraw(s.ctx, "acc-1")

	s.ErrorIs(err, apperrors.ErrNotMatured)
	s.mockSettlement.AssertNotCalled(s.T(), "SubmitPayout", mock.Anything, mock.Anything, mock.Anything)
	s.mockAccountRepo.AssertNotCalled(s.T(), "MarkWithdrawn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *WithdrawalServiceTestSuite) TestWithdrawAlreadyWithdrawnRejected() {
	account := s.lockedAccount(s.now.Add(-time.Hour))
	account.Status = domain.StatusWithdrawn
	account.WithdrawalSettlementRef = "tx-payout-old"

	s.mockAccountRepo.On("FindAccountByID", s.ctx, "acc-1").Return(account, nil).Once()

	_, err := s.service.Withdraw(s.ctx, "acc-1")

	s.ErrorIs(err, apperrors.ErrAlreadyWithdrawn)
	s.mockSettlement.AssertNotCalled(s.T(), "SubmitPayout", mock.Anything, mock.Anything, mock.Anything)
}

func (s *WithdrawalServiceTestSuite) TestWithdrawNotFound() {
	s.mockAccountRepo.On("FindAccountByID", s.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.Withdraw(s.ctx, "missing")

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *WithdrawalServiceTestSuite) TestWithdrawPayoutFailureLeavesAccountLocked() {
	account := s.lockedAccount(s.now.Add(-time.Hour))

	s.mockAccountRepo.On("FindAccountByID", s.ctx, "acc-1").Return(account, nil).Once()
	s.mockSettlement.On("SubmitPayout", s.ctx, "GOWNER", mock.Anything).
		Return("", apperrors.ErrSettlementFailed).Once()

	_, err := s.service.Withdraw(s.ctx, "acc-1")

	s.ErrorIs(err, apperrors.ErrSettlementFailed)
	s.mockAccountRepo.AssertNotCalled(s.T(), "MarkWithdrawn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SavePending", mock.Anything, mock.Anything)
}

func (s *WithdrawalServiceTestSuite) TestWithdrawMarkFailureJournalsIntent() {
	account := s.lockedAccount(s.now.Add(-time.Hour))
	dbErr := errors.New("connection reset")

	s.mockAccountRepo.On("FindAccountByID", s.ctx, "acc-1").Return(account, nil).Once()
	s.mockSettlement.On("SubmitPayout", s.ctx, "GOWNER", mock.Anything).Return("tx-payout-3", nil).Once()
	s.mockAccountRepo.On("MarkWithdrawn", s.ctx, "acc-1", "tx-payout-3", s.now).Return(nil, dbErr).Once()
	s.mockJournalRepo.On("SavePending", s.ctx, mock.MatchedBy(func(p domain.PendingSettlement) bool {
		return p.SettlementRef == "tx-payout-3" &&
			p.Intent == apperrors.IntentWithdraw &&
			p.AccountID == "acc-1"
	})).Return(nil).Once()

	_, err := s.service.Withdraw(s.ctx, "acc-1")

	var snr *apperrors.SettledButNotRecordedError
	s.Require().ErrorAs(err, &snr)
	s.Equal(apperrors.IntentWithdraw, snr.Intent)
	s.Equal("acc-1", snr.AccountID)
	s.Equal("tx-payout-3", snr.SettlementRef)
	s.mockJournalRepo.AssertExpectations(s.T())
}

func TestWithdrawalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WithdrawalServiceTestSuite))
}
