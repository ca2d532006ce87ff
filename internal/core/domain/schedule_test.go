package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stelvault/timelock_app/internal/apperrors"
	"github.com/stelvault/timelock_app/internal/core/domain"
)

func TestRateForPeriod(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		wantRate string
		wantErr  error
	}{
		{name: "30 days", days: 30, wantRate: "5"},
		{name: "60 days", days: 60, wantRate: "8"},
		{name: "90 days", days: 90, wantRate: "12"},
		{name: "180 days", days: 180, wantRate: "18"},
		{name: "unsupported 45 days", days: 45, wantErr: apperrors.ErrUnsupportedPeriod},
		{name: "unsupported zero", days: 0, wantErr: apperrors.ErrUnsupportedPeriod},
		{name: "unsupported negative", days: -30, wantErr: apperrors.ErrUnsupportedPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := domain.RateForPeriod(tt.days)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, rate.Equal(decimal.RequireFromString(tt.wantRate)), "got %s", rate)
		})
	}
}

func TestInterestFor(t *testing.T) {
	tests := []struct {
		name         string
		principal    string
		days         int
		wantInterest string
	}{
		{name: "100 for 30 days", principal: "100", days: 30, wantInterest: "5"},
		{name: "100 for 60 days", principal: "100", days: 60, wantInterest: "8"},
		{name: "100 for 90 days", principal: "100", days: 90, wantInterest: "12"},
		{name: "100 for 180 days", principal: "100", days: 180, wantInterest: "18"},
		{name: "fractional principal", principal: "250.5", days: 30, wantInterest: "12.525"},
		{name: "sub-stroop precision kept", principal: "0.0000001", days: 90, wantInterest: "0.000000012"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.InterestFor(decimal.RequireFromString(tt.principal), tt.days)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.wantInterest)), "got %s", got)
		})
	}

	t.Run("unsupported period", func(t *testing.T) {
		_, err := domain.InterestFor(decimal.NewFromInt(100), 7)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedPeriod)
	})
}

func TestSupportedPeriods(t *testing.T) {
	assert.Equal(t, []int{30, 60, 90, 180}, domain.SupportedPeriods())
}

func TestRateSchedule(t *testing.T) {
	schedule := domain.RateSchedule()
	require.Len(t, schedule, 4)

	for i, period := range domain.SupportedPeriods() {
		assert.Equal(t, period, schedule[i].LockPeriodDays)
		rate, err := domain.RateForPeriod(period)
		require.NoError(t, err)
		assert.True(t, schedule[i].RatePercent.Equal(rate))
	}
}

func TestTimeLockAccountPayoutAmount(t *testing.T) {
	account := domain.TimeLockAccount{
		Principal:      decimal.RequireFromString("100"),
		InterestAmount: decimal.RequireFromString("5"),
	}
	assert.True(t, account.PayoutAmount().Equal(decimal.RequireFromString("105")))
}

func TestTimeLockAccountMatured(t *testing.T) {
	unlockAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	account := domain.TimeLockAccount{UnlockAt: unlockAt}

	assert.False(t, account.Matured(unlockAt.Add(-time.Second)))
	assert.True(t, account.Matured(unlockAt), "exactly at unlock is matured")
	assert.True(t, account.Matured(unlockAt.Add(time.Second)))
}
