package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/stelvault/timelock_app/internal/apperrors"
)

// lockRates maps supported lock periods (days) to their annualized rate in percent.
// The schedule is fixed configuration; existing accounts keep the interest that was
// computed for them at creation regardless of later changes here.
var lockRates = map[int]int64{
	30:  5,
	60:  8,
	90:  12,
	180: 18,
}

var oneHundred = decimal.NewFromInt(100)

// RateForPeriod returns the percent rate for a supported lock period.
func RateForPeriod(days int) (decimal.Decimal, error) {
	rate, ok := lockRates[days]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %d days", apperrors.ErrUnsupportedPeriod, days)
	}
	return decimal.NewFromInt(rate), nil
}

// InterestFor computes principal * rate / 100 for a supported lock period.
func InterestFor(principal decimal.Decimal, days int) (decimal.Decimal, error) {
	rate, err := RateForPeriod(days)
	if err != nil {
		return decimal.Zero, err
	}
	return principal.Mul(rate).Div(oneHundred), nil
}

// SupportedPeriods returns the supported lock periods in ascending order.
func SupportedPeriods() []int {
	periods := make([]int, 0, len(lockRates))
	for p := range lockRates {
		periods = append(periods, p)
	}
	sort.Ints(periods)
	return periods
}

// RateScheduleEntry is one row of the lock schedule.
type RateScheduleEntry struct {
	LockPeriodDays int
	RatePercent    decimal.Decimal
}

// RateSchedule returns the full schedule ordered by lock period.
func RateSchedule() []RateScheduleEntry {
	periods := SupportedPeriods()
	entries := make([]RateScheduleEntry, 0, len(periods))
	for _, p := range periods {
		entries = append(entries, RateScheduleEntry{
			LockPeriodDays: p,
			RatePercent:    decimal.NewFromInt(lockRates[p]),
		})
	}
	return entries
}
