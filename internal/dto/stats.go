package dto

import (
	"github.com/shopspring/decimal"

	"github.com/stelvault/timelock_app/internal/core/domain"
)

// StatsResponse is the aggregate rollup returned by GET /api/stats.
type StatsResponse struct {
	TotalAccounts          int64           `json:"totalAccounts"`
	ActiveAccounts         int64           `json:"activeAccounts"`
	TotalLocked            decimal.Decimal `json:"totalLocked"`
	TotalInterestCommitted decimal.Decimal `json:"totalInterest"`
}

// ToStatsResponse converts domain.LedgerStats to StatsResponse.
func ToStatsResponse(stats *domain.LedgerStats) StatsResponse {
	return StatsResponse{
		TotalAccounts:          stats.TotalAccounts,
		ActiveAccounts:         stats.ActiveAccounts,
		TotalLocked:            stats.TotalLocked,
		TotalInterestCommitted: stats.TotalInterestCommitted,
	}
}

// RateResponse is one row of the supported lock-period schedule.
type RateResponse struct {
	LockPeriodDays int             `json:"lockPeriod"`
	RatePercent    decimal.Decimal `json:"ratePercent"`
}
