package domain

import "github.com/shopspring/decimal"

// LedgerStats is a read-only rollup over the account ledger.
// TotalInterestCommitted covers every record, locked or withdrawn: it is the total
// interest ever promised, not the interest still owed.
type LedgerStats struct {
	TotalAccounts          int64
	ActiveAccounts         int64
	TotalLocked            decimal.Decimal
	TotalInterestCommitted decimal.Decimal
}
