package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stelvault/timelock_app/internal/apperrors"
	"github.com/stelvault/timelock_app/internal/core/domain"
	portsrepo "github.com/stelvault/timelock_app/internal/core/ports/repositories"
	"github.com/stelvault/timelock_app/internal/models"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for time-lock account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, owner_address, principal, lock_period_days, interest_amount, status, lock_tx_hash, withdrawal_tx_hash, withdrawn_at, created_at, unlock_at`

// Helper to convert models.TimeLockAccount from DB to domain.TimeLockAccount
func toDomainAccount(m models.TimeLockAccount) domain.TimeLockAccount {
	return domain.TimeLockAccount{
		AccountID:               m.AccountID,
		OwnerAddress:            m.OwnerAddress,
		Principal:               m.Principal,
		LockPeriodDays:          m.LockPeriodDays,
		InterestAmount:          m.InterestAmount,
		Status:                  domain.AccountStatus(m.Status),
		SettlementRef:           m.LockTxHash,
		WithdrawalSettlementRef: m.WithdrawalTxHash,
		CreatedAt:               m.CreatedAt,
		UnlockAt:                m.UnlockAt,
		WithdrawnAt:             m.WithdrawnAt,
	}
}

func scanAccount(row pgx.Row) (*domain.TimeLockAccount, error) {
	var m models.TimeLockAccount
	var withdrawalTxHash sql.NullString
	err := row.Scan(
		&m.AccountID,
		&m.OwnerAddress,
		&m.Principal,
		&m.LockPeriodDays,
		&m.InterestAmount,
		&m.Status,
		&m.LockTxHash,
		&withdrawalTxHash,
		&m.WithdrawnAt,
		&m.CreatedAt,
		&m.UnlockAt,
	)
	if err != nil {
		return nil, err
	}
	if withdrawalTxHash.Valid {
		m.WithdrawalTxHash = withdrawalTxHash.String
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// InsertAccount validates the record, assigns identity, and persists it with
// status Locked. A caller that already committed to a lock window (the settled
// transfer carries the unlock time) supplies CreatedAt/UnlockAt and they are
// stored as-is; otherwise the window starts now. Records are append-only:
// nothing here is ever updated again except the single withdrawal transition in
// MarkWithdrawn.
func (r *PgxAccountRepository) InsertAccount(ctx context.Context, account domain.TimeLockAccount) (*domain.TimeLockAccount, error) {
	if account.OwnerAddress == "" {
		return nil, fmt.Errorf("%w: owner address is required", apperrors.ErrValidation)
	}
	if !account.Principal.IsPositive() {
		return nil, fmt.Errorf("%w: principal must be positive", apperrors.ErrValidation)
	}
	if account.SettlementRef == "" {
		return nil, fmt.Errorf("%w: settlement reference is required", apperrors.ErrValidation)
	}

	account.AccountID = uuid.NewString()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	if account.UnlockAt.IsZero() {
		account.UnlockAt = account.CreatedAt.AddDate(0, 0, account.LockPeriodDays)
	}
	account.Status = domain.StatusLocked

	query := `
		INSERT INTO timelock_accounts (account_id, owner_address, principal, lock_period_days, interest_amount, status, lock_tx_hash, created_at, unlock_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.OwnerAddress,
		account.Principal,
		account.LockPeriodDays,
		account.InterestAmount,
		string(account.Status),
		account.SettlementRef,
		account.CreatedAt,
		account.UnlockAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			// The lock transaction hash is unique, so replaying a create intent
			// for an already-recorded settlement surfaces as a duplicate.
			return nil, fmt.Errorf("%w: settlement %s already recorded", apperrors.ErrDuplicate, account.SettlementRef)
		}
		return nil, fmt.Errorf("failed to insert account %s: %w", account.AccountID, err)
	}
	return &account, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.TimeLockAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM timelock_accounts
		WHERE account_id = $1;
	`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return acc, nil
}

// ListAccounts retrieves all accounts, newest first.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.TimeLockAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM timelock_accounts
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// ListAccountsByOwner retrieves the accounts of a single owner, newest first.
func (r *PgxAccountRepository) ListAccountsByOwner(ctx context.Context, ownerAddress string) ([]domain.TimeLockAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM timelock_accounts
		WHERE owner_address = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, ownerAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for owner %s: %w", ownerAddress, err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func collectAccounts(rows pgx.Rows) ([]domain.TimeLockAccount, error) {
	accounts := []domain.TimeLockAccount{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// MarkWithdrawn flips a matured Locked account to Withdrawn in one conditional
// update. The WHERE clause carries the status and maturity checks so that among
// concurrent attempts exactly one update wins; the losers are diagnosed after the
// fact from the current row state.
func (r *PgxAccountRepository) MarkWithdrawn(ctx context.Context, accountID, withdrawalRef string, now time.Time) (*domain.TimeLockAccount, error) {
	if withdrawalRef == "" {
		return nil, fmt.Errorf("%w: withdrawal settlement reference is required", apperrors.ErrValidation)
	}

	query := `
		UPDATE timelock_accounts
		SET status = $2, withdrawal_tx_hash = $3, withdrawn_at = $4
		WHERE account_id = $1 AND status = $5 AND unlock_at <= $4
		RETURNING ` + accountColumns + `;
	`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query,
		accountID,
		string(domain.StatusWithdrawn),
		withdrawalRef,
		now,
		string(domain.StatusLocked),
	))
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to mark account %s withdrawn: %w", accountID, err)
	}

	// The conditional update matched nothing; fetch the row to tell the caller why.
	current, ferr := r.FindAccountByID(ctx, accountID)
	if ferr != nil {
		return nil, ferr
	}
	if current.Status == domain.StatusWithdrawn {
		if current.WithdrawalSettlementRef == withdrawalRef {
			// Reconciliation replay with the reference that already won: idempotent.
			return current, nil
		}
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrAlreadyWithdrawn, accountID)
	}
	return nil, fmt.Errorf("%w: account %s unlocks at %s", apperrors.ErrNotMatured, accountID, current.UnlockAt.Format(time.RFC3339))
}

// CountAccounts returns the total number of ledger records.
func (r *PgxAccountRepository) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM timelock_accounts;`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// CountAccountsByStatus returns the number of records in the given status.
func (r *PgxAccountRepository) CountAccountsByStatus(ctx context.Context, status domain.AccountStatus) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM timelock_accounts WHERE status = $1;`,
		string(status),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts by status %s: %w", status, err)
	}
	return count, nil
}

// SumPrincipalByStatus returns the summed principal over records in the given
// status, zero when there are none.
func (r *PgxAccountRepository) SumPrincipalByStatus(ctx context.Context, status domain.AccountStatus) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(principal), 0) FROM timelock_accounts WHERE status = $1;`,
		string(status),
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum principal by status %s: %w", status, err)
	}
	return sum, nil
}

// SumInterest returns the summed interest over all records, zero when there are none.
func (r *PgxAccountRepository) SumInterest(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(interest_amount), 0) FROM timelock_accounts;`,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum interest: %w", err)
	}
	return sum, nil
}
