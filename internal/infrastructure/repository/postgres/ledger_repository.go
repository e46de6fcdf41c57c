package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/ledger"
)

type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

type accountRow struct {
	UserID   string    `db:"user_id"`
	LeagueID string    `db:"league_id"`
	Balance  int64     `db:"balance"`
	JoinedAt time.Time `db:"joined_at"`
}

func (row accountRow) toDomain() ledger.Account {
	return ledger.Account{
		UserID:   row.UserID,
		LeagueID: row.LeagueID,
		Balance:  row.Balance,
		JoinedAt: row.JoinedAt,
	}
}

func (r *LedgerRepository) Get(ctx context.Context, userID, leagueID string) (ledger.Account, bool, error) {
	const query = `
SELECT user_id, league_id, balance, joined_at
FROM accounts
WHERE user_id = $1
  AND league_id = $2`

	var row accountRow
	if err := r.db.GetContext(ctx, &row, query, userID, leagueID); err != nil {
		if isNotFound(err) {
			return ledger.Account{}, false, nil
		}
		return ledger.Account{}, false, fmt.Errorf("get account: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *LedgerRepository) Create(ctx context.Context, account ledger.Account) error {
	const query = `
INSERT INTO accounts (user_id, league_id, balance, joined_at)
VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, account.UserID, account.LeagueID, account.Balance, account.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrAccountExists
		}
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

// Debit subtracts amount with the balance guard in the statement itself, so
// concurrent spends on the same account serialize on the row and the balance
// can never go negative.
func (r *LedgerRepository) Debit(ctx context.Context, userID, leagueID string, amount int64) (ledger.Account, error) {
	const query = `
UPDATE accounts
SET balance = balance - $3
WHERE user_id = $1
  AND league_id = $2
  AND balance >= $3
RETURNING user_id, league_id, balance, joined_at`

	var row accountRow
	if err := r.db.GetContext(ctx, &row, query, userID, leagueID, amount); err != nil {
		if isNotFound(err) {
			return r.classifyDebitMiss(ctx, userID, leagueID)
		}
		return ledger.Account{}, fmt.Errorf("debit account: %w", err)
	}

	return row.toDomain(), nil
}

func (r *LedgerRepository) Credit(ctx context.Context, userID, leagueID string, amount int64) (ledger.Account, error) {
	const query = `
UPDATE accounts
SET balance = balance + $3
WHERE user_id = $1
  AND league_id = $2
RETURNING user_id, league_id, balance, joined_at`

	var row accountRow
	if err := r.db.GetContext(ctx, &row, query, userID, leagueID, amount); err != nil {
		if isNotFound(err) {
			return ledger.Account{}, ledger.ErrAccountNotFound
		}
		return ledger.Account{}, fmt.Errorf("credit account: %w", err)
	}

	return row.toDomain(), nil
}

func (r *LedgerRepository) Delete(ctx context.Context, userID, leagueID string) error {
	const query = `
DELETE FROM accounts
WHERE user_id = $1
  AND league_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, leagueID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	return nil
}

// classifyDebitMiss tells a missing account apart from one that exists but
// cannot cover the amount. The guarded UPDATE matches neither.
func (r *LedgerRepository) classifyDebitMiss(ctx context.Context, userID, leagueID string) (ledger.Account, error) {
	_, found, err := r.Get(ctx, userID, leagueID)
	if err != nil {
		return ledger.Account{}, err
	}
	if !found {
		return ledger.Account{}, ledger.ErrAccountNotFound
	}
	return ledger.Account{}, ledger.ErrInsufficientFunds
}
