package ledger

import (
	"context"
	"errors"
)

var (
	// ErrInsufficientFunds is returned by Debit when the balance does not
	// cover the amount. The balance stays unchanged.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAccountExists is returned by Create on a duplicate (user, league)
	// pair.
	ErrAccountExists = errors.New("ledger account already exists")
	// ErrAccountNotFound is returned by Debit and Credit when no account
	// exists for the (user, league) pair.
	ErrAccountNotFound = errors.New("ledger account not found")
)

// Repository owns balance mutation for (user, league) accounts. Debit and
// Credit are atomic per account; concurrent spends on the same account
// serialize and can never drive the balance below zero.
type Repository interface {
	Get(ctx context.Context, userID, leagueID string) (Account, bool, error)
	// Create provisions the account with InitialBalance.
	Create(ctx context.Context, account Account) error
	Debit(ctx context.Context, userID, leagueID string, amount int64) (Account, error)
	Credit(ctx context.Context, userID, leagueID string, amount int64) (Account, error)
	// Delete removes the account when the membership ends.
	Delete(ctx context.Context, userID, leagueID string) error
}
