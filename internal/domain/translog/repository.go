package translog

import "context"

// Repository is the append-only store behind the transaction history view.
type Repository interface {
	Append(ctx context.Context, t Transaction) error
	ListByLeague(ctx context.Context, leagueID string) ([]Transaction, error)
}
