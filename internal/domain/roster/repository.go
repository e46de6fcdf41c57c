package roster

import (
	"context"
	"errors"
)

// ErrAlreadyAssigned is returned by Assign when the player already has an
// owner in the league.
var ErrAlreadyAssigned = errors.New("player already assigned in league")

// Repository exposes ownership registry reads and writes. Assign and Revoke
// are building blocks; multi-resource transfers go through market.Store so
// ledger and ownership change as one unit.
type Repository interface {
	// Owner returns the active binding for (playerID, leagueID), if any.
	Owner(ctx context.Context, playerID, leagueID string) (Ownership, bool, error)
	// ListByOwner returns every player the user owns in the league.
	ListByOwner(ctx context.Context, userID, leagueID string) ([]Ownership, error)
	// ListByLeague returns every active binding in the league.
	ListByLeague(ctx context.Context, leagueID string) ([]Ownership, error)
	// Assign creates a binding. It fails when the player already has an
	// owner in the league.
	Assign(ctx context.Context, o Ownership) error
	// Revoke removes the binding; absent bindings are a no-op.
	Revoke(ctx context.Context, playerID, leagueID string) error
}
