package lineup

import "context"

// Repository stores lineup slots. Upsert replaces any existing slot with the
// same (user, league, position, matchday) key.
type Repository interface {
	Upsert(ctx context.Context, s Slot) error
	List(ctx context.Context, userID, leagueID string, matchday int) ([]Slot, error)

	// DeleteByPlayer removes every slot of the user in the league that
	// references the player, across all matchdays. Used when the player
	// leaves the user's roster.
	DeleteByPlayer(ctx context.Context, userID, leagueID, playerID string) error
}
