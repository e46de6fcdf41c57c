package player

import "context"

// Catalog is the external esports data source consumed by the marketplace.
// It is read-only; a catalog outage fails the triggering operation instead of
// guessing player data.
type Catalog interface {
	// LookupPlayer returns catalog info for one player. The boolean is false
	// when the player does not exist upstream.
	LookupPlayer(ctx context.Context, playerID string) (CatalogPlayer, bool, error)
	// ListLeaguePlayers returns every purchasable player in the configured
	// competitive league.
	ListLeaguePlayers(ctx context.Context) ([]CatalogPlayer, error)
}
