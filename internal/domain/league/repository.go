package league

import "context"

// Repository describes league membership reads needed by the marketplace.
// League creation and join flows are owned by an upstream service; the
// engine only verifies participation.
type Repository interface {
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	IsMember(ctx context.Context, leagueID, userID string) (bool, error)
	ListMembers(ctx context.Context, leagueID string) ([]Member, error)
}
