package offer

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no offer matches the given id.
	ErrNotFound = errors.New("offer: not found")
	// ErrStatusConflict is returned by UpdateStatus when the stored status
	// does not match the expected one, or the transition is not allowed.
	ErrStatusConflict = errors.New("offer: status conflict")
)

// Repository stores offers. UpdateStatus is compare-and-swap on the status
// column so concurrent resolutions of the same offer cannot both win.
type Repository interface {
	GetByID(ctx context.Context, id string) (Offer, error)
	Create(ctx context.Context, o Offer) error

	// UpdateStatus moves the offer from the expected status to next. It
	// returns ErrStatusConflict when the stored status differs from
	// expected or the transition is not permitted.
	UpdateStatus(ctx context.Context, id string, expected, next Status) error

	// CancelPendingForPlayer cancels every pending offer the given seller
	// has open for the player in the league, returning how many were
	// cancelled.
	CancelPendingForPlayer(ctx context.Context, leagueID, playerID, sellerUserID string) (int, error)

	ListPendingByBuyer(ctx context.Context, leagueID, buyerUserID string) ([]Offer, error)
	ListPendingBySeller(ctx context.Context, leagueID, sellerUserID string) ([]Offer, error)
	ListCompletedByLeague(ctx context.Context, leagueID string) ([]Offer, error)
}
