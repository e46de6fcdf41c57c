// Package market defines the atomic multi-entity operations behind the
// marketplace. Each Store method either applies all of its writes or none of
// them; implementations re-check every guard inside their own transaction
// boundary so callers' pre-checks are advisory only.
package market

import (
	"context"
	"errors"
	"time"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/offer"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/roster"
)

var (
	// ErrAlreadyOwned is returned when the player already has an owner in
	// the league.
	ErrAlreadyOwned = errors.New("market: player already owned")
	// ErrNotOwned is returned when the expected owner does not hold the
	// player at commit time.
	ErrNotOwned = errors.New("market: player not owned by expected user")
	// ErrInsufficientFunds is returned when the paying account cannot
	// cover the amount at commit time.
	ErrInsufficientFunds = errors.New("market: insufficient funds")
	// ErrOfferNotPending is returned when the offer left the pending
	// state before the trade could commit.
	ErrOfferNotPending = errors.New("market: offer is not pending")
)

// ResaleValue is what the market pays when an owner releases a player:
// two thirds of the current catalog price, rounded to the nearest whole
// million.
func ResaleValue(price int64) int64 {
	if price <= 0 {
		return 0
	}
	return (2*price + 1) / 3
}

// Purchase acquires an unowned player from the market: debit the buyer and
// create the ownership row, guarded by balance and vacancy checks.
type Purchase struct {
	LeagueID   string
	BuyerID    string
	PlayerID   string
	Position   player.Position
	Price      int64
	AcquiredAt time.Time
}

// MarketSale releases an owned player back to the market: credit the seller
// with the proceeds, revoke ownership, cancel the seller's pending offers for
// the player and drop the player from the seller's lineups.
type MarketSale struct {
	LeagueID string
	SellerID string
	PlayerID string
	Proceeds int64
}

// Trade settles an accepted offer: debit the buyer, credit the seller, move
// ownership preserving the stored position, mark the offer completed and
// drop the player from the seller's lineups.
type Trade struct {
	Offer      offer.Offer
	Position   player.Position
	AcquiredAt time.Time
}

// Store executes marketplace operations atomically.
type Store interface {
	// ExecutePurchase commits a purchase. Guards: buyer balance covers
	// Price, player has no owner in the league. Returns the created
	// ownership and the buyer's updated balance.
	ExecutePurchase(ctx context.Context, p Purchase) (roster.Ownership, int64, error)

	// ExecuteMarketSale commits a market sale. Guard: seller owns the
	// player. Returns how many pending offers were cancelled and the
	// seller's updated balance.
	ExecuteMarketSale(ctx context.Context, s MarketSale) (int, int64, error)

	// ExecuteTrade commits an accepted offer. Guards: offer still
	// pending, seller still owns the player, buyer balance covers the
	// price. Returns the buyer's new ownership.
	ExecuteTrade(ctx context.Context, t Trade) (roster.Ownership, error)
}
