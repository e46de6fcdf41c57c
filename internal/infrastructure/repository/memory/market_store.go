package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/ledger"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/market"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/offer"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/roster"
)

// MarketStore composes the in-memory repositories into atomic marketplace
// operations. A store-wide mutex serializes operations; guards are
// re-checked under it so two concurrent transfers of the same player cannot
// both commit.
type MarketStore struct {
	mu sync.Mutex

	rosters *RosterRepository
	ledgers *LedgerRepository
	offers  *OfferRepository
	lineups *LineupRepository
}

func NewMarketStore(rosters *RosterRepository, ledgers *LedgerRepository, offers *OfferRepository, lineups *LineupRepository) *MarketStore {
	return &MarketStore{
		rosters: rosters,
		ledgers: ledgers,
		offers:  offers,
		lineups: lineups,
	}
}

func (s *MarketStore) ExecutePurchase(ctx context.Context, p market.Purchase) (roster.Ownership, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, owned, err := s.rosters.Owner(ctx, p.PlayerID, p.LeagueID); err != nil {
		return roster.Ownership{}, 0, err
	} else if owned {
		return roster.Ownership{}, 0, market.ErrAlreadyOwned
	}

	account, err := s.ledgers.Debit(ctx, p.BuyerID, p.LeagueID, p.Price)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return roster.Ownership{}, 0, market.ErrInsufficientFunds
		}
		return roster.Ownership{}, 0, err
	}

	o := roster.Ownership{
		PlayerID:   p.PlayerID,
		LeagueID:   p.LeagueID,
		UserID:     p.BuyerID,
		Position:   p.Position,
		AcquiredAt: p.AcquiredAt,
	}
	if err := s.rosters.Assign(ctx, o); err != nil {
		// Undo the debit; the vacancy check above makes this unreachable
		// while the store mutex is held.
		_, _ = s.ledgers.Credit(ctx, p.BuyerID, p.LeagueID, p.Price)
		if errors.Is(err, roster.ErrAlreadyAssigned) {
			return roster.Ownership{}, 0, market.ErrAlreadyOwned
		}
		return roster.Ownership{}, 0, err
	}

	return o, account.Balance, nil
}

func (s *MarketStore) ExecuteMarketSale(ctx context.Context, sale market.MarketSale) (int, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, owned, err := s.rosters.Owner(ctx, sale.PlayerID, sale.LeagueID)
	if err != nil {
		return 0, 0, err
	}
	if !owned || owner.UserID != sale.SellerID {
		return 0, 0, market.ErrNotOwned
	}

	if err := s.rosters.Revoke(ctx, sale.PlayerID, sale.LeagueID); err != nil {
		return 0, 0, err
	}

	account, err := s.ledgers.Credit(ctx, sale.SellerID, sale.LeagueID, sale.Proceeds)
	if err != nil {
		_ = s.rosters.Assign(ctx, owner)
		return 0, 0, err
	}

	cancelled, err := s.offers.CancelPendingForPlayer(ctx, sale.LeagueID, sale.PlayerID, sale.SellerID)
	if err != nil {
		return 0, 0, err
	}
	if err := s.lineups.DeleteByPlayer(ctx, sale.SellerID, sale.LeagueID, sale.PlayerID); err != nil {
		return 0, 0, err
	}

	return cancelled, account.Balance, nil
}

func (s *MarketStore) ExecuteTrade(ctx context.Context, t market.Trade) (roster.Ownership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.offers.GetByID(ctx, t.Offer.ID)
	if err != nil {
		return roster.Ownership{}, err
	}
	if stored.Status != offer.StatusPending {
		return roster.Ownership{}, market.ErrOfferNotPending
	}

	owner, owned, err := s.rosters.Owner(ctx, stored.PlayerID, stored.LeagueID)
	if err != nil {
		return roster.Ownership{}, err
	}
	if !owned || owner.UserID != stored.SellerUserID {
		return roster.Ownership{}, market.ErrNotOwned
	}

	if _, err := s.ledgers.Debit(ctx, stored.BuyerUserID, stored.LeagueID, stored.Price); err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return roster.Ownership{}, market.ErrInsufficientFunds
		}
		return roster.Ownership{}, err
	}

	if err := s.offers.UpdateStatus(ctx, stored.ID, offer.StatusPending, offer.StatusCompleted); err != nil {
		_, _ = s.ledgers.Credit(ctx, stored.BuyerUserID, stored.LeagueID, stored.Price)
		if errors.Is(err, offer.ErrStatusConflict) {
			return roster.Ownership{}, market.ErrOfferNotPending
		}
		return roster.Ownership{}, err
	}

	if _, err := s.ledgers.Credit(ctx, stored.SellerUserID, stored.LeagueID, stored.Price); err != nil {
		return roster.Ownership{}, err
	}

	if err := s.rosters.Revoke(ctx, stored.PlayerID, stored.LeagueID); err != nil {
		return roster.Ownership{}, err
	}
	next := roster.Ownership{
		PlayerID:   stored.PlayerID,
		LeagueID:   stored.LeagueID,
		UserID:     stored.BuyerUserID,
		Position:   t.Position,
		AcquiredAt: t.AcquiredAt,
	}
	if err := s.rosters.Assign(ctx, next); err != nil {
		return roster.Ownership{}, err
	}

	if err := s.lineups.DeleteByPlayer(ctx, stored.SellerUserID, stored.LeagueID, stored.PlayerID); err != nil {
		return roster.Ownership{}, err
	}

	return next, nil
}
