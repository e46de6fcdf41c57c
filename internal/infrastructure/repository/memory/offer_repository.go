package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/offer"
)

type OfferRepository struct {
	mu    sync.RWMutex
	items map[string]offer.Offer
}

func NewOfferRepository() *OfferRepository {
	return &OfferRepository{items: make(map[string]offer.Offer)}
}

func (r *OfferRepository) GetByID(_ context.Context, id string) (offer.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.items[id]
	if !ok {
		return offer.Offer{}, offer.ErrNotFound
	}
	return o, nil
}

func (r *OfferRepository) Create(_ context.Context, o offer.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[o.ID] = o
	return nil
}

func (r *OfferRepository) UpdateStatus(_ context.Context, id string, expected, next offer.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[id]
	if !ok {
		return offer.ErrNotFound
	}
	if o.Status != expected || !o.Status.CanTransitionTo(next) {
		return offer.ErrStatusConflict
	}
	o.Status = next
	r.items[id] = o
	return nil
}

func (r *OfferRepository) CancelPendingForPlayer(_ context.Context, leagueID, playerID, sellerUserID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cancelled := 0
	for id, o := range r.items {
		if o.Status != offer.StatusPending {
			continue
		}
		if o.LeagueID != leagueID || o.PlayerID != playerID || o.SellerUserID != sellerUserID {
			continue
		}
		o.Status = offer.StatusCancelled
		r.items[id] = o
		cancelled++
	}
	return cancelled, nil
}

func (r *OfferRepository) ListPendingByBuyer(_ context.Context, leagueID, buyerUserID string) ([]offer.Offer, error) {
	return r.list(func(o offer.Offer) bool {
		return o.Status == offer.StatusPending && o.LeagueID == leagueID && o.BuyerUserID == buyerUserID
	}), nil
}

func (r *OfferRepository) ListPendingBySeller(_ context.Context, leagueID, sellerUserID string) ([]offer.Offer, error) {
	return r.list(func(o offer.Offer) bool {
		return o.Status == offer.StatusPending && o.LeagueID == leagueID && o.SellerUserID == sellerUserID
	}), nil
}

func (r *OfferRepository) ListCompletedByLeague(_ context.Context, leagueID string) ([]offer.Offer, error) {
	return r.list(func(o offer.Offer) bool {
		return o.Status == offer.StatusCompleted && o.LeagueID == leagueID
	}), nil
}

func (r *OfferRepository) list(match func(offer.Offer) bool) []offer.Offer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []offer.Offer
	for _, o := range r.items {
		if match(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
