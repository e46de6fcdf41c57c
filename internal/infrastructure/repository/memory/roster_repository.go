package memory

import (
	"context"
	"sync"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/roster"
)

type RosterRepository struct {
	mu    sync.RWMutex
	items map[string]roster.Ownership
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{items: make(map[string]roster.Ownership)}
}

func (r *RosterRepository) Owner(_ context.Context, playerID, leagueID string) (roster.Ownership, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.items[ownershipKey(playerID, leagueID)]
	return o, ok, nil
}

func (r *RosterRepository) ListByOwner(_ context.Context, userID, leagueID string) ([]roster.Ownership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []roster.Ownership
	for _, o := range r.items {
		if o.UserID == userID && o.LeagueID == leagueID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *RosterRepository) ListByLeague(_ context.Context, leagueID string) ([]roster.Ownership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []roster.Ownership
	for _, o := range r.items {
		if o.LeagueID == leagueID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *RosterRepository) Assign(_ context.Context, o roster.Ownership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownershipKey(o.PlayerID, o.LeagueID)
	if _, exists := r.items[key]; exists {
		return roster.ErrAlreadyAssigned
	}
	r.items[key] = o
	return nil
}

func (r *RosterRepository) Revoke(_ context.Context, playerID, leagueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, ownershipKey(playerID, leagueID))
	return nil
}

func ownershipKey(playerID, leagueID string) string {
	return playerID + "::" + leagueID
}
