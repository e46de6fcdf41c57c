package memory

import (
	"context"
	"sync"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	leagues map[string]league.League
	members map[string][]league.Member
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{
		leagues: make(map[string]league.League),
		members: make(map[string][]league.Member),
	}
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leagues[leagueID]
	return l, ok, nil
}

func (r *LeagueRepository) IsMember(_ context.Context, leagueID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.members[leagueID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID string) ([]league.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]league.Member(nil), r.members[leagueID]...), nil
}

// Put inserts or replaces a league. Used by seeding and tests.
func (r *LeagueRepository) Put(l league.League, members []league.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leagues[l.ID] = l
	r.members[l.ID] = append([]league.Member(nil), members...)
}
