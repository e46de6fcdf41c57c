package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/lineup"
)

type LineupRepository struct {
	mu    sync.RWMutex
	items map[string]lineup.Slot
}

func NewLineupRepository() *LineupRepository {
	return &LineupRepository{items: make(map[string]lineup.Slot)}
}

func (r *LineupRepository) Upsert(_ context.Context, s lineup.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[slotKey(s.UserID, s.LeagueID, s.Position, s.Matchday)] = s
	return nil
}

func (r *LineupRepository) List(_ context.Context, userID, leagueID string, matchday int) ([]lineup.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []lineup.Slot
	for _, s := range r.items {
		if s.UserID == userID && s.LeagueID == leagueID && s.Matchday == matchday {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *LineupRepository) DeleteByPlayer(_ context.Context, userID, leagueID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, s := range r.items {
		if s.UserID == userID && s.LeagueID == leagueID && s.PlayerID == playerID {
			delete(r.items, key)
		}
	}
	return nil
}

func slotKey(userID, leagueID, position string, matchday int) string {
	return userID + "::" + leagueID + "::" + position + "::" + strconv.Itoa(matchday)
}
