package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/translog"
)

type TranslogRepository struct {
	mu    sync.RWMutex
	items []translog.Transaction
}

func NewTranslogRepository() *TranslogRepository {
	return &TranslogRepository{}
}

func (r *TranslogRepository) Append(_ context.Context, t translog.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, t)
	return nil
}

func (r *TranslogRepository) ListByLeague(_ context.Context, leagueID string) ([]translog.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []translog.Transaction
	for _, t := range r.items {
		if t.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	// Newest first, matching the history view.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
