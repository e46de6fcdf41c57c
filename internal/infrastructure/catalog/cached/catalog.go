// Package cached decorates a player catalog with an in-process TTL cache so
// hot paths do not hit the upstream feed on every transfer.
package cached

import (
	"context"
	"fmt"
	"time"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/cache"
)

const listKey = "catalog:players"

type Catalog struct {
	next  player.Catalog
	store *cache.Store
}

func New(next player.Catalog, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Catalog{
		next:  next,
		store: cache.NewStore(ttl),
	}
}

func (c *Catalog) ListLeaguePlayers(ctx context.Context) ([]player.CatalogPlayer, error) {
	value, err := c.store.GetOrLoad(ctx, listKey, func(ctx context.Context) (any, error) {
		return c.next.ListLeaguePlayers(ctx)
	})
	if err != nil {
		return nil, err
	}

	players, ok := value.([]player.CatalogPlayer)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", value)
	}

	// Callers may mutate the slice; hand out a copy.
	return append([]player.CatalogPlayer(nil), players...), nil
}

func (c *Catalog) LookupPlayer(ctx context.Context, playerID string) (player.CatalogPlayer, bool, error) {
	players, err := c.ListLeaguePlayers(ctx)
	if err != nil {
		return player.CatalogPlayer{}, false, err
	}

	for _, p := range players {
		if p.ID == playerID {
			return p, true, nil
		}
	}

	return player.CatalogPlayer{}, false, nil
}

// Invalidate drops the cached roster so the next read refetches.
func (c *Catalog) Invalidate(ctx context.Context) {
	c.store.Delete(ctx, listKey)
}
