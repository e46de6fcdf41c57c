package memory

import (
	"context"
	"time"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/league"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/ledger"
)

const LeagueIDDemo = "demo-league"

// Seed loads a demo league with three funded members so the service is
// usable out of the box when no database is configured.
func Seed(leagues *LeagueRepository, ledgers *LedgerRepository) error {
	joined := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	members := []league.Member{
		{UserID: "user-ana", Username: "ana", JoinedAt: joined},
		{UserID: "user-bruno", Username: "bruno", JoinedAt: joined},
		{UserID: "user-carla", Username: "carla", JoinedAt: joined},
	}

	leagues.Put(league.League{
		ID:        LeagueIDDemo,
		Name:      "Demo League",
		Code:      "DEMO01",
		CreatedBy: "user-ana",
		CreatedAt: joined,
	}, members)

	ctx := context.Background()
	for _, m := range members {
		err := ledgers.Create(ctx, ledger.Account{
			UserID:   m.UserID,
			LeagueID: LeagueIDDemo,
			Balance:  ledger.InitialBalance,
			JoinedAt: m.JoinedAt,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
