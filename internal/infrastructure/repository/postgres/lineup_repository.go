package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/lineup"
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

type lineupSlotRow struct {
	UserID    string    `db:"user_id"`
	LeagueID  string    `db:"league_id"`
	PlayerID  string    `db:"player_id"`
	Position  string    `db:"position"`
	Matchday  int       `db:"matchday"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *LineupRepository) Upsert(ctx context.Context, s lineup.Slot) error {
	const query = `
INSERT INTO lineup_slots (user_id, league_id, player_id, position, matchday, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, league_id, position, matchday)
DO UPDATE SET
    player_id = EXCLUDED.player_id,
    updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query, s.UserID, s.LeagueID, s.PlayerID, s.Position, s.Matchday, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert lineup slot: %w", err)
	}

	return nil
}

func (r *LineupRepository) List(ctx context.Context, userID, leagueID string, matchday int) ([]lineup.Slot, error) {
	const query = `
SELECT user_id, league_id, player_id, position, matchday, updated_at
FROM lineup_slots
WHERE user_id = $1
  AND league_id = $2
  AND matchday = $3
ORDER BY position`

	var rows []lineupSlotRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, leagueID, matchday); err != nil {
		return nil, fmt.Errorf("list lineup slots: %w", err)
	}

	slots := make([]lineup.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, lineup.Slot{
			UserID:    row.UserID,
			LeagueID:  row.LeagueID,
			PlayerID:  row.PlayerID,
			Position:  row.Position,
			Matchday:  row.Matchday,
			UpdatedAt: row.UpdatedAt,
		})
	}

	return slots, nil
}

func (r *LineupRepository) DeleteByPlayer(ctx context.Context, userID, leagueID, playerID string) error {
	const query = `
DELETE FROM lineup_slots
WHERE user_id = $1
  AND league_id = $2
  AND player_id = $3`

	if _, err := r.db.ExecContext(ctx, query, userID, leagueID, playerID); err != nil {
		return fmt.Errorf("delete lineup slots for player: %w", err)
	}

	return nil
}
