package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/roster"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

type ownershipRow struct {
	PlayerID   string    `db:"player_id"`
	LeagueID   string    `db:"league_id"`
	UserID     string    `db:"user_id"`
	Position   string    `db:"position"`
	AcquiredAt time.Time `db:"acquired_at"`
}

func (row ownershipRow) toDomain() roster.Ownership {
	return roster.Ownership{
		PlayerID:   row.PlayerID,
		LeagueID:   row.LeagueID,
		UserID:     row.UserID,
		Position:   player.Position(row.Position),
		AcquiredAt: row.AcquiredAt,
	}
}

func (r *RosterRepository) Owner(ctx context.Context, playerID, leagueID string) (roster.Ownership, bool, error) {
	const query = `
SELECT player_id, league_id, user_id, position, acquired_at
FROM ownerships
WHERE player_id = $1
  AND league_id = $2`

	var row ownershipRow
	if err := r.db.GetContext(ctx, &row, query, playerID, leagueID); err != nil {
		if isNotFound(err) {
			return roster.Ownership{}, false, nil
		}
		return roster.Ownership{}, false, fmt.Errorf("get ownership: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RosterRepository) ListByOwner(ctx context.Context, userID, leagueID string) ([]roster.Ownership, error) {
	const query = `
SELECT player_id, league_id, user_id, position, acquired_at
FROM ownerships
WHERE user_id = $1
  AND league_id = $2
ORDER BY acquired_at, player_id`

	var rows []ownershipRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, leagueID); err != nil {
		return nil, fmt.Errorf("list ownerships by owner: %w", err)
	}

	return ownershipsFromRows(rows), nil
}

func (r *RosterRepository) ListByLeague(ctx context.Context, leagueID string) ([]roster.Ownership, error) {
	const query = `
SELECT player_id, league_id, user_id, position, acquired_at
FROM ownerships
WHERE league_id = $1
ORDER BY acquired_at, player_id`

	var rows []ownershipRow
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list ownerships by league: %w", err)
	}

	return ownershipsFromRows(rows), nil
}

func (r *RosterRepository) Assign(ctx context.Context, o roster.Ownership) error {
	const query = `
INSERT INTO ownerships (player_id, league_id, user_id, position, acquired_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, o.PlayerID, o.LeagueID, o.UserID, string(o.Position), o.AcquiredAt)
	if err != nil {
		if isUniqueViolation(err) {
			return roster.ErrAlreadyAssigned
		}
		return fmt.Errorf("assign ownership: %w", err)
	}

	return nil
}

func (r *RosterRepository) Revoke(ctx context.Context, playerID, leagueID string) error {
	const query = `
DELETE FROM ownerships
WHERE player_id = $1
  AND league_id = $2`

	if _, err := r.db.ExecContext(ctx, query, playerID, leagueID); err != nil {
		return fmt.Errorf("revoke ownership: %w", err)
	}

	return nil
}

func ownershipsFromRows(rows []ownershipRow) []roster.Ownership {
	out := make([]roster.Ownership, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
