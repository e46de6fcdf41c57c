package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/league"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

type leagueRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}

type memberRow struct {
	UserID   string    `db:"user_id"`
	Username string    `db:"username"`
	JoinedAt time.Time `db:"joined_at"`
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	const query = `
SELECT id, name, code, created_by, created_at
FROM leagues
WHERE id = $1`

	var row leagueRow
	if err := r.db.GetContext(ctx, &row, query, leagueID); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	return league.League{
		ID:        row.ID,
		Name:      row.Name,
		Code:      row.Code,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
	}, true, nil
}

func (r *LeagueRepository) IsMember(ctx context.Context, leagueID, userID string) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1
    FROM league_members
    WHERE league_id = $1
      AND user_id = $2
)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, leagueID, userID); err != nil {
		return false, fmt.Errorf("check league membership: %w", err)
	}

	return exists, nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID string) ([]league.Member, error) {
	const query = `
SELECT user_id, username, joined_at
FROM league_members
WHERE league_id = $1
ORDER BY joined_at, user_id`

	var rows []memberRow
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}

	members := make([]league.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, league.Member{
			UserID:   row.UserID,
			Username: row.Username,
			JoinedAt: row.JoinedAt,
		})
	}

	return members, nil
}
