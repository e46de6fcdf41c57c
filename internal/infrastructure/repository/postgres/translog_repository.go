package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/translog"
)

type TransactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

type transactionRow struct {
	ID             string         `db:"id"`
	Kind           string         `db:"kind"`
	LeagueID       string         `db:"league_id"`
	PlayerID       string         `db:"player_id"`
	PlayerName     string         `db:"player_name"`
	PlayerTeam     string         `db:"player_team"`
	PlayerPosition string         `db:"player_position"`
	Price          int64          `db:"price"`
	UserID         sql.NullString `db:"user_id"`
	SellerUserID   sql.NullString `db:"seller_user_id"`
	BuyerUserID    sql.NullString `db:"buyer_user_id"`
	OfferID        sql.NullString `db:"offer_id"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (row transactionRow) toDomain() translog.Transaction {
	return translog.Transaction{
		ID:             row.ID,
		Kind:           translog.Kind(row.Kind),
		LeagueID:       row.LeagueID,
		PlayerID:       row.PlayerID,
		PlayerName:     row.PlayerName,
		PlayerTeam:     row.PlayerTeam,
		PlayerPosition: row.PlayerPosition,
		Price:          row.Price,
		UserID:         row.UserID.String,
		SellerUserID:   row.SellerUserID.String,
		BuyerUserID:    row.BuyerUserID.String,
		OfferID:        row.OfferID.String,
		CreatedAt:      row.CreatedAt,
	}
}

func (r *TransactionRepository) Append(ctx context.Context, t translog.Transaction) error {
	const query = `
INSERT INTO transactions (
    id, kind, league_id,
    player_id, player_name, player_team, player_position,
    price, user_id, seller_user_id, buyer_user_id, offer_id, created_at
) VALUES (
    :id, :kind, :league_id,
    :player_id, :player_name, :player_team, :player_position,
    :price, :user_id, :seller_user_id, :buyer_user_id, :offer_id, :created_at
)`

	args := map[string]any{
		"id":              t.ID,
		"kind":            string(t.Kind),
		"league_id":       t.LeagueID,
		"player_id":       t.PlayerID,
		"player_name":     t.PlayerName,
		"player_team":     t.PlayerTeam,
		"player_position": t.PlayerPosition,
		"price":           t.Price,
		"user_id":         nullString(t.UserID),
		"seller_user_id":  nullString(t.SellerUserID),
		"buyer_user_id":   nullString(t.BuyerUserID),
		"offer_id":        nullString(t.OfferID),
		"created_at":      t.CreatedAt,
	}
	insertSQL, insertArgs, err := sqlx.Named(query, args)
	if err != nil {
		return fmt.Errorf("bind insert transaction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(insertSQL), insertArgs...); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}

func (r *TransactionRepository) ListByLeague(ctx context.Context, leagueID string) ([]translog.Transaction, error) {
	const query = `
SELECT id, kind, league_id,
       player_id, player_name, player_team, player_position,
       price, user_id, seller_user_id, buyer_user_id, offer_id, created_at
FROM transactions
WHERE league_id = $1
ORDER BY created_at DESC, id DESC`

	var rows []transactionRow
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]translog.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
