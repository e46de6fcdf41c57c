package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/offer"
)

type OfferRepository struct {
	db *sqlx.DB
}

func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

type offerRow struct {
	ID           string    `db:"id"`
	PlayerID     string    `db:"player_id"`
	LeagueID     string    `db:"league_id"`
	SellerUserID string    `db:"seller_user_id"`
	BuyerUserID  string    `db:"buyer_user_id"`
	Price        int64     `db:"price"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	ExpiresAt    time.Time `db:"expires_at"`
}

func (row offerRow) toDomain() offer.Offer {
	return offer.Offer{
		ID:           row.ID,
		PlayerID:     row.PlayerID,
		LeagueID:     row.LeagueID,
		SellerUserID: row.SellerUserID,
		BuyerUserID:  row.BuyerUserID,
		Price:        row.Price,
		Status:       offer.Status(row.Status),
		CreatedAt:    row.CreatedAt,
		ExpiresAt:    row.ExpiresAt,
	}
}

func (r *OfferRepository) GetByID(ctx context.Context, id string) (offer.Offer, error) {
	const query = `
SELECT id, player_id, league_id, seller_user_id, buyer_user_id, price, status, created_at, expires_at
FROM offers
WHERE id = $1`

	var row offerRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return offer.Offer{}, offer.ErrNotFound
		}
		return offer.Offer{}, fmt.Errorf("get offer: %w", err)
	}

	return row.toDomain(), nil
}

func (r *OfferRepository) Create(ctx context.Context, o offer.Offer) error {
	const query = `
INSERT INTO offers (id, player_id, league_id, seller_user_id, buyer_user_id, price, status, created_at, expires_at)
VALUES (:id, :player_id, :league_id, :seller_user_id, :buyer_user_id, :price, :status, :created_at, :expires_at)`

	args := map[string]any{
		"id":             o.ID,
		"player_id":      o.PlayerID,
		"league_id":      o.LeagueID,
		"seller_user_id": o.SellerUserID,
		"buyer_user_id":  o.BuyerUserID,
		"price":          o.Price,
		"status":         string(o.Status),
		"created_at":     o.CreatedAt,
		"expires_at":     o.ExpiresAt,
	}
	insertSQL, insertArgs, err := sqlx.Named(query, args)
	if err != nil {
		return fmt.Errorf("bind insert offer query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(insertSQL), insertArgs...); err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}

	return nil
}

// UpdateStatus is compare-and-swap on the status column: the WHERE clause
// carries the expected status, so of two concurrent resolutions only one
// matches a row.
func (r *OfferRepository) UpdateStatus(ctx context.Context, id string, expected, next offer.Status) error {
	if !expected.CanTransitionTo(next) {
		return offer.ErrStatusConflict
	}

	const query = `
UPDATE offers
SET status = $3
WHERE id = $1
  AND status = $2`

	res, err := r.db.ExecContext(ctx, query, id, string(expected), string(next))
	if err != nil {
		return fmt.Errorf("update offer status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update offer status rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return offer.ErrStatusConflict
	}

	return nil
}

func (r *OfferRepository) CancelPendingForPlayer(ctx context.Context, leagueID, playerID, sellerUserID string) (int, error) {
	const query = `
UPDATE offers
SET status = $4
WHERE league_id = $1
  AND player_id = $2
  AND seller_user_id = $3
  AND status = $5`

	res, err := r.db.ExecContext(ctx, query, leagueID, playerID, sellerUserID,
		string(offer.StatusCancelled), string(offer.StatusPending))
	if err != nil {
		return 0, fmt.Errorf("cancel pending offers: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cancel pending offers rows affected: %w", err)
	}

	return int(affected), nil
}

func (r *OfferRepository) ListPendingByBuyer(ctx context.Context, leagueID, buyerUserID string) ([]offer.Offer, error) {
	const query = `
SELECT id, player_id, league_id, seller_user_id, buyer_user_id, price, status, created_at, expires_at
FROM offers
WHERE league_id = $1
  AND buyer_user_id = $2
  AND status = $3
ORDER BY created_at, id`

	return r.list(ctx, query, leagueID, buyerUserID, string(offer.StatusPending))
}

func (r *OfferRepository) ListPendingBySeller(ctx context.Context, leagueID, sellerUserID string) ([]offer.Offer, error) {
	const query = `
SELECT id, player_id, league_id, seller_user_id, buyer_user_id, price, status, created_at, expires_at
FROM offers
WHERE league_id = $1
  AND seller_user_id = $2
  AND status = $3
ORDER BY created_at, id`

	return r.list(ctx, query, leagueID, sellerUserID, string(offer.StatusPending))
}

func (r *OfferRepository) ListCompletedByLeague(ctx context.Context, leagueID string) ([]offer.Offer, error) {
	const query = `
SELECT id, player_id, league_id, seller_user_id, buyer_user_id, price, status, created_at, expires_at
FROM offers
WHERE league_id = $1
  AND status = $2
ORDER BY created_at, id`

	return r.list(ctx, query, leagueID, string(offer.StatusCompleted))
}

func (r *OfferRepository) list(ctx context.Context, query string, args ...any) ([]offer.Offer, error) {
	var rows []offerRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	offers := make([]offer.Offer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, row.toDomain())
	}

	return offers, nil
}
