package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/ledger"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/market"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/offer"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/roster"
)

// MarketStore runs each marketplace operation inside one database
// transaction. Guards live in the statements themselves (balance checks in
// the UPDATE, vacancy in the unique index, offer status in the CAS), so a
// failed guard rolls back every prior write of the operation.
type MarketStore struct {
	db *sqlx.DB
}

func NewMarketStore(db *sqlx.DB) *MarketStore {
	return &MarketStore{db: db}
}

func (s *MarketStore) ExecutePurchase(ctx context.Context, p market.Purchase) (roster.Ownership, int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return roster.Ownership{}, 0, fmt.Errorf("begin tx for purchase: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := ensureVacantTx(ctx, tx, p.PlayerID, p.LeagueID); err != nil {
		return roster.Ownership{}, 0, err
	}

	balance, err := debitTx(ctx, tx, p.BuyerID, p.LeagueID, p.Price)
	if err != nil {
		return roster.Ownership{}, 0, err
	}

	owned := roster.Ownership{
		PlayerID:   p.PlayerID,
		LeagueID:   p.LeagueID,
		UserID:     p.BuyerID,
		Position:   p.Position,
		AcquiredAt: p.AcquiredAt,
	}
	if err := assignTx(ctx, tx, owned); err != nil {
		return roster.Ownership{}, 0, err
	}

	if err := tx.Commit(); err != nil {
		return roster.Ownership{}, 0, fmt.Errorf("commit purchase: %w", err)
	}

	return owned, balance, nil
}

func (s *MarketStore) ExecuteMarketSale(ctx context.Context, sale market.MarketSale) (int, int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx for market sale: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := revokeOwnedTx(ctx, tx, sale.PlayerID, sale.LeagueID, sale.SellerID); err != nil {
		return 0, 0, err
	}

	balance, err := creditTx(ctx, tx, sale.SellerID, sale.LeagueID, sale.Proceeds)
	if err != nil {
		return 0, 0, err
	}

	cancelled, err := cancelPendingTx(ctx, tx, sale.LeagueID, sale.PlayerID, sale.SellerID)
	if err != nil {
		return 0, 0, err
	}

	if err := dropLineupsTx(ctx, tx, sale.SellerID, sale.LeagueID, sale.PlayerID); err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit market sale: %w", err)
	}

	return cancelled, balance, nil
}

func (s *MarketStore) ExecuteTrade(ctx context.Context, t market.Trade) (roster.Ownership, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return roster.Ownership{}, fmt.Errorf("begin tx for trade: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const completeQuery = `
UPDATE offers
SET status = $2
WHERE id = $1
  AND status = $3`

	res, err := tx.ExecContext(ctx, completeQuery, t.Offer.ID,
		string(offer.StatusCompleted), string(offer.StatusPending))
	if err != nil {
		return roster.Ownership{}, fmt.Errorf("complete offer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return roster.Ownership{}, fmt.Errorf("complete offer rows affected: %w", err)
	}
	if affected == 0 {
		return roster.Ownership{}, market.ErrOfferNotPending
	}

	if _, err := revokeOwnedTx(ctx, tx, t.Offer.PlayerID, t.Offer.LeagueID, t.Offer.SellerUserID); err != nil {
		return roster.Ownership{}, err
	}

	if _, err := debitTx(ctx, tx, t.Offer.BuyerUserID, t.Offer.LeagueID, t.Offer.Price); err != nil {
		return roster.Ownership{}, err
	}
	if _, err := creditTx(ctx, tx, t.Offer.SellerUserID, t.Offer.LeagueID, t.Offer.Price); err != nil {
		return roster.Ownership{}, err
	}

	owned := roster.Ownership{
		PlayerID:   t.Offer.PlayerID,
		LeagueID:   t.Offer.LeagueID,
		UserID:     t.Offer.BuyerUserID,
		Position:   t.Position,
		AcquiredAt: t.AcquiredAt,
	}
	if err := assignTx(ctx, tx, owned); err != nil {
		return roster.Ownership{}, err
	}

	if err := dropLineupsTx(ctx, tx, t.Offer.SellerUserID, t.Offer.LeagueID, t.Offer.PlayerID); err != nil {
		return roster.Ownership{}, err
	}

	if err := tx.Commit(); err != nil {
		return roster.Ownership{}, fmt.Errorf("commit trade: %w", err)
	}

	return owned, nil
}

func debitTx(ctx context.Context, tx *sqlx.Tx, userID, leagueID string, amount int64) (int64, error) {
	const query = `
UPDATE accounts
SET balance = balance - $3
WHERE user_id = $1
  AND league_id = $2
  AND balance >= $3
RETURNING balance`

	var balance int64
	if err := tx.GetContext(ctx, &balance, query, userID, leagueID, amount); err != nil {
		if isNotFound(err) {
			return 0, classifyDebitMissTx(ctx, tx, userID, leagueID)
		}
		return 0, fmt.Errorf("debit account: %w", err)
	}

	return balance, nil
}

func creditTx(ctx context.Context, tx *sqlx.Tx, userID, leagueID string, amount int64) (int64, error) {
	const query = `
UPDATE accounts
SET balance = balance + $3
WHERE user_id = $1
  AND league_id = $2
RETURNING balance`

	var balance int64
	if err := tx.GetContext(ctx, &balance, query, userID, leagueID, amount); err != nil {
		if isNotFound(err) {
			return 0, ledger.ErrAccountNotFound
		}
		return 0, fmt.Errorf("credit account: %w", err)
	}

	return balance, nil
}

// ensureVacantTx takes a lock on any existing binding so a concurrent
// transfer of the same player serializes against this transaction.
func ensureVacantTx(ctx context.Context, tx *sqlx.Tx, playerID, leagueID string) error {
	const query = `
SELECT user_id
FROM ownerships
WHERE player_id = $1
  AND league_id = $2
FOR UPDATE`

	var ownerID string
	if err := tx.GetContext(ctx, &ownerID, query, playerID, leagueID); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("check ownership: %w", err)
	}

	return market.ErrAlreadyOwned
}

func assignTx(ctx context.Context, tx *sqlx.Tx, o roster.Ownership) error {
	const query = `
INSERT INTO ownerships (player_id, league_id, user_id, position, acquired_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.ExecContext(ctx, query, o.PlayerID, o.LeagueID, o.UserID, string(o.Position), o.AcquiredAt)
	if err != nil {
		if isUniqueViolation(err) {
			return market.ErrAlreadyOwned
		}
		return fmt.Errorf("assign ownership: %w", err)
	}

	return nil
}

// revokeOwnedTx removes the binding only when the expected owner still holds
// the player, returning the stored position.
func revokeOwnedTx(ctx context.Context, tx *sqlx.Tx, playerID, leagueID, ownerID string) (player.Position, error) {
	const query = `
DELETE FROM ownerships
WHERE player_id = $1
  AND league_id = $2
  AND user_id = $3
RETURNING position`

	var position string
	if err := tx.GetContext(ctx, &position, query, playerID, leagueID, ownerID); err != nil {
		if isNotFound(err) {
			return "", market.ErrNotOwned
		}
		return "", fmt.Errorf("revoke ownership: %w", err)
	}

	return player.Position(position), nil
}

func cancelPendingTx(ctx context.Context, tx *sqlx.Tx, leagueID, playerID, sellerUserID string) (int, error) {
	const query = `
UPDATE offers
SET status = $4
WHERE league_id = $1
  AND player_id = $2
  AND seller_user_id = $3
  AND status = $5`

	res, err := tx.ExecContext(ctx, query, leagueID, playerID, sellerUserID,
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

func dropLineupsTx(ctx context.Context, tx *sqlx.Tx, userID, leagueID, playerID string) error {
	const query = `
DELETE FROM lineup_slots
WHERE user_id = $1
  AND league_id = $2
  AND player_id = $3`

	if _, err := tx.ExecContext(ctx, query, userID, leagueID, playerID); err != nil {
		return fmt.Errorf("delete lineup slots for player: %w", err)
	}

	return nil
}

func classifyDebitMissTx(ctx context.Context, tx *sqlx.Tx, userID, leagueID string) error {
	const query = `
SELECT EXISTS (
    SELECT 1
    FROM accounts
    WHERE user_id = $1
      AND league_id = $2
)`

	var exists bool
	if err := tx.GetContext(ctx, &exists, query, userID, leagueID); err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	if !exists {
		return ledger.ErrAccountNotFound
	}
	return market.ErrInsufficientFunds
}
