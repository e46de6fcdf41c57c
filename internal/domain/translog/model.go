// Package translog records completed marketplace operations. Entries are
// append-only and carry a snapshot of the player at the time of the event so
// history stays readable even when the catalog changes.
package translog

import (
	"fmt"
	"time"
)

// Kind discriminates the three event shapes in the log.
type Kind string

const (
	KindPurchase Kind = "purchase"
	KindSale     Kind = "sale"
	KindTrade    Kind = "trade"
)

// Transaction is one immutable log entry. UserID is set for purchases and
// sales; SellerUserID/BuyerUserID for trades. OfferID links a trade back to
// the accepted offer that produced it.
type Transaction struct {
	ID       string
	Kind     Kind
	LeagueID string

	PlayerID       string
	PlayerName     string
	PlayerTeam     string
	PlayerPosition string

	Price int64

	UserID       string
	SellerUserID string
	BuyerUserID  string
	OfferID      string

	CreatedAt time.Time
}

func (t Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transaction id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("transaction league id is required")
	}
	if t.PlayerID == "" {
		return fmt.Errorf("transaction player id is required")
	}
	if t.Price < 0 {
		return fmt.Errorf("transaction price must not be negative")
	}

	switch t.Kind {
	case KindPurchase, KindSale:
		if t.UserID == "" {
			return fmt.Errorf("%s transaction requires a user id", t.Kind)
		}
	case KindTrade:
		if t.SellerUserID == "" || t.BuyerUserID == "" {
			return fmt.Errorf("trade transaction requires seller and buyer")
		}
	default:
		return fmt.Errorf("unknown transaction kind %q", t.Kind)
	}

	return nil
}
