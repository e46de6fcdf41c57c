package offer

import (
	"fmt"
	"time"
)

// DefaultTTL is how long a new offer stays acceptable.
const DefaultTTL = 48 * time.Hour

// Status is the lifecycle state of an offer. Completed, rejected, expired
// and cancelled are terminal; nothing transitions out of them.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the state machine permits moving from s to
// next. Only pending offers move anywhere.
func (s Status) CanTransitionTo(next Status) bool {
	if s != StatusPending {
		return false
	}
	switch next {
	case StatusCompleted, StatusRejected, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// Offer is a proposed bilateral player-for-money transfer awaiting the
// buyer's acceptance. Fields other than Status are immutable after creation.
type Offer struct {
	ID           string
	PlayerID     string
	LeagueID     string
	SellerUserID string
	BuyerUserID  string
	Price        int64
	Status       Status
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

func (o Offer) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("offer id is required")
	}
	if o.PlayerID == "" {
		return fmt.Errorf("offer player id is required")
	}
	if o.LeagueID == "" {
		return fmt.Errorf("offer league id is required")
	}
	if o.SellerUserID == "" {
		return fmt.Errorf("offer seller is required")
	}
	if o.BuyerUserID == "" {
		return fmt.Errorf("offer buyer is required")
	}
	if o.SellerUserID == o.BuyerUserID {
		return fmt.Errorf("offer buyer and seller must be different users")
	}
	if o.Price <= 0 {
		return fmt.Errorf("offer price must be greater than zero")
	}

	return nil
}

// ExpiredBy reports whether the offer's deadline has passed at the given
// instant. Expiry is lazy: pending offers past the deadline are flipped to
// expired when they are next read or acted upon.
func (o Offer) ExpiredBy(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
