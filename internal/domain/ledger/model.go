package ledger

import (
	"fmt"
	"time"
)

// InitialBalance is granted when a user joins a league, in millions.
// Accounts are provisioned exactly once at join time; balances are never
// reset afterwards, a legitimate zero stays zero.
const InitialBalance int64 = 75

// Account holds one user's cash inside one league. Balance is in millions
// and never goes negative.
type Account struct {
	UserID   string
	LeagueID string
	Balance  int64
	JoinedAt time.Time
}

func (a Account) Validate() error {
	if a.UserID == "" {
		return fmt.Errorf("account user id is required")
	}
	if a.LeagueID == "" {
		return fmt.Errorf("account league id is required")
	}
	if a.Balance < 0 {
		return fmt.Errorf("account balance cannot be negative")
	}

	return nil
}
