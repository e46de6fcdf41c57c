package league

import (
	"fmt"
	"time"
)

// League is a private group of users competing with independent budgets and
// rosters.
type League struct {
	ID        string
	Name      string
	Code      string
	CreatedBy string
	CreatedAt time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.CreatedBy == "" {
		return fmt.Errorf("league creator is required")
	}

	return nil
}

// Member is one participant of a league.
type Member struct {
	UserID   string
	Username string
	JoinedAt time.Time
}
