// Package lineup tracks which owned player starts in each position slot for
// a given matchday.
package lineup

import (
	"fmt"
	"time"
)

// Slot pins one player into one position of a user's lineup for a matchday.
// The (UserID, LeagueID, Position, Matchday) tuple is unique; setting a new
// starter for an occupied slot replaces the previous one.
type Slot struct {
	UserID    string
	LeagueID  string
	PlayerID  string
	Position  string
	Matchday  int
	UpdatedAt time.Time
}

func (s Slot) Validate() error {
	if s.UserID == "" {
		return fmt.Errorf("lineup slot user id is required")
	}
	if s.LeagueID == "" {
		return fmt.Errorf("lineup slot league id is required")
	}
	if s.PlayerID == "" {
		return fmt.Errorf("lineup slot player id is required")
	}
	if s.Position == "" {
		return fmt.Errorf("lineup slot position is required")
	}
	if s.Matchday < 0 {
		return fmt.Errorf("lineup slot matchday must not be negative")
	}

	return nil
}
