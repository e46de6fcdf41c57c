package roster

import (
	"fmt"
	"time"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
)

// Ownership binds one catalog player to one owner inside a league. A player
// has at most one active owner per league; the binding only changes through
// an explicit transfer, never a silent overwrite.
type Ownership struct {
	PlayerID   string
	LeagueID   string
	UserID     string
	Position   player.Position
	AcquiredAt time.Time
}

func (o Ownership) Validate() error {
	if o.PlayerID == "" {
		return fmt.Errorf("player id is required")
	}
	if o.LeagueID == "" {
		return fmt.Errorf("league id is required")
	}
	if o.UserID == "" {
		return fmt.Errorf("owner user id is required")
	}
	if _, ok := player.AllPositions[o.Position]; !ok {
		return fmt.Errorf("invalid assigned position: %s", o.Position)
	}

	return nil
}
