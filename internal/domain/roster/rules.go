package roster

import (
	"errors"
	"fmt"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
)

var (
	ErrRosterFull       = errors.New("roster size limit reached")
	ErrTeamLimit        = errors.New("max players from same team reached")
	ErrPositionLimit    = errors.New("max players for position reached")
	ErrUnknownPosition  = errors.New("unknown player position")
	ErrInsufficientCash = errors.New("insufficient funds")
)

// Rules stores the roster composition caps enforced on every acquisition.
type Rules struct {
	MaxRosterSize  int
	MaxPerTeam     int
	MaxPerPosition int
}

func DefaultRules() Rules {
	return Rules{
		MaxRosterSize:  10,
		MaxPerTeam:     2,
		MaxPerPosition: 2,
	}
}

// Holding is one already-owned player enriched with catalog data, as seen by
// the acquisition validator.
type Holding struct {
	PlayerID string
	Team     string
	Position player.Position
}

// Candidate is the player being acquired. Position is the effective assigned
// position (caller override already applied), not necessarily the catalog one.
type Candidate struct {
	PlayerID string
	Team     string
	TeamName string
	Position player.Position
	Price    int64
}

// ValidateAcquisition runs the roster caps against the owner's current
// holdings, first failure wins: size, then same-team count, then
// same-assigned-position count. Budget is checked by the caller against the
// ledger before this runs; ValidateBudget exists for symmetry in tests.
func ValidateAcquisition(current []Holding, candidate Candidate, rules Rules) error {
	if _, ok := player.AllPositions[candidate.Position]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPosition, candidate.Position)
	}

	if len(current) >= rules.MaxRosterSize {
		return fmt.Errorf("%w: max=%d", ErrRosterFull, rules.MaxRosterSize)
	}

	sameTeam := 0
	samePosition := 0
	for _, h := range current {
		if h.Team == candidate.Team {
			sameTeam++
		}
		if h.Position == candidate.Position {
			samePosition++
		}
	}

	if sameTeam >= rules.MaxPerTeam {
		team := candidate.TeamName
		if team == "" {
			team = candidate.Team
		}
		return fmt.Errorf("%w: team=%s max=%d", ErrTeamLimit, team, rules.MaxPerTeam)
	}
	if samePosition >= rules.MaxPerPosition {
		return fmt.Errorf("%w: position=%s max=%d", ErrPositionLimit, candidate.Position, rules.MaxPerPosition)
	}

	return nil
}

// ValidateBudget reports whether a balance covers a price.
func ValidateBudget(balance, price int64) error {
	if price <= 0 {
		return fmt.Errorf("price must be greater than zero")
	}
	if balance < price {
		return fmt.Errorf("%w: balance=%d price=%d", ErrInsufficientCash, balance, price)
	}

	return nil
}
