package player

import (
	"fmt"
	"strings"
)

// Position represents the canonical lane assignments used across the
// marketplace, roster rules and lineups.
type Position string

const (
	PositionTop     Position = "top"
	PositionJungle  Position = "jungle"
	PositionMid     Position = "mid"
	PositionBottom  Position = "bottom"
	PositionSupport Position = "support"
)

var AllPositions = map[Position]struct{}{
	PositionTop:     {},
	PositionJungle:  {},
	PositionMid:     {},
	PositionBottom:  {},
	PositionSupport: {},
}

// positionAliases maps every spelling the upstream catalog and clients are
// known to send onto the canonical set. Raw position strings must never be
// compared directly; every ingress point normalizes first.
var positionAliases = map[string]Position{
	"adc":      PositionBottom,
	"bot":      PositionBottom,
	"ad carry": PositionBottom,
	"bottom":   PositionBottom,
	"sup":      PositionSupport,
	"support":  PositionSupport,
	"jg":       PositionJungle,
	"jung":     PositionJungle,
	"jungle":   PositionJungle,
	"m":        PositionMid,
	"mid":      PositionMid,
	"middle":   PositionMid,
	"t":        PositionTop,
	"top":      PositionTop,
	"toplane":  PositionTop,
}

// NormalizePosition resolves a raw position spelling to its canonical form.
// It returns false when the input maps to no known position.
func NormalizePosition(raw string) (Position, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", false
	}

	pos, ok := positionAliases[cleaned]
	return pos, ok
}

// EquivalentPositions reports whether two raw spellings map to the same
// canonical position.
func EquivalentPositions(a, b string) bool {
	posA, okA := NormalizePosition(a)
	posB, okB := NormalizePosition(b)
	return okA && okB && posA == posB
}

// CatalogPlayer is one player as reported by the external esports catalog.
// Price is authoritative only at the moment it is read.
type CatalogPlayer struct {
	ID       string
	Name     string
	Team     string
	TeamName string
	TeamID   string
	Position Position
	ImageURL string
	Price    int64
}

func (p CatalogPlayer) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Team == "" {
		return fmt.Errorf("player team is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Price <= 0 {
		return fmt.Errorf("player price must be greater than zero")
	}

	return nil
}
