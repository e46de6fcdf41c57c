package lolesports

import (
	"hash/fnv"
	"net/http"
	"strings"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
)

const (
	minPrice = 5
	maxPrice = 10
)

func mapTeamPlayer(team teamPayload, p teamPlayerPayload) (player.CatalogPlayer, bool) {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return player.CatalogPlayer{}, false
	}

	position, ok := player.NormalizePosition(p.Role)
	if !ok {
		return player.CatalogPlayer{}, false
	}

	name := strings.TrimSpace(p.SummonerName)
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	}

	return player.CatalogPlayer{
		ID:       id,
		Name:     name,
		Team:     firstNonEmpty(team.Code, team.Slug),
		TeamName: team.Name,
		TeamID:   team.ID,
		Position: position,
		ImageURL: p.Image,
		Price:    priceFor(id),
	}, true
}

// priceFor derives a stable price in [minPrice, maxPrice] from the player id.
func priceFor(playerID string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(playerID))
	span := uint32(maxPrice - minPrice + 1)
	return minPrice + int64(h.Sum32()%span)
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
