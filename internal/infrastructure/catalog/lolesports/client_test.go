package lolesports

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/resilience"
)

const teamsPayload = `{
  "data": {
    "teams": [
      {
        "id": "team-g2",
        "slug": "g2-esports",
        "name": "G2 Esports",
        "code": "G2",
        "homeLeague": {"name": "LEC"},
        "players": [
          {"id": "pl-caps", "summonerName": "Caps", "role": "mid"},
          {"id": "pl-hans", "summonerName": "Hans Sama", "role": "ADC"},
          {"id": "pl-coach", "summonerName": "Dylan", "role": "coach"}
        ]
      },
      {
        "id": "team-t1",
        "slug": "t1",
        "name": "T1",
        "code": "T1",
        "homeLeague": {"name": "LCK"},
        "players": [
          {"id": "pl-faker", "summonerName": "Faker", "role": "mid"}
        ]
      }
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		HomeLeague:     "LEC",
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
}

func TestClient_ListLeaguePlayers_FiltersAndMaps(t *testing.T) {
	var gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(teamsPayload))
	})

	players, err := client.ListLeaguePlayers(t.Context())
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if gotKey != "test-key" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}

	// pl-faker is LCK and the coach has no playable role; both are skipped.
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d: %+v", len(players), players)
	}

	byID := make(map[string]player.CatalogPlayer, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	caps, ok := byID["pl-caps"]
	if !ok {
		t.Fatal("expected pl-caps in the catalog")
	}
	if caps.Team != "G2" || caps.TeamName != "G2 Esports" || caps.Position != player.PositionMid {
		t.Fatalf("unexpected mapping: %+v", caps)
	}

	hans, ok := byID["pl-hans"]
	if !ok {
		t.Fatal("expected pl-hans in the catalog")
	}
	if hans.Position != player.PositionBottom {
		t.Fatalf("expected ADC role to normalize to bottom, got %s", hans.Position)
	}

	for _, p := range players {
		if p.Price < minPrice || p.Price > maxPrice {
			t.Fatalf("price out of range for %s: %d", p.ID, p.Price)
		}
	}
}

func TestClient_ListLeaguePlayers_DeterministicPrices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(teamsPayload))
	})

	first, err := client.ListLeaguePlayers(t.Context())
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	second, err := client.ListLeaguePlayers(t.Context())
	if err != nil {
		t.Fatalf("second list: %v", err)
	}

	for i := range first {
		if first[i].Price != second[i].Price {
			t.Fatalf("price changed between reads for %s", first[i].ID)
		}
	}
}

func TestClient_LookupPlayer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(teamsPayload))
	})

	p, found, err := client.LookupPlayer(t.Context(), "pl-caps")
	if err != nil || !found {
		t.Fatalf("expected pl-caps found, found=%v err=%v", found, err)
	}
	if p.Name != "Caps" {
		t.Fatalf("unexpected player %+v", p)
	}

	_, found, err = client.LookupPlayer(t.Context(), "pl-faker")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found {
		t.Fatal("players outside the home league must not resolve")
	}
}

func TestClient_NonRetryableStatusFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.ListLeaguePlayers(t.Context())
	if err == nil {
		t.Fatal("expected error on 403")
	}
}
