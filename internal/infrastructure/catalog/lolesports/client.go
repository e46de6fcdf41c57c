// Package lolesports adapts the public LoL Esports persisted API into the
// player catalog consumed by the marketplace.
package lolesports

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/resilience"
)

const (
	defaultBaseURL    = "https://esports-api.lolesports.com/persisted/gw"
	defaultHomeLeague = "LEC"
	defaultLocale     = "en-US"
)

var errCatalogTransient = crerr.New("esports catalog transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	HomeLeague     string
	Locale         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches the team roster feed and projects it onto catalog players.
// Prices are derived deterministically from the player id so every replica
// quotes the same price without coordination.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	homeLeague     string
	locale         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	homeLeague := strings.TrimSpace(cfg.HomeLeague)
	if homeLeague == "" {
		homeLeague = defaultHomeLeague
	}
	locale := strings.TrimSpace(cfg.Locale)
	if locale == "" {
		locale = defaultLocale
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		homeLeague:     homeLeague,
		locale:         locale,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// ListLeaguePlayers returns every player on a team of the configured home
// league, sorted by team then name.
func (c *Client) ListLeaguePlayers(ctx context.Context) ([]player.CatalogPlayer, error) {
	var envelope teamsEnvelope
	if err := c.doJSON(ctx, "/getTeams", map[string]string{"hl": c.locale}, &envelope); err != nil {
		return nil, err
	}

	players := make([]player.CatalogPlayer, 0, 64)
	for _, team := range envelope.Data.Teams {
		if !strings.EqualFold(strings.TrimSpace(team.HomeLeague.Name), c.homeLeague) {
			continue
		}
		for _, p := range team.Players {
			mapped, ok := mapTeamPlayer(team, p)
			if !ok {
				c.logger.DebugContext(ctx, "catalog player skipped",
					"player_id", p.ID,
					"role", p.Role,
				)
				continue
			}
			players = append(players, mapped)
		}
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].Team != players[j].Team {
			return players[i].Team < players[j].Team
		}
		return players[i].Name < players[j].Name
	})

	return players, nil
}

// LookupPlayer scans the roster feed for one player id.
func (c *Client) LookupPlayer(ctx context.Context, playerID string) (player.CatalogPlayer, bool, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.CatalogPlayer{}, false, nil
	}

	players, err := c.ListLeaguePlayers(ctx)
	if err != nil {
		return player.CatalogPlayer{}, false, err
	}
	for _, p := range players {
		if p.ID == playerID {
			return p, true, nil
		}
	}

	return player.CatalogPlayer{}, false, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "catalog circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("esports catalog is temporarily unavailable: %w", err)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errCatalogTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode catalog payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-api-key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errCatalogTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errCatalogTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: catalog status=%d", errCatalogTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("catalog status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("catalog request failed")
	}
	c.logger.WarnContext(ctx, "catalog request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

type teamsEnvelope struct {
	Data struct {
		Teams []teamPayload `json:"teams"`
	} `json:"data"`
}

type teamPayload struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	Image      string `json:"image"`
	HomeLeague struct {
		Name string `json:"name"`
	} `json:"homeLeague"`
	Players []teamPlayerPayload `json:"players"`
}

type teamPlayerPayload struct {
	ID           string `json:"id"`
	SummonerName string `json:"summonerName"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Image        string `json:"image"`
	Role         string `json:"role"`
}
