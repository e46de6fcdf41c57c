package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/league"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/lineup"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/roster"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
)

// SetStarterInput pins an owned player into a lineup slot. Position accepts
// the same aliases as the rest of the API.
type SetStarterInput struct {
	UserID   string
	LeagueID string
	PlayerID string
	Position string
	Matchday int
}

// LineupEntry is one lineup slot enriched with catalog data. Catalog info is
// best effort; stale player references keep their ids.
type LineupEntry struct {
	Slot   lineup.Slot
	Player player.CatalogPlayer
}

type LineupService struct {
	leagueRepo league.Repository
	rosterRepo roster.Repository
	lineupRepo lineup.Repository
	catalog    player.Catalog
	logger     *logging.Logger
	now        func() time.Time
}

func NewLineupService(
	leagueRepo league.Repository,
	rosterRepo roster.Repository,
	lineupRepo lineup.Repository,
	catalog player.Catalog,
	logger *logging.Logger,
) *LineupService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LineupService{
		leagueRepo: leagueRepo,
		rosterRepo: rosterRepo,
		lineupRepo: lineupRepo,
		catalog:    catalog,
		logger:     logger,
		now:        time.Now,
	}
}

// SetStarter assigns an owned player to the given position slot, replacing
// the current occupant. The player's assigned position must match the slot.
func (s *LineupService) SetStarter(ctx context.Context, input SetStarterInput) (lineup.Slot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.SetStarter")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)

	if input.UserID == "" || input.LeagueID == "" || input.PlayerID == "" {
		return lineup.Slot{}, fmt.Errorf("%w: user_id, league_id and player_id are required", ErrInvalidInput)
	}
	if input.Matchday < 0 {
		return lineup.Slot{}, fmt.Errorf("%w: matchday must not be negative", ErrInvalidInput)
	}

	position, ok := player.NormalizePosition(input.Position)
	if !ok {
		return lineup.Slot{}, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, input.Position)
	}

	if err := s.requireMember(ctx, input.LeagueID, input.UserID); err != nil {
		return lineup.Slot{}, err
	}

	owner, owned, err := s.rosterRepo.Owner(ctx, input.PlayerID, input.LeagueID)
	if err != nil {
		return lineup.Slot{}, fmt.Errorf("get player owner: %w", err)
	}
	if !owned || owner.UserID != input.UserID {
		return lineup.Slot{}, fmt.Errorf("%w: you do not own player %s", ErrForbidden, input.PlayerID)
	}
	if owner.Position != position {
		return lineup.Slot{}, fmt.Errorf("%w: player is assigned to %s, not %s", ErrInvalidState, owner.Position, position)
	}

	slot := lineup.Slot{
		UserID:    input.UserID,
		LeagueID:  input.LeagueID,
		PlayerID:  input.PlayerID,
		Position:  string(position),
		Matchday:  input.Matchday,
		UpdatedAt: s.now().UTC(),
	}
	if err := slot.Validate(); err != nil {
		return lineup.Slot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.lineupRepo.Upsert(ctx, slot); err != nil {
		return lineup.Slot{}, fmt.Errorf("upsert lineup slot: %w", err)
	}

	s.logger.InfoContext(ctx, "lineup starter set",
		"league_id", input.LeagueID,
		"user_id", input.UserID,
		"player_id", input.PlayerID,
		"position", string(position),
		"matchday", input.Matchday,
	)

	return slot, nil
}

// GetLineup returns the user's lineup for a matchday with catalog data
// attached. Player lookups run concurrently; a player missing upstream
// yields a bare entry instead of failing the view.
func (s *LineupService) GetLineup(ctx context.Context, userID, leagueID string, matchday int) ([]LineupEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.GetLineup")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return nil, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}
	if matchday < 0 {
		return nil, fmt.Errorf("%w: matchday must not be negative", ErrInvalidInput)
	}

	if err := s.requireMember(ctx, leagueID, userID); err != nil {
		return nil, err
	}

	slots, err := s.lineupRepo.List(ctx, userID, leagueID, matchday)
	if err != nil {
		return nil, fmt.Errorf("list lineup slots: %w", err)
	}
	if len(slots) == 0 {
		return nil, nil
	}

	entries := make([]LineupEntry, len(slots))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(4)
	for i, slot := range slots {
		i, slot := i, slot
		p.Go(func(ctx context.Context) error {
			entry := LineupEntry{Slot: slot, Player: player.CatalogPlayer{ID: slot.PlayerID}}
			cp, found, lookupErr := s.catalog.LookupPlayer(ctx, slot.PlayerID)
			if lookupErr != nil {
				s.logger.WarnContext(ctx, "lineup catalog lookup failed",
					"player_id", slot.PlayerID,
					"error", lookupErr,
				)
			} else if found {
				entry.Player = cp
			}
			entries[i] = entry
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("enrich lineup: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Slot.Position < entries[j].Slot.Position
	})

	return entries, nil
}

func (s *LineupService) requireMember(ctx context.Context, leagueID, userID string) error {
	_, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}

	member, err := s.leagueRepo.IsMember(ctx, leagueID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return fmt.Errorf("%w: not a member of league %s", ErrForbidden, leagueID)
	}

	return nil
}
