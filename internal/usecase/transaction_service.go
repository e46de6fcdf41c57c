package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/league"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/offer"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/translog"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
)

// offerHistory is the slice of offer.Repository the history view needs.
type offerHistory interface {
	ListCompletedByLeague(ctx context.Context, leagueID string) ([]offer.Offer, error)
}

// TransactionService serves the league transaction history. The log is
// written best effort, so completed offers missing from it are
// reconstructed into trade entries at read time.
type TransactionService struct {
	leagueRepo league.Repository
	translogs  translog.Repository
	offers     offerHistory
	catalog    player.Catalog
	logger     *logging.Logger
}

func NewTransactionService(
	leagueRepo league.Repository,
	translogs translog.Repository,
	offers offerHistory,
	catalog player.Catalog,
	logger *logging.Logger,
) *TransactionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TransactionService{
		leagueRepo: leagueRepo,
		translogs:  translogs,
		offers:     offers,
		catalog:    catalog,
		logger:     logger,
	}
}

// ListByLeague returns the league's transaction history, newest first.
func (s *TransactionService) ListByLeague(ctx context.Context, userID, leagueID string) ([]translog.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransactionService.ListByLeague")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return nil, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	_, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}
	member, err := s.leagueRepo.IsMember(ctx, leagueID, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return nil, fmt.Errorf("%w: not a member of league %s", ErrForbidden, leagueID)
	}

	logged, err := s.translogs.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	reconstructed, err := s.reconstructTrades(ctx, leagueID, logged)
	if err != nil {
		return nil, err
	}

	out := append(logged, reconstructed...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

// reconstructTrades synthesizes trade entries for completed offers that the
// best-effort log writer dropped.
func (s *TransactionService) reconstructTrades(ctx context.Context, leagueID string, logged []translog.Transaction) ([]translog.Transaction, error) {
	completed, err := s.offers.ListCompletedByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list completed offers: %w", err)
	}
	if len(completed) == 0 {
		return nil, nil
	}

	loggedOffers := make(map[string]struct{}, len(logged))
	for _, t := range logged {
		if t.OfferID != "" {
			loggedOffers[t.OfferID] = struct{}{}
		}
	}

	var names map[string]player.CatalogPlayer
	var out []translog.Transaction
	for _, o := range completed {
		if _, ok := loggedOffers[o.ID]; ok {
			continue
		}

		if names == nil {
			names = s.catalogSnapshot(ctx)
		}

		t := translog.Transaction{
			ID:           "offer-" + o.ID,
			Kind:         translog.KindTrade,
			LeagueID:     o.LeagueID,
			PlayerID:     o.PlayerID,
			Price:        o.Price,
			SellerUserID: o.SellerUserID,
			BuyerUserID:  o.BuyerUserID,
			OfferID:      o.ID,
			CreatedAt:    o.CreatedAt,
		}
		if cp, ok := names[o.PlayerID]; ok {
			t.PlayerName = cp.Name
			t.PlayerTeam = cp.Team
			t.PlayerPosition = string(cp.Position)
		}
		out = append(out, t)
	}

	return out, nil
}

// catalogSnapshot is best effort; history stays serviceable during a
// catalog outage, just without names.
func (s *TransactionService) catalogSnapshot(ctx context.Context) map[string]player.CatalogPlayer {
	players, err := s.catalog.ListLeaguePlayers(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "catalog snapshot for history failed", "error", err)
		return map[string]player.CatalogPlayer{}
	}

	byID := make(map[string]player.CatalogPlayer, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	return byID
}
