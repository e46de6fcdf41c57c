package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/league"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/ledger"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/market"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/offer"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/roster"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/translog"
	idgen "github.com/nestorsdelgado/fantasy-market/internal/platform/id"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/resilience"
)

// BuyInput is the incoming payload for a market purchase. Position is an
// optional override for the catalog position; aliases are accepted.
type BuyInput struct {
	UserID   string
	LeagueID string
	PlayerID string
	Position string
}

type SellInput struct {
	UserID   string
	LeagueID string
	PlayerID string
}

// CreateOfferInput proposes a direct sale to another league member.
type CreateOfferInput struct {
	SellerUserID string
	BuyerUserID  string
	LeagueID     string
	PlayerID     string
	Price        int64
}

// OwnedPlayer is an ownership row enriched with catalog data. Catalog info
// is best effort: players that left the upstream catalog keep their ids and
// stored position with the rest left blank.
type OwnedPlayer struct {
	Player     player.CatalogPlayer
	Position   player.Position
	AcquiredAt time.Time
}

// MarketPlayer is one catalog entry in the league market view, annotated
// with its current owner if any.
type MarketPlayer struct {
	Player      player.CatalogPlayer
	OwnerUserID string
}

type PurchaseResult struct {
	Ownership roster.Ownership
	Player    player.CatalogPlayer
	Price     int64
	Balance   int64
}

type SaleResult struct {
	PlayerID        string
	Proceeds        int64
	Balance         int64
	CancelledOffers int
}

type TradeResult struct {
	Offer     offer.Offer
	Ownership roster.Ownership
}

// OfferView pairs a pending offer with catalog info about its player and the
// caller's side of the deal.
type OfferView struct {
	Offer    offer.Offer
	Player   player.CatalogPlayer
	Incoming bool
}

// MarketService owns every ownership transfer in the marketplace. All
// multi-entity writes go through the market.Store; the keyed mutex
// serializes transfers of the same player inside one league so validation
// and commit see a stable world.
type MarketService struct {
	leagueRepo league.Repository
	rosterRepo roster.Repository
	ledgerRepo ledger.Repository
	offerRepo  offer.Repository
	translogs  translog.Repository
	store      market.Store
	catalog    player.Catalog
	rules      roster.Rules
	idGen      idgen.Generator
	logger     *logging.Logger
	transferMu *resilience.KeyedMutex
	logPool    *ants.Pool
	now        func() time.Time
}

func NewMarketService(
	leagueRepo league.Repository,
	rosterRepo roster.Repository,
	ledgerRepo ledger.Repository,
	offerRepo offer.Repository,
	translogs translog.Repository,
	store market.Store,
	catalog player.Catalog,
	rules roster.Rules,
	idGen idgen.Generator,
	logger *logging.Logger,
	logPool *ants.Pool,
) *MarketService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MarketService{
		leagueRepo: leagueRepo,
		rosterRepo: rosterRepo,
		ledgerRepo: ledgerRepo,
		offerRepo:  offerRepo,
		translogs:  translogs,
		store:      store,
		catalog:    catalog,
		rules:      rules,
		idGen:      idGen,
		logger:     logger,
		transferMu: resilience.NewKeyedMutex(),
		logPool:    logPool,
		now:        time.Now,
	}
}

// Buy acquires an unowned player from the market for the configured catalog
// price.
func (s *MarketService) Buy(ctx context.Context, input BuyInput) (PurchaseResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.Buy")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)

	if input.UserID == "" || input.LeagueID == "" || input.PlayerID == "" {
		return PurchaseResult{}, fmt.Errorf("%w: user_id, league_id and player_id are required", ErrInvalidInput)
	}

	if err := s.requireMember(ctx, input.LeagueID, input.UserID); err != nil {
		return PurchaseResult{}, err
	}

	unlock := s.transferMu.Lock(transferKey(input.LeagueID, input.PlayerID))
	defer unlock()

	owner, owned, err := s.rosterRepo.Owner(ctx, input.PlayerID, input.LeagueID)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("get player owner: %w", err)
	}
	if owned {
		if owner.UserID == input.UserID {
			return PurchaseResult{}, fmt.Errorf("%w: you already own this player", ErrConflict)
		}
		return PurchaseResult{}, fmt.Errorf("%w: player is owned by another user", ErrConflict)
	}

	catalogPlayer, found, err := s.catalog.LookupPlayer(ctx, input.PlayerID)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("%w: lookup player: %v", ErrDependencyUnavailable, err)
	}
	if !found {
		return PurchaseResult{}, fmt.Errorf("%w: player %s", ErrNotFound, input.PlayerID)
	}

	position, err := effectivePosition(catalogPlayer.Position, input.Position)
	if err != nil {
		return PurchaseResult{}, err
	}

	account, exists, err := s.ledgerRepo.Get(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("get account: %w", err)
	}
	if !exists {
		return PurchaseResult{}, fmt.Errorf("%w: no account in league %s", ErrNotFound, input.LeagueID)
	}
	if err := roster.ValidateBudget(account.Balance, catalogPlayer.Price); err != nil {
		return PurchaseResult{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	holdings, err := s.holdings(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return PurchaseResult{}, err
	}
	candidate := roster.Candidate{
		PlayerID: catalogPlayer.ID,
		Team:     catalogPlayer.Team,
		TeamName: catalogPlayer.TeamName,
		Position: position,
		Price:    catalogPlayer.Price,
	}
	if err := roster.ValidateAcquisition(holdings, candidate, s.rules); err != nil {
		return PurchaseResult{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	now := s.now().UTC()
	ownership, balance, err := s.store.ExecutePurchase(ctx, market.Purchase{
		LeagueID:   input.LeagueID,
		BuyerID:    input.UserID,
		PlayerID:   input.PlayerID,
		Position:   position,
		Price:      catalogPlayer.Price,
		AcquiredAt: now,
	})
	if err != nil {
		return PurchaseResult{}, mapMarketError(err)
	}

	s.recordTransaction(ctx, translog.Transaction{
		Kind:           translog.KindPurchase,
		LeagueID:       input.LeagueID,
		PlayerID:       catalogPlayer.ID,
		PlayerName:     catalogPlayer.Name,
		PlayerTeam:     catalogPlayer.Team,
		PlayerPosition: string(position),
		Price:          catalogPlayer.Price,
		UserID:         input.UserID,
		CreatedAt:      now,
	})

	s.logger.InfoContext(ctx, "player purchased",
		"league_id", input.LeagueID,
		"player_id", input.PlayerID,
		"user_id", input.UserID,
		"price", catalogPlayer.Price,
	)

	return PurchaseResult{
		Ownership: ownership,
		Player:    catalogPlayer,
		Price:     catalogPlayer.Price,
		Balance:   balance,
	}, nil
}

// SellToMarket releases an owned player back to the market for two thirds of
// the current catalog price. Pending offers the seller has open for the
// player are cancelled and the player leaves the seller's lineups.
func (s *MarketService) SellToMarket(ctx context.Context, input SellInput) (SaleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.SellToMarket")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)

	if input.UserID == "" || input.LeagueID == "" || input.PlayerID == "" {
		return SaleResult{}, fmt.Errorf("%w: user_id, league_id and player_id are required", ErrInvalidInput)
	}

	if err := s.requireMember(ctx, input.LeagueID, input.UserID); err != nil {
		return SaleResult{}, err
	}

	unlock := s.transferMu.Lock(transferKey(input.LeagueID, input.PlayerID))
	defer unlock()

	owner, owned, err := s.rosterRepo.Owner(ctx, input.PlayerID, input.LeagueID)
	if err != nil {
		return SaleResult{}, fmt.Errorf("get player owner: %w", err)
	}
	if !owned {
		return SaleResult{}, fmt.Errorf("%w: player %s is not owned in league %s", ErrNotFound, input.PlayerID, input.LeagueID)
	}
	if owner.UserID != input.UserID {
		return SaleResult{}, fmt.Errorf("%w: player belongs to another user", ErrForbidden)
	}

	catalogPlayer, found, err := s.catalog.LookupPlayer(ctx, input.PlayerID)
	if err != nil {
		return SaleResult{}, fmt.Errorf("%w: lookup player: %v", ErrDependencyUnavailable, err)
	}
	if !found {
		return SaleResult{}, fmt.Errorf("%w: player %s left the catalog", ErrNotFound, input.PlayerID)
	}
	proceeds := market.ResaleValue(catalogPlayer.Price)

	now := s.now().UTC()
	cancelled, balance, err := s.store.ExecuteMarketSale(ctx, market.MarketSale{
		LeagueID: input.LeagueID,
		SellerID: input.UserID,
		PlayerID: input.PlayerID,
		Proceeds: proceeds,
	})
	if err != nil {
		return SaleResult{}, mapMarketError(err)
	}

	s.recordTransaction(ctx, translog.Transaction{
		Kind:           translog.KindSale,
		LeagueID:       input.LeagueID,
		PlayerID:       catalogPlayer.ID,
		PlayerName:     catalogPlayer.Name,
		PlayerTeam:     catalogPlayer.Team,
		PlayerPosition: string(owner.Position),
		Price:          proceeds,
		UserID:         input.UserID,
		CreatedAt:      now,
	})

	s.logger.InfoContext(ctx, "player sold to market",
		"league_id", input.LeagueID,
		"player_id", input.PlayerID,
		"user_id", input.UserID,
		"proceeds", proceeds,
		"cancelled_offers", cancelled,
	)

	return SaleResult{
		PlayerID:        input.PlayerID,
		Proceeds:        proceeds,
		Balance:         balance,
		CancelledOffers: cancelled,
	}, nil
}

// CreateOffer opens a direct sale of an owned player to another league
// member at a seller-chosen price. Funds are not reserved; the buyer's
// balance is checked when the offer is accepted.
func (s *MarketService) CreateOffer(ctx context.Context, input CreateOfferInput) (offer.Offer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.CreateOffer")
	defer span.End()

	input.SellerUserID = strings.TrimSpace(input.SellerUserID)
	input.BuyerUserID = strings.TrimSpace(input.BuyerUserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)

	if input.SellerUserID == "" || input.BuyerUserID == "" || input.LeagueID == "" || input.PlayerID == "" {
		return offer.Offer{}, fmt.Errorf("%w: seller, buyer, league_id and player_id are required", ErrInvalidInput)
	}
	if input.SellerUserID == input.BuyerUserID {
		return offer.Offer{}, fmt.Errorf("%w: cannot offer a player to yourself", ErrInvalidInput)
	}
	if input.Price <= 0 {
		return offer.Offer{}, fmt.Errorf("%w: price must be greater than zero", ErrInvalidInput)
	}

	if err := s.requireMember(ctx, input.LeagueID, input.SellerUserID); err != nil {
		return offer.Offer{}, err
	}
	buyerMember, err := s.leagueRepo.IsMember(ctx, input.LeagueID, input.BuyerUserID)
	if err != nil {
		return offer.Offer{}, fmt.Errorf("check buyer membership: %w", err)
	}
	if !buyerMember {
		return offer.Offer{}, fmt.Errorf("%w: buyer is not a member of league %s", ErrInvalidInput, input.LeagueID)
	}

	owner, owned, err := s.rosterRepo.Owner(ctx, input.PlayerID, input.LeagueID)
	if err != nil {
		return offer.Offer{}, fmt.Errorf("get player owner: %w", err)
	}
	if !owned {
		return offer.Offer{}, fmt.Errorf("%w: player %s is not owned in league %s", ErrNotFound, input.PlayerID, input.LeagueID)
	}
	if owner.UserID != input.SellerUserID {
		return offer.Offer{}, fmt.Errorf("%w: player belongs to another user", ErrForbidden)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return offer.Offer{}, fmt.Errorf("generate offer id: %w", err)
	}

	now := s.now().UTC()
	o := offer.Offer{
		ID:           id,
		PlayerID:     input.PlayerID,
		LeagueID:     input.LeagueID,
		SellerUserID: input.SellerUserID,
		BuyerUserID:  input.BuyerUserID,
		Price:        input.Price,
		Status:       offer.StatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(offer.DefaultTTL),
	}
	if err := o.Validate(); err != nil {
		return offer.Offer{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.offerRepo.Create(ctx, o); err != nil {
		return offer.Offer{}, fmt.Errorf("create offer: %w", err)
	}

	s.logger.InfoContext(ctx, "offer created",
		"offer_id", o.ID,
		"league_id", o.LeagueID,
		"player_id", o.PlayerID,
		"seller", o.SellerUserID,
		"buyer", o.BuyerUserID,
		"price", o.Price,
	)

	return o, nil
}

// AcceptOffer settles a pending offer as the named buyer. The buyer's
// balance and roster caps are enforced at acceptance time; on insufficient
// funds the offer stays pending so it can be retried after a sale.
func (s *MarketService) AcceptOffer(ctx context.Context, userID, offerID string) (TradeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.AcceptOffer")
	defer span.End()

	userID = strings.TrimSpace(userID)
	offerID = strings.TrimSpace(offerID)
	if userID == "" || offerID == "" {
		return TradeResult{}, fmt.Errorf("%w: user_id and offer_id are required", ErrInvalidInput)
	}

	o, err := s.getOffer(ctx, offerID)
	if err != nil {
		return TradeResult{}, err
	}
	if o.BuyerUserID != userID {
		return TradeResult{}, fmt.Errorf("%w: offer is addressed to another user", ErrForbidden)
	}

	if err := s.requireMember(ctx, o.LeagueID, userID); err != nil {
		return TradeResult{}, err
	}

	unlock := s.transferMu.Lock(transferKey(o.LeagueID, o.PlayerID))
	defer unlock()

	o, err = s.resolveExpiry(ctx, o)
	if err != nil {
		return TradeResult{}, err
	}
	if o.Status != offer.StatusPending {
		return TradeResult{}, fmt.Errorf("%w: offer is %s", ErrInvalidState, o.Status)
	}

	account, exists, err := s.ledgerRepo.Get(ctx, userID, o.LeagueID)
	if err != nil {
		return TradeResult{}, fmt.Errorf("get account: %w", err)
	}
	if !exists {
		return TradeResult{}, fmt.Errorf("%w: no account in league %s", ErrNotFound, o.LeagueID)
	}
	if err := roster.ValidateBudget(account.Balance, o.Price); err != nil {
		return TradeResult{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	owner, owned, err := s.rosterRepo.Owner(ctx, o.PlayerID, o.LeagueID)
	if err != nil {
		return TradeResult{}, fmt.Errorf("get player owner: %w", err)
	}
	if !owned || owner.UserID != o.SellerUserID {
		return TradeResult{}, fmt.Errorf("%w: seller no longer owns the player", ErrInvalidState)
	}

	holdings, err := s.holdings(ctx, userID, o.LeagueID)
	if err != nil {
		return TradeResult{}, err
	}
	candidate := roster.Candidate{
		PlayerID: o.PlayerID,
		Position: owner.Position,
		Price:    o.Price,
	}
	var playerName string
	if catalogPlayer, found, lookupErr := s.catalog.LookupPlayer(ctx, o.PlayerID); lookupErr == nil && found {
		candidate.Team = catalogPlayer.Team
		candidate.TeamName = catalogPlayer.TeamName
		playerName = catalogPlayer.Name
	}
	if err := roster.ValidateAcquisition(holdings, candidate, s.rules); err != nil {
		return TradeResult{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	now := s.now().UTC()
	ownership, err := s.store.ExecuteTrade(ctx, market.Trade{
		Offer:      o,
		Position:   owner.Position,
		AcquiredAt: now,
	})
	if err != nil {
		return TradeResult{}, mapMarketError(err)
	}
	o.Status = offer.StatusCompleted

	s.recordTransaction(ctx, translog.Transaction{
		Kind:           translog.KindTrade,
		LeagueID:       o.LeagueID,
		PlayerID:       o.PlayerID,
		PlayerName:     playerName,
		PlayerTeam:     candidate.Team,
		PlayerPosition: string(owner.Position),
		Price:          o.Price,
		SellerUserID:   o.SellerUserID,
		BuyerUserID:    o.BuyerUserID,
		OfferID:        o.ID,
		CreatedAt:      now,
	})

	s.logger.InfoContext(ctx, "offer accepted",
		"offer_id", o.ID,
		"league_id", o.LeagueID,
		"player_id", o.PlayerID,
		"seller", o.SellerUserID,
		"buyer", o.BuyerUserID,
		"price", o.Price,
	)

	return TradeResult{Offer: o, Ownership: ownership}, nil
}

// RejectOffer declines a pending offer. The named buyer rejects it, or the
// seller withdraws it; anyone else is forbidden.
func (s *MarketService) RejectOffer(ctx context.Context, userID, offerID string) (offer.Offer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.RejectOffer")
	defer span.End()

	userID = strings.TrimSpace(userID)
	offerID = strings.TrimSpace(offerID)
	if userID == "" || offerID == "" {
		return offer.Offer{}, fmt.Errorf("%w: user_id and offer_id are required", ErrInvalidInput)
	}

	o, err := s.getOffer(ctx, offerID)
	if err != nil {
		return offer.Offer{}, err
	}
	if userID != o.BuyerUserID && userID != o.SellerUserID {
		return offer.Offer{}, fmt.Errorf("%w: you are not a party to this offer", ErrForbidden)
	}

	o, err = s.resolveExpiry(ctx, o)
	if err != nil {
		return offer.Offer{}, err
	}
	if o.Status != offer.StatusPending {
		return offer.Offer{}, fmt.Errorf("%w: offer is %s", ErrInvalidState, o.Status)
	}

	if err := s.offerRepo.UpdateStatus(ctx, o.ID, offer.StatusPending, offer.StatusRejected); err != nil {
		if errors.Is(err, offer.ErrStatusConflict) {
			return offer.Offer{}, fmt.Errorf("%w: offer already resolved", ErrInvalidState)
		}
		return offer.Offer{}, fmt.Errorf("reject offer: %w", err)
	}
	o.Status = offer.StatusRejected

	s.logger.InfoContext(ctx, "offer rejected", "offer_id", o.ID, "league_id", o.LeagueID)

	return o, nil
}

// ListOwnedPlayers returns the caller's roster in a league, enriched with
// catalog data.
func (s *MarketService) ListOwnedPlayers(ctx context.Context, userID, leagueID string) ([]OwnedPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.ListOwnedPlayers")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return nil, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	if err := s.requireMember(ctx, leagueID, userID); err != nil {
		return nil, err
	}

	owned, err := s.rosterRepo.ListByOwner(ctx, userID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list owned players: %w", err)
	}

	byID, err := s.catalogByID(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]OwnedPlayer, 0, len(owned))
	for _, o := range owned {
		entry := OwnedPlayer{Position: o.Position, AcquiredAt: o.AcquiredAt}
		if cp, ok := byID[o.PlayerID]; ok {
			entry.Player = cp
		} else {
			entry.Player = player.CatalogPlayer{ID: o.PlayerID, Position: o.Position}
		}
		out = append(out, entry)
	}

	return out, nil
}

// ListMarketPlayers returns the full catalog for the league with ownership
// annotations, the market browsing view.
func (s *MarketService) ListMarketPlayers(ctx context.Context, userID, leagueID string) ([]MarketPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.ListMarketPlayers")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return nil, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	if err := s.requireMember(ctx, leagueID, userID); err != nil {
		return nil, err
	}

	players, err := s.catalog.ListLeaguePlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list catalog players: %v", ErrDependencyUnavailable, err)
	}

	bindings, err := s.rosterRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league ownerships: %w", err)
	}
	ownerByPlayer := make(map[string]string, len(bindings))
	for _, b := range bindings {
		ownerByPlayer[b.PlayerID] = b.UserID
	}

	out := make([]MarketPlayer, 0, len(players))
	for _, p := range players {
		out = append(out, MarketPlayer{Player: p, OwnerUserID: ownerByPlayer[p.ID]})
	}

	return out, nil
}

// ListOwnerships returns every active binding in the league enriched with
// catalog data, the "who owns what" view.
func (s *MarketService) ListOwnerships(ctx context.Context, userID, leagueID string) ([]OwnedPlayer, map[string]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.ListOwnerships")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return nil, nil, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	if err := s.requireMember(ctx, leagueID, userID); err != nil {
		return nil, nil, err
	}

	bindings, err := s.rosterRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, nil, fmt.Errorf("list league ownerships: %w", err)
	}

	byID, err := s.catalogByID(ctx)
	if err != nil {
		return nil, nil, err
	}

	out := make([]OwnedPlayer, 0, len(bindings))
	ownerByPlayer := make(map[string]string, len(bindings))
	for _, b := range bindings {
		entry := OwnedPlayer{Position: b.Position, AcquiredAt: b.AcquiredAt}
		if cp, ok := byID[b.PlayerID]; ok {
			entry.Player = cp
		} else {
			entry.Player = player.CatalogPlayer{ID: b.PlayerID, Position: b.Position}
		}
		out = append(out, entry)
		ownerByPlayer[b.PlayerID] = b.UserID
	}

	return out, ownerByPlayer, nil
}

// ListOffers returns the caller's pending offers in a league, both incoming
// and outgoing. Offers past their deadline are flipped to expired on read
// and excluded.
func (s *MarketService) ListOffers(ctx context.Context, userID, leagueID string) ([]OfferView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.ListOffers")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return nil, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	if err := s.requireMember(ctx, leagueID, userID); err != nil {
		return nil, err
	}

	incoming, err := s.offerRepo.ListPendingByBuyer(ctx, leagueID, userID)
	if err != nil {
		return nil, fmt.Errorf("list incoming offers: %w", err)
	}
	outgoing, err := s.offerRepo.ListPendingBySeller(ctx, leagueID, userID)
	if err != nil {
		return nil, fmt.Errorf("list outgoing offers: %w", err)
	}

	byID, err := s.catalogByID(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]OfferView, 0, len(incoming)+len(outgoing))
	appendLive := func(offers []offer.Offer, isIncoming bool) error {
		for _, o := range offers {
			resolved, resolveErr := s.resolveExpiry(ctx, o)
			if resolveErr != nil {
				return resolveErr
			}
			if resolved.Status != offer.StatusPending {
				continue
			}
			view := OfferView{Offer: resolved, Incoming: isIncoming}
			if cp, ok := byID[resolved.PlayerID]; ok {
				view.Player = cp
			} else {
				view.Player = player.CatalogPlayer{ID: resolved.PlayerID}
			}
			out = append(out, view)
		}
		return nil
	}
	if err := appendLive(incoming, true); err != nil {
		return nil, err
	}
	if err := appendLive(outgoing, false); err != nil {
		return nil, err
	}

	return out, nil
}

func (s *MarketService) requireMember(ctx context.Context, leagueID, userID string) error {
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

func (s *MarketService) getOffer(ctx context.Context, offerID string) (offer.Offer, error) {
	o, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, offer.ErrNotFound) {
			return offer.Offer{}, fmt.Errorf("%w: offer %s", ErrNotFound, offerID)
		}
		return offer.Offer{}, fmt.Errorf("get offer: %w", err)
	}
	return o, nil
}

// resolveExpiry flips a pending offer past its deadline to expired. Losing
// the status race is fine, the refreshed offer is returned either way.
func (s *MarketService) resolveExpiry(ctx context.Context, o offer.Offer) (offer.Offer, error) {
	if o.Status != offer.StatusPending || !o.ExpiredBy(s.now().UTC()) {
		return o, nil
	}

	err := s.offerRepo.UpdateStatus(ctx, o.ID, offer.StatusPending, offer.StatusExpired)
	if err != nil && !errors.Is(err, offer.ErrStatusConflict) {
		return offer.Offer{}, fmt.Errorf("expire offer: %w", err)
	}

	return s.getOffer(ctx, o.ID)
}

// holdings builds the catalog-enriched view of a user's roster for the
// acquisition validator. Players missing from the catalog keep their stored
// position with an empty team, so position caps still apply.
func (s *MarketService) holdings(ctx context.Context, userID, leagueID string) ([]roster.Holding, error) {
	owned, err := s.rosterRepo.ListByOwner(ctx, userID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list owned players: %w", err)
	}
	if len(owned) == 0 {
		return nil, nil
	}

	byID, err := s.catalogByID(ctx)
	if err != nil {
		return nil, err
	}

	holdings := make([]roster.Holding, 0, len(owned))
	for _, o := range owned {
		h := roster.Holding{PlayerID: o.PlayerID, Position: o.Position}
		if cp, ok := byID[o.PlayerID]; ok {
			h.Team = cp.Team
		}
		holdings = append(holdings, h)
	}

	return holdings, nil
}

func (s *MarketService) catalogByID(ctx context.Context) (map[string]player.CatalogPlayer, error) {
	players, err := s.catalog.ListLeaguePlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list catalog players: %v", ErrDependencyUnavailable, err)
	}

	byID := make(map[string]player.CatalogPlayer, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	return byID, nil
}

// recordTransaction appends to the transaction log without blocking or
// failing the transfer that produced the event. The write happens on the
// worker pool when one is configured.
func (s *MarketService) recordTransaction(ctx context.Context, t translog.Transaction) {
	id, err := s.idGen.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "transaction log skipped", "error", err)
		return
	}
	t.ID = id

	write := func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.translogs.Append(writeCtx, t); err != nil {
			s.logger.Warn("transaction log append failed",
				"transaction_id", t.ID,
				"league_id", t.LeagueID,
				"error", err,
			)
		}
	}

	if s.logPool != nil {
		if err := s.logPool.Submit(write); err == nil {
			return
		}
	}
	write()
}

func mapMarketError(err error) error {
	switch {
	case errors.Is(err, market.ErrAlreadyOwned):
		return fmt.Errorf("%w: player is owned by another user", ErrConflict)
	case errors.Is(err, market.ErrNotOwned):
		return fmt.Errorf("%w: ownership changed during the transfer", ErrInvalidState)
	case errors.Is(err, market.ErrInsufficientFunds):
		return fmt.Errorf("%w: insufficient funds", ErrInvalidState)
	case errors.Is(err, market.ErrOfferNotPending):
		return fmt.Errorf("%w: offer already resolved", ErrInvalidState)
	default:
		return fmt.Errorf("execute market operation: %w", err)
	}
}

func effectivePosition(catalogPos player.Position, override string) (player.Position, error) {
	if strings.TrimSpace(override) == "" {
		return catalogPos, nil
	}

	pos, ok := player.NormalizePosition(override)
	if !ok {
		return "", fmt.Errorf("%w: unknown position %q", ErrInvalidInput, override)
	}
	return pos, nil
}

func transferKey(leagueID, playerID string) string {
	return leagueID + "::" + playerID
}
