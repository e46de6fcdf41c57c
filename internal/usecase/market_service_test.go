package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/ledger"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/offer"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/roster"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/translog"
	"github.com/nestorsdelgado/fantasy-market/internal/infrastructure/repository/memory"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
)

type seqIDGenerator struct {
	prefix string
	n      int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n), nil
}

type fakeCatalog struct {
	players map[string]player.CatalogPlayer
	err     error
}

func (c *fakeCatalog) LookupPlayer(_ context.Context, playerID string) (player.CatalogPlayer, bool, error) {
	if c.err != nil {
		return player.CatalogPlayer{}, false, c.err
	}
	p, ok := c.players[playerID]
	return p, ok, nil
}

func (c *fakeCatalog) ListLeaguePlayers(_ context.Context) ([]player.CatalogPlayer, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := make([]player.CatalogPlayer, 0, len(c.players))
	for _, p := range c.players {
		out = append(out, p)
	}
	return out, nil
}

func testCatalog() *fakeCatalog {
	players := []player.CatalogPlayer{
		{ID: "pl-faker", Name: "Faker", Team: "T1", TeamName: "T1", TeamID: "team-t1", Position: player.PositionMid, Price: 10},
		{ID: "pl-zeus", Name: "Zeus", Team: "T1", TeamName: "T1", TeamID: "team-t1", Position: player.PositionTop, Price: 8},
		{ID: "pl-oner", Name: "Oner", Team: "T1", TeamName: "T1", TeamID: "team-t1", Position: player.PositionJungle, Price: 7},
		{ID: "pl-keria", Name: "Keria", Team: "T1", TeamName: "T1", TeamID: "team-t1", Position: player.PositionSupport, Price: 6},
		{ID: "pl-caps", Name: "Caps", Team: "G2", TeamName: "G2 Esports", TeamID: "team-g2", Position: player.PositionMid, Price: 9},
		{ID: "pl-chovy", Name: "Chovy", Team: "GEN", TeamName: "Gen.G", TeamID: "team-gen", Position: player.PositionMid, Price: 9},
		{ID: "pl-ruler", Name: "Ruler", Team: "GEN", TeamName: "Gen.G", TeamID: "team-gen", Position: player.PositionBottom, Price: 8},
	}

	byID := make(map[string]player.CatalogPlayer, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	return &fakeCatalog{players: byID}
}

type marketFixture struct {
	service *MarketService
	rosters *memory.RosterRepository
	ledgers *memory.LedgerRepository
	offers  *memory.OfferRepository
	lineups *memory.LineupRepository
	logs    *memory.TranslogRepository
	catalog *fakeCatalog
}

func newMarketFixture(t *testing.T) *marketFixture {
	t.Helper()

	leagues := memory.NewLeagueRepository()
	rosters := memory.NewRosterRepository()
	ledgers := memory.NewLedgerRepository()
	offers := memory.NewOfferRepository()
	lineups := memory.NewLineupRepository()
	logs := memory.NewTranslogRepository()
	if err := memory.Seed(leagues, ledgers); err != nil {
		t.Fatalf("seed memory repositories: %v", err)
	}

	catalog := testCatalog()
	store := memory.NewMarketStore(rosters, ledgers, offers, lineups)

	service := NewMarketService(
		leagues,
		rosters,
		ledgers,
		offers,
		logs,
		store,
		catalog,
		roster.DefaultRules(),
		&seqIDGenerator{prefix: "id"},
		logging.NewNop(),
		nil,
	)
	service.now = func() time.Time {
		return time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	}

	return &marketFixture{
		service: service,
		rosters: rosters,
		ledgers: ledgers,
		offers:  offers,
		lineups: lineups,
		logs:    logs,
		catalog: catalog,
	}
}

func (f *marketFixture) mustBuy(t *testing.T, userID, playerID, position string) PurchaseResult {
	t.Helper()
	res, err := f.service.Buy(t.Context(), BuyInput{
		UserID:   userID,
		LeagueID: memory.LeagueIDDemo,
		PlayerID: playerID,
		Position: position,
	})
	if err != nil {
		t.Fatalf("buy %s for %s failed: %v", playerID, userID, err)
	}
	return res
}

func TestMarketService_Buy(t *testing.T) {
	f := newMarketFixture(t)

	res := f.mustBuy(t, "user-ana", "pl-faker", "")

	if res.Price != 10 {
		t.Fatalf("expected price 10, got %d", res.Price)
	}
	if res.Balance != ledger.InitialBalance-10 {
		t.Fatalf("expected balance %d, got %d", ledger.InitialBalance-10, res.Balance)
	}
	if res.Ownership.Position != player.PositionMid {
		t.Fatalf("expected catalog position mid, got %s", res.Ownership.Position)
	}

	owner, owned, err := f.rosters.Owner(t.Context(), "pl-faker", memory.LeagueIDDemo)
	if err != nil || !owned {
		t.Fatalf("expected ownership binding, owned=%v err=%v", owned, err)
	}
	if owner.UserID != "user-ana" {
		t.Fatalf("expected owner user-ana, got %s", owner.UserID)
	}

	entries, err := f.logs.ListByLeague(t.Context(), memory.LeagueIDDemo)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(entries) != 1 || entries[0].Kind != translog.KindPurchase {
		t.Fatalf("expected one purchase log entry, got %+v", entries)
	}
	if entries[0].PlayerName != "Faker" || entries[0].Price != 10 {
		t.Fatalf("unexpected log snapshot: %+v", entries[0])
	}
}

func TestMarketService_Buy_PositionOverrideAlias(t *testing.T) {
	f := newMarketFixture(t)

	res := f.mustBuy(t, "user-ana", "pl-faker", "ADC")

	if res.Ownership.Position != player.PositionBottom {
		t.Fatalf("expected adc alias to resolve to bottom, got %s", res.Ownership.Position)
	}
}

func TestMarketService_Buy_OwnershipConflicts(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")

	_, err := f.service.Buy(t.Context(), BuyInput{UserID: "user-ana", LeagueID: memory.LeagueIDDemo, PlayerID: "pl-faker"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict buying own player, got %v", err)
	}

	_, err = f.service.Buy(t.Context(), BuyInput{UserID: "user-bruno", LeagueID: memory.LeagueIDDemo, PlayerID: "pl-faker"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict buying owned player, got %v", err)
	}
}

func TestMarketService_Buy_InsufficientFunds(t *testing.T) {
	f := newMarketFixture(t)

	if _, err := f.ledgers.Debit(t.Context(), "user-ana", memory.LeagueIDDemo, ledger.InitialBalance-5); err != nil {
		t.Fatalf("drain balance: %v", err)
	}

	_, err := f.service.Buy(t.Context(), BuyInput{UserID: "user-ana", LeagueID: memory.LeagueIDDemo, PlayerID: "pl-faker"})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	if _, owned, _ := f.rosters.Owner(t.Context(), "pl-faker", memory.LeagueIDDemo); owned {
		t.Fatal("failed purchase must not create ownership")
	}
	account, _, _ := f.ledgers.Get(t.Context(), "user-ana", memory.LeagueIDDemo)
	if account.Balance != 5 {
		t.Fatalf("failed purchase must not move money, balance=%d", account.Balance)
	}
}

func TestMarketService_Buy_TeamCap(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")
	f.mustBuy(t, "user-ana", "pl-zeus", "")

	_, err := f.service.Buy(t.Context(), BuyInput{UserID: "user-ana", LeagueID: memory.LeagueIDDemo, PlayerID: "pl-oner"})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on third T1 player, got %v", err)
	}
}

func TestMarketService_Buy_PositionCap(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")
	f.mustBuy(t, "user-ana", "pl-caps", "")

	_, err := f.service.Buy(t.Context(), BuyInput{UserID: "user-ana", LeagueID: memory.LeagueIDDemo, PlayerID: "pl-chovy"})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on third mid, got %v", err)
	}
}

func TestMarketService_Buy_GuardErrors(t *testing.T) {
	f := newMarketFixture(t)

	_, err := f.service.Buy(t.Context(), BuyInput{UserID: "user-ana", LeagueID: "no-such-league", PlayerID: "pl-faker"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing league, got %v", err)
	}

	_, err = f.service.Buy(t.Context(), BuyInput{UserID: "user-stranger", LeagueID: memory.LeagueIDDemo, PlayerID: "pl-faker"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-member, got %v", err)
	}

	_, err = f.service.Buy(t.Context(), BuyInput{UserID: "user-ana", LeagueID: memory.LeagueIDDemo, PlayerID: "pl-nobody"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown player, got %v", err)
	}

	_, err = f.service.Buy(t.Context(), BuyInput{UserID: "user-ana", LeagueID: memory.LeagueIDDemo, PlayerID: "pl-faker", Position: "coach"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown position, got %v", err)
	}
}

func TestMarketService_SellToMarket(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")

	res, err := f.service.SellToMarket(t.Context(), SellInput{
		UserID:   "user-ana",
		LeagueID: memory.LeagueIDDemo,
		PlayerID: "pl-faker",
	})
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}

	if res.Proceeds != 7 {
		t.Fatalf("expected proceeds 7 for price 10, got %d", res.Proceeds)
	}
	if res.Balance != ledger.InitialBalance-10+7 {
		t.Fatalf("expected balance %d, got %d", ledger.InitialBalance-10+7, res.Balance)
	}
	if _, owned, _ := f.rosters.Owner(t.Context(), "pl-faker", memory.LeagueIDDemo); owned {
		t.Fatal("sold player must have no owner")
	}

	entries, _ := f.logs.ListByLeague(t.Context(), memory.LeagueIDDemo)
	if len(entries) != 2 || entries[0].Kind != translog.KindSale {
		t.Fatalf("expected sale entry first, got %+v", entries)
	}
}

func TestMarketService_SellToMarket_CancelsOffersAndLineup(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")

	o, err := f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-bruno",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        12,
	})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	res, err := f.service.SellToMarket(t.Context(), SellInput{
		UserID:   "user-ana",
		LeagueID: memory.LeagueIDDemo,
		PlayerID: "pl-faker",
	})
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if res.CancelledOffers != 1 {
		t.Fatalf("expected 1 cancelled offer, got %d", res.CancelledOffers)
	}

	stored, err := f.offers.GetByID(t.Context(), o.ID)
	if err != nil {
		t.Fatalf("get offer: %v", err)
	}
	if stored.Status != offer.StatusCancelled {
		t.Fatalf("expected cancelled offer, got %s", stored.Status)
	}

	_, err = f.service.AcceptOffer(t.Context(), "user-bruno", o.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState accepting cancelled offer, got %v", err)
	}
}

func TestMarketService_SellToMarket_NotOwner(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")

	_, err := f.service.SellToMarket(t.Context(), SellInput{
		UserID:   "user-bruno",
		LeagueID: memory.LeagueIDDemo,
		PlayerID: "pl-faker",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	_, err = f.service.SellToMarket(t.Context(), SellInput{
		UserID:   "user-bruno",
		LeagueID: memory.LeagueIDDemo,
		PlayerID: "pl-caps",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unowned player, got %v", err)
	}
}

func TestMarketService_AcceptOffer_MovesMoneyAndOwnership(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "top")

	o, err := f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-bruno",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        20,
	})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	res, err := f.service.AcceptOffer(t.Context(), "user-bruno", o.ID)
	if err != nil {
		t.Fatalf("accept offer: %v", err)
	}

	if res.Ownership.UserID != "user-bruno" {
		t.Fatalf("expected new owner user-bruno, got %s", res.Ownership.UserID)
	}
	// The stored assignment travels with the player.
	if res.Ownership.Position != player.PositionTop {
		t.Fatalf("expected preserved position top, got %s", res.Ownership.Position)
	}

	seller, _, _ := f.ledgers.Get(t.Context(), "user-ana", memory.LeagueIDDemo)
	buyer, _, _ := f.ledgers.Get(t.Context(), "user-bruno", memory.LeagueIDDemo)
	if seller.Balance != ledger.InitialBalance-10+20 {
		t.Fatalf("unexpected seller balance %d", seller.Balance)
	}
	if buyer.Balance != ledger.InitialBalance-20 {
		t.Fatalf("unexpected buyer balance %d", buyer.Balance)
	}

	// The trade itself conserves total money in the league.
	carla, _, _ := f.ledgers.Get(t.Context(), "user-carla", memory.LeagueIDDemo)
	total := seller.Balance + buyer.Balance + carla.Balance
	if total != 3*ledger.InitialBalance-10 {
		t.Fatalf("expected total %d after one purchase and one trade, got %d", 3*ledger.InitialBalance-10, total)
	}

	stored, _ := f.offers.GetByID(t.Context(), o.ID)
	if stored.Status != offer.StatusCompleted {
		t.Fatalf("expected completed offer, got %s", stored.Status)
	}
}

func TestMarketService_AcceptOffer_InsufficientFundsKeepsOfferPending(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")

	o, err := f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-bruno",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        100,
	})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	_, err = f.service.AcceptOffer(t.Context(), "user-bruno", o.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	stored, _ := f.offers.GetByID(t.Context(), o.ID)
	if stored.Status != offer.StatusPending {
		t.Fatalf("offer must stay pending after failed funding, got %s", stored.Status)
	}

	owner, _, _ := f.rosters.Owner(t.Context(), "pl-faker", memory.LeagueIDDemo)
	if owner.UserID != "user-ana" {
		t.Fatalf("ownership must not move, got %s", owner.UserID)
	}
}

func TestMarketService_AcceptOffer_WrongBuyer(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")

	o, _ := f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-bruno",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        12,
	})

	_, err := f.service.AcceptOffer(t.Context(), "user-carla", o.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestMarketService_AcceptOffer_Expired(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")

	o, _ := f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-bruno",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        12,
	})

	f.service.now = func() time.Time {
		return o.ExpiresAt.Add(time.Minute)
	}

	_, err := f.service.AcceptOffer(t.Context(), "user-bruno", o.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for expired offer, got %v", err)
	}

	stored, _ := f.offers.GetByID(t.Context(), o.ID)
	if stored.Status != offer.StatusExpired {
		t.Fatalf("expected expired status, got %s", stored.Status)
	}
}

func TestMarketService_RejectOffer(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")

	o, _ := f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-bruno",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        12,
	})

	rejected, err := f.service.RejectOffer(t.Context(), "user-bruno", o.ID)
	if err != nil {
		t.Fatalf("reject offer: %v", err)
	}
	if rejected.Status != offer.StatusRejected {
		t.Fatalf("expected rejected status, got %s", rejected.Status)
	}

	_, err = f.service.AcceptOffer(t.Context(), "user-bruno", o.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState accepting rejected offer, got %v", err)
	}
}

func TestMarketService_RejectOffer_SellerWithdraws(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")

	o, _ := f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-bruno",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        12,
	})

	withdrawn, err := f.service.RejectOffer(t.Context(), "user-ana", o.ID)
	if err != nil {
		t.Fatalf("seller withdraw: %v", err)
	}
	if withdrawn.Status != offer.StatusRejected {
		t.Fatalf("expected rejected status, got %s", withdrawn.Status)
	}

	owner, _, _ := f.rosters.Owner(t.Context(), "pl-faker", memory.LeagueIDDemo)
	if owner.UserID != "user-ana" {
		t.Fatalf("withdrawing an offer must not move ownership, got %s", owner.UserID)
	}
}

func TestMarketService_RejectOffer_ThirdPartyForbidden(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")

	o, _ := f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-bruno",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        12,
	})

	_, err := f.service.RejectOffer(t.Context(), "user-carla", o.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-party, got %v", err)
	}

	stored, _ := f.offers.GetByID(t.Context(), o.ID)
	if stored.Status != offer.StatusPending {
		t.Fatalf("offer must stay pending, got %s", stored.Status)
	}
}

func TestMarketService_AcceptOffer_FundsCheckedBeforeSellerOwnership(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")

	o, _ := f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-bruno",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        100,
	})

	// Strip the seller's ownership behind the service's back so both the
	// funding check and the ownership check would fail.
	if err := f.rosters.Revoke(t.Context(), "pl-faker", memory.LeagueIDDemo); err != nil {
		t.Fatalf("revoke ownership: %v", err)
	}

	_, err := f.service.AcceptOffer(t.Context(), "user-bruno", o.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if !strings.Contains(err.Error(), "insufficient funds") {
		t.Fatalf("underfunded buyer must see the funding failure first, got %v", err)
	}
}

func TestMarketService_CreateOffer_Validation(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")

	_, err := f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-ana",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        12,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self offer, got %v", err)
	}

	_, err = f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-bruno",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        0,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero price, got %v", err)
	}

	_, err = f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-bruno",
		BuyerUserID:  "user-carla",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        12,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden offering another user's player, got %v", err)
	}

	_, err = f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-stranger",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        12,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-member buyer, got %v", err)
	}
}

func TestMarketService_ListOffers_FlipsExpired(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")
	f.mustBuy(t, "user-ana", "pl-ruler", "")

	first, _ := f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-bruno",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-faker",
		Price:        12,
	})

	f.service.now = func() time.Time {
		return first.ExpiresAt.Add(time.Hour)
	}
	second, err := f.service.CreateOffer(t.Context(), CreateOfferInput{
		SellerUserID: "user-ana",
		BuyerUserID:  "user-bruno",
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-ruler",
		Price:        9,
	})
	if err != nil {
		t.Fatalf("create second offer: %v", err)
	}

	views, err := f.service.ListOffers(t.Context(), "user-bruno", memory.LeagueIDDemo)
	if err != nil {
		t.Fatalf("list offers: %v", err)
	}
	if len(views) != 1 || views[0].Offer.ID != second.ID {
		t.Fatalf("expected only the live offer, got %+v", views)
	}
	if !views[0].Incoming {
		t.Fatal("expected the buyer side to see an incoming offer")
	}

	stored, _ := f.offers.GetByID(t.Context(), first.ID)
	if stored.Status != offer.StatusExpired {
		t.Fatalf("expected first offer expired, got %s", stored.Status)
	}
}

func TestMarketService_ListOwnedPlayers(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")
	f.mustBuy(t, "user-ana", "pl-zeus", "")

	owned, err := f.service.ListOwnedPlayers(t.Context(), "user-ana", memory.LeagueIDDemo)
	if err != nil {
		t.Fatalf("list owned players: %v", err)
	}
	if len(owned) != 2 {
		t.Fatalf("expected 2 owned players, got %d", len(owned))
	}
	for _, o := range owned {
		if o.Player.Name == "" {
			t.Fatalf("expected catalog enrichment, got %+v", o)
		}
	}
}

func TestMarketService_ListMarketPlayers_MarksOwners(t *testing.T) {
	f := newMarketFixture(t)
	f.mustBuy(t, "user-ana", "pl-faker", "")

	players, err := f.service.ListMarketPlayers(t.Context(), "user-bruno", memory.LeagueIDDemo)
	if err != nil {
		t.Fatalf("list market players: %v", err)
	}

	var faker *MarketPlayer
	for i := range players {
		if players[i].Player.ID == "pl-faker" {
			faker = &players[i]
		} else if players[i].OwnerUserID != "" {
			t.Fatalf("unexpected owner on %s", players[i].Player.ID)
		}
	}
	if faker == nil || faker.OwnerUserID != "user-ana" {
		t.Fatalf("expected pl-faker owned by user-ana, got %+v", faker)
	}
}
