package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/offer"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/translog"
	"github.com/nestorsdelgado/fantasy-market/internal/infrastructure/repository/memory"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
)

func TestTransactionService_ListByLeague_MergesReconstructedTrades(t *testing.T) {
	leagues := memory.NewLeagueRepository()
	ledgers := memory.NewLedgerRepository()
	offers := memory.NewOfferRepository()
	logs := memory.NewTranslogRepository()
	if err := memory.Seed(leagues, ledgers); err != nil {
		t.Fatalf("seed memory repositories: %v", err)
	}

	base := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	// A purchase that made it into the log.
	err := logs.Append(t.Context(), translog.Transaction{
		ID:         "tx-1",
		Kind:       translog.KindPurchase,
		LeagueID:   memory.LeagueIDDemo,
		PlayerID:   "pl-faker",
		PlayerName: "Faker",
		Price:      10,
		UserID:     "user-ana",
		CreatedAt:  base,
	})
	if err != nil {
		t.Fatalf("append log entry: %v", err)
	}

	// A completed offer whose best-effort log write was lost.
	err = offers.Create(t.Context(), offer.Offer{
		ID:           "of-lost",
		PlayerID:     "pl-faker",
		LeagueID:     memory.LeagueIDDemo,
		SellerUserID: "user-ana",
		BuyerUserID:  "user-bruno",
		Price:        14,
		Status:       offer.StatusCompleted,
		CreatedAt:    base.Add(time.Hour),
		ExpiresAt:    base.Add(49 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	// A completed offer already present in the log must not duplicate.
	err = offers.Create(t.Context(), offer.Offer{
		ID:           "of-logged",
		PlayerID:     "pl-caps",
		LeagueID:     memory.LeagueIDDemo,
		SellerUserID: "user-bruno",
		BuyerUserID:  "user-carla",
		Price:        9,
		Status:       offer.StatusCompleted,
		CreatedAt:    base.Add(2 * time.Hour),
		ExpiresAt:    base.Add(50 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}
	err = logs.Append(t.Context(), translog.Transaction{
		ID:           "tx-2",
		Kind:         translog.KindTrade,
		LeagueID:     memory.LeagueIDDemo,
		PlayerID:     "pl-caps",
		Price:        9,
		SellerUserID: "user-bruno",
		BuyerUserID:  "user-carla",
		OfferID:      "of-logged",
		CreatedAt:    base.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("append log entry: %v", err)
	}

	service := NewTransactionService(leagues, logs, offers, testCatalog(), logging.NewNop())

	out, err := service.ListByLeague(t.Context(), "user-ana", memory.LeagueIDDemo)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("expected 3 transactions, got %d: %+v", len(out), out)
	}
	// Newest first.
	if out[0].OfferID != "of-logged" || out[1].OfferID != "of-lost" || out[2].ID != "tx-1" {
		t.Fatalf("unexpected ordering: %+v", out)
	}
	if out[1].Kind != translog.KindTrade || out[1].PlayerName != "Faker" {
		t.Fatalf("expected reconstructed trade enriched from catalog, got %+v", out[1])
	}
}

func TestTransactionService_ListByLeague_Guards(t *testing.T) {
	leagues := memory.NewLeagueRepository()
	ledgers := memory.NewLedgerRepository()
	if err := memory.Seed(leagues, ledgers); err != nil {
		t.Fatalf("seed memory repositories: %v", err)
	}

	service := NewTransactionService(leagues, memory.NewTranslogRepository(), memory.NewOfferRepository(), testCatalog(), logging.NewNop())

	_, err := service.ListByLeague(t.Context(), "user-ana", "no-such-league")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = service.ListByLeague(t.Context(), "user-stranger", memory.LeagueIDDemo)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
