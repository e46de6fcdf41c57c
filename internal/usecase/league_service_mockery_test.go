package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/league"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/ledger"
	leaguemock "github.com/nestorsdelgado/fantasy-market/internal/mocks/domain/league"
	ledgermock "github.com/nestorsdelgado/fantasy-market/internal/mocks/domain/ledger"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
)

func TestLeagueService_ListMembers_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	ledgerRepo := ledgermock.NewRepository(t)

	service := NewLeagueService(leagueRepo, ledgerRepo, logging.NewNop())
	leagueID := "league-emea-2026"
	members := []league.Member{
		{UserID: "user-ana", Username: "ana"},
		{UserID: "user-bruno", Username: "bruno"},
	}

	leagueRepo.
		On("GetByID", mock.Anything, leagueID).
		Return(league.League{ID: leagueID}, true, nil).
		Once()
	leagueRepo.
		On("IsMember", mock.Anything, leagueID, "user-ana").
		Return(true, nil).
		Once()
	leagueRepo.
		On("ListMembers", mock.Anything, leagueID).
		Return(members, nil).
		Once()
	ledgerRepo.
		On("Get", mock.Anything, "user-ana", leagueID).
		Return(ledger.Account{UserID: "user-ana", LeagueID: leagueID, Balance: 62}, true, nil).
		Once()
	ledgerRepo.
		On("Get", mock.Anything, "user-bruno", leagueID).
		Return(ledger.Account{}, false, nil).
		Once()

	got, err := service.ListMembers(ctx, "user-ana", leagueID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(got) != len(members) {
		t.Fatalf("unexpected member count: got=%d want=%d", len(got), len(members))
	}
	if got[0].Balance != 62 {
		t.Fatalf("unexpected balance for funded member: %d", got[0].Balance)
	}
	if got[1].Balance != 0 {
		t.Fatalf("member without account should report zero balance, got %d", got[1].Balance)
	}
}

func TestLeagueService_GetAccount_NotMemberUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	ledgerRepo := ledgermock.NewRepository(t)

	service := NewLeagueService(leagueRepo, ledgerRepo, logging.NewNop())
	leagueID := "league-emea-2026"

	leagueRepo.
		On("IsMember", mock.Anything, leagueID, "user-drifter").
		Return(false, nil).
		Once()

	_, err := service.GetAccount(ctx, "user-drifter", leagueID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
