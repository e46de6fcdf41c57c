package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/ledger"
	"github.com/nestorsdelgado/fantasy-market/internal/infrastructure/repository/memory"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
)

func newLeagueFixture(t *testing.T) (*LeagueService, *memory.LedgerRepository) {
	t.Helper()

	leagues := memory.NewLeagueRepository()
	ledgers := memory.NewLedgerRepository()
	if err := memory.Seed(leagues, ledgers); err != nil {
		t.Fatalf("seed memory repositories: %v", err)
	}

	service := NewLeagueService(leagues, ledgers, logging.NewNop())
	service.now = func() time.Time {
		return time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	}

	return service, ledgers
}

func TestLeagueService_GetLeague(t *testing.T) {
	service, _ := newLeagueFixture(t)

	l, err := service.GetLeague(t.Context(), "user-ana", memory.LeagueIDDemo)
	if err != nil {
		t.Fatalf("get league: %v", err)
	}
	if l.ID != memory.LeagueIDDemo {
		t.Fatalf("unexpected league %+v", l)
	}

	_, err = service.GetLeague(t.Context(), "user-ana", "no-such-league")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = service.GetLeague(t.Context(), "user-stranger", memory.LeagueIDDemo)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestLeagueService_ListMembers_IncludesBalances(t *testing.T) {
	service, ledgers := newLeagueFixture(t)

	if _, err := ledgers.Debit(t.Context(), "user-bruno", memory.LeagueIDDemo, 30); err != nil {
		t.Fatalf("debit: %v", err)
	}

	members, err := service.ListMembers(t.Context(), "user-ana", memory.LeagueIDDemo)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(members))
	}

	byUser := make(map[string]int64, len(members))
	for _, m := range members {
		byUser[m.Member.UserID] = m.Balance
	}
	if byUser["user-ana"] != ledger.InitialBalance {
		t.Fatalf("expected untouched balance for user-ana, got %d", byUser["user-ana"])
	}
	if byUser["user-bruno"] != ledger.InitialBalance-30 {
		t.Fatalf("expected debited balance for user-bruno, got %d", byUser["user-bruno"])
	}
}

func TestLeagueService_GetAccount(t *testing.T) {
	service, ledgers := newLeagueFixture(t)

	account, err := service.GetAccount(t.Context(), "user-ana", memory.LeagueIDDemo)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.Balance != ledger.InitialBalance {
		t.Fatalf("expected initial balance, got %d", account.Balance)
	}

	// A spent-to-zero balance is served as is, never repaired.
	if _, err := ledgers.Debit(t.Context(), "user-ana", memory.LeagueIDDemo, ledger.InitialBalance); err != nil {
		t.Fatalf("drain balance: %v", err)
	}
	account, err = service.GetAccount(t.Context(), "user-ana", memory.LeagueIDDemo)
	if err != nil {
		t.Fatalf("get drained account: %v", err)
	}
	if account.Balance != 0 {
		t.Fatalf("expected zero balance, got %d", account.Balance)
	}

	_, err = service.GetAccount(t.Context(), "user-stranger", memory.LeagueIDDemo)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestLeagueService_ProvisionAccount_Idempotent(t *testing.T) {
	service, ledgers := newLeagueFixture(t)

	if _, err := ledgers.Debit(t.Context(), "user-ana", memory.LeagueIDDemo, 20); err != nil {
		t.Fatalf("debit: %v", err)
	}

	account, err := service.ProvisionAccount(t.Context(), "user-ana", memory.LeagueIDDemo)
	if err != nil {
		t.Fatalf("provision existing account: %v", err)
	}
	if account.Balance != ledger.InitialBalance-20 {
		t.Fatalf("existing account must not be reset, got %d", account.Balance)
	}

	account, err = service.ProvisionAccount(t.Context(), "user-dima", memory.LeagueIDDemo)
	if err != nil {
		t.Fatalf("provision new account: %v", err)
	}
	if account.Balance != ledger.InitialBalance {
		t.Fatalf("expected initial balance for new account, got %d", account.Balance)
	}
}
