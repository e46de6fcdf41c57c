package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/league"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/ledger"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
)

// MemberView is one league member with their current cash balance.
type MemberView struct {
	Member  league.Member
	Balance int64
}

// LeagueService covers league reads and account lifecycle. Balances are
// provisioned exactly once at join time and never repaired afterwards; a
// spent-to-zero balance is a legitimate state.
type LeagueService struct {
	leagueRepo league.Repository
	ledgerRepo ledger.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewLeagueService(leagueRepo league.Repository, ledgerRepo ledger.Repository, logger *logging.Logger) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LeagueService{
		leagueRepo: leagueRepo,
		ledgerRepo: ledgerRepo,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *LeagueService) GetLeague(ctx context.Context, userID, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeague")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return league.League{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	l, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !found {
		return league.League{}, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}

	member, err := s.leagueRepo.IsMember(ctx, leagueID, userID)
	if err != nil {
		return league.League{}, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return league.League{}, fmt.Errorf("%w: not a member of league %s", ErrForbidden, leagueID)
	}

	return l, nil
}

// ListMembers returns the league roster of users with their balances.
func (s *LeagueService) ListMembers(ctx context.Context, userID, leagueID string) ([]MemberView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListMembers")
	defer span.End()

	if _, err := s.GetLeague(ctx, userID, leagueID); err != nil {
		return nil, err
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	out := make([]MemberView, 0, len(members))
	for _, m := range members {
		view := MemberView{Member: m}
		account, found, err := s.ledgerRepo.Get(ctx, m.UserID, leagueID)
		if err != nil {
			return nil, fmt.Errorf("get member account: %w", err)
		}
		if found {
			view.Balance = account.Balance
		}
		out = append(out, view)
	}

	return out, nil
}

// GetAccount returns the caller's cash account in a league.
func (s *LeagueService) GetAccount(ctx context.Context, userID, leagueID string) (ledger.Account, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetAccount")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return ledger.Account{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	member, err := s.leagueRepo.IsMember(ctx, leagueID, userID)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return ledger.Account{}, fmt.Errorf("%w: not a member of league %s", ErrForbidden, leagueID)
	}

	account, found, err := s.ledgerRepo.Get(ctx, userID, leagueID)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("get account: %w", err)
	}
	if !found {
		return ledger.Account{}, fmt.Errorf("%w: no account in league %s", ErrNotFound, leagueID)
	}

	return account, nil
}

// ProvisionAccount grants the joining member their starting balance. It is
// idempotent: an existing account is returned unchanged.
func (s *LeagueService) ProvisionAccount(ctx context.Context, userID, leagueID string) (ledger.Account, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ProvisionAccount")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return ledger.Account{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	account := ledger.Account{
		UserID:   userID,
		LeagueID: leagueID,
		Balance:  ledger.InitialBalance,
		JoinedAt: s.now().UTC(),
	}
	if err := s.ledgerRepo.Create(ctx, account); err != nil {
		if errors.Is(err, ledger.ErrAccountExists) {
			existing, _, getErr := s.ledgerRepo.Get(ctx, userID, leagueID)
			if getErr != nil {
				return ledger.Account{}, fmt.Errorf("get existing account: %w", getErr)
			}
			return existing, nil
		}
		return ledger.Account{}, fmt.Errorf("create account: %w", err)
	}

	s.logger.InfoContext(ctx, "account provisioned",
		"league_id", leagueID,
		"user_id", userID,
		"balance", account.Balance,
	)

	return account, nil
}
