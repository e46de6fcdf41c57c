package memory

import (
	"context"
	"sync"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/ledger"
)

type LedgerRepository struct {
	mu    sync.RWMutex
	items map[string]ledger.Account
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{items: make(map[string]ledger.Account)}
}

func (r *LedgerRepository) Get(_ context.Context, userID, leagueID string) (ledger.Account, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[accountKey(userID, leagueID)]
	return a, ok, nil
}

func (r *LedgerRepository) Create(_ context.Context, account ledger.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := accountKey(account.UserID, account.LeagueID)
	if _, exists := r.items[key]; exists {
		return ledger.ErrAccountExists
	}
	r.items[key] = account
	return nil
}

func (r *LedgerRepository) Debit(_ context.Context, userID, leagueID string, amount int64) (ledger.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := accountKey(userID, leagueID)
	a, ok := r.items[key]
	if !ok {
		return ledger.Account{}, ledger.ErrAccountNotFound
	}
	if a.Balance < amount {
		return ledger.Account{}, ledger.ErrInsufficientFunds
	}
	a.Balance -= amount
	r.items[key] = a
	return a, nil
}

func (r *LedgerRepository) Credit(_ context.Context, userID, leagueID string, amount int64) (ledger.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := accountKey(userID, leagueID)
	a, ok := r.items[key]
	if !ok {
		return ledger.Account{}, ledger.ErrAccountNotFound
	}
	a.Balance += amount
	r.items[key] = a
	return a, nil
}

func (r *LedgerRepository) Delete(_ context.Context, userID, leagueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, accountKey(userID, leagueID))
	return nil
}

func accountKey(userID, leagueID string) string {
	return userID + "::" + leagueID
}
