package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nestorsdelgado/fantasy-market/internal/usecase"
)

type transactionDTO struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	LeagueID       string    `json:"leagueId"`
	PlayerID       string    `json:"playerId"`
	PlayerName     string    `json:"playerName,omitempty"`
	PlayerTeam     string    `json:"playerTeam,omitempty"`
	PlayerPosition string    `json:"playerPosition,omitempty"`
	Price          int64     `json:"price"`
	UserID         string    `json:"userId,omitempty"`
	SellerUserID   string    `json:"sellerUserId,omitempty"`
	BuyerUserID    string    `json:"buyerUserId,omitempty"`
	OfferID        string    `json:"offerId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTransactions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	transactions, err := h.transactionService.ListByLeague(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list transactions failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]transactionDTO, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, transactionDTO{
			ID:             t.ID,
			Kind:           string(t.Kind),
			LeagueID:       t.LeagueID,
			PlayerID:       t.PlayerID,
			PlayerName:     t.PlayerName,
			PlayerTeam:     t.PlayerTeam,
			PlayerPosition: t.PlayerPosition,
			Price:          t.Price,
			UserID:         t.UserID,
			SellerUserID:   t.SellerUserID,
			BuyerUserID:    t.BuyerUserID,
			OfferID:        t.OfferID,
			CreatedAt:      t.CreatedAt,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
