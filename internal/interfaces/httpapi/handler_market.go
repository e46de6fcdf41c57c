package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nestorsdelgado/fantasy-market/internal/usecase"
)

type buyPlayerRequest struct {
	LeagueID string `json:"leagueId" validate:"required"`
	PlayerID string `json:"playerId" validate:"required"`
	Position string `json:"position,omitempty" validate:"omitempty,max=20"`
}

type sellPlayerRequest struct {
	LeagueID string `json:"leagueId" validate:"required"`
	PlayerID string `json:"playerId" validate:"required"`
}

type createOfferRequest struct {
	LeagueID     string `json:"leagueId" validate:"required"`
	PlayerID     string `json:"playerId" validate:"required"`
	TargetUserID string `json:"targetUserId" validate:"required"`
	Price        int64  `json:"price" validate:"required,gt=0"`
}

type purchaseDTO struct {
	Ownership ownershipDTO     `json:"ownership"`
	Player    catalogPlayerDTO `json:"player"`
	Price     int64            `json:"price"`
	Balance   int64            `json:"balance"`
}

type saleDTO struct {
	PlayerID        string `json:"playerId"`
	Proceeds        int64  `json:"proceeds"`
	Balance         int64  `json:"balance"`
	CancelledOffers int    `json:"cancelledOffers"`
}

type tradeDTO struct {
	Offer     offerDTO     `json:"offer"`
	Ownership ownershipDTO `json:"ownership"`
}

type ownedPlayerDTO struct {
	Player     catalogPlayerDTO `json:"player"`
	Position   string           `json:"position"`
	AcquiredAt time.Time        `json:"acquiredAt"`
}

type marketPlayerDTO struct {
	Player      catalogPlayerDTO `json:"player"`
	OwnerUserID string           `json:"ownerUserId,omitempty"`
}

type offerViewDTO struct {
	Offer    offerDTO         `json:"offer"`
	Player   catalogPlayerDTO `json:"player"`
	Incoming bool             `json:"incoming"`
}

func (h *Handler) BuyPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuyPlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req buyPlayerRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.marketService.Buy(ctx, usecase.BuyInput{
		UserID:   principal.UserID,
		LeagueID: req.LeagueID,
		PlayerID: req.PlayerID,
		Position: req.Position,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "buy player failed", "user_id", principal.UserID, "league_id", req.LeagueID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, purchaseDTO{
		Ownership: ownershipToDTO(result.Ownership),
		Player:    catalogPlayerToDTO(result.Player),
		Price:     result.Price,
		Balance:   result.Balance,
	})
}

func (h *Handler) SellPlayerToMarket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SellPlayerToMarket")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req sellPlayerRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.marketService.SellToMarket(ctx, usecase.SellInput{
		UserID:   principal.UserID,
		LeagueID: req.LeagueID,
		PlayerID: req.PlayerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "sell player failed", "user_id", principal.UserID, "league_id", req.LeagueID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, saleDTO{
		PlayerID:        result.PlayerID,
		Proceeds:        result.Proceeds,
		Balance:         result.Balance,
		CancelledOffers: result.CancelledOffers,
	})
}

func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateOffer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createOfferRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.marketService.CreateOffer(ctx, usecase.CreateOfferInput{
		SellerUserID: principal.UserID,
		BuyerUserID:  req.TargetUserID,
		LeagueID:     req.LeagueID,
		PlayerID:     req.PlayerID,
		Price:        req.Price,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create offer failed", "user_id", principal.UserID, "league_id", req.LeagueID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, offerToDTO(created))
}

func (h *Handler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptOffer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	offerID := strings.TrimSpace(r.PathValue("offerID"))
	result, err := h.marketService.AcceptOffer(ctx, principal.UserID, offerID)
	if err != nil {
		h.logger.WarnContext(ctx, "accept offer failed", "user_id", principal.UserID, "offer_id", offerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tradeDTO{
		Offer:     offerToDTO(result.Offer),
		Ownership: ownershipToDTO(result.Ownership),
	})
}

func (h *Handler) RejectOffer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectOffer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	offerID := strings.TrimSpace(r.PathValue("offerID"))
	rejected, err := h.marketService.RejectOffer(ctx, principal.UserID, offerID)
	if err != nil {
		h.logger.WarnContext(ctx, "reject offer failed", "user_id", principal.UserID, "offer_id", offerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, offerToDTO(rejected))
}

func (h *Handler) ListMyPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPlayers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	owned, err := h.marketService.ListOwnedPlayers(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list owned players failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ownedPlayerDTO, 0, len(owned))
	for _, o := range owned {
		items = append(items, ownedPlayerDTO{
			Player:     catalogPlayerToDTO(o.Player),
			Position:   string(o.Position),
			AcquiredAt: o.AcquiredAt,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMarketPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMarketPlayers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	players, err := h.marketService.ListMarketPlayers(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list market players failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]marketPlayerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, marketPlayerDTO{
			Player:      catalogPlayerToDTO(p.Player),
			OwnerUserID: p.OwnerUserID,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListOwnerships(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOwnerships")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	owned, ownerByPlayer, err := h.marketService.ListOwnerships(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list ownerships failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ownedPlayerDTO, 0, len(owned))
	for _, o := range owned {
		items = append(items, ownedPlayerDTO{
			Player:     catalogPlayerToDTO(o.Player),
			Position:   string(o.Position),
			AcquiredAt: o.AcquiredAt,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"players": items,
		"owners":  ownerByPlayer,
	})
}

func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOffers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	offers, err := h.marketService.ListOffers(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list offers failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]offerViewDTO, 0, len(offers))
	for _, o := range offers {
		items = append(items, offerViewDTO{
			Offer:    offerToDTO(o.Offer),
			Player:   catalogPlayerToDTO(o.Player),
			Incoming: o.Incoming,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
