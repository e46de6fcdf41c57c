package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nestorsdelgado/fantasy-market/internal/usecase"
)

type setStarterRequest struct {
	LeagueID string `json:"leagueId" validate:"required"`
	PlayerID string `json:"playerId" validate:"required"`
	Position string `json:"position" validate:"required,max=20"`
	Matchday int    `json:"matchday" validate:"gte=0"`
}

type lineupSlotDTO struct {
	Position  string           `json:"position"`
	Matchday  int              `json:"matchday"`
	Player    catalogPlayerDTO `json:"player"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func (h *Handler) SetStarter(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetStarter")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req setStarterRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	slot, err := h.lineupService.SetStarter(ctx, usecase.SetStarterInput{
		UserID:   principal.UserID,
		LeagueID: req.LeagueID,
		PlayerID: req.PlayerID,
		Position: req.Position,
		Matchday: req.Matchday,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set starter failed", "user_id", principal.UserID, "league_id", req.LeagueID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"leagueId":  slot.LeagueID,
		"playerId":  slot.PlayerID,
		"position":  slot.Position,
		"matchday":  slot.Matchday,
		"updatedAt": slot.UpdatedAt,
	})
}

func (h *Handler) GetLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	matchday := 0
	if raw := strings.TrimSpace(r.PathValue("matchday")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(ctx, w, fmt.Errorf("%w: invalid matchday %q", usecase.ErrInvalidInput, raw))
			return
		}
		matchday = parsed
	}

	entries, err := h.lineupService.GetLineup(ctx, principal.UserID, leagueID, matchday)
	if err != nil {
		h.logger.WarnContext(ctx, "get lineup failed", "user_id", principal.UserID, "league_id", leagueID, "matchday", matchday, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]lineupSlotDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, lineupSlotDTO{
			Position:  entry.Slot.Position,
			Matchday:  entry.Slot.Matchday,
			Player:    catalogPlayerToDTO(entry.Player),
			UpdatedAt: entry.Slot.UpdatedAt,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
