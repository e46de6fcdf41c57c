package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nestorsdelgado/fantasy-market/internal/usecase"
)

type leagueDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type memberDTO struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joinedAt"`
	Balance  int64     `json:"balance"`
}

type accountDTO struct {
	UserID   string    `json:"userId"`
	LeagueID string    `json:"leagueId"`
	Balance  int64     `json:"balance"`
	JoinedAt time.Time `json:"joinedAt"`
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	item, err := h.leagueService.GetLeague(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueDTO{
		ID:        item.ID,
		Name:      item.Name,
		Code:      item.Code,
		CreatedBy: item.CreatedBy,
		CreatedAt: item.CreatedAt,
	})
}

func (h *Handler) ListLeagueMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueMembers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	members, err := h.leagueService.ListMembers(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list members failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]memberDTO, 0, len(members))
	for _, m := range members {
		items = append(items, memberDTO{
			UserID:   m.Member.UserID,
			Username: m.Member.Username,
			JoinedAt: m.Member.JoinedAt,
			Balance:  m.Balance,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMyAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyAccount")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	account, err := h.leagueService.GetAccount(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get account failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, accountDTO{
		UserID:   account.UserID,
		LeagueID: account.LeagueID,
		Balance:  account.Balance,
		JoinedAt: account.JoinedAt,
	})
}

func (h *Handler) ProvisionMyAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProvisionMyAccount")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	account, err := h.leagueService.ProvisionAccount(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "provision account failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, accountDTO{
		UserID:   account.UserID,
		LeagueID: account.LeagueID,
		Balance:  account.Balance,
		JoinedAt: account.JoinedAt,
	})
}
