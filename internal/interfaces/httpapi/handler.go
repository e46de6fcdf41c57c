package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/offer"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/roster"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
	"github.com/nestorsdelgado/fantasy-market/internal/usecase"
)

type Handler struct {
	marketService      *usecase.MarketService
	lineupService      *usecase.LineupService
	transactionService *usecase.TransactionService
	leagueService      *usecase.LeagueService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	marketService *usecase.MarketService,
	lineupService *usecase.LineupService,
	transactionService *usecase.TransactionService,
	leagueService *usecase.LeagueService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		marketService:      marketService,
		lineupService:      lineupService,
		transactionService: transactionService,
		leagueService:      leagueService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeRequest(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type catalogPlayerDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Team     string `json:"team"`
	TeamName string `json:"teamName,omitempty"`
	Position string `json:"position"`
	ImageURL string `json:"imageUrl,omitempty"`
	Price    int64  `json:"price"`
}

func catalogPlayerToDTO(p player.CatalogPlayer) catalogPlayerDTO {
	return catalogPlayerDTO{
		ID:       p.ID,
		Name:     p.Name,
		Team:     p.Team,
		TeamName: p.TeamName,
		Position: string(p.Position),
		ImageURL: p.ImageURL,
		Price:    p.Price,
	}
}

type ownershipDTO struct {
	PlayerID   string    `json:"playerId"`
	LeagueID   string    `json:"leagueId"`
	UserID     string    `json:"userId"`
	Position   string    `json:"position"`
	AcquiredAt time.Time `json:"acquiredAt"`
}

func ownershipToDTO(o roster.Ownership) ownershipDTO {
	return ownershipDTO{
		PlayerID:   o.PlayerID,
		LeagueID:   o.LeagueID,
		UserID:     o.UserID,
		Position:   string(o.Position),
		AcquiredAt: o.AcquiredAt,
	}
}

type offerDTO struct {
	ID           string    `json:"id"`
	PlayerID     string    `json:"playerId"`
	LeagueID     string    `json:"leagueId"`
	SellerUserID string    `json:"sellerUserId"`
	BuyerUserID  string    `json:"buyerUserId"`
	Price        int64     `json:"price"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func offerToDTO(o offer.Offer) offerDTO {
	return offerDTO{
		ID:           o.ID,
		PlayerID:     o.PlayerID,
		LeagueID:     o.LeagueID,
		SellerUserID: o.SellerUserID,
		BuyerUserID:  o.BuyerUserID,
		Price:        o.Price,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		ExpiresAt:    o.ExpiresAt,
	}
}
