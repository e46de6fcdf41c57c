// Package jobqueue pushes marketplace audit events to an external webhook
// consumer, for example a league Discord bot or a downstream analytics
// pipeline.
package jobqueue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/nestorsdelgado/fantasy-market/internal/domain/translog"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
)

var errPublishTransient = crerr.New("audit publish transient failure")

type PublisherConfig struct {
	WebhookURL string
	AuthToken  string
	Timeout    time.Duration
}

// Publisher delivers audit events over HTTP. Delivery is best effort; the
// transaction that produced the event never waits on it.
type Publisher struct {
	client     *http.Client
	webhookURL string
	authToken  string
	logger     *logging.Logger
}

func NewPublisher(cfg PublisherConfig, logger *logging.Logger) *Publisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Publisher{
		client:     &http.Client{Timeout: timeout},
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
		authToken:  strings.TrimSpace(cfg.AuthToken),
		logger:     logger,
	}
}

// Enabled reports whether a webhook target is configured.
func (p *Publisher) Enabled() bool {
	return p != nil && p.webhookURL != ""
}

type auditEvent struct {
	Kind           string `json:"kind"`
	TransactionID  string `json:"transaction_id"`
	LeagueID       string `json:"league_id"`
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name,omitempty"`
	PlayerTeam     string `json:"player_team,omitempty"`
	PlayerPosition string `json:"player_position,omitempty"`
	Price          int64  `json:"price"`
	UserID         string `json:"user_id,omitempty"`
	SellerUserID   string `json:"seller_user_id,omitempty"`
	BuyerUserID    string `json:"buyer_user_id,omitempty"`
	OfferID        string `json:"offer_id,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}

// Publish posts one transaction as an audit event.
func (p *Publisher) Publish(ctx context.Context, t translog.Transaction) error {
	if !p.Enabled() {
		return nil
	}

	event := auditEvent{
		Kind:           string(t.Kind),
		TransactionID:  t.ID,
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
		OccurredAt:     t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	encoded, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	_, _ = buf.Write(encoded)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.webhookURL, strings.NewReader(buf.String()))
	if err != nil {
		return fmt.Errorf("create audit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.authToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post audit event: %v", errPublishTransient, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: audit webhook status %d", errPublishTransient, resp.StatusCode)
		}
		return fmt.Errorf("audit webhook status %d", resp.StatusCode)
	}

	return nil
}

// AuditingRepository decorates a transaction log with webhook publication.
// Publish failures are logged, never propagated.
type AuditingRepository struct {
	next      translog.Repository
	publisher *Publisher
	logger    *logging.Logger
}

func NewAuditingRepository(next translog.Repository, publisher *Publisher, logger *logging.Logger) *AuditingRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuditingRepository{next: next, publisher: publisher, logger: logger}
}

func (r *AuditingRepository) Append(ctx context.Context, t translog.Transaction) error {
	if err := r.next.Append(ctx, t); err != nil {
		return err
	}

	if err := r.publisher.Publish(ctx, t); err != nil {
		r.logger.WarnContext(ctx, "audit event publish failed",
			"transaction_id", t.ID,
			"league_id", t.LeagueID,
			"error", err,
		)
	}

	return nil
}

func (r *AuditingRepository) ListByLeague(ctx context.Context, leagueID string) ([]translog.Transaction, error) {
	return r.next.ListByLeague(ctx, leagueID)
}
