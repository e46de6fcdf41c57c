package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/panjf2000/ants/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/nestorsdelgado/fantasy-market/internal/config"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/league"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/ledger"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/lineup"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/market"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/offer"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/player"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/roster"
	"github.com/nestorsdelgado/fantasy-market/internal/domain/translog"
	"github.com/nestorsdelgado/fantasy-market/internal/infrastructure/account/authgw"
	"github.com/nestorsdelgado/fantasy-market/internal/infrastructure/catalog/cached"
	"github.com/nestorsdelgado/fantasy-market/internal/infrastructure/catalog/lolesports"
	"github.com/nestorsdelgado/fantasy-market/internal/infrastructure/jobqueue"
	"github.com/nestorsdelgado/fantasy-market/internal/infrastructure/repository/memory"
	"github.com/nestorsdelgado/fantasy-market/internal/infrastructure/repository/postgres"
	"github.com/nestorsdelgado/fantasy-market/internal/interfaces/httpapi"
	idgen "github.com/nestorsdelgado/fantasy-market/internal/platform/id"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
	"github.com/nestorsdelgado/fantasy-market/internal/platform/resilience"
	"github.com/nestorsdelgado/fantasy-market/internal/usecase"
)

// repositories groups the storage ports the services consume so both
// backends produce the same wiring surface.
type repositories struct {
	leagues   league.Repository
	rosters   roster.Repository
	ledgers   ledger.Repository
	offers    offer.Repository
	translogs translog.Repository
	lineups   lineup.Repository
	store     market.Store
}

// NewHTTPServer assembles the full service from configuration. The returned
// cleanup releases the worker pool and closes the database handle when one
// was opened; callers invoke it after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	logPool, err := ants.NewPool(cfg.TranslogWorkers)
	if err != nil {
		return nil, nil, fmt.Errorf("create translog worker pool: %w", err)
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		logPool.Release()
		return nil, nil, err
	}

	cleanup := func() {
		logPool.Release()
		if db != nil {
			_ = db.Close()
		}
	}

	translogs := repos.translogs
	if cfg.AuditWebhookEnabled {
		publisher := jobqueue.NewPublisher(jobqueue.PublisherConfig{
			WebhookURL: cfg.AuditWebhookURL,
			AuthToken:  cfg.AuditWebhookToken,
			Timeout:    cfg.AuditWebhookTimeout,
		}, logger)
		translogs = jobqueue.NewAuditingRepository(translogs, publisher, logger)
	}

	catalog := buildCatalog(cfg, logger)

	marketSvc := usecase.NewMarketService(
		repos.leagues,
		repos.rosters,
		repos.ledgers,
		repos.offers,
		translogs,
		repos.store,
		catalog,
		roster.DefaultRules(),
		idgen.NewRandomGenerator(),
		logger,
		logPool,
	)
	lineupSvc := usecase.NewLineupService(repos.leagues, repos.rosters, repos.lineups, catalog, logger)
	transactionSvc := usecase.NewTransactionService(repos.leagues, translogs, repos.offers, catalog, logger)
	leagueSvc := usecase.NewLeagueService(repos.leagues, repos.ledgers, logger)

	verifier := authgw.NewClient(authgw.ClientConfig{
		BaseURL:        cfg.AuthGatewayBaseURL,
		IntrospectPath: cfg.AuthGatewayIntrospectPath,
		Timeout:        cfg.AuthGatewayTimeout,
		CacheTTL:       cfg.AuthGatewayCacheTTL,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AuthGatewayCircuitEnabled,
			FailureThreshold: cfg.AuthGatewayCircuitFailures,
			OpenTimeout:      cfg.AuthGatewayCircuitOpenDelay,
			HalfOpenMaxReq:   cfg.AuthGatewayCircuitHalfOpen,
		},
	})

	handler := httpapi.NewHandler(marketSvc, lineupSvc, transactionSvc, leagueSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		repos, err := buildMemoryRepositories(cfg, logger)
		return repos, nil, err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return repositories{}, nil, err
	}

	logger.Info("using postgres storage", "database", dbNameFromURL(cfg.DBURL))

	return repositories{
		leagues:   postgres.NewLeagueRepository(db),
		rosters:   postgres.NewRosterRepository(db),
		ledgers:   postgres.NewLedgerRepository(db),
		offers:    postgres.NewOfferRepository(db),
		translogs: postgres.NewTransactionRepository(db),
		lineups:   postgres.NewLineupRepository(db),
		store:     postgres.NewMarketStore(db),
	}, db, nil
}

func buildMemoryRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	leagues := memory.NewLeagueRepository()
	rosters := memory.NewRosterRepository()
	ledgers := memory.NewLedgerRepository()
	offers := memory.NewOfferRepository()
	translogs := memory.NewTranslogRepository()
	lineups := memory.NewLineupRepository()

	if cfg.SeedDemoData {
		if err := memory.Seed(leagues, ledgers); err != nil {
			return repositories{}, fmt.Errorf("seed demo data: %w", err)
		}
		logger.Info("seeded demo league", "league_id", memory.LeagueIDDemo)
	}

	logger.Info("using in-memory storage")

	return repositories{
		leagues:   leagues,
		rosters:   rosters,
		ledgers:   ledgers,
		offers:    offers,
		translogs: translogs,
		lineups:   lineups,
		store:     memory.NewMarketStore(rosters, ledgers, offers, lineups),
	}, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func buildCatalog(cfg config.Config, logger *logging.Logger) player.Catalog {
	client := lolesports.NewClient(lolesports.ClientConfig{
		BaseURL:    cfg.EsportsBaseURL,
		APIKey:     cfg.EsportsAPIKey,
		HomeLeague: cfg.EsportsHomeLeague,
		Locale:     cfg.EsportsLocale,
		Timeout:    cfg.EsportsTimeout,
		MaxRetries: cfg.EsportsMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.EsportsCircuitEnabled,
			FailureThreshold: cfg.EsportsCircuitFailures,
			OpenTimeout:      cfg.EsportsCircuitOpenDelay,
			HalfOpenMaxReq:   cfg.EsportsCircuitHalfOpen,
		},
	})

	if !cfg.CacheEnabled {
		return client
	}

	return cached.New(client, cfg.CacheTTL)
}
