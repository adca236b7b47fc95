package app

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libdb "charginguu/backend/libs/db"
	libredis "charginguu/backend/libs/redis"
	"charginguu/backend/services/sessions-service/internal/config"
	httpserver "charginguu/backend/services/sessions-service/internal/http"
	"charginguu/backend/services/sessions-service/internal/http/handlers"
	"charginguu/backend/services/sessions-service/internal/invoice"
	redisstore "charginguu/backend/services/sessions-service/internal/redis"
	"charginguu/backend/services/sessions-service/internal/repository"
	"charginguu/backend/services/sessions-service/internal/service"
	"charginguu/backend/services/sessions-service/internal/stream"
)

// App wires sessions-service dependencies.
type App struct {
	server      *httpserver.Server
	hub         *stream.Hub
	sessions    *service.SessionsService
	pool        *pgxpool.Pool
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph. Without a DSN summaries are only logged; without a
// Redis address snapshots stay in process.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	var sink service.SummarySink = service.NewLogSink(logger)
	if strings.TrimSpace(cfg.Database.DSN) != "" {
		pool, err := libdb.NewPostgresPool(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		sink = repository.NewSessionRepository(pool)
	} else {
		logger.Warn("no database configured, session summaries will only be logged")
	}

	var cache service.SnapshotCache
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		client, err := libredis.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redisClient = client
		cache = redisstore.NewStore(client, cfg.ActiveSessionTTL())
	}

	a.hub = stream.NewHub(a.redisClient, logger)
	a.sessions = service.NewSessionsService(
		service.NewTariffService(cfg.Tariffs.Default, cfg.Tariffs.Spots),
		sink,
		cache,
		a.hub,
		invoice.NewIssuer(cfg.Invoice.Secret, cfg.Invoice.TTL),
		service.Options{
			TickInterval:  cfg.Session.TickInterval,
			AutoEndAtFull: cfg.Session.AutoEndAtFull,
		},
		logger,
	)

	lookup := func(ctx context.Context, sessionID string) ([]byte, error) {
		live, err := a.sessions.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(live)
	}

	routes := httpserver.Routes{
		StartSession:   handlers.NewStartSessionHandler(a.sessions),
		ActiveSessions: handlers.NewActiveSessionsHandler(a.sessions),
		GetSession:     handlers.NewGetSessionHandler(a.sessions),
		EndSession:     handlers.NewEndSessionHandler(a.sessions),
		Stream:         stream.NewHandler(a.hub, lookup, cfg.Stream.WriteTimeout, logger),
		Summary:        handlers.NewSummaryHandler(a.sessions),
		Rating:         handlers.NewRatingHandler(a.sessions),
		Favorite:       handlers.NewFavoriteHandler(a.sessions),
		Issue:          handlers.NewIssueHandler(a.sessions),
		SessionInvoice: handlers.NewSessionInvoiceHandler(a.sessions),
		Invoice:        handlers.NewInvoiceHandler(a.sessions),
		Health:         handlers.NewHealthHandler(),
	}

	a.server = httpserver.NewServer(cfg.HTTPAddress(), httpserver.NewRouter(routes), logger)
	return a, nil
}

// Run starts the stream relay and the HTTP server.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.sessions != nil {
		a.sessions.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
