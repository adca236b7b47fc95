package app

import (
	"context"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libdb "charginguu/backend/libs/db"
	libredis "charginguu/backend/libs/redis"
	"charginguu/backend/services/portal-service/internal/config"
	httpserver "charginguu/backend/services/portal-service/internal/http"
	"charginguu/backend/services/portal-service/internal/http/handlers"
	"charginguu/backend/services/portal-service/internal/otp"
	"charginguu/backend/services/portal-service/internal/profile"
	"charginguu/backend/services/portal-service/internal/repository"
	"charginguu/backend/services/portal-service/internal/service"
	"charginguu/backend/services/portal-service/internal/spot"
)

// App wires portal-service dependencies.
type App struct {
	server      *httpserver.Server
	pool        *pgxpool.Pool
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	var (
		registrations service.RegistrationSink = service.NewLogSink(logger)
		spots         service.SpotSink         = service.NewLogSink(logger)
	)
	if strings.TrimSpace(cfg.Database.DSN) != "" {
		pool, err := libdb.NewPostgresPool(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		registrations = repository.NewRegistrationRepository(pool)
		spots = repository.NewSpotRepository(pool)
	} else {
		logger.Warn("no database configured, submissions will only be logged")
	}

	var codeStore otp.Store = otp.NewMemoryStore()
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		client, err := libredis.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redisClient = client
		codeStore = otp.NewRedisStore(client)
	}

	var notifier otp.Notifier = otp.NewLogNotifier(logger)
	if strings.TrimSpace(cfg.SMS.GatewayURL) != "" {
		notifier = otp.NewGatewayNotifier(cfg.SMS.GatewayURL, cfg.SMS.APIKey, cfg.SMS.Sender, &http.Client{Timeout: cfg.SMS.Timeout})
	}

	codes := otp.NewService(
		codeStore,
		otp.NewBcryptHasher(cfg.OTP.BcryptCost),
		otp.NewLimiter(cfg.OTP.ResendEvery, cfg.OTP.Burst),
		notifier,
		cfg.OTP.TTL,
		logger,
	)

	regService := service.NewRegistrationService(registrations, codes, logger)
	spotService := service.NewSpotService(spots, spot.NewSimulatedLocator(), logger)
	profileService := profile.NewService(profile.User{Name: cfg.Profile.Name, Email: cfg.Profile.Email}, logger)

	routes := httpserver.Routes{
		CreateRegistration: handlers.NewCreateRegistrationHandler(regService),
		GetRegistration:    handlers.NewGetRegistrationHandler(regService),
		UpdateRegistration: handlers.NewUpdateRegistrationHandler(regService),
		NextStep:           handlers.NewRegistrationStepHandler(regService.Next),
		PreviousStep:       handlers.NewRegistrationStepHandler(regService.Back),
		SubmitRegistration: handlers.NewSubmitRegistrationHandler(regService),
		SendCode:           handlers.NewSendCodeHandler(regService),
		VerifyCode:         handlers.NewVerifyCodeHandler(regService),
		Catalog:            handlers.NewCatalogHandler(spotService),
		ValidateSpot:       handlers.NewValidateSpotHandler(spotService),
		CreateSpot:         handlers.NewCreateSpotHandler(spotService),
		LocateSpot:         handlers.NewLocateSpotHandler(spotService),
		Profile:            handlers.NewProfileHandler(profileService),
		Logout:             handlers.NewLogoutHandler(profileService),
		Health:             handlers.NewHealthHandler(),
	}

	a.server = httpserver.NewServer(cfg.HTTPAddress(), httpserver.NewRouter(routes), logger)
	return a, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
