package service

import (
	"context"

	"go.uber.org/zap"

	"charginguu/backend/services/portal-service/internal/models"
)

// RegistrationSink receives submitted registrations.
type RegistrationSink interface {
	SaveRegistration(ctx context.Context, reg *models.HostRegistration) error
}

// SpotSink receives submitted spots.
type SpotSink interface {
	SaveSpot(ctx context.Context, listing *models.SpotListing) error
}

// LogSink records submissions in the log only.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink builds a sink that only logs.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) SaveRegistration(_ context.Context, reg *models.HostRegistration) error {
	s.logger.Info("host registration submitted",
		zap.String("registration_id", reg.ID),
		zap.String("business_name", reg.BusinessName),
		zap.String("business_type", reg.BusinessType),
		zap.Bool("phone_verified", reg.PhoneVerified),
		zap.String("account_number", reg.MaskedAccountNumber()),
	)
	return nil
}

func (s *LogSink) SaveSpot(_ context.Context, listing *models.SpotListing) error {
	s.logger.Info("charging spot added",
		zap.String("spot_id", listing.ID),
		zap.String("name", listing.Form.SpotName),
		zap.Strings("plug_types", listing.Form.PlugTypes),
		zap.Int("ports", listing.Form.NumberOfPorts),
		zap.Float64("pricing_per_minute", listing.Form.PricingPerMinute),
	)
	return nil
}
