package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"charginguu/backend/services/portal-service/internal/models"
	"charginguu/backend/services/portal-service/internal/spot"
	"charginguu/backend/services/portal-service/internal/wizard"
)

// Catalog lists every fixed option the portal forms offer.
type Catalog struct {
	PlugTypes     []spot.Option `json:"plugTypes"`
	Amenities     []spot.Option `json:"amenities"`
	Days          []spot.Option `json:"days"`
	BusinessTypes []string      `json:"businessTypes"`
	MinPorts      int           `json:"minPorts"`
	MaxPorts      int           `json:"maxPorts"`
	MaxPhotos     int           `json:"maxPhotos"`
}

// SpotService validates and records charging spot listings.
type SpotService struct {
	sink    SpotSink
	locator spot.Locator
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// NewSpotService returns service instance.
func NewSpotService(sink SpotSink, locator spot.Locator, logger *zap.Logger) *SpotService {
	return &SpotService{
		sink:    sink,
		locator: locator,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Catalog returns the option tables.
func (s *SpotService) Catalog() Catalog {
	return Catalog{
		PlugTypes:     spot.PlugTypes,
		Amenities:     spot.Amenities,
		Days:          spot.Days,
		BusinessTypes: wizard.BusinessTypes,
		MinPorts:      spot.MinPorts,
		MaxPorts:      spot.MaxPorts,
		MaxPhotos:     spot.MaxPhotos,
	}
}

// Validate returns the form's field errors.
func (s *SpotService) Validate(form spot.Form) map[string]string {
	return spot.Validate(form)
}

// Create validates the form, assigns ids and records the listing.
func (s *SpotService) Create(ctx context.Context, form spot.Form) (*models.SpotListing, error) {
	if err := spot.Check(form); err != nil {
		return nil, err
	}

	photos := make([]spot.Photo, len(form.Photos))
	for i, p := range form.Photos {
		if p.ID == "" {
			p.ID = s.newID()
		}
		photos[i] = p
	}
	form.Photos = photos

	listing := &models.SpotListing{
		ID:        s.newID(),
		Form:      form,
		CreatedAt: s.now().UTC(),
	}
	if err := s.sink.SaveSpot(ctx, listing); err != nil {
		return nil, fmt.Errorf("save spot: %w", err)
	}
	s.logger.Info("spot listing created", zap.String("spot_id", listing.ID), zap.String("name", form.SpotName))
	return listing, nil
}

// Locate resolves the picked map location and applies it to form.
func (s *SpotService) Locate(ctx context.Context, form spot.Form) (spot.Form, error) {
	loc, err := s.locator.Locate(ctx)
	if err != nil {
		return form, err
	}
	form.ApplyLocation(loc)
	return form, nil
}
