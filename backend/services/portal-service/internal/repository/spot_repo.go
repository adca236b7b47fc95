package repository

import (
	"context"
	"encoding/json"

	"charginguu/backend/libs/db"
	"charginguu/backend/services/portal-service/internal/models"
)

// SpotRepository stores submitted charging spots.
type SpotRepository struct {
	db db.Querier
}

// NewSpotRepository returns repository.
func NewSpotRepository(q db.Querier) *SpotRepository {
	return &SpotRepository{db: q}
}

// SaveSpot inserts a listing. Hours and photos are stored as jsonb.
func (r *SpotRepository) SaveSpot(ctx context.Context, listing *models.SpotListing) error {
	hours, err := json.Marshal(listing.Form.OperatingHours)
	if err != nil {
		return err
	}
	photos, err := json.Marshal(listing.Form.Photos)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO charging_spots (id, name, location, latitude, longitude, plug_types, number_of_ports,
			pricing_per_minute, operating_hours, amenities, photos, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	f := listing.Form
	_, err = r.db.Exec(ctx, query,
		listing.ID,
		f.SpotName,
		f.Location,
		f.Latitude,
		f.Longitude,
		f.PlugTypes,
		f.NumberOfPorts,
		f.PricingPerMinute,
		hours,
		f.Amenities,
		photos,
		f.Description,
		listing.CreatedAt,
	)
	return err
}
