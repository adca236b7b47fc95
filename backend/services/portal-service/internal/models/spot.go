package models

import (
	"time"

	"charginguu/backend/services/portal-service/internal/spot"
)

// SpotListing is a submitted charging spot.
type SpotListing struct {
	ID        string    `db:"id" json:"id"`
	Form      spot.Form `json:"spot"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
