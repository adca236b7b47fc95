package models

import (
	"time"

	"charginguu/backend/services/sessions-service/internal/engine"
)

// Payment statuses recorded on summaries. Payments are simulated.
const (
	PaymentStatusSimulated = "simulated"
)

// LiveSession is what clients see while a session is running.
type LiveSession struct {
	ID        string          `json:"id"`
	SpotID    string          `json:"spot_id"`
	SpotName  string          `json:"spot_name"`
	StartedAt time.Time       `json:"started_at"`
	State     engine.Snapshot `json:"state"`
}

// SessionSummary is the post-session record.
type SessionSummary struct {
	ID              string    `db:"id" json:"id"`
	SpotID          string    `db:"spot_id" json:"spot_id"`
	SpotName        string    `db:"spot_name" json:"spot_name"`
	StartedAt       time.Time `db:"started_at" json:"started_at"`
	EndedAt         time.Time `db:"ended_at" json:"ended_at"`
	DurationSeconds int64     `db:"duration_seconds" json:"duration_seconds"`
	RatePerMinute   float64   `db:"rate_per_minute" json:"rate_per_minute"`
	ChargingCost    float64   `db:"charging_cost" json:"charging_cost"`
	OvertimeCharge  float64   `db:"overtime_charge" json:"overtime_charge"`
	TotalCost       float64   `db:"total_cost" json:"total_cost"`
	FinalBattery    int       `db:"final_battery" json:"final_battery"`
	PaymentStatus   string    `db:"payment_status" json:"payment_status"`
	Favorite        bool      `db:"-" json:"favorite"`
}

// DurationMinutes rounds the session length up to whole minutes.
func (s *SessionSummary) DurationMinutes() int64 {
	return (s.DurationSeconds + 59) / 60
}

// Rating is a 1..5 star review left after a session.
type Rating struct {
	SessionID string    `db:"session_id" json:"session_id"`
	Stars     int       `db:"stars" json:"stars"`
	Review    string    `db:"review" json:"review,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Issue is a problem report filed against a session.
type Issue struct {
	ID          string    `db:"id" json:"id"`
	SessionID   string    `db:"session_id" json:"session_id"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
