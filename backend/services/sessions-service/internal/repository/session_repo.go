package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"charginguu/backend/libs/db"
	"charginguu/backend/services/sessions-service/internal/models"
)

// ErrSummaryNotFound indicates no summary row for the session.
var ErrSummaryNotFound = errors.New("session summary not found")

// SessionRepository records finished sessions and post-session feedback.
type SessionRepository struct {
	db db.Querier
}

// NewSessionRepository returns repository.
func NewSessionRepository(q db.Querier) *SessionRepository {
	return &SessionRepository{db: q}
}

// SaveSummary upserts the final summary of a session.
func (r *SessionRepository) SaveSummary(ctx context.Context, s *models.SessionSummary) error {
	const query = `
		INSERT INTO charging_session_summaries (id, spot_id, spot_name, started_at, ended_at, duration_seconds,
			rate_per_minute, charging_cost, overtime_charge, total_cost, final_battery, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			ended_at = EXCLUDED.ended_at,
			duration_seconds = EXCLUDED.duration_seconds,
			charging_cost = EXCLUDED.charging_cost,
			overtime_charge = EXCLUDED.overtime_charge,
			total_cost = EXCLUDED.total_cost,
			final_battery = EXCLUDED.final_battery,
			payment_status = EXCLUDED.payment_status
	`
	_, err := r.db.Exec(ctx, query,
		s.ID,
		s.SpotID,
		s.SpotName,
		s.StartedAt,
		s.EndedAt,
		s.DurationSeconds,
		s.RatePerMinute,
		s.ChargingCost,
		s.OvertimeCharge,
		s.TotalCost,
		s.FinalBattery,
		s.PaymentStatus,
	)
	return err
}

// GetSummary loads a summary by session id.
func (r *SessionRepository) GetSummary(ctx context.Context, sessionID string) (*models.SessionSummary, error) {
	const query = `
		SELECT s.id, s.spot_id, s.spot_name, s.started_at, s.ended_at, s.duration_seconds, s.rate_per_minute,
			s.charging_cost, s.overtime_charge, s.total_cost, s.final_battery, s.payment_status,
			EXISTS (SELECT 1 FROM session_favorites f WHERE f.session_id = s.id)
		FROM charging_session_summaries s
		WHERE s.id = $1
	`
	var s models.SessionSummary
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&s.ID,
		&s.SpotID,
		&s.SpotName,
		&s.StartedAt,
		&s.EndedAt,
		&s.DurationSeconds,
		&s.RatePerMinute,
		&s.ChargingCost,
		&s.OvertimeCharge,
		&s.TotalCost,
		&s.FinalBattery,
		&s.PaymentStatus,
		&s.Favorite,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSummaryNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SaveRating stores or replaces the rating for a session.
func (r *SessionRepository) SaveRating(ctx context.Context, rating *models.Rating) error {
	const query = `
		INSERT INTO session_ratings (session_id, stars, review, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO UPDATE SET
			stars = EXCLUDED.stars,
			review = EXCLUDED.review,
			created_at = EXCLUDED.created_at
	`
	_, err := r.db.Exec(ctx, query, rating.SessionID, rating.Stars, rating.Review, rating.CreatedAt)
	return err
}

// AddFavorite marks the session's spot as a favorite. Repeated calls are no-ops.
func (r *SessionRepository) AddFavorite(ctx context.Context, sessionID, spotID string) error {
	const query = `
		INSERT INTO session_favorites (session_id, spot_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (session_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, sessionID, spotID)
	return err
}

// SaveIssue records a reported problem.
func (r *SessionRepository) SaveIssue(ctx context.Context, issue *models.Issue) error {
	const query = `
		INSERT INTO session_issues (id, session_id, description, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, issue.ID, issue.SessionID, issue.Description, issue.CreatedAt)
	return err
}
