package service

import (
	"context"

	"go.uber.org/zap"

	"charginguu/backend/services/sessions-service/internal/models"
)

// SummarySink receives finished sessions and post-session feedback.
type SummarySink interface {
	SaveSummary(ctx context.Context, s *models.SessionSummary) error
	SaveRating(ctx context.Context, r *models.Rating) error
	AddFavorite(ctx context.Context, sessionID, spotID string) error
	SaveIssue(ctx context.Context, issue *models.Issue) error
}

// SummaryReader is implemented by sinks that can load summaries back.
type SummaryReader interface {
	GetSummary(ctx context.Context, sessionID string) (*models.SessionSummary, error)
}

// LogSink records submissions in the log only.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink builds a sink that only logs.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) SaveSummary(_ context.Context, summary *models.SessionSummary) error {
	s.logger.Info("session summary recorded",
		zap.String("session_id", summary.ID),
		zap.Int64("duration_seconds", summary.DurationSeconds),
		zap.Float64("total_cost", summary.TotalCost),
	)
	return nil
}

func (s *LogSink) SaveRating(_ context.Context, r *models.Rating) error {
	s.logger.Info("rating submitted",
		zap.String("session_id", r.SessionID),
		zap.Int("stars", r.Stars),
		zap.String("review", r.Review),
	)
	return nil
}

func (s *LogSink) AddFavorite(_ context.Context, sessionID, spotID string) error {
	s.logger.Info("spot added to favorites", zap.String("session_id", sessionID), zap.String("spot_id", spotID))
	return nil
}

func (s *LogSink) SaveIssue(_ context.Context, issue *models.Issue) error {
	s.logger.Info("issue reported",
		zap.String("issue_id", issue.ID),
		zap.String("session_id", issue.SessionID),
		zap.String("description", issue.Description),
	)
	return nil
}
