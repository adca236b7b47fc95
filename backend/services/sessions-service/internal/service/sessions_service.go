package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"charginguu/backend/services/sessions-service/internal/engine"
	"charginguu/backend/services/sessions-service/internal/invoice"
	"charginguu/backend/services/sessions-service/internal/models"
	redisstore "charginguu/backend/services/sessions-service/internal/redis"
	"charginguu/backend/services/sessions-service/internal/repository"
	"charginguu/backend/services/sessions-service/internal/ticker"
)

// DefaultSpotName is used when a session is started without naming its spot.
const DefaultSpotName = "Cafe Aura"

var (
	// ErrSessionNotFound indicates an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionActive is returned by post-session actions on a running session.
	ErrSessionActive = errors.New("session is still active")
	// ErrRatingRequired is returned when no star rating was selected.
	ErrRatingRequired = errors.New("please select a rating before submitting")
	// ErrEmptyIssue is returned for blank issue reports.
	ErrEmptyIssue = errors.New("issue description is required")
)

// SnapshotCache shares live snapshots between replicas.
type SnapshotCache interface {
	Save(ctx context.Context, session models.LiveSession) error
	Get(ctx context.Context, sessionID string) (*models.LiveSession, error)
	Delete(ctx context.Context, sessionID string) error
}

// Broadcaster pushes encoded snapshots to stream subscribers.
type Broadcaster interface {
	Broadcast(ctx context.Context, sessionID string, payload []byte)
}

// Options tunes session behaviour.
type Options struct {
	TickInterval  time.Duration
	AutoEndAtFull bool
}

// StartSessionInput describes a session to start. A zero rate uses the spot tariff and a
// nil battery uses engine.DefaultInitialBattery.
type StartSessionInput struct {
	SpotID         string
	SpotName       string
	RatePerMinute  float64
	InitialBattery *int
}

// SessionsService runs charging sessions: one engine and one ticker per session.
type SessionsService struct {
	tariffs     *TariffService
	sink        SummarySink
	cache       SnapshotCache
	broadcaster Broadcaster
	invoices    *invoice.Issuer
	logger      *zap.Logger
	opts        Options
	now         func() time.Time
	newID       func() string

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	sessions map[string]*trackedSession
}

type trackedSession struct {
	mu        sync.Mutex
	id        string
	spotID    string
	spotName  string
	startedAt time.Time
	tariff    Tariff
	engine    *engine.Session
	ticker    *ticker.Ticker
	summary   *models.SessionSummary
	recorded  bool
	favorite  bool
}

// NewSessionsService builds service. cache and broadcaster may be nil.
func NewSessionsService(
	tariffs *TariffService,
	sink SummarySink,
	cache SnapshotCache,
	broadcaster Broadcaster,
	invoices *invoice.Issuer,
	opts Options,
	logger *zap.Logger,
) *SessionsService {
	if opts.TickInterval <= 0 {
		opts.TickInterval = ticker.DefaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionsService{
		tariffs:     tariffs,
		sink:        sink,
		cache:       cache,
		broadcaster: broadcaster,
		invoices:    invoices,
		logger:      logger,
		opts:        opts,
		now:         time.Now,
		newID:       uuid.NewString,
		ctx:         ctx,
		cancel:      cancel,
		sessions:    make(map[string]*trackedSession),
	}
}

// Start creates a session and begins ticking it.
func (s *SessionsService) Start(ctx context.Context, input StartSessionInput) (*models.LiveSession, error) {
	tariff := s.tariffs.ForSpot(input.SpotID)
	rate := input.RatePerMinute
	if rate == 0 {
		rate = tariff.RatePerMinute
	}
	battery := engine.DefaultInitialBattery
	if input.InitialBattery != nil {
		battery = *input.InitialBattery
	}

	eng, err := engine.New(rate, battery)
	if err != nil {
		return nil, err
	}

	spotName := strings.TrimSpace(input.SpotName)
	if spotName == "" {
		spotName = DefaultSpotName
	}
	ts := &trackedSession{
		id:        s.newID(),
		spotID:    strings.TrimSpace(input.SpotID),
		spotName:  spotName,
		startedAt: s.now().UTC(),
		tariff:    tariff,
		engine:    eng,
	}

	s.mu.Lock()
	s.sessions[ts.id] = ts
	s.mu.Unlock()

	ts.mu.Lock()
	ts.ticker = ticker.Start(s.ctx, s.opts.TickInterval, func() { s.tick(ts) })
	live := ts.liveLocked()
	ts.mu.Unlock()

	s.cacheSave(ctx, live)
	s.logger.Info("charging session started",
		zap.String("session_id", ts.id),
		zap.String("spot_id", ts.spotID),
		zap.Float64("rate_per_minute", rate),
		zap.Int("battery", eng.BatteryLevel()),
	)
	return &live, nil
}

func (s *SessionsService) tick(ts *trackedSession) {
	ts.mu.Lock()
	if ts.engine.Status() != engine.StatusActive {
		ts.mu.Unlock()
		return
	}
	ts.engine.Tick()

	var summary *models.SessionSummary
	if s.opts.AutoEndAtFull && ts.engine.BatteryLevel() >= engine.MaxBattery {
		var err error
		summary, err = s.finishLocked(ts)
		if err != nil {
			s.logger.Warn("auto end failed", zap.String("session_id", ts.id), zap.Error(err))
		}
	}
	live := ts.liveLocked()
	ts.mu.Unlock()

	if summary != nil {
		s.announceEnd(s.ctx, live, summary)
		if err := s.record(s.ctx, ts, summary); err != nil {
			s.logger.Error("failed to record auto-ended session", zap.String("session_id", ts.id), zap.Error(err))
		}
		return
	}
	s.cacheSave(s.ctx, live)
	s.broadcast(s.ctx, live)
}

// Get returns the live view of a session, consulting the shared cache for sessions owned
// by other replicas.
func (s *SessionsService) Get(ctx context.Context, sessionID string) (*models.LiveSession, error) {
	if ts, ok := s.lookup(sessionID); ok {
		ts.mu.Lock()
		live := ts.liveLocked()
		ts.mu.Unlock()
		return &live, nil
	}
	if s.cache != nil {
		live, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return live, nil
		}
		if !errors.Is(err, redisstore.ErrNotCached) {
			return nil, err
		}
	}
	return nil, ErrSessionNotFound
}

// Active lists sessions running on this instance, oldest first.
func (s *SessionsService) Active() []models.LiveSession {
	s.mu.RLock()
	tracked := make([]*trackedSession, 0, len(s.sessions))
	for _, ts := range s.sessions {
		tracked = append(tracked, ts)
	}
	s.mu.RUnlock()

	var active []models.LiveSession
	for _, ts := range tracked {
		ts.mu.Lock()
		if ts.engine.Status() == engine.StatusActive {
			active = append(active, ts.liveLocked())
		}
		ts.mu.Unlock()
	}
	sort.Slice(active, func(i, j int) bool { return active[i].StartedAt.Before(active[j].StartedAt) })
	return active
}

// End stops a session and records its summary. When recording fails the session stays
// ended and a later End retries the save. Ending a recorded session yields
// engine.ErrInvalidState.
func (s *SessionsService) End(ctx context.Context, sessionID string) (*models.SessionSummary, error) {
	ts, ok := s.lookup(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	ts.mu.Lock()
	pending := ts.summary != nil && !ts.recorded
	summary := ts.summary
	var err error
	if !pending {
		summary, err = s.finishLocked(ts)
	}
	live := ts.liveLocked()
	ts.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if !pending {
		s.announceEnd(ctx, live, summary)
	}
	if err := s.record(ctx, ts, summary); err != nil {
		return nil, fmt.Errorf("record summary: %w", err)
	}
	out := *summary
	return &out, nil
}

func (s *SessionsService) finishLocked(ts *trackedSession) (*models.SessionSummary, error) {
	result, err := ts.engine.End()
	if err != nil {
		return nil, err
	}
	if ts.ticker != nil {
		ts.ticker.Stop()
	}

	overtime := ts.tariff.Overtime(result.Duration)
	ts.summary = &models.SessionSummary{
		ID:              ts.id,
		SpotID:          ts.spotID,
		SpotName:        ts.spotName,
		StartedAt:       ts.startedAt,
		EndedAt:         s.now().UTC(),
		DurationSeconds: result.Duration,
		RatePerMinute:   ts.engine.Rate(),
		ChargingCost:    result.TotalCost,
		OvertimeCharge:  overtime,
		TotalCost:       result.TotalCost + overtime,
		FinalBattery:    ts.engine.BatteryLevel(),
		PaymentStatus:   models.PaymentStatusSimulated,
	}
	return ts.summary, nil
}

func (s *SessionsService) announceEnd(ctx context.Context, live models.LiveSession, summary *models.SessionSummary) {
	s.broadcast(ctx, live)
	if s.cache != nil {
		if err := s.cache.Delete(ctx, live.ID); err != nil {
			s.logger.Warn("failed to delete live session cache", zap.String("session_id", live.ID), zap.Error(err))
		}
	}

	s.logger.Info("charging session ended",
		zap.String("session_id", summary.ID),
		zap.Int64("duration_seconds", summary.DurationSeconds),
		zap.String("total_cost", engine.FormatCost(summary.TotalCost)),
	)
}

// record saves the summary at most once.
func (s *SessionsService) record(ctx context.Context, ts *trackedSession, summary *models.SessionSummary) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.recorded {
		return nil
	}
	if err := s.sink.SaveSummary(ctx, summary); err != nil {
		return err
	}
	ts.recorded = true
	return nil
}

// Summary returns the post-session summary.
func (s *SessionsService) Summary(ctx context.Context, sessionID string) (*models.SessionSummary, error) {
	if ts, ok := s.lookup(sessionID); ok {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		if ts.summary == nil {
			return nil, ErrSessionActive
		}
		out := *ts.summary
		out.Favorite = ts.favorite
		return &out, nil
	}

	reader, ok := s.sink.(SummaryReader)
	if !ok {
		return nil, ErrSessionNotFound
	}
	summary, err := reader.GetSummary(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSummaryNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return summary, nil
}

// Rate stores a 1..5 star rating with an optional review.
func (s *SessionsService) Rate(ctx context.Context, sessionID string, stars int, review string) (*models.Rating, error) {
	if stars < 1 || stars > 5 {
		return nil, ErrRatingRequired
	}
	if _, err := s.Summary(ctx, sessionID); err != nil {
		return nil, err
	}

	rating := &models.Rating{
		SessionID: sessionID,
		Stars:     stars,
		Review:    strings.TrimSpace(review),
		CreatedAt: s.now().UTC(),
	}
	if err := s.sink.SaveRating(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// AddFavorite marks the session's spot as a favorite. It reports false when the spot was
// already a favorite.
func (s *SessionsService) AddFavorite(ctx context.Context, sessionID string) (bool, error) {
	summary, err := s.Summary(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if summary.Favorite {
		return false, nil
	}
	if err := s.sink.AddFavorite(ctx, sessionID, summary.SpotID); err != nil {
		return false, err
	}
	if ts, ok := s.lookup(sessionID); ok {
		ts.mu.Lock()
		ts.favorite = true
		ts.mu.Unlock()
	}
	return true, nil
}

// Invoice signs an invoice for an ended session.
func (s *SessionsService) Invoice(ctx context.Context, sessionID string) (string, invoice.View, error) {
	summary, err := s.Summary(ctx, sessionID)
	if err != nil {
		return "", invoice.View{}, err
	}
	token, err := s.invoices.Issue(summary)
	if err != nil {
		return "", invoice.View{}, err
	}
	view, err := s.ReadInvoice(token)
	if err != nil {
		return "", invoice.View{}, err
	}
	return token, view, nil
}

// ReadInvoice verifies and renders an invoice token.
func (s *SessionsService) ReadInvoice(token string) (invoice.View, error) {
	claims, err := s.invoices.Parse(token)
	if err != nil {
		return invoice.View{}, err
	}
	return invoice.Render(claims), nil
}

// ReportIssue files a problem report against a known session, running or ended.
func (s *SessionsService) ReportIssue(ctx context.Context, sessionID, description string) (*models.Issue, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyIssue
	}
	if _, ok := s.lookup(sessionID); !ok {
		if _, err := s.Summary(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	issue := &models.Issue{
		ID:          s.newID(),
		SessionID:   sessionID,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.sink.SaveIssue(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// Close stops every ticker owned by the service.
func (s *SessionsService) Close() {
	s.cancel()
}

func (s *SessionsService) lookup(sessionID string) (*trackedSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts, ok := s.sessions[sessionID]
	return ts, ok
}

func (s *SessionsService) cacheSave(ctx context.Context, live models.LiveSession) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(ctx, live); err != nil {
		s.logger.Warn("failed to cache live session", zap.String("session_id", live.ID), zap.Error(err))
	}
}

func (s *SessionsService) broadcast(ctx context.Context, live models.LiveSession) {
	if s.broadcaster == nil {
		return
	}
	payload, err := json.Marshal(live)
	if err != nil {
		s.logger.Warn("failed to encode snapshot", zap.String("session_id", live.ID), zap.Error(err))
		return
	}
	s.broadcaster.Broadcast(ctx, live.ID, payload)
}

func (ts *trackedSession) liveLocked() models.LiveSession {
	return models.LiveSession{
		ID:        ts.id,
		SpotID:    ts.spotID,
		SpotName:  ts.spotName,
		StartedAt: ts.startedAt,
		State:     ts.engine.Snapshot(),
	}
}
