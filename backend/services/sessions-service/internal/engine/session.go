// Package engine models the passage of time during a charging session and the cost and
// battery progression derived from it. It owns no timer: callers drive it with Tick.
package engine

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

const (
	// DefaultInitialBattery is the simulated state of charge a new session starts from.
	DefaultInitialBattery = 25
	// MaxBattery caps the simulated battery level.
	MaxBattery = 100
	// batteryStepSeconds is how many ticks it takes to gain one percent.
	batteryStepSeconds = 10
)

var (
	// ErrInvalidState is returned when an operation is not allowed in the current status.
	ErrInvalidState = errors.New("engine: invalid session state")
	// ErrInvalidRate is returned for non-positive rates.
	ErrInvalidRate = errors.New("engine: rate per minute must be positive")
)

// Summary is produced once when a session ends.
type Summary struct {
	Duration  int64   `json:"duration"`
	TotalCost float64 `json:"total_cost"`
}

// Session is one charging session. It is not safe for concurrent use.
type Session struct {
	elapsed       int64
	ratePerMinute float64
	battery       int
	status        Status
}

// New creates an active session with zero elapsed time. The initial battery level is
// clamped to [0,100].
func New(ratePerMinute float64, initialBattery int) (*Session, error) {
	if ratePerMinute <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRate, ratePerMinute)
	}
	return &Session{
		ratePerMinute: ratePerMinute,
		battery:       clampBattery(initialBattery),
		status:        StatusActive,
	}, nil
}

// Tick advances the session by one second. It does nothing once the session has ended.
func (s *Session) Tick() {
	if s.status != StatusActive {
		return
	}
	s.elapsed++
	if s.elapsed%batteryStepSeconds == 0 && s.battery < MaxBattery {
		s.battery++
	}
}

// End freezes the session and returns its summary. Ending twice is an error.
func (s *Session) End() (Summary, error) {
	if s.status != StatusActive {
		return Summary{}, fmt.Errorf("%w: session already %s", ErrInvalidState, s.status)
	}
	s.status = StatusEnded
	return Summary{Duration: s.elapsed, TotalCost: s.AccruedCost()}, nil
}

// AccruedCost is elapsed seconds priced at the per-minute rate.
func (s *Session) AccruedCost() float64 {
	return float64(s.elapsed) * s.ratePerMinute / 60
}

func (s *Session) Elapsed() int64 { return s.elapsed }

func (s *Session) Rate() float64 { return s.ratePerMinute }

func (s *Session) BatteryLevel() int { return s.battery }

func (s *Session) Status() Status { return s.status }

// Snapshot is a read-only view of a session suitable for rendering.
type Snapshot struct {
	ElapsedSeconds         int64   `json:"elapsed_seconds"`
	Duration               string  `json:"duration"`
	RatePerMinute          float64 `json:"rate_per_minute"`
	AccruedCost            float64 `json:"accrued_cost"`
	Cost                   string  `json:"cost"`
	BatteryLevel           int     `json:"battery_level"`
	Status                 Status  `json:"status"`
	ChargingLabel          string  `json:"charging_label"`
	EstimatedMinutesToFull int     `json:"estimated_minutes_to_full"`
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	cost := s.AccruedCost()
	return Snapshot{
		ElapsedSeconds:         s.elapsed,
		Duration:               FormatDuration(s.elapsed),
		RatePerMinute:          s.ratePerMinute,
		AccruedCost:            cost,
		Cost:                   FormatCost(cost),
		BatteryLevel:           s.battery,
		Status:                 s.status,
		ChargingLabel:          ChargingLabel(s.status, s.battery),
		EstimatedMinutesToFull: EstimatedMinutesToFull(s.battery),
	}
}

func clampBattery(level int) int {
	switch {
	case level < 0:
		return 0
	case level > MaxBattery:
		return MaxBattery
	default:
		return level
	}
}
