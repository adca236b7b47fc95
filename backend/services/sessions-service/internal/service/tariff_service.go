package service

import (
	"math"
	"strings"
)

// DefaultRatePerMinute applies when neither the request nor configuration names a rate.
const DefaultRatePerMinute = 5.0

// Tariff prices a session. Minutes beyond IncludedMinutes are billed again at
// OvertimePerMinute when both are positive.
type Tariff struct {
	Name              string  `yaml:"name" json:"name"`
	RatePerMinute     float64 `yaml:"ratePerMinute" json:"rate_per_minute"`
	IncludedMinutes   int     `yaml:"includedMinutes" json:"included_minutes"`
	OvertimePerMinute float64 `yaml:"overtimePerMinute" json:"overtime_per_minute"`
}

// TariffService resolves per-spot tariffs with a default fallback.
type TariffService struct {
	defaultTariff Tariff
	spots         map[string]Tariff
}

// NewTariffService returns service instance.
func NewTariffService(defaultTariff Tariff, spots map[string]Tariff) *TariffService {
	if defaultTariff.RatePerMinute <= 0 {
		defaultTariff.RatePerMinute = DefaultRatePerMinute
	}
	if defaultTariff.Name == "" {
		defaultTariff.Name = "Default"
	}
	normalized := make(map[string]Tariff, len(spots))
	for id, t := range spots {
		if t.RatePerMinute <= 0 {
			t.RatePerMinute = defaultTariff.RatePerMinute
		}
		normalized[strings.TrimSpace(id)] = t
	}
	return &TariffService{defaultTariff: defaultTariff, spots: normalized}
}

// ForSpot returns the spot's tariff or the default one.
func (s *TariffService) ForSpot(spotID string) Tariff {
	if t, ok := s.spots[strings.TrimSpace(spotID)]; ok {
		return t
	}
	return s.defaultTariff
}

// Overtime computes the overtime charge for a session of the given length.
func (t Tariff) Overtime(durationSeconds int64) float64 {
	if t.IncludedMinutes <= 0 || t.OvertimePerMinute <= 0 {
		return 0
	}
	minutes := math.Ceil(float64(durationSeconds) / 60)
	extra := minutes - float64(t.IncludedMinutes)
	if extra <= 0 {
		return 0
	}
	return extra * t.OvertimePerMinute
}
