package otp

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles code sends per phone number.
type Limiter struct {
	mu       sync.Mutex
	every    time.Duration
	burst    int
	limiters map[string]*rate.Limiter
}

// NewLimiter allows burst sends at once, then one per every.
func NewLimiter(every time.Duration, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{every: every, burst: burst, limiters: map[string]*rate.Limiter{}}
}

// Allow reports whether phone may receive another code now.
func (l *Limiter) Allow(phone string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[phone]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.every), l.burst)
		l.limiters[phone] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
