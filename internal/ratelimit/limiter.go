package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
)

// minuteWindow is the trailing window for the RPM quota
const minuteWindow = 60 * time.Second

// ErrDailyLimitExceeded is returned by Acquire when the provider's daily
// quota is exhausted. The daily window only resets at midnight, so callers
// must not retry until then; Acquire never waits for it.
var ErrDailyLimitExceeded = errors.New("daily rate limit exceeded")

// Usage is a point-in-time snapshot of a limiter's window occupancy
type Usage struct {
	Provider     string `json:"provider"`
	RPMUsed      int    `json:"rpm_used"`
	RPMLimit     int    `json:"rpm_limit"`
	RPMRemaining int    `json:"rpm_remaining"`
	RPDUsed      int    `json:"rpd_used"`
	RPDLimit     int    `json:"rpd_limit"`
	RPDRemaining int    `json:"rpd_remaining"`
}

// Limiter bounds the outbound request rate to one provider with two
// sliding windows: request timestamps in the trailing 60 seconds (RPM)
// and requests made on the current calendar day (RPD).
//
// A single mutex guards every read and write of the window state, so
// the purge/check/record sequence is atomic with respect to concurrent
// callers. The mutex is never held across the minute-window wait: a
// sleeping caller does not block others from checking, recording, or
// failing fast on the daily cap.
type Limiter struct {
	provider string
	rpmLimit int
	rpdLimit int

	mu     sync.Mutex
	minute []time.Time // Request timestamps within the trailing minute
	day    []time.Time // Request timestamps from the current calendar day

	// Injected for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	logger arbor.ILogger
}

// NewLimiter creates a rate limiter for the named provider
func NewLimiter(provider string, rpmLimit, rpdLimit int, logger arbor.ILogger) *Limiter {
	return &Limiter{
		provider: provider,
		rpmLimit: rpmLimit,
		rpdLimit: rpdLimit,
		now:      time.Now,
		sleep:    sleepContext,
		logger:   logger,
	}
}

// sleepContext waits for d or until ctx is cancelled
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Provider returns the provider name this limiter guards
func (l *Limiter) Provider() string {
	return l.provider
}

// Acquire blocks until a request may legally be sent to the provider.
// It fails immediately with ErrDailyLimitExceeded when the daily quota is
// exhausted, and waits out the minute window when the per-minute quota is
// full. The request is recorded in both windows only after both checks
// pass; callers waking from a wait re-run the full check, so concurrent
// wakers cannot over-admit.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	for {
		if err := ctx.Err(); err != nil {
			l.mu.Unlock()
			return err
		}

		now := l.now()
		l.purge(now)

		if len(l.day) >= l.rpdLimit {
			l.mu.Unlock()
			return fmt.Errorf("%s daily limit (%d RPD) exceeded, resets at midnight: %w",
				l.provider, l.rpdLimit, ErrDailyLimitExceeded)
		}

		if len(l.minute) < l.rpmLimit {
			l.minute = append(l.minute, now)
			l.day = append(l.day, now)
			l.mu.Unlock()
			return nil
		}

		wait := minuteWindow - now.Sub(l.minute[0])
		l.mu.Unlock()

		if wait > 0 {
			l.logger.Debug().
				Str("provider", l.provider).
				Dur("wait", wait).
				Int("rpm_limit", l.rpmLimit).
				Msg("Rate limit reached, waiting for minute window")

			if err := l.sleep(ctx, wait); err != nil {
				return err
			}
		}

		l.mu.Lock()
	}
}

// CheckAvailability reports whether a request could be made right now
// without waiting. It purges expired entries but records nothing; it is
// for health/status reporting and must never gate an actual request.
func (l *Limiter) CheckAvailability() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.purge(l.now())

	if len(l.day) >= l.rpdLimit {
		return false
	}
	if len(l.minute) >= l.rpmLimit {
		return false
	}
	return true
}

// Usage returns a snapshot of the current window occupancy
func (l *Limiter) Usage() Usage {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.purge(l.now())

	return Usage{
		Provider:     l.provider,
		RPMUsed:      len(l.minute),
		RPMLimit:     l.rpmLimit,
		RPMRemaining: remaining(l.rpmLimit, len(l.minute)),
		RPDUsed:      len(l.day),
		RPDLimit:     l.rpdLimit,
		RPDRemaining: remaining(l.rpdLimit, len(l.day)),
	}
}

// purge drops timestamps outside their windows. Callers must hold l.mu.
// The minute window is a trailing 60 seconds; the day window is the
// current calendar date, so it resets at local midnight.
func (l *Limiter) purge(now time.Time) {
	cutoff := now.Add(-minuteWindow)
	i := 0
	for i < len(l.minute) && !l.minute[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.minute = append(l.minute[:0], l.minute[i:]...)
	}

	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	i = 0
	for i < len(l.day) && l.day[i].Before(midnight) {
		i++
	}
	if i > 0 {
		l.day = append(l.day[:0], l.day[i:]...)
	}
}

func remaining(limit, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}
