package ratelimit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ternarybob/arbor"
)

// Limits holds the configured quotas for one provider
type Limits struct {
	RPMLimit int
	RPDLimit int
}

// Registry owns one Limiter per configured provider. It is constructed
// once at startup and passed to callers explicitly; there is no hidden
// package-level limiter state. Limiters are created lazily on first use
// and live for the process lifetime.
type Registry struct {
	mu       sync.Mutex
	limits   map[string]Limits
	limiters map[string]*Limiter
	logger   arbor.ILogger
}

// NewRegistry creates a registry from the configured provider quotas
func NewRegistry(limits map[string]Limits, logger arbor.ILogger) *Registry {
	return &Registry{
		limits:   limits,
		limiters: make(map[string]*Limiter),
		logger:   logger,
	}
}

// Get returns the limiter for a provider, creating it on first use.
// Unknown providers are an error: quotas are configuration inputs, not
// negotiated at runtime.
func (r *Registry) Get(provider string) (*Limiter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limiter, ok := r.limiters[provider]; ok {
		return limiter, nil
	}

	limits, ok := r.limits[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	limiter := NewLimiter(provider, limits.RPMLimit, limits.RPDLimit, r.logger)
	r.limiters[provider] = limiter

	r.logger.Debug().
		Str("provider", provider).
		Int("rpm_limit", limits.RPMLimit).
		Int("rpd_limit", limits.RPDLimit).
		Msg("Rate limiter created")

	return limiter, nil
}

// Acquire blocks until a request to the provider may be sent
func (r *Registry) Acquire(ctx context.Context, provider string) error {
	limiter, err := r.Get(provider)
	if err != nil {
		return err
	}
	return limiter.Acquire(ctx)
}

// CheckAvailability reports whether the provider could accept a request
// right now without waiting
func (r *Registry) CheckAvailability(provider string) (bool, error) {
	limiter, err := r.Get(provider)
	if err != nil {
		return false, err
	}
	return limiter.CheckAvailability(), nil
}

// UsageSnapshot returns usage for every configured provider, sorted by
// provider name for stable status output
func (r *Registry) UsageSnapshot() []Usage {
	r.mu.Lock()
	providers := make([]string, 0, len(r.limits))
	for provider := range r.limits {
		providers = append(providers, provider)
	}
	r.mu.Unlock()

	sort.Strings(providers)

	usages := make([]Usage, 0, len(providers))
	for _, provider := range providers {
		limiter, err := r.Get(provider)
		if err != nil {
			continue
		}
		usages = append(usages, limiter.Usage())
	}
	return usages
}
