package auth

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/graphmesh/graphmesh/pkg/common/cache"
	"github.com/graphmesh/graphmesh/pkg/observability"
)

// RateLimiterConfig holds login throttling configuration.
type RateLimiterConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxAttempts   int           `mapstructure:"max_attempts"`
	WindowSize    time.Duration `mapstructure:"window_size"`
	LockoutPeriod time.Duration `mapstructure:"lockout_period"`
	// MaxTracked bounds the local fallback store.
	MaxTracked int `mapstructure:"max_tracked"`
}

// DefaultRateLimiterConfig returns sensible defaults.
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Enabled:       true,
		MaxAttempts:   5,
		WindowSize:    1 * time.Minute,
		LockoutPeriod: 15 * time.Minute,
		MaxTracked:    10000,
	}
}

// RateLimiter throttles failed login attempts per principal. A bounded
// in-process store always tracks the failure window; when a shared cache is
// available the window is kept there as well, so lockouts hold across
// kernel instances. A cache outage thus degrades to the local store, never
// to an open gate.
type RateLimiter struct {
	cache  cache.Cache
	local  *lru.Cache[string, *localLimit]
	logger observability.Logger

	enabled       bool
	maxAttempts   int
	windowSize    time.Duration
	lockoutPeriod time.Duration
}

type localLimit struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	lockedUntil time.Time
}

// NewRateLimiter creates a rate limiter. The cache may be nil, in which
// case only the local store is used.
func NewRateLimiter(c cache.Cache, logger observability.Logger, config *RateLimiterConfig) (*RateLimiter, error) {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}
	if logger == nil {
		logger = observability.NewNoopLogger()
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultRateLimiterConfig().MaxAttempts
	}
	maxTracked := config.MaxTracked
	if maxTracked <= 0 {
		maxTracked = DefaultRateLimiterConfig().MaxTracked
	}
	local, err := lru.New[string, *localLimit](maxTracked)
	if err != nil {
		return nil, err
	}

	return &RateLimiter{
		cache:         c,
		local:         local,
		logger:        logger,
		enabled:       config.Enabled,
		maxAttempts:   config.MaxAttempts,
		windowSize:    config.WindowSize,
		lockoutPeriod: config.LockoutPeriod,
	}, nil
}

// CheckLimit returns ErrTooManyAuthAttempts when the identifier is locked
// out or has exhausted its failure budget.
func (rl *RateLimiter) CheckLimit(ctx context.Context, identifier string) error {
	if !rl.enabled {
		return nil
	}
	if rl.cache != nil {
		if err := rl.checkShared(ctx, identifier); err != nil {
			return err
		}
	}
	return rl.checkLocal(identifier)
}

// RecordAttempt records the outcome of a login attempt. A success clears
// the identifier's failure window.
func (rl *RateLimiter) RecordAttempt(ctx context.Context, identifier string, success bool) {
	if !rl.enabled {
		return
	}
	if rl.cache != nil {
		rl.recordShared(ctx, identifier, success)
	}
	rl.recordLocal(identifier, success)
}

func (rl *RateLimiter) checkShared(ctx context.Context, identifier string) error {
	var locked bool
	if err := rl.cache.Get(ctx, lockoutKey(identifier), &locked); err == nil && locked {
		return ErrTooManyAuthAttempts
	}

	var attempts int
	if err := rl.cache.Get(ctx, countKey(identifier), &attempts); err != nil {
		attempts = 0
	}
	if attempts >= rl.maxAttempts {
		if err := rl.cache.Set(ctx, lockoutKey(identifier), true, rl.lockoutPeriod); err != nil {
			rl.logger.Warn("failed to record auth lockout", map[string]interface{}{
				"identifier": identifier,
				"error":      err.Error(),
			})
		}
		return ErrTooManyAuthAttempts
	}
	return nil
}

func (rl *RateLimiter) recordShared(ctx context.Context, identifier string, success bool) {
	if success {
		_ = rl.cache.Delete(ctx, countKey(identifier))
		_ = rl.cache.Delete(ctx, lockoutKey(identifier))
		return
	}

	var attempts int
	if err := rl.cache.Get(ctx, countKey(identifier), &attempts); err != nil {
		attempts = 0
	}
	attempts++
	if err := rl.cache.Set(ctx, countKey(identifier), attempts, rl.windowSize); err != nil {
		rl.logger.Warn("failed to record auth attempt in shared cache", map[string]interface{}{
			"identifier": identifier,
			"error":      err.Error(),
		})
	}
}

func (rl *RateLimiter) checkLocal(identifier string) error {
	limit := rl.localFor(identifier)
	limit.mu.Lock()
	defer limit.mu.Unlock()

	if !limit.lockedUntil.IsZero() && time.Now().Before(limit.lockedUntil) {
		return ErrTooManyAuthAttempts
	}
	if limit.limiter.Tokens() < 1 {
		limit.lockedUntil = time.Now().Add(rl.lockoutPeriod)
		return ErrTooManyAuthAttempts
	}
	return nil
}

func (rl *RateLimiter) recordLocal(identifier string, success bool) {
	limit := rl.localFor(identifier)
	limit.mu.Lock()
	defer limit.mu.Unlock()

	if success {
		limit.limiter = rl.newLimiter()
		limit.lockedUntil = time.Time{}
		return
	}
	if !limit.limiter.Allow() {
		limit.lockedUntil = time.Now().Add(rl.lockoutPeriod)
	}
}

func (rl *RateLimiter) localFor(identifier string) *localLimit {
	if limit, ok := rl.local.Get(identifier); ok {
		return limit
	}
	limit := &localLimit{limiter: rl.newLimiter()}
	if prev, ok, _ := rl.local.PeekOrAdd(identifier, limit); ok {
		return prev
	}
	return limit
}

// newLimiter builds the per-identifier failure budget: maxAttempts tokens
// replenished over windowSize.
func (rl *RateLimiter) newLimiter() *rate.Limiter {
	interval := rl.windowSize / time.Duration(rl.maxAttempts)
	if interval <= 0 {
		interval = time.Second
	}
	return rate.NewLimiter(rate.Every(interval), rl.maxAttempts)
}

// LockoutPeriod returns the configured lockout duration.
func (rl *RateLimiter) LockoutPeriod() time.Duration {
	return rl.lockoutPeriod
}

func countKey(identifier string) string {
	return "auth:ratelimit:" + identifier + ":count"
}

func lockoutKey(identifier string) string {
	return "auth:ratelimit:" + identifier + ":lockout"
}
