package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrQuotaExhausted is returned when the daily quota is in critical state.
var ErrQuotaExhausted = errors.New("daily call quota exhausted")

// ErrRateLimited is returned when the local rate limiter cannot grant a
// call before the context deadline.
var ErrRateLimited = errors.New("call rate would exceed deadline")

// Prometheus metrics for quota tracking.
var (
	callsRemaining = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ebay_calls_remaining",
		Help: "Calls remaining in the current daily quota window",
	}, []string{"account"})

	quotaBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ebay_quota_blocks_total",
		Help: "Total number of calls blocked due to critical quota",
	})

	quotaThrottlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ebay_quota_throttles_total",
		Help: "Total number of calls throttled due to warning quota",
	})
)

// Config holds tracker configuration.
type Config struct {
	// AccountName scopes the shared usage counter.
	AccountName string

	// DailyLimit is the account's daily call allowance. Zero disables
	// quota tracking.
	DailyLimit int64

	CriticalRemaining int64
	WarningRemaining  int64

	// ThrottleDelay is waited before each call in warning state.
	ThrottleDelay time.Duration

	// CallsPerSecond and Burst configure the local rate limiter. A
	// non-positive rate disables it.
	CallsPerSecond float64
	Burst          int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(account string) Config {
	return Config{
		AccountName:       account,
		DailyLimit:        5000,
		CriticalRemaining: DefaultCriticalRemaining,
		WarningRemaining:  DefaultWarningRemaining,
		ThrottleDelay:     1 * time.Second,
		CallsPerSecond:    5,
		Burst:             10,
	}
}

// Tracker monitors the daily call quota and gates calls.
type Tracker struct {
	redis   *redis.Client
	limiter *rate.Limiter
	config  Config
	logger  zerolog.Logger
	now     func() time.Time
}

// NewTracker creates a new tracker. A nil Redis client disables quota
// tracking and keeps only the local rate limiter.
func NewTracker(redisClient *redis.Client, cfg Config, logger zerolog.Logger) *Tracker {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.CallsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.CallsPerSecond), burst)
	}

	return &Tracker{
		redis:   redisClient,
		limiter: limiter,
		config:  cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (t *Tracker) quotaEnabled() bool {
	return t.redis != nil && t.config.DailyLimit > 0
}

// GetState retrieves the current quota state from Redis.
// Returns an unused quota if no counter exists for today.
func (t *Tracker) GetState(ctx context.Context) (*QuotaState, error) {
	day, resetAt := window(t.now())
	state := &QuotaState{
		DailyLimit:        t.config.DailyLimit,
		ResetAt:           resetAt,
		CriticalRemaining: t.config.CriticalRemaining,
		WarningRemaining:  t.config.WarningRemaining,
	}
	if !t.quotaEnabled() {
		return state, nil
	}

	used, err := t.redis.Get(ctx, usageKey(t.config.AccountName, day)).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get call usage: %w", err)
	}
	state.CallsUsed = used

	return state, nil
}

// Acquire waits until a call may be issued and records it against the
// quota. It returns ErrQuotaExhausted when the quota is critical.
func (t *Tracker) Acquire(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("rate limiter wait: %w", ctxErr)
		}
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	if !t.quotaEnabled() {
		return nil
	}

	state, err := t.GetState(ctx)
	if err != nil {
		return fmt.Errorf("get quota state: %w", err)
	}

	// Critical: Block all calls
	if state.NeedsCriticalBlock() {
		t.logger.Error().
			Str("account", t.config.AccountName).
			Int64("calls_remaining", state.Remaining()).
			Dur("wait_duration", state.TimeUntilReset()).
			Msg("Daily call quota critical - blocking call")

		quotaBlocksTotal.Inc()
		return ErrQuotaExhausted
	}

	// Warning: Apply throttling
	if state.NeedsThrottling() {
		t.logger.Warn().
			Str("account", t.config.AccountName).
			Int64("calls_remaining", state.Remaining()).
			Msg("Daily call quota warning - throttling call")

		quotaThrottlesTotal.Inc()
		timer := time.NewTimer(t.config.ThrottleDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return t.record(ctx)
}

// record increments today's usage counter atomically.
func (t *Tracker) record(ctx context.Context) error {
	day, resetAt := window(t.now())
	key := usageKey(t.config.AccountName, day)

	pipe := t.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, resetAt)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record call usage in redis: %w", err)
	}

	remaining := t.config.DailyLimit - incr.Val()
	callsRemaining.WithLabelValues(t.config.AccountName).Set(float64(max(remaining, 0)))

	t.logger.Debug().
		Str("account", t.config.AccountName).
		Int64("calls_used", incr.Val()).
		Msg("Call usage recorded")

	return nil
}
