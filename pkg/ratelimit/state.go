// Package ratelimit gates marketplace calls against the seller account's
// daily call quota and a per-second call rate.
//
// Quota usage is counted in Redis so that every process acting for the
// same account shares one budget. The per-second rate is local to the
// process.
package ratelimit

import (
	"fmt"
	"time"
)

// RedisKeyPrefix prefixes the per-account, per-day usage counters.
const RedisKeyPrefix = "ebay:call_usage"

// Default thresholds on remaining daily calls.
const (
	// DefaultCriticalRemaining blocks all calls when fewer calls remain.
	DefaultCriticalRemaining = 100

	// DefaultWarningRemaining throttles calls when fewer calls remain.
	DefaultWarningRemaining = 1000
)

// QuotaState is the daily call quota of one account.
type QuotaState struct {
	// CallsUsed counts calls issued since the last reset.
	CallsUsed int64 `json:"calls_used"`

	// DailyLimit is the number of calls allowed per day.
	DailyLimit int64 `json:"daily_limit"`

	// ResetAt is when the quota window resets (next UTC midnight).
	ResetAt time.Time `json:"reset_at"`

	// CriticalRemaining and WarningRemaining are the thresholds the state
	// is judged against.
	CriticalRemaining int64 `json:"critical_remaining"`
	WarningRemaining  int64 `json:"warning_remaining"`
}

// Remaining returns the calls left before the limit, never negative.
func (s *QuotaState) Remaining() int64 {
	if r := s.DailyLimit - s.CallsUsed; r > 0 {
		return r
	}
	return 0
}

// NeedsCriticalBlock returns true if calls should be blocked.
func (s *QuotaState) NeedsCriticalBlock() bool {
	return s.Remaining() < s.CriticalRemaining
}

// NeedsThrottling returns true if calls should be slowed down.
func (s *QuotaState) NeedsThrottling() bool {
	return s.Remaining() < s.WarningRemaining && !s.NeedsCriticalBlock()
}

// IsHealthy reports whether no restriction applies.
func (s *QuotaState) IsHealthy() bool {
	return !s.NeedsCriticalBlock() && !s.NeedsThrottling()
}

// TimeUntilReset returns the duration until the quota resets.
// Returns 0 if the reset time has already passed.
func (s *QuotaState) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// window returns the UTC day containing now and the next reset.
func window(now time.Time) (day string, resetAt time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start.Format("20060102"), start.Add(24 * time.Hour)
}

// usageKey returns the Redis counter key for an account and day.
func usageKey(account, day string) string {
	return fmt.Sprintf("%s:%s:%s", RedisKeyPrefix, account, day)
}
