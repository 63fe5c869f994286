package transport

import (
	"context"
	"errors"

	"github.com/Sternrassler/ebay-access-client/pkg/ratelimit"
)

// Limiter gates calls before they are issued.
type Limiter interface {
	Acquire(ctx context.Context) error
}

var _ Limiter = (*ratelimit.Tracker)(nil)

// WithRateLimit acquires a slot from limiter before every call. A blocked
// quota or a rate wait that cannot finish before the deadline surfaces as
// an ErrorClassQuota fault, which is never retried.
func WithRateLimit(limiter Limiter) Middleware {
	return Intercept(func(ctx context.Context, call string, next func(context.Context) error) error {
		if err := limiter.Acquire(ctx); err != nil {
			if errors.Is(err, ratelimit.ErrQuotaExhausted) || errors.Is(err, ratelimit.ErrRateLimited) {
				return NewError(call, ErrorClassQuota, err)
			}
			return err
		}
		return next(ctx)
	})
}
