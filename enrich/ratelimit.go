package enrich

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces outbound page requests.
type Limiter interface {
	// Wait blocks until a request may proceed.
	// Returns an error if the context is canceled before the wait completes.
	Wait(ctx context.Context) error
}

var _ Limiter = (*rate.Limiter)(nil)

// NewLimiter returns a token-bucket limiter allowing one request per delay
// with a burst of 1. A non-positive delay disables limiting.
func NewLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}
