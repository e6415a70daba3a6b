package enrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/patentenrich"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchPageWithRetry fetches the page for id, retrying failed attempts after
// each of the given delays. ENOTFOUND responses are not retried.
func FetchPageWithRetry(ctx context.Context, id patentenrich.PatentID, fetcher patentenrich.PageFetcher, logger *slog.Logger, delays []time.Duration) ([]byte, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		page, err := fetcher.FetchPage(ctx, id)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if patentenrich.ErrorCode(err) == patentenrich.ENOTFOUND {
			break
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if logger != nil {
			logger.Debug("retrying page fetch", "id", id, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
