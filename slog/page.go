// Package slog provides logging decorators for patentenrich services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/patentenrich"
)

// Ensure LoggingPageFetcher implements patentenrich.PageFetcher.
var _ patentenrich.PageFetcher = (*LoggingPageFetcher)(nil)

// LoggingPageFetcher wraps a PageFetcher with logging.
type LoggingPageFetcher struct {
	next   patentenrich.PageFetcher
	logger *slog.Logger
}

// NewLoggingPageFetcher creates a new LoggingPageFetcher.
func NewLoggingPageFetcher(next patentenrich.PageFetcher, logger *slog.Logger) *LoggingPageFetcher {
	return &LoggingPageFetcher{next: next, logger: logger}
}

// FetchPage logs the patent being fetched and delegates to the wrapped fetcher.
func (f *LoggingPageFetcher) FetchPage(ctx context.Context, id patentenrich.PatentID) (page []byte, err error) {
	defer func(begin time.Time) {
		f.logger.Info("page fetch",
			"id", id,
			"bytes", len(page),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchPage(ctx, id)
}
