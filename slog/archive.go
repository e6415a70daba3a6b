package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/patentenrich"
)

// Compile-time interface verification.
var (
	_ patentenrich.ArchiveProvider   = (*LoggingArchiveProvider)(nil)
	_ patentenrich.ArchiveDownloader = (*LoggingArchiveDownloader)(nil)
)

// LoggingArchiveProvider wraps an ArchiveProvider with logging.
type LoggingArchiveProvider struct {
	next   patentenrich.ArchiveProvider
	logger *slog.Logger
}

// NewLoggingArchiveProvider creates a new LoggingArchiveProvider.
func NewLoggingArchiveProvider(next patentenrich.ArchiveProvider, logger *slog.Logger) *LoggingArchiveProvider {
	return &LoggingArchiveProvider{next: next, logger: logger}
}

// ArchiveText delegates to the wrapped provider and logs the read.
func (p *LoggingArchiveProvider) ArchiveText(ctx context.Context, filename string) (text string, err error) {
	defer func(begin time.Time) {
		p.logger.Info("archive read",
			"filename", filename,
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ArchiveText(ctx, filename)
}

// LoggingArchiveDownloader wraps an ArchiveDownloader with logging.
type LoggingArchiveDownloader struct {
	next   patentenrich.ArchiveDownloader
	logger *slog.Logger
}

// NewLoggingArchiveDownloader creates a new LoggingArchiveDownloader.
func NewLoggingArchiveDownloader(next patentenrich.ArchiveDownloader, logger *slog.Logger) *LoggingArchiveDownloader {
	return &LoggingArchiveDownloader{next: next, logger: logger}
}

// DownloadArchive delegates to the wrapped downloader and logs the transfer size.
func (d *LoggingArchiveDownloader) DownloadArchive(ctx context.Context, filename string, w io.Writer) (err error) {
	cw := &countingWriter{w: w}
	defer func(begin time.Time) {
		d.logger.Info("archive download",
			"filename", filename,
			"bytes", cw.n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.DownloadArchive(ctx, filename, cw)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
