// Package http provides HTTP clients for patent pages and the USPTO bulk-data
// service.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/patentenrich"
)

// DefaultFetchTimeout is the default timeout for page requests.
const DefaultFetchTimeout = 30 * time.Second

// Browser-like request headers. The page host rejects requests without them.
const (
	DefaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	DefaultAccept         = "text/html,application/xhtml+xml"
	DefaultAcceptLanguage = "en-US,en;q=0.9"
)

// Ensure PageFetcher implements patentenrich.PageFetcher at compile time.
var _ patentenrich.PageFetcher = (*PageFetcher)(nil)

// PageFetcher retrieves patent pages over plain HTTP.
type PageFetcher struct {
	client      *http.Client
	timeout     time.Duration
	urlTemplate string
	userAgent   string
}

// Option configures a PageFetcher.
type Option func(*PageFetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *PageFetcher) {
		f.timeout = d
	}
}

// WithURLTemplate sets the page URL template. The template receives the
// patent identifier as its only argument.
// Defaults to patentenrich.DefaultPageURLTemplate if not specified.
func WithURLTemplate(tmpl string) Option {
	return func(f *PageFetcher) {
		f.urlTemplate = tmpl
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *PageFetcher) {
		f.userAgent = ua
	}
}

// NewPageFetcher creates a new HTTP-based PageFetcher.
func NewPageFetcher(opts ...Option) *PageFetcher {
	f := &PageFetcher{
		timeout:     DefaultFetchTimeout,
		urlTemplate: patentenrich.DefaultPageURLTemplate,
		userAgent:   DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// FetchPage retrieves the page for id.
func (f *PageFetcher) FetchPage(ctx context.Context, id patentenrich.PatentID) ([]byte, error) {
	url := fmt.Sprintf(f.urlTemplate, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", DefaultAccept)
	req.Header.Set("Accept-Language", DefaultAcceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, patentenrich.Errorf(patentenrich.ENOTFOUND, "page for %s not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *PageFetcher) Close() error {
	return nil
}
