// Package rod fetches patent pages through a headless Chrome browser.
package rod

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/patentenrich"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure PageFetcher implements patentenrich.PageFetcher at compile time.
var _ patentenrich.PageFetcher = (*PageFetcher)(nil)

// DefaultFetchTimeout bounds a single page navigation.
const DefaultFetchTimeout = 30 * time.Second

// PageFetcher retrieves rendered patent pages using Chrome browser automation.
// PageFetcher is safe for concurrent use by multiple goroutines.
type PageFetcher struct {
	manager     *BrowserManager
	timeout     time.Duration
	urlTemplate string
	managerOpts []ManagerOption
	closed      atomic.Bool
}

// Option configures a PageFetcher.
type Option func(*PageFetcher)

// WithFetchTimeout sets the per-page navigation timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *PageFetcher) {
		f.timeout = d
	}
}

// WithURLTemplate sets the page URL template. The template receives the
// patent identifier through a single %s verb.
func WithURLTemplate(tmpl string) Option {
	return func(f *PageFetcher) {
		f.urlTemplate = tmpl
	}
}

// WithRecycleAfter recycles the browser after n rendered pages.
func WithRecycleAfter(n int64) Option {
	return func(f *PageFetcher) {
		f.managerOpts = append(f.managerOpts, WithMaxPages(n))
	}
}

// WithBrowserLogger reports browser recycling on logger.
func WithBrowserLogger(logger *slog.Logger) Option {
	return func(f *PageFetcher) {
		f.managerOpts = append(f.managerOpts, WithLogger(logger))
	}
}

// NewPageFetcher launches a headless Chrome browser and returns a fetcher
// that renders pages with it. Close must be called when the fetcher is no
// longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewPageFetcher(opts ...Option) (*PageFetcher, error) {
	f := &PageFetcher{
		timeout:     DefaultFetchTimeout,
		urlTemplate: patentenrich.DefaultPageURLTemplate,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// FetchPage navigates to the patent's page and returns the rendered HTML.
func (f *PageFetcher) FetchPage(ctx context.Context, id patentenrich.PatentID) ([]byte, error) {
	if f.closed.Load() {
		return nil, patentenrich.Errorf(patentenrich.EINVALID, "page fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("opening page for %s: %w", id, err)
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	page = page.Context(ctx)

	if err := page.Navigate(fmt.Sprintf(f.urlTemplate, id)); err != nil {
		return nil, fmt.Errorf("navigating to %s: %w", id, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", id, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", id, err)
	}

	return []byte(html), nil
}

// LauncherPID returns the process ID of the current browser launcher.
func (f *PageFetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *PageFetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}
