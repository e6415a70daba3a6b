package mock

import (
	"context"

	"github.com/fwojciec/patentenrich"
)

// Compile-time interface verification.
var (
	_ patentenrich.PageFetcher = (*PageFetcher)(nil)
	_ patentenrich.PageParser  = (*PageParser)(nil)
	_ patentenrich.PageCache   = (*PageCache)(nil)
)

// PageFetcher is a mock implementation of patentenrich.PageFetcher.
type PageFetcher struct {
	FetchPageFn func(ctx context.Context, id patentenrich.PatentID) ([]byte, error)
}

func (f *PageFetcher) FetchPage(ctx context.Context, id patentenrich.PatentID) ([]byte, error) {
	return f.FetchPageFn(ctx, id)
}

// PageParser is a mock implementation of patentenrich.PageParser.
type PageParser struct {
	ParsePageFn func(page []byte, id patentenrich.PatentID) *patentenrich.EnrichmentRecord
}

func (p *PageParser) ParsePage(page []byte, id patentenrich.PatentID) *patentenrich.EnrichmentRecord {
	return p.ParsePageFn(page, id)
}

// PageCache is a mock implementation of patentenrich.PageCache.
type PageCache struct {
	FindPageFn func(ctx context.Context, id patentenrich.PatentID) (*patentenrich.CachedPage, error)
	SavePageFn func(ctx context.Context, id patentenrich.PatentID, content []byte) error
}

func (c *PageCache) FindPage(ctx context.Context, id patentenrich.PatentID) (*patentenrich.CachedPage, error) {
	return c.FindPageFn(ctx, id)
}

func (c *PageCache) SavePage(ctx context.Context, id patentenrich.PatentID, content []byte) error {
	return c.SavePageFn(ctx, id, content)
}
