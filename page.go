package patentenrich

import (
	"context"
	"time"
)

// DefaultPageURLTemplate is the patent viewer page for a patent identifier.
const DefaultPageURLTemplate = "https://patents.google.com/patent/%s/en"

// PageFetcher retrieves a patent's web page.
// A returned error means the page could not be fetched; a page that was
// fetched but carries no data is returned without error.
type PageFetcher interface {
	FetchPage(ctx context.Context, id PatentID) ([]byte, error)
}

// CachedPage is a previously fetched patent page.
type CachedPage struct {
	PatentID    PatentID  `json:"patentId"`
	Content     []byte    `json:"-"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// PageCache stores fetched pages so repeated runs do not refetch them.
type PageCache interface {
	// FindPage returns the cached page for id.
	// Returns ENOTFOUND if the page is not cached.
	FindPage(ctx context.Context, id PatentID) (*CachedPage, error)

	// SavePage stores or replaces the cached page for id.
	SavePage(ctx context.Context, id PatentID, content []byte) error
}
