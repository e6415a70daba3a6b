package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/patentenrich"
)

// Compile-time interface verification.
var _ patentenrich.PageCache = (*PageCache)(nil)

// PageCache implements patentenrich.PageCache using SQLite.
type PageCache struct {
	db     *DB
	maxAge time.Duration
	now    func() time.Time
}

// PageCacheOption configures a PageCache.
type PageCacheOption func(*PageCache)

// WithMaxAge makes pages older than d count as missing.
// Zero, the default, keeps pages forever.
func WithMaxAge(d time.Duration) PageCacheOption {
	return func(c *PageCache) {
		c.maxAge = d
	}
}

// WithClock sets the time source used for fetch timestamps and expiry.
func WithClock(now func() time.Time) PageCacheOption {
	return func(c *PageCache) {
		c.now = now
	}
}

// NewPageCache creates a new PageCache.
func NewPageCache(db *DB, opts ...PageCacheOption) *PageCache {
	c := &PageCache{db: db, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content []byte) string {
	h := xxhash.Sum64(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// FindPage retrieves the cached page for id.
// Returns ENOTFOUND if the page is not cached or has expired.
func (c *PageCache) FindPage(ctx context.Context, id patentenrich.PatentID) (*patentenrich.CachedPage, error) {
	page := patentenrich.CachedPage{PatentID: id}
	var fetchedAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT content, content_hash, fetched_at
		FROM pages
		WHERE patent_id = ?
	`, id.String()).Scan(&page.Content, &page.ContentHash, &fetchedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, patentenrich.Errorf(patentenrich.ENOTFOUND, "page for %s not cached", id)
	}
	if err != nil {
		return nil, err
	}

	page.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	if c.maxAge > 0 && c.now().Sub(page.FetchedAt) > c.maxAge {
		return nil, patentenrich.Errorf(patentenrich.ENOTFOUND, "page for %s expired", id)
	}

	return &page, nil
}

// SavePage stores content as the page for id, replacing any previous copy.
func (c *PageCache) SavePage(ctx context.Context, id patentenrich.PatentID, content []byte) error {
	if id == "" {
		return patentenrich.Errorf(patentenrich.EINVALID, "page patent id required")
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO pages (patent_id, content, content_hash, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(patent_id) DO UPDATE SET
			content = excluded.content,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
	`, id.String(), content, hashContent(content), c.now().UTC().Format(timestampLayout))

	return err
}
