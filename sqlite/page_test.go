package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/patentenrich"
	"github.com/fwojciec/patentenrich/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCache_SavePage(t *testing.T) {
	t.Parallel()

	t.Run("stores content with hash and timestamp", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		fetched := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
		cache := sqlite.NewPageCache(db, sqlite.WithClock(func() time.Time { return fetched }))
		ctx := context.Background()

		err := cache.SavePage(ctx, "US9391881B2", []byte("<html>page</html>"))
		require.NoError(t, err)

		page, err := cache.FindPage(ctx, "US9391881B2")
		require.NoError(t, err)
		assert.Equal(t, patentenrich.PatentID("US9391881B2"), page.PatentID)
		assert.Equal(t, []byte("<html>page</html>"), page.Content)
		assert.Len(t, page.ContentHash, 16)
		assert.True(t, fetched.Equal(page.FetchedAt))
	})

	t.Run("replaces a previous copy", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		cache := sqlite.NewPageCache(db)
		ctx := context.Background()

		require.NoError(t, cache.SavePage(ctx, "US9391881B2", []byte("old")))
		first, err := cache.FindPage(ctx, "US9391881B2")
		require.NoError(t, err)

		require.NoError(t, cache.SavePage(ctx, "US9391881B2", []byte("new")))
		second, err := cache.FindPage(ctx, "US9391881B2")
		require.NoError(t, err)

		assert.Equal(t, []byte("new"), second.Content)
		assert.NotEqual(t, first.ContentHash, second.ContentHash)
	})

	t.Run("returns EINVALID without a patent id", func(t *testing.T) {
		t.Parallel()

		cache := sqlite.NewPageCache(setupTestDB(t))

		err := cache.SavePage(context.Background(), "", []byte("x"))

		require.Error(t, err)
		assert.Equal(t, patentenrich.EINVALID, patentenrich.ErrorCode(err))
	})
}

func TestPageCache_FindPage(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for an uncached page", func(t *testing.T) {
		t.Parallel()

		cache := sqlite.NewPageCache(setupTestDB(t))

		_, err := cache.FindPage(context.Background(), "US9391881B2")

		require.Error(t, err)
		assert.Equal(t, patentenrich.ENOTFOUND, patentenrich.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for an expired page", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		now := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		ctx := context.Background()

		writer := sqlite.NewPageCache(db, sqlite.WithClock(clock))
		require.NoError(t, writer.SavePage(ctx, "US9391881B2", []byte("page")))

		later := func() time.Time { return now.Add(48 * time.Hour) }
		reader := sqlite.NewPageCache(db, sqlite.WithClock(later), sqlite.WithMaxAge(24*time.Hour))

		_, err := reader.FindPage(ctx, "US9391881B2")

		require.Error(t, err)
		assert.Equal(t, patentenrich.ENOTFOUND, patentenrich.ErrorCode(err))
	})

	t.Run("keeps pages younger than the max age", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		cache := sqlite.NewPageCache(db, sqlite.WithMaxAge(time.Hour))
		ctx := context.Background()
		require.NoError(t, cache.SavePage(ctx, "US9391881B2", []byte("page")))

		page, err := cache.FindPage(ctx, "US9391881B2")

		require.NoError(t, err)
		assert.Equal(t, []byte("page"), page.Content)
	})
}
