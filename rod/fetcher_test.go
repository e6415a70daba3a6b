//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/patentenrich"
	"github.com/fwojciec/patentenrich/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageFetcher_FetchPage(t *testing.T) {
	t.Parallel()

	t.Run("returns the rendered page for the patent", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<body>
<h2 id="cited">Loading...</h2>
<span id="path"></span>
<script>
document.getElementById('cited').textContent = 'Cited By (12)';
document.getElementById('path').textContent = window.location.pathname;
</script>
</body>
</html>`))
		}))
		defer srv.Close()

		fetcher, err := rod.NewPageFetcher(rod.WithURLTemplate(srv.URL + "/patent/%s/en"))
		require.NoError(t, err)
		defer fetcher.Close()

		page, err := fetcher.FetchPage(context.Background(), "US9391881B2")

		require.NoError(t, err)
		assert.Contains(t, string(page), "Cited By (12)")
		assert.Contains(t, string(page), "/patent/US9391881B2/en")
		assert.NotContains(t, string(page), "Loading...")
	})

	t.Run("honors a cancelled context", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		fetcher, err := rod.NewPageFetcher(rod.WithURLTemplate(srv.URL + "/%s"))
		require.NoError(t, err)
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = fetcher.FetchPage(ctx, "US9391881B2")

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("times out on a slow page", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
			_, _ = w.Write([]byte(`<html><body>late</body></html>`))
		}))
		defer srv.Close()

		fetcher, err := rod.NewPageFetcher(
			rod.WithURLTemplate(srv.URL+"/%s"),
			rod.WithFetchTimeout(100*time.Millisecond),
		)
		require.NoError(t, err)
		defer fetcher.Close()

		_, err = fetcher.FetchPage(context.Background(), "US9391881B2")

		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("returns EINVALID after close", func(t *testing.T) {
		t.Parallel()

		fetcher, err := rod.NewPageFetcher()
		require.NoError(t, err)
		require.NoError(t, fetcher.Close())

		_, err = fetcher.FetchPage(context.Background(), "US9391881B2")

		require.Error(t, err)
		assert.Equal(t, patentenrich.EINVALID, patentenrich.ErrorCode(err))
		assert.Contains(t, patentenrich.ErrorMessage(err), "closed")
	})

	t.Run("keeps serving pages across browser recycling", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html><body>` + r.URL.Path + `</body></html>`))
		}))
		defer srv.Close()

		fetcher, err := rod.NewPageFetcher(
			rod.WithURLTemplate(srv.URL+"/%s"),
			rod.WithRecycleAfter(1),
		)
		require.NoError(t, err)
		defer fetcher.Close()

		for _, id := range []patentenrich.PatentID{"US9391881B2", "US10154005B2", "US9876757B2"} {
			page, err := fetcher.FetchPage(context.Background(), id)
			require.NoError(t, err)
			assert.Contains(t, string(page), string(id))
		}
	})
}

func TestPageFetcher_Close(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewPageFetcher()
	require.NoError(t, err)

	require.NoError(t, fetcher.Close())
	require.NoError(t, fetcher.Close())
}
