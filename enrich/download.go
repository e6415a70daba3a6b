package enrich

import (
	"context"
	"io"
	"sync"

	"github.com/fwojciec/patentenrich"
	"golang.org/x/sync/errgroup"
)

// Downloader makes weekly archives available in a local store, fetching
// the ones that are missing from the bulk-data service.
type Downloader struct {
	Store       patentenrich.ArchiveStore
	Client      patentenrich.ArchiveDownloader
	Concurrency int
}

// DownloadStatus reports what Ensure did for one archive.
type DownloadStatus int

const (
	// DownloadPresent means the archive was already stored.
	DownloadPresent DownloadStatus = iota
	// DownloadFetched means the archive was downloaded.
	DownloadFetched
	// DownloadFailed means the archive is still missing.
	DownloadFailed
)

// Ensure downloads filename unless the store already holds it.
func (d *Downloader) Ensure(ctx context.Context, filename string) (DownloadStatus, error) {
	if d.Store.HasArchive(filename) {
		return DownloadPresent, nil
	}
	if d.Client == nil {
		return DownloadFailed, patentenrich.Errorf(patentenrich.ENOTFOUND, "archive %s not stored and no download client configured", filename)
	}

	err := d.Store.SaveArchive(ctx, filename, func(w io.Writer) error {
		return d.Client.DownloadArchive(ctx, filename, w)
	})
	if err != nil {
		return DownloadFailed, err
	}
	return DownloadFetched, nil
}

// EnsureAll runs Ensure for every filename concurrently and returns the
// outcome per file. A failed download never stops the others.
func (d *Downloader) EnsureAll(ctx context.Context, filenames []string, progress ProgressFunc) map[string]Result[DownloadStatus] {
	concurrency := d.Concurrency
	if concurrency <= 0 {
		concurrency = 2
	}

	var mu sync.Mutex
	results := make(map[string]Result[DownloadStatus], len(filenames))
	total := len(filenames)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, name := range filenames {
		g.Go(func() error {
			status, err := d.Ensure(gctx, name)

			mu.Lock()
			results[name] = Result[DownloadStatus]{Value: status, Err: err}
			notify(progress, ProgressEvent{
				Type:      eventType(err),
				Stage:     StageDownload,
				Key:       name,
				Completed: len(results),
				Total:     total,
				Error:     err,
			})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}
