// Package enrich drives the enrichment pipeline. It plans which weekly
// archives hold a portfolio's patents, extracts primary records from them,
// scrapes enrichment records from patent pages and merges both into
// canonical records.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/patentenrich"
	"golang.org/x/sync/errgroup"
)

// Pipeline stage names used in progress events.
const (
	StageDownload = "download"
	StageArchive  = "archive"
	StagePage     = "page"
)

// Enricher orchestrates the enrichment of a portfolio. Archives and Parser
// are required unless SkipArchives is set; Pages and PageParser are
// required unless SkipPages is set.
type Enricher struct {
	Archives   patentenrich.ArchiveProvider
	Downloader *Downloader
	Parser     patentenrich.ArchiveParser
	GrantDates patentenrich.GrantDates
	Naming     patentenrich.ArchiveNaming

	Pages      patentenrich.PageFetcher
	PageParser patentenrich.PageParser
	Cache      patentenrich.PageCache
	Limiter    Limiter

	// Concurrency bounds parallel page fetches. ArchiveConcurrency bounds
	// how many weekly archives are held in memory at once and defaults to 1.
	Concurrency        int
	ArchiveConcurrency int
	RetryDelays  []time.Duration
	SkipArchives bool
	SkipPages    bool
	Logger       *slog.Logger
}

// Report holds the outcome of an enrichment run.
type Report struct {
	// Records holds one canonical record per patent in input order.
	Records []*patentenrich.CanonicalRecord

	// Complete counts records built from both sources.
	Complete int

	// Warnings describe partial failures that did not stop the run.
	Warnings []string

	Primary    Stage[*patentenrich.PrimaryRecord]
	Enrichment Stage[*patentenrich.EnrichmentRecord]
}

// ProgressEvent reports progress during an enrichment run.
type ProgressEvent struct {
	Type      ProgressType
	Stage     string
	Key       string
	Completed int
	Total     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting enrichment progress. Calls are
// serialized.
type ProgressFunc func(event ProgressEvent)

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

func eventType(err error) ProgressType {
	if err != nil {
		return ProgressFailed
	}
	return ProgressCompleted
}

func (e *Enricher) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (e *Enricher) archiveConcurrency() int {
	if e.ArchiveConcurrency <= 0 {
		return 1
	}
	return e.ArchiveConcurrency
}

func (e *Enricher) concurrency() int {
	if e.Concurrency <= 0 {
		return 4
	}
	return e.Concurrency
}

// Enrich builds a canonical record for every patent in ids. Repeated
// identifiers are processed once. Failures for one patent or one archive
// are reported as warnings and never stop the run; Enrich only returns an
// error when ctx is canceled.
func (e *Enricher) Enrich(ctx context.Context, ids []patentenrich.PatentID, progress ProgressFunc) (*Report, error) {
	ids = unique(ids)
	report := &Report{
		Primary:    make(Stage[*patentenrich.PrimaryRecord]),
		Enrichment: make(Stage[*patentenrich.EnrichmentRecord]),
	}

	if !e.SkipArchives {
		report.Warnings = append(report.Warnings, e.extractPrimary(ctx, ids, report.Primary, progress)...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !e.SkipPages {
		report.Warnings = append(report.Warnings, e.scrapePages(ctx, ids, report.Enrichment, progress)...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := e.logger()
	report.Records = make([]*patentenrich.CanonicalRecord, 0, len(ids))
	for _, id := range ids {
		primary := report.Primary.Value(id)
		enrichment := report.Enrichment.Value(id)

		switch {
		case primary != nil && enrichment != nil:
			report.Complete++
		case primary == nil && enrichment == nil:
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: no data from either source", id))
		}

		rec := patentenrich.Merge(id, primary, enrichment)
		for _, field := range AbsentFields(rec) {
			log.Debug("absent field", "id", id, "field", field)
		}
		report.Records = append(report.Records, rec)
	}

	notify(progress, ProgressEvent{Type: ProgressFinished, Completed: len(ids), Total: len(ids)})
	return report, nil
}

// extractPrimary fills stage with the primary record of every patent whose
// weekly archive can be read. It returns warnings for unplanned patents and
// unreadable archives.
func (e *Enricher) extractPrimary(ctx context.Context, ids []patentenrich.PatentID, stage Stage[*patentenrich.PrimaryRecord], progress ProgressFunc) []string {
	var warnings []string
	log := e.logger()

	naming := e.Naming
	if naming == (patentenrich.ArchiveNaming{}) {
		naming = patentenrich.DefaultArchiveNaming
	}
	plan := patentenrich.PlanArchives(ids, e.GrantDates, naming)

	for _, id := range plan.Unplanned {
		stage[id] = Result[*patentenrich.PrimaryRecord]{
			Err: patentenrich.Errorf(patentenrich.EINVALID, "no usable grant date for %s", id),
		}
		warnings = append(warnings, fmt.Sprintf("%s: no grant date, archive data unavailable", id))
	}

	filenames := plan.Filenames()
	if len(filenames) == 0 {
		return warnings
	}

	var mu sync.Mutex
	archiveErrs := make(map[string]error)
	var completed int
	total := len(filenames)

	notify(progress, ProgressEvent{Type: ProgressStarted, Stage: StageArchive, Total: total})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.archiveConcurrency())

	for _, name := range filenames {
		patents := plan.Files[name]
		g.Go(func() error {
			results, err := e.processArchive(gctx, name, patents)

			mu.Lock()
			if err != nil {
				archiveErrs[name] = err
				for _, id := range patents {
					stage[id] = Result[*patentenrich.PrimaryRecord]{Err: err}
				}
			} else {
				for id, r := range results {
					stage[id] = r
				}
			}
			completed++
			notify(progress, ProgressEvent{
				Type:      eventType(err),
				Stage:     StageArchive,
				Key:       name,
				Completed: completed,
				Total:     total,
				Error:     err,
			})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, name := range filenames {
		if err, ok := archiveErrs[name]; ok {
			warnings = append(warnings, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(archiveErrs) == len(filenames) {
		warnings = append(warnings, "no weekly archive could be read; archive fields are absent for every patent")
	}

	for _, name := range filenames {
		for _, id := range plan.Files[name] {
			if err := stage.Err(id); err != nil && archiveErrs[name] == nil {
				log.Warn("patent not extracted", "id", id, "archive", name, "err", err)
			}
		}
	}

	return warnings
}

// processArchive reads one archive and extracts every patent it should hold.
// The returned error is set only when the archive itself is unusable.
func (e *Enricher) processArchive(ctx context.Context, name string, patents []patentenrich.PatentID) (map[patentenrich.PatentID]Result[*patentenrich.PrimaryRecord], error) {
	if e.Downloader != nil {
		if _, err := e.Downloader.Ensure(ctx, name); err != nil {
			return nil, fmt.Errorf("download: %w", err)
		}
	}

	text, err := e.Archives.ArchiveText(ctx, name)
	if err != nil {
		return nil, err
	}

	results := make(map[patentenrich.PatentID]Result[*patentenrich.PrimaryRecord], len(patents))
	for _, id := range patents {
		results[id] = e.extract(text, id)
	}
	return results, nil
}

func (e *Enricher) extract(archive string, id patentenrich.PatentID) Result[*patentenrich.PrimaryRecord] {
	span, err := e.Parser.Locate(archive, id)
	if err != nil {
		return Result[*patentenrich.PrimaryRecord]{Err: err}
	}
	rec, err := e.Parser.Parse(span.Text(archive))
	if err != nil {
		return Result[*patentenrich.PrimaryRecord]{Err: fmt.Errorf("parse %s: %w", id, err)}
	}
	return Result[*patentenrich.PrimaryRecord]{Value: rec}
}

// scrapePages fills stage with the enrichment record of every patent whose
// page can be obtained from the cache or fetched.
func (e *Enricher) scrapePages(ctx context.Context, ids []patentenrich.PatentID, stage Stage[*patentenrich.EnrichmentRecord], progress ProgressFunc) []string {
	if len(ids) == 0 {
		return nil
	}

	log := e.logger()
	var mu sync.Mutex
	var completed int
	total := len(ids)

	notify(progress, ProgressEvent{Type: ProgressStarted, Stage: StagePage, Total: total})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency())

	for _, id := range ids {
		g.Go(func() error {
			page, err := e.page(gctx, id)

			var r Result[*patentenrich.EnrichmentRecord]
			if err != nil {
				r.Err = err
				log.Warn("page unavailable", "id", id, "err", err)
			} else {
				r.Value = e.PageParser.ParsePage(page, id)
			}

			mu.Lock()
			stage[id] = r
			completed++
			notify(progress, ProgressEvent{
				Type:      eventType(err),
				Stage:     StagePage,
				Key:       id.String(),
				Completed: completed,
				Total:     total,
				Error:     err,
			})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if stage.Failed() == len(ids) {
		return []string{"every page fetch failed; page fields are absent for every patent"}
	}
	return nil
}

// page returns the page for id from the cache or, failing that, from the
// fetcher. Fetched pages are written back to the cache.
func (e *Enricher) page(ctx context.Context, id patentenrich.PatentID) ([]byte, error) {
	log := e.logger()

	if e.Cache != nil {
		cached, err := e.Cache.FindPage(ctx, id)
		if err == nil {
			return cached.Content, nil
		}
		if patentenrich.ErrorCode(err) != patentenrich.ENOTFOUND {
			log.Warn("page cache lookup failed", "id", id, "err", err)
		}
	}

	if e.Limiter != nil {
		if err := e.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	delays := e.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	page, err := FetchPageWithRetry(ctx, id, e.Pages, log, delays)
	if err != nil {
		return nil, err
	}

	if e.Cache != nil {
		if err := e.Cache.SavePage(ctx, id, page); err != nil {
			log.Warn("page cache write failed", "id", id, "err", err)
		}
	}
	return page, nil
}

// AbsentFields names the scalar fields of rec that carry no value.
func AbsentFields(rec *patentenrich.CanonicalRecord) []string {
	var absent []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"title", rec.Title},
		{"abstract", rec.Abstract},
		{"grant_date", rec.GrantDate},
		{"priority_date", rec.PriorityDate},
		{"application_number", rec.ApplicationNumber},
		{"assignee_original", rec.AssigneeOriginal},
		{"assignee_current", rec.AssigneeCurrent},
		{"expiration", rec.Expiration},
	} {
		if f.value == "" {
			absent = append(absent, f.name)
		}
	}
	return absent
}

func unique(ids []patentenrich.PatentID) []patentenrich.PatentID {
	seen := make(map[patentenrich.PatentID]bool, len(ids))
	out := make([]patentenrich.PatentID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
