package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/patentenrich"
	"github.com/fwojciec/patentenrich/enrich"
	"github.com/fwojciec/patentenrich/etree"
	"github.com/fwojciec/patentenrich/fs"
	"github.com/fwojciec/patentenrich/goquery"
	pehttp "github.com/fwojciec/patentenrich/http"
	"github.com/fwojciec/patentenrich/rod"
	pelog "github.com/fwojciec/patentenrich/slog"
	"github.com/fwojciec/patentenrich/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overrides --db when set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Now: time.Now}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Now:    m.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("patentenrich"),
		kong.Description("Enrich a patent portfolio with USPTO grant data and patent page data."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'patentenrich --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	dbPath := cli.DB
	if m.DBPath != "" {
		dbPath = m.DBPath
	}
	if dbPath != "" {
		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set PATENTENRICH_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		defer m.Close()

		deps.Runs = sqlite.NewRunService(m.DB)
	}

	switch kongCtx.Command() {
	case "enrich <template>":
		closer, err := m.wireEnricher(deps, &cli.Enrich)
		if err != nil {
			return err
		}
		defer closer()
	case "download <template>":
		deps.Downloader = newDownloader(cli.Download.DownloadsDir, cli.Download.APIKey, cli.Download.Concurrency, deps.Logger)
	case "files <template>":
		deps.Archives = fs.NewArchiveStore(cli.Files.DownloadsDir)
	case "products", "products <search>":
		deps.Products = pehttp.NewBulkDataClient(cli.Products.APIKey)
	}

	return kongCtx.Run(deps)
}

// wireEnricher builds the enrichment pipeline for the enrich command. The
// returned func releases the page fetcher.
func (m *Main) wireEnricher(deps *Dependencies, c *EnrichCmd) (func(), error) {
	logger := deps.Logger

	var pages patentenrich.PageFetcher
	closer := func() {}
	if !c.SkipGoogle {
		if c.Browser {
			fetcher, err := rod.NewPageFetcher(rod.WithFetchTimeout(c.Timeout), rod.WithBrowserLogger(logger))
			if err != nil {
				fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed for --browser")
				return nil, fmt.Errorf("failed to start browser: %w", err)
			}
			pages = fetcher
			closer = func() { _ = fetcher.Close() }
		} else {
			fetcher := pehttp.NewPageFetcher(pehttp.WithTimeout(c.Timeout))
			pages = fetcher
			closer = func() { _ = fetcher.Close() }
		}
		pages = pelog.NewLoggingPageFetcher(pages, logger)
	}

	store := fs.NewArchiveStore(c.DownloadsDir)

	e := &enrich.Enricher{
		Archives:           pelog.NewLoggingArchiveProvider(store, logger),
		Parser:             etree.NewParser(),
		Naming:             patentenrich.DefaultArchiveNaming,
		Pages:              pages,
		PageParser:         goquery.NewPageParser(),
		Limiter:            enrich.NewLimiter(c.Delay),
		Concurrency:        c.Concurrency,
		ArchiveConcurrency: c.ArchiveJobs,
		SkipArchives:       c.ScrapeOnly,
		SkipPages:          c.SkipGoogle,
		Logger:             logger,
	}
	if c.APIKey != "" {
		e.Downloader = newDownloader(c.DownloadsDir, c.APIKey, 0, logger)
	}
	if m.DB != nil && !c.NoCache {
		e.Cache = sqlite.NewPageCache(m.DB, sqlite.WithMaxAge(c.CacheMaxAge))
	}

	deps.Enricher = e
	return closer, nil
}

func newDownloader(dir, apiKey string, concurrency int, logger *slog.Logger) *enrich.Downloader {
	d := &enrich.Downloader{
		Store:       fs.NewArchiveStore(dir),
		Concurrency: concurrency,
	}
	if apiKey != "" {
		d.Client = pelog.NewLoggingArchiveDownloader(pehttp.NewBulkDataClient(apiKey), logger)
	}
	return d
}
