package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/patentenrich"
	"github.com/fwojciec/patentenrich/enrich"
	pehttp "github.com/fwojciec/patentenrich/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Now        func() time.Time
	Runs       patentenrich.RunService
	Archives   patentenrich.ArchiveStore
	Enricher   *enrich.Enricher
	Downloader *enrich.Downloader
	Products   ProductCatalog
}

// ProductCatalog looks up bulk-data products and their file listings.
type ProductCatalog interface {
	SearchProducts(ctx context.Context, title string) ([]pehttp.Product, error)
	Product(ctx context.Context, id string) (*pehttp.Product, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Log per-call detail and absent fields"`
	DB      string `name:"db" env:"PATENTENRICH_DB" help:"SQLite database for the page cache and run history"`

	Enrich   EnrichCmd   `cmd:"" help:"Enrich a portfolio template"`
	Download DownloadCmd `cmd:"" help:"Download the weekly archives a template needs"`
	Files    FilesCmd    `cmd:"" help:"List the weekly archives a template needs"`
	Runs     RunsCmd     `cmd:"" help:"List previous enrichment runs"`
	Products ProductsCmd `cmd:"" help:"Search bulk-data products or list a product's files"`
}

// EnrichCmd is the "enrich" subcommand.
type EnrichCmd struct {
	Template     string        `arg:"" type:"existingfile" help:"Portfolio template (JSON)"`
	Output       string        `short:"o" help:"Output file (default: <template>_enriched.json)"`
	DownloadsDir string        `short:"d" name:"downloads-dir" default:"downloads" type:"path" help:"Directory holding weekly archives"`
	APIKey       string        `short:"k" name:"api-key" env:"USPTO_API_KEY" help:"USPTO Open Data Portal API key; enables archive downloads"`
	GrantDates   string        `name:"grant-dates" type:"path" help:"YAML table of grant dates"`
	ScrapeOnly   bool          `name:"scrape-only" help:"Skip the weekly archives and use patent pages only"`
	SkipGoogle   bool          `name:"skip-google" help:"Skip patent pages and use the weekly archives only"`
	Delay        time.Duration `default:"1s" help:"Minimum delay between page fetches"`
	Browser      bool          `help:"Render patent pages with headless Chrome"`
	Timeout      time.Duration `default:"30s" help:"Per-page fetch timeout"`
	Concurrency  int           `short:"c" default:"4" help:"Concurrent page fetch limit"`
	ArchiveJobs  int           `name:"archive-jobs" default:"1" help:"Weekly archives held in memory at once"`
	NoCache      bool          `name:"no-cache" help:"Do not use the page cache"`
	CacheMaxAge  time.Duration `name:"cache-max-age" default:"0s" help:"Refetch cached pages older than this (0 keeps them forever)"`
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	Template     string `arg:"" type:"existingfile" help:"Portfolio template (JSON)"`
	DownloadsDir string `short:"d" name:"downloads-dir" default:"downloads" type:"path" help:"Directory holding weekly archives"`
	APIKey       string `short:"k" name:"api-key" env:"USPTO_API_KEY" required:"" help:"USPTO Open Data Portal API key"`
	GrantDates   string `name:"grant-dates" type:"path" help:"YAML table of grant dates"`
	Concurrency  int    `short:"c" default:"2" help:"Concurrent download limit"`
}

// FilesCmd is the "files" subcommand.
type FilesCmd struct {
	Template     string `arg:"" type:"existingfile" help:"Portfolio template (JSON)"`
	DownloadsDir string `short:"d" name:"downloads-dir" default:"downloads" type:"path" help:"Directory holding weekly archives"`
	GrantDates   string `name:"grant-dates" type:"path" help:"YAML table of grant dates"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Assignee string `short:"a" help:"Only show runs for this assignee"`
	Limit    int    `short:"n" default:"20" help:"Maximum number of runs to show"`
}

// ProductsCmd is the "products" subcommand.
type ProductsCmd struct {
	Search  string `arg:"" optional:"" help:"Product title to search for"`
	Product string `short:"p" help:"Show details and files of this product ID"`
	APIKey  string `short:"k" name:"api-key" env:"USPTO_API_KEY" required:"" help:"USPTO Open Data Portal API key"`
	Limit   int    `short:"n" default:"20" help:"Maximum number of files to show"`
}
