package mock

import (
	"context"
	"io"

	"github.com/fwojciec/patentenrich"
)

// Compile-time interface verification.
var (
	_ patentenrich.ArchiveProvider   = (*ArchiveProvider)(nil)
	_ patentenrich.ArchiveStore      = (*ArchiveStore)(nil)
	_ patentenrich.ArchiveDownloader = (*ArchiveDownloader)(nil)
	_ patentenrich.ArchiveParser     = (*ArchiveParser)(nil)
)

// ArchiveProvider is a mock implementation of patentenrich.ArchiveProvider.
type ArchiveProvider struct {
	ArchiveTextFn func(ctx context.Context, filename string) (string, error)
}

func (p *ArchiveProvider) ArchiveText(ctx context.Context, filename string) (string, error) {
	return p.ArchiveTextFn(ctx, filename)
}

// ArchiveStore is a mock implementation of patentenrich.ArchiveStore.
type ArchiveStore struct {
	ArchiveTextFn func(ctx context.Context, filename string) (string, error)
	HasArchiveFn  func(filename string) bool
	SaveArchiveFn func(ctx context.Context, filename string, fill func(w io.Writer) error) error
}

func (s *ArchiveStore) ArchiveText(ctx context.Context, filename string) (string, error) {
	return s.ArchiveTextFn(ctx, filename)
}

func (s *ArchiveStore) HasArchive(filename string) bool {
	return s.HasArchiveFn(filename)
}

func (s *ArchiveStore) SaveArchive(ctx context.Context, filename string, fill func(w io.Writer) error) error {
	return s.SaveArchiveFn(ctx, filename, fill)
}

// ArchiveDownloader is a mock implementation of patentenrich.ArchiveDownloader.
type ArchiveDownloader struct {
	DownloadArchiveFn func(ctx context.Context, filename string, w io.Writer) error
}

func (d *ArchiveDownloader) DownloadArchive(ctx context.Context, filename string, w io.Writer) error {
	return d.DownloadArchiveFn(ctx, filename, w)
}

// ArchiveParser is a mock implementation of patentenrich.ArchiveParser.
type ArchiveParser struct {
	LocateFn func(archive string, id patentenrich.PatentID) (patentenrich.Span, error)
	ParseFn  func(document string) (*patentenrich.PrimaryRecord, error)
}

func (p *ArchiveParser) Locate(archive string, id patentenrich.PatentID) (patentenrich.Span, error) {
	return p.LocateFn(archive, id)
}

func (p *ArchiveParser) Parse(document string) (*patentenrich.PrimaryRecord, error) {
	return p.ParseFn(document)
}
