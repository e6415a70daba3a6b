package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/patentenrich"
)

// Ensure PortfolioFile implements patentenrich.PortfolioWriter at compile time.
var _ patentenrich.PortfolioWriter = (*PortfolioFile)(nil)

// PortfolioFile writes an enriched portfolio as indented JSON. The file is
// replaced atomically so readers never observe a partial portfolio.
type PortfolioFile struct {
	path string
}

// NewPortfolioFile creates a PortfolioFile writing to path.
func NewPortfolioFile(path string) *PortfolioFile {
	return &PortfolioFile{path: path}
}

// Path returns the output location.
func (f *PortfolioFile) Path() string {
	return f.path
}

// WritePortfolio encodes p to the output file.
func (f *PortfolioFile) WritePortfolio(ctx context.Context, p *patentenrich.Portfolio) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), f.path)
}
