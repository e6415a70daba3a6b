// Package fs provides file-based storage for weekly archives and enriched
// portfolios.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/patentenrich"
	"github.com/klauspost/compress/zip"
)

// Ensure ArchiveStore implements patentenrich.ArchiveStore at compile time.
var _ patentenrich.ArchiveStore = (*ArchiveStore)(nil)

// ArchiveStore keeps weekly archives in a downloads directory. Zip archives
// are read through their first XML entry; any other file is read as XML text.
type ArchiveStore struct {
	dir string
}

// NewArchiveStore creates a new ArchiveStore rooted at dir.
func NewArchiveStore(dir string) *ArchiveStore {
	return &ArchiveStore{dir: dir}
}

// Path returns the location of the named archive.
func (s *ArchiveStore) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// HasArchive reports whether the named archive is stored.
func (s *ArchiveStore) HasArchive(filename string) bool {
	info, err := os.Stat(s.Path(filename))
	return err == nil && info.Mode().IsRegular()
}

// ArchiveText returns the XML text of the named archive. Invalid UTF-8
// sequences are replaced with U+FFFD. The text is read straight into the
// returned string, so a valid archive is held in memory once.
func (s *ArchiveStore) ArchiveText(ctx context.Context, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := s.Path(filename)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", patentenrich.Errorf(patentenrich.ENOTFOUND, "archive %s not found", filename)
	}

	var text string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		text, err = readZipXML(path)
	} else {
		text, err = readFileText(path)
	}
	if err != nil {
		return "", err
	}

	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	return text, nil
}

// readText copies r into a string builder sized for n bytes.
func readText(r io.Reader, n int64) (string, error) {
	var b strings.Builder
	if n > 0 {
		b.Grow(int(n))
	}
	if _, err := io.Copy(&b, r); err != nil {
		return "", err
	}
	return b.String(), nil
}

func readFileText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	return readText(f, info.Size())
}

func readZipXML(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer r.Close()

	for _, f := range r.File {
		if !strings.EqualFold(filepath.Ext(f.Name), ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s in %s: %w", f.Name, filepath.Base(path), err)
		}
		defer rc.Close()
		return readText(rc, int64(f.UncompressedSize64))
	}

	return "", patentenrich.Errorf(patentenrich.ENOTFOUND, "archive %s holds no XML entry", filepath.Base(path))
}

// SaveArchive stores the archive written by fill. Content is written to a
// temporary file and renamed into place, so a failed fill leaves no
// partial archive behind.
func (s *ArchiveStore) SaveArchive(ctx context.Context, filename string, fill func(w io.Writer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(filename)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.Path(filename))
}
