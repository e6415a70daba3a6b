package patentenrich

import (
	"context"
	"io"
	"sort"
	"time"
)

// DateLayout is the layout of every date field exchanged by this package.
const DateLayout = "2006-01-02"

// ArchiveNaming describes how weekly archive filenames are built.
type ArchiveNaming struct {
	Prefix string
	Ext    string
}

// DefaultArchiveNaming names USPTO grant full-text archives, e.g. ipg160712.zip.
var DefaultArchiveNaming = ArchiveNaming{Prefix: "ipg", Ext: "zip"}

// WeeklyFilename returns the archive filename for a grant date in YYYY-MM-DD
// form. Grants are issued on Tuesdays, so the name uses the Tuesday of the
// Monday-to-Sunday week containing the date.
func WeeklyFilename(grantDate string, naming ArchiveNaming) (string, error) {
	t, err := time.Parse(DateLayout, grantDate)
	if err != nil {
		return "", Errorf(EINVALID, "invalid grant date %q", grantDate)
	}
	offset := (int(t.Weekday()) + 6) % 7 // days since Monday
	tuesday := t.AddDate(0, 0, 1-offset)
	return naming.Prefix + tuesday.Format("060102") + "." + naming.Ext, nil
}

// GrantDates maps patents to their grant dates (YYYY-MM-DD). It is read-only
// once handed to a pipeline.
type GrantDates map[PatentID]string

// ArchivePlan groups patents by the weekly archive that contains them.
type ArchivePlan struct {
	// Files maps archive filenames to the patents they hold, in input order.
	Files map[string][]PatentID

	// Unplanned lists patents without a usable grant date.
	Unplanned []PatentID
}

// Filenames returns the planned archive filenames in sorted order.
func (p *ArchivePlan) Filenames() []string {
	names := make([]string, 0, len(p.Files))
	for name := range p.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlanArchives maps each patent to its weekly archive.
func PlanArchives(ids []PatentID, dates GrantDates, naming ArchiveNaming) *ArchivePlan {
	plan := &ArchivePlan{Files: make(map[string][]PatentID)}
	for _, id := range ids {
		date, ok := dates[id]
		if !ok {
			plan.Unplanned = append(plan.Unplanned, id)
			continue
		}
		name, err := WeeklyFilename(date, naming)
		if err != nil {
			plan.Unplanned = append(plan.Unplanned, id)
			continue
		}
		plan.Files[name] = append(plan.Files[name], id)
	}
	return plan
}

// ArchiveProvider reads weekly archives.
type ArchiveProvider interface {
	// ArchiveText returns the XML text of the named archive.
	// Returns ENOTFOUND if the archive is not available.
	ArchiveText(ctx context.Context, filename string) (string, error)
}

// ArchiveStore is an ArchiveProvider that can also persist new archives.
type ArchiveStore interface {
	ArchiveProvider

	// HasArchive reports whether the named archive is stored.
	HasArchive(filename string) bool

	// SaveArchive stores the archive written by fill. A failed fill leaves
	// no partial archive behind.
	SaveArchive(ctx context.Context, filename string, fill func(w io.Writer) error) error
}

// ArchiveDownloader retrieves weekly archives from the bulk-data service.
type ArchiveDownloader interface {
	// DownloadArchive writes the named archive to w.
	// Returns ENOTFOUND if the service does not list the file.
	DownloadArchive(ctx context.Context, filename string, w io.Writer) error
}
