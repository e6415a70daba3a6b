package patentenrich

import (
	"regexp"
	"strings"
)

// ArchiveNumberWidth is the zero-padded width of document numbers embedded
// in weekly archive filenames (e.g. US09391881-20160712.XML).
const ArchiveNumberWidth = 8

var patentIDRe = regexp.MustCompile(`^([A-Z]{2})(\d{7,})([A-Z])(\d?)$`)

// PatentID identifies a patent publication, e.g. "US9391881B2": a two-letter
// country code, the document number, a kind letter and an optional kind digit.
// It is the join key across the archive, the web page and the output.
type PatentID string

// ParsePatentID validates s and returns it as a PatentID.
// Surrounding whitespace is ignored and letters are upper-cased.
func ParsePatentID(s string) (PatentID, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !patentIDRe.MatchString(s) {
		return "", Errorf(EINVALID, "invalid patent identifier %q", s)
	}
	return PatentID(s), nil
}

// String returns the identifier as a string.
func (id PatentID) String() string {
	return string(id)
}

// Country returns the two-letter country code, or "" for a malformed identifier.
func (id PatentID) Country() string {
	return id.part(1)
}

// Number returns the document number without country or kind code.
func (id PatentID) Number() string {
	return id.part(2)
}

// Kind returns the kind code including its optional digit (e.g. "B2").
func (id PatentID) Kind() string {
	return id.part(3) + id.part(4)
}

// ArchiveNumber returns the document number left-padded with zeros to
// ArchiveNumberWidth, the form used inside weekly archives.
func (id PatentID) ArchiveNumber() string {
	num := id.Number()
	if len(num) >= ArchiveNumberWidth {
		return num
	}
	return strings.Repeat("0", ArchiveNumberWidth-len(num)) + num
}

func (id PatentID) part(i int) string {
	m := patentIDRe.FindStringSubmatch(string(id))
	if m == nil {
		return ""
	}
	return m[i]
}
