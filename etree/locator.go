// Package etree implements patentenrich.ArchiveParser for USPTO weekly grant
// archives using the etree XML document library.
package etree

import (
	"strings"

	"github.com/fwojciec/patentenrich"
)

// DefaultElement is the root element of each grant document in a weekly archive.
const DefaultElement = "us-patent-grant"

// Locate finds the grant document for id in a weekly archive's text.
// See Parser.Locate.
func Locate(archive string, id patentenrich.PatentID) (patentenrich.Span, error) {
	return NewParser().Locate(archive, id)
}

// Locate returns the span of the first document whose opening tag carries a
// file attribute naming id's zero-padded number. The number must be followed
// by a non-digit so that 00391881 does not match a stored 003918810.
//
// The span runs through the nearest following closing tag. A truncated final
// document without a closing tag extends to the end of the text.
func (p *Parser) Locate(archive string, id patentenrich.PatentID) (patentenrich.Span, error) {
	if id.Number() == "" {
		return patentenrich.Span{}, patentenrich.Errorf(patentenrich.EINVALID, "invalid patent identifier %q", id)
	}

	start := p.openingTag(archive, `file="`+id.Country()+id.ArchiveNumber())
	if start < 0 {
		return patentenrich.Span{}, patentenrich.Errorf(patentenrich.ENOTFOUND, "patent %s not found in archive", id)
	}

	end := strings.Index(archive[start:], p.closeTag)
	if end < 0 {
		return patentenrich.Span{Start: start, End: len(archive)}, nil
	}
	return patentenrich.Span{Start: start, End: start + end + len(p.closeTag)}, nil
}

// openingTag returns the offset of the first opening tag of p's element that
// contains attr followed by a non-digit, or -1.
func (p *Parser) openingTag(archive, attr string) int {
	for off := 0; ; {
		i := strings.Index(archive[off:], attr)
		if i < 0 {
			return -1
		}
		i += off
		off = i + 1

		after := i + len(attr)
		if after >= len(archive) || isDigit(archive[after]) {
			continue
		}
		if i > 0 && isWordByte(archive[i-1]) {
			continue
		}

		lt := strings.LastIndexByte(archive[:i], '<')
		if lt < 0 || strings.IndexByte(archive[lt:i], '>') >= 0 {
			continue
		}
		if !strings.HasPrefix(archive[lt:], p.openTag) || lt+len(p.openTag) >= len(archive) || !isSpace(archive[lt+len(p.openTag)]) {
			continue
		}
		return lt
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isWordByte(b byte) bool {
	return isDigit(b) || b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
