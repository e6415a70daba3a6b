package goquery

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/patentenrich"
	"golang.org/x/net/html"
)

var _ patentenrich.PageParser = (*PageParser)(nil)

// MaxTopCitingAssignees bounds the ranked citing-assignee list.
const MaxTopCitingAssignees = 7

var (
	citedByRe         = regexp.MustCompile(`^Cited By \((\d+)\)$`)
	familiesCitingRe  = regexp.MustCompile(`Families Citing this family \((\d+)\)`)
	isoDateRe         = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	expirationEventRe = regexp.MustCompile(`<time[^>]*datetime="(\d{4}-\d{2}-\d{2})"[^>]*>[^<]*</time>\s*<span[^>]*>(?:Anticipated|Adjusted) expiration`)
	currentAssigneeRe = regexp.MustCompile(`(?is)Current Assignee.*?<dd[^>]*>(.*?)</dd>`)
	tagRe             = regexp.MustCompile(`<[^>]+>`)
	disclaimerRes     = []*regexp.Regexp{
		regexp.MustCompile(`(?is)The listed assignees.*`),
		regexp.MustCompile(`(?is)Google has not.*`),
	}
	familyIDRe = regexp.MustCompile(`^US\d{7,}[A-Z]\d?$`)

	familiesCitingHeadingRe = regexp.MustCompile(`^Families Citing this family`)
)

// familySections name the headings whose sections list family publications.
var familySections = []*regexp.Regexp{
	regexp.MustCompile(`^Family Applications \(\d+\)$`),
	regexp.MustCompile(`^Also Published As$`),
	regexp.MustCompile(`^Priority Applications \(\d+\)$`),
}

const (
	forwardReferenceSelector = `[itemprop^="forwardReferences"], [itemprop^="forwardreferences"]`
	assigneeOriginalSelector = `[itemprop="assigneeOriginal"]`
)

// page is a parsed patent page shared by all extraction strategies.
type page struct {
	raw string
	doc *goquery.Document
	id  patentenrich.PatentID
}

// strategy extracts one field from a page, reporting whether it matched.
type strategy[T any] func(p *page) (T, bool)

// firstMatch runs strategies in order and returns the first match.
func firstMatch[T any](p *page, strategies ...strategy[T]) T {
	for _, s := range strategies {
		if v, ok := s(p); ok {
			return v
		}
	}
	var zero T
	return zero
}

// PageParser extracts enrichment data from a patent page. Each field is
// extracted independently so page-structure drift only loses the affected
// field. A PageParser is safe for concurrent use.
type PageParser struct{}

// NewPageParser creates a new PageParser.
func NewPageParser() *PageParser {
	return &PageParser{}
}

// ParsePage extracts an EnrichmentRecord from page. It never fails: an
// unparseable page yields a record with every field absent.
func (pp *PageParser) ParsePage(content []byte, id patentenrich.PatentID) *patentenrich.EnrichmentRecord {
	rec := &patentenrich.EnrichmentRecord{SimpleFamilyMembers: []string{}}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return rec
	}
	p := &page{raw: string(content), doc: doc, id: id}

	rec.ForwardCites = forwardCites(p)
	rec.Expiration = firstMatch(p, expirationAttr, ifiExpiration, expirationEvent)
	rec.AssigneeCurrent = firstMatch(p, currentAssigneeLabel, firstOriginalAssignee)
	rec.SimpleFamilyMembers = simpleFamily(p)
	rec.TopCitingAssignees = topCitingAssignees(p)
	return rec
}

// forwardCites sums every "Cited By (N)" heading and the first
// "Families Citing this family (N)" count.
func forwardCites(p *page) int {
	total := 0
	p.doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		if m := citedByRe.FindStringSubmatch(strings.TrimSpace(s.Text())); m != nil {
			n, _ := strconv.Atoi(m[1])
			total += n
		}
	})
	if m := familiesCitingRe.FindStringSubmatch(p.raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n
	}
	return total
}

func expirationAttr(p *page) (string, bool) {
	var date string
	p.doc.Find(`[itemprop="expiration"][datetime]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("datetime")
		if isoDateRe.MatchString(v) {
			date = v
			return false
		}
		return true
	})
	return date, date != ""
}

func ifiExpiration(p *page) (string, bool) {
	v := strings.TrimSpace(p.doc.Find(`[itemprop="ifiExpiration"]`).First().Text())
	return v, isoDateRe.MatchString(v)
}

// expirationEvent finds a legal-event date labeled as the anticipated or
// adjusted expiration.
func expirationEvent(p *page) (string, bool) {
	m := expirationEventRe.FindStringSubmatch(p.raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func currentAssigneeLabel(p *page) (string, bool) {
	m := currentAssigneeRe.FindStringSubmatch(p.raw)
	if m == nil {
		return "", false
	}
	name := html.UnescapeString(tagRe.ReplaceAllString(m[1], " "))
	for _, re := range disclaimerRes {
		name = re.ReplaceAllString(name, "")
	}
	name = collapseSpace(name)
	return name, utf8.RuneCountInString(name) > 2
}

func firstOriginalAssignee(p *page) (string, bool) {
	name := collapseSpace(p.doc.Find(assigneeOriginalSelector).First().Text())
	return name, name != ""
}

// simpleFamily collects publication numbers listed in the family sections,
// excluding the page's own patent.
func simpleFamily(p *page) []string {
	seen := make(map[string]bool)
	members := []string{}
	for _, heading := range familySections {
		section(p.doc, heading).Find("*").AddBack().Each(func(_ int, s *goquery.Selection) {
			v := strings.TrimSpace(s.Text())
			if !familyIDRe.MatchString(v) || v == p.id.String() || seen[v] {
				return
			}
			seen[v] = true
			members = append(members, v)
		})
	}
	sort.Strings(members)
	return members
}

// topCitingAssignees ranks citing assignees by frequency across every
// forward-reference row plus every assignee of the "Families Citing" section.
// A family row is a forward reference too, so it contributes to both tallies.
func topCitingAssignees(p *page) []string {
	counts := make(map[string]int)
	add := func(_ int, s *goquery.Selection) {
		name := strings.ToUpper(collapseSpace(s.Text()))
		if utf8.RuneCountInString(name) >= 4 {
			counts[name]++
		}
	}

	p.doc.Find(forwardReferenceSelector).Each(func(_ int, row *goquery.Selection) {
		if a := row.Find(assigneeOriginalSelector).First(); a.Length() > 0 {
			add(0, a)
		}
	})
	families := section(p.doc, familiesCitingHeadingRe)
	families.Find(assigneeOriginalSelector).AddSelection(families.Filter(assigneeOriginalSelector)).Each(add)

	if len(counts) == 0 {
		return nil
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > MaxTopCitingAssignees {
		names = names[:MaxTopCitingAssignees]
	}

	ranked := make([]string, len(names))
	for i, name := range names {
		ranked[i] = fmt.Sprintf("%s (%d)", name, counts[name])
	}
	return ranked
}

// section returns the siblings following the first h2 whose text matches
// heading, up to the next h2.
func section(doc *goquery.Document, heading *regexp.Regexp) *goquery.Selection {
	h := doc.Find("h2").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return heading.MatchString(strings.TrimSpace(s.Text()))
	}).First()
	return h.NextUntil("h2")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
