package etree

import (
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/patentenrich"
)

var _ patentenrich.ArchiveParser = (*Parser)(nil)

var (
	doctypeRe    = regexp.MustCompile(`<!DOCTYPE[^>]+>`)
	dependencyRe = regexp.MustCompile(`(?i)\b(?:of|according to|as recited in|as claimed in|as defined in)\s+claims?\s+\d+`)
)

// claimPattern classifies a claim whose text matches re as typ.
type claimPattern struct {
	re  *regexp.Regexp
	typ patentenrich.ClaimType
}

// claimPatterns are tried in order; the first match wins.
var claimPatterns = []claimPattern{
	{regexp.MustCompile(`(?i)^(?:\d+\s*\.\s*)?(?:a|an|the)\s+(?:system|apparatus|device)\b`), patentenrich.ClaimSystem},
	{regexp.MustCompile(`(?i)^(?:\d+\s*\.\s*)?(?:a|an|the)\s+(?:method|process)\b`), patentenrich.ClaimMethod},
	{regexp.MustCompile(`(?i)^(?:\d+\s*\.\s*)?(?:(?:a|an|one or more)\s+)?(?:non-transitory\s+)?computer.{0,20}(?:medium|storage)`), patentenrich.ClaimMedium},
}

// Parser locates and parses grant documents. A Parser holds no mutable
// state and is safe for concurrent use.
type Parser struct {
	element  string
	openTag  string
	closeTag string
}

// Option configures a Parser.
type Option func(*Parser)

// WithElement sets the document root element name.
// Defaults to DefaultElement if not specified.
func WithElement(name string) Option {
	return func(p *Parser) {
		p.element = name
	}
}

// NewParser creates a new Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{element: DefaultElement}
	for _, opt := range opts {
		opt(p)
	}
	p.openTag = "<" + p.element
	p.closeTag = "</" + p.element + ">"
	return p
}

// Parse extracts a PrimaryRecord from one grant document. Each field is
// extracted independently and left empty when missing. Returns EPARSE only
// when the document is not well-formed XML.
func (p *Parser) Parse(document string) (*patentenrich.PrimaryRecord, error) {
	// DOCTYPE declarations reference external DTDs the decoder cannot load.
	document = doctypeRe.ReplaceAllString(document, "")

	doc := etree.NewDocument()
	doc.ReadSettings.Entity = xml.HTMLEntity
	if err := doc.ReadFromString(document); err != nil {
		return nil, patentenrich.Errorf(patentenrich.EPARSE, "malformed grant document: %v", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, patentenrich.Errorf(patentenrich.EPARSE, "grant document has no root element")
	}

	rec := &patentenrich.PrimaryRecord{
		Title:                    findText(root, ".//invention-title"),
		GrantDate:                formatDate(findText(root, ".//publication-reference/document-id/date")),
		ApplicationNumber:        formatApplicationNumber(findText(root, ".//application-reference/document-id/doc-number")),
		AssigneeOriginal:         assignee(root),
		IndependentClaims:        independentClaims(root),
		ApplicationFamilyMembers: familyMembers(root),
	}

	if el := root.FindElement(".//abstract/p"); el != nil {
		rec.Abstract = collapseSpace(innerText(el))
	}

	rec.PriorityDate = formatDate(findText(root, ".//us-provisional-application/document-id/date"))
	if rec.PriorityDate == "" {
		rec.PriorityDate = formatDate(findText(root, ".//application-reference/document-id/date"))
	}

	return rec, nil
}

// assignee prefers the organization name and falls back to an individual's name.
func assignee(root *etree.Element) string {
	if org := findText(root, ".//assignees/assignee/addressbook/orgname"); org != "" {
		return org
	}
	first := findText(root, ".//assignees/assignee/addressbook/first-name")
	last := findText(root, ".//assignees/assignee/addressbook/last-name")
	if first == "" || last == "" {
		return ""
	}
	return first + " " + last
}

// familyMembers renders related publications as country+number+kind.
func familyMembers(root *etree.Element) []string {
	var members []string
	for _, id := range root.FindElements(".//related-publication/document-id") {
		country := findText(id, "country")
		number := findText(id, "doc-number")
		if country == "" || number == "" {
			continue
		}
		members = append(members, country+number+findText(id, "kind"))
	}
	return members
}

// independentClaims returns the claims that do not reference another claim,
// in document order.
func independentClaims(root *etree.Element) []patentenrich.Claim {
	var claims []patentenrich.Claim
	for _, claim := range root.FindElements(".//claim") {
		body := claim.SelectElement("claim-text")
		if body == nil {
			continue
		}
		if body.FindElement(".//claim-ref") != nil {
			continue
		}

		text := strings.TrimSpace(innerText(body))
		if dependencyRe.MatchString(text) {
			continue
		}

		number, err := strconv.Atoi(claim.SelectAttrValue("num", ""))
		if err != nil || number < 0 {
			number = 0
		}

		claims = append(claims, patentenrich.Claim{
			Number: number,
			Type:   classifyClaim(text),
			Text:   text,
		})
	}
	return claims
}

func classifyClaim(text string) patentenrich.ClaimType {
	for _, p := range claimPatterns {
		if p.re.MatchString(text) {
			return p.typ
		}
	}
	return patentenrich.ClaimMethod
}

// findText returns the trimmed text of the first element matching path.
func findText(el *etree.Element, path string) string {
	found := el.FindElement(path)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(innerText(found))
}

// innerText concatenates all character data below el in document order.
func innerText(el *etree.Element) string {
	var b strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// formatDate converts YYYYMMDD to YYYY-MM-DD. Anything else is treated as absent.
func formatDate(s string) string {
	if len(s) != 8 || !isDigits(s) {
		return ""
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:]
}

// formatApplicationNumber renders 8+ character numbers as series/serial.
func formatApplicationNumber(s string) string {
	if len(s) < 8 {
		return s
	}
	return s[:2] + "/" + s[2:]
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
