package patentenrich

import "encoding/json"

// ClaimType classifies an independent claim by its preamble.
type ClaimType string

// ClaimType constants.
const (
	ClaimMethod ClaimType = "method"
	ClaimSystem ClaimType = "system"
	ClaimMedium ClaimType = "medium"
)

// Claim is an independent claim extracted from a grant document.
type Claim struct {
	Number int       `json:"number"`
	Type   ClaimType `json:"type"`
	Text   string    `json:"text"`
}

// PrimaryRecord holds the fields extracted from a patent's grant XML.
// Empty strings mark absent fields.
type PrimaryRecord struct {
	Title             string
	Abstract          string
	GrantDate         string
	PriorityDate      string
	ApplicationNumber string
	AssigneeOriginal  string

	// IndependentClaims preserves document order.
	IndependentClaims []Claim

	// ApplicationFamilyMembers preserves document order and may contain duplicates.
	ApplicationFamilyMembers []string
}

// EnrichmentRecord holds the fields scraped from a patent's web page.
// Empty strings mark absent fields.
type EnrichmentRecord struct {
	ForwardCites int

	// TopCitingAssignees is nil when no citing assignee was found.
	TopCitingAssignees []string

	// SimpleFamilyMembers is sorted, deduplicated and excludes the patent itself.
	SimpleFamilyMembers []string

	Expiration      string
	AssigneeCurrent string
}

// CanonicalRecord is the merged per-patent output. It is created once by
// Merge and never modified afterwards.
type CanonicalRecord struct {
	Number                   PatentID
	Title                    string
	Abstract                 string
	GrantDate                string
	PriorityDate             string
	ApplicationNumber        string
	AssigneeOriginal         string
	AssigneeCurrent          string
	Expiration               string
	ForwardCites             int
	IndependentClaims        []Claim
	ApplicationFamilyMembers []string
	SimpleFamilyMembers      []string
	TopCitingAssignees       []string
}

// MarshalJSON encodes absent scalar fields as null and nil lists as [].
func (r *CanonicalRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Number                   PatentID `json:"number"`
		Title                    *string  `json:"title"`
		Abstract                 *string  `json:"abstract"`
		GrantDate                *string  `json:"grant_date"`
		PriorityDate             *string  `json:"priority_date"`
		ApplicationNumber        *string  `json:"application_number"`
		AssigneeOriginal         *string  `json:"assignee_original"`
		AssigneeCurrent          *string  `json:"assignee_current"`
		Expiration               *string  `json:"expiration"`
		ForwardCites             int      `json:"forward_cites"`
		IndependentClaims        []Claim  `json:"independent_claims"`
		ApplicationFamilyMembers []string `json:"application_family_members"`
		SimpleFamilyMembers      []string `json:"simple_family_members"`
		TopCitingAssignees       []string `json:"top_citing_assignees"`
	}{
		Number:                   r.Number,
		Title:                    nullable(r.Title),
		Abstract:                 nullable(r.Abstract),
		GrantDate:                nullable(r.GrantDate),
		PriorityDate:             nullable(r.PriorityDate),
		ApplicationNumber:        nullable(r.ApplicationNumber),
		AssigneeOriginal:         nullable(r.AssigneeOriginal),
		AssigneeCurrent:          nullable(r.AssigneeCurrent),
		Expiration:               nullable(r.Expiration),
		ForwardCites:             r.ForwardCites,
		IndependentClaims:        nonNil(r.IndependentClaims),
		ApplicationFamilyMembers: nonNil(r.ApplicationFamilyMembers),
		SimpleFamilyMembers:      nonNil(r.SimpleFamilyMembers),
		TopCitingAssignees:       nonNil(r.TopCitingAssignees),
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// ArchiveParser isolates and parses one patent document inside a weekly
// archive's concatenated XML text. Implementations hold no mutable state and
// are safe for concurrent use.
type ArchiveParser interface {
	// Locate returns the span of the document for id.
	// Returns ENOTFOUND if the archive does not contain the patent.
	Locate(archive string, id PatentID) (Span, error)

	// Parse extracts a PrimaryRecord from a single document.
	// Missing fields are left empty. Returns EPARSE if the document
	// is structurally malformed.
	Parse(document string) (*PrimaryRecord, error)
}

// Span is a half-open byte range [Start, End) within an archive's text.
type Span struct {
	Start int
	End   int
}

// Text returns the part of archive covered by the span.
func (s Span) Text(archive string) string {
	return archive[s.Start:s.End]
}

// PageParser extracts enrichment data from a fetched patent page.
type PageParser interface {
	// ParsePage never fails: missing signals yield the field's default.
	ParsePage(page []byte, id PatentID) *EnrichmentRecord
}
