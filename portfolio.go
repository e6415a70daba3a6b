package patentenrich

import (
	"context"
	"time"
)

// Template is the input portfolio: an assignee and its patents.
type Template struct {
	Assignee string          `json:"assignee"`
	Patents  []TemplateEntry `json:"patents"`
}

// TemplateEntry is one patent of a template. GrantDate is optional and,
// when set, feeds the grant-date lookup.
type TemplateEntry struct {
	Number    string `json:"number"`
	GrantDate string `json:"grant_date,omitempty"`
}

// PatentIDs returns the template's identifiers in order with repeats removed.
// Returns EINVALID for the first malformed identifier.
func (t *Template) PatentIDs() ([]PatentID, error) {
	ids := make([]PatentID, 0, len(t.Patents))
	seen := make(map[PatentID]bool, len(t.Patents))
	for _, p := range t.Patents {
		id, err := ParsePatentID(p.Number)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// GrantDates returns the grant dates carried by the template entries.
func (t *Template) GrantDates() GrantDates {
	dates := make(GrantDates)
	for _, p := range t.Patents {
		if p.GrantDate == "" {
			continue
		}
		id, err := ParsePatentID(p.Number)
		if err != nil {
			continue
		}
		dates[id] = p.GrantDate
	}
	return dates
}

// Portfolio is the enriched output document.
type Portfolio struct {
	Summary PortfolioSummary   `json:"portfolio"`
	Patents []*CanonicalRecord `json:"patents"`
}

// PortfolioSummary describes a Portfolio.
type PortfolioSummary struct {
	Assignee    string    `json:"assignee"`
	PatentCount int       `json:"patent_count"`
	Generated   time.Time `json:"generated"`
}

// NewPortfolio wraps records in a Portfolio generated at the given time.
func NewPortfolio(assignee string, records []*CanonicalRecord, generated time.Time) *Portfolio {
	if records == nil {
		records = []*CanonicalRecord{}
	}
	return &Portfolio{
		Summary: PortfolioSummary{
			Assignee:    assignee,
			PatentCount: len(records),
			Generated:   generated.UTC(),
		},
		Patents: records,
	}
}

// PortfolioWriter persists an enriched portfolio.
type PortfolioWriter interface {
	WritePortfolio(ctx context.Context, p *Portfolio) error
}
