package patentenrich

// Merge combines the primary and enrichment records of one patent into its
// canonical record. Either record may be nil. The current assignee falls back
// to the original assignee when the page does not report one.
//
// The returned record shares no memory with its inputs.
func Merge(id PatentID, primary *PrimaryRecord, enrichment *EnrichmentRecord) *CanonicalRecord {
	r := &CanonicalRecord{
		Number:                   id,
		IndependentClaims:        []Claim{},
		ApplicationFamilyMembers: []string{},
		SimpleFamilyMembers:      []string{},
		TopCitingAssignees:       []string{},
	}

	if primary != nil {
		r.Title = primary.Title
		r.Abstract = primary.Abstract
		r.GrantDate = primary.GrantDate
		r.PriorityDate = primary.PriorityDate
		r.ApplicationNumber = primary.ApplicationNumber
		r.AssigneeOriginal = primary.AssigneeOriginal
		r.IndependentClaims = append(r.IndependentClaims, primary.IndependentClaims...)
		r.ApplicationFamilyMembers = append(r.ApplicationFamilyMembers, primary.ApplicationFamilyMembers...)
	}

	if enrichment != nil {
		r.ForwardCites = enrichment.ForwardCites
		r.Expiration = enrichment.Expiration
		r.AssigneeCurrent = enrichment.AssigneeCurrent
		r.SimpleFamilyMembers = append(r.SimpleFamilyMembers, enrichment.SimpleFamilyMembers...)
		r.TopCitingAssignees = append(r.TopCitingAssignees, enrichment.TopCitingAssignees...)
	}

	if r.AssigneeCurrent == "" {
		r.AssigneeCurrent = r.AssigneeOriginal
	}

	return r
}
