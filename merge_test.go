package patentenrich_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/patentenrich"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acmePrimary() *patentenrich.PrimaryRecord {
	return &patentenrich.PrimaryRecord{
		Title:             "System and methods for remote access",
		Abstract:          "A system for remote access to devices.",
		GrantDate:         "2016-07-12",
		PriorityDate:      "2013-05-24",
		ApplicationNumber: "14/287645",
		AssigneeOriginal:  "Acme Networks, Inc.",
		IndependentClaims: []patentenrich.Claim{
			{Number: 1, Type: patentenrich.ClaimMethod, Text: "1. A method comprising receiving a request."},
		},
		ApplicationFamilyMembers: []string{"US20140351218A1"},
	}
}

func acmeEnrichment() *patentenrich.EnrichmentRecord {
	return &patentenrich.EnrichmentRecord{
		ForwardCites:        5,
		TopCitingAssignees:  []string{"GLOBEX CORP (3)"},
		SimpleFamilyMembers: []string{"US10154005B2"},
		Expiration:          "2034-05-25",
		AssigneeCurrent:     "Acme Holdings LLC",
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("combines both sources", func(t *testing.T) {
		t.Parallel()

		r := patentenrich.Merge("US9391881B2", acmePrimary(), acmeEnrichment())

		assert.Equal(t, patentenrich.PatentID("US9391881B2"), r.Number)
		assert.Equal(t, "System and methods for remote access", r.Title)
		assert.Equal(t, "2016-07-12", r.GrantDate)
		assert.Equal(t, "Acme Networks, Inc.", r.AssigneeOriginal)
		assert.Equal(t, "Acme Holdings LLC", r.AssigneeCurrent)
		assert.Equal(t, "2034-05-25", r.Expiration)
		assert.Equal(t, 5, r.ForwardCites)
		assert.Equal(t, []string{"US20140351218A1"}, r.ApplicationFamilyMembers)
		assert.Equal(t, []string{"US10154005B2"}, r.SimpleFamilyMembers)
		assert.Equal(t, []string{"GLOBEX CORP (3)"}, r.TopCitingAssignees)
		assert.Len(t, r.IndependentClaims, 1)
	})

	t.Run("falls back to the original assignee", func(t *testing.T) {
		t.Parallel()

		enrichment := acmeEnrichment()
		enrichment.AssigneeCurrent = ""

		r := patentenrich.Merge("US9391881B2", acmePrimary(), enrichment)

		assert.Equal(t, "Acme Networks, Inc.", r.AssigneeCurrent)
	})

	t.Run("uses the original assignee when the page is absent", func(t *testing.T) {
		t.Parallel()

		r := patentenrich.Merge("US9391881B2", acmePrimary(), nil)

		assert.Equal(t, "Acme Networks, Inc.", r.AssigneeCurrent)
		assert.Zero(t, r.ForwardCites)
		assert.Empty(t, r.Expiration)
		assert.NotNil(t, r.SimpleFamilyMembers)
		assert.NotNil(t, r.TopCitingAssignees)
	})

	t.Run("keeps enrichment fields when the archive is absent", func(t *testing.T) {
		t.Parallel()

		r := patentenrich.Merge("US9391881B2", nil, acmeEnrichment())

		assert.Empty(t, r.Title)
		assert.Empty(t, r.AssigneeOriginal)
		assert.Equal(t, "Acme Holdings LLC", r.AssigneeCurrent)
		assert.Equal(t, 5, r.ForwardCites)
		assert.NotNil(t, r.IndependentClaims)
		assert.Empty(t, r.IndependentClaims)
	})

	t.Run("serializes defaults when both sources are absent", func(t *testing.T) {
		t.Parallel()

		r := patentenrich.Merge("US9391881B2", nil, nil)

		data, err := json.Marshal(r)

		require.NoError(t, err)
		assert.JSONEq(t, `{
			"number": "US9391881B2",
			"title": null,
			"abstract": null,
			"grant_date": null,
			"priority_date": null,
			"application_number": null,
			"assignee_original": null,
			"assignee_current": null,
			"expiration": null,
			"forward_cites": 0,
			"independent_claims": [],
			"application_family_members": [],
			"simple_family_members": [],
			"top_citing_assignees": []
		}`, string(data))
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		first, err := json.Marshal(patentenrich.Merge("US9391881B2", acmePrimary(), acmeEnrichment()))
		require.NoError(t, err)
		second, err := json.Marshal(patentenrich.Merge("US9391881B2", acmePrimary(), acmeEnrichment()))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("shares no memory with its inputs", func(t *testing.T) {
		t.Parallel()

		primary := acmePrimary()
		enrichment := acmeEnrichment()
		r := patentenrich.Merge("US9391881B2", primary, enrichment)

		primary.ApplicationFamilyMembers[0] = "changed"
		primary.IndependentClaims[0].Number = 99
		enrichment.SimpleFamilyMembers[0] = "changed"
		enrichment.TopCitingAssignees[0] = "changed"

		assert.Equal(t, []string{"US20140351218A1"}, r.ApplicationFamilyMembers)
		assert.Equal(t, 1, r.IndependentClaims[0].Number)
		assert.Equal(t, []string{"US10154005B2"}, r.SimpleFamilyMembers)
		assert.Equal(t, []string{"GLOBEX CORP (3)"}, r.TopCitingAssignees)
	})
}
