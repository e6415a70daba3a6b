package enrich_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/patentenrich"
	"github.com/fwojciec/patentenrich/enrich"
	"github.com/stretchr/testify/assert"
)

func TestStage(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	stage := enrich.Stage[*patentenrich.PrimaryRecord]{
		"US9391881B2":  {Value: &patentenrich.PrimaryRecord{Title: "Remote access"}},
		"US10154005B2": {Err: boom},
	}

	assert.Equal(t, "Remote access", stage.Value("US9391881B2").Title)
	assert.Nil(t, stage.Value("US10154005B2"))
	assert.Nil(t, stage.Value("US9876757B2"))
	assert.ErrorIs(t, stage.Err("US10154005B2"), boom)
	assert.NoError(t, stage.Err("US9876757B2"))
	assert.Equal(t, 1, stage.Failed())
}

func TestAbsentFields(t *testing.T) {
	t.Parallel()

	rec := patentenrich.Merge("US9391881B2", &patentenrich.PrimaryRecord{
		Title:            "Remote access",
		Abstract:         "A system.",
		GrantDate:        "2016-07-12",
		PriorityDate:     "2013-05-24",
		AssigneeOriginal: "Acme Networks, Inc.",
	}, nil)

	assert.Equal(t, []string{"application_number", "expiration"}, enrich.AbsentFields(rec))
}
