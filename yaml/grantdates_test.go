package yaml_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/patentenrich"
	"github.com/fwojciec/patentenrich/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGrantDates(t *testing.T) {
	t.Parallel()

	t.Run("reads a mapping", func(t *testing.T) {
		t.Parallel()

		dates, err := yaml.LoadGrantDates(strings.NewReader(`
US9391881B2: 2016-07-12
us10154005b2: "2018-12-11"
`))

		require.NoError(t, err)
		assert.Equal(t, patentenrich.GrantDates{
			"US9391881B2":  "2016-07-12",
			"US10154005B2": "2018-12-11",
		}, dates)
	})

	t.Run("reads a sequence of entries", func(t *testing.T) {
		t.Parallel()

		dates, err := yaml.LoadGrantDates(strings.NewReader(`
- number: US9391881B2
  grant_date: 2016-07-12
- number: US9876757B2
`))

		require.NoError(t, err)
		assert.Equal(t, patentenrich.GrantDates{"US9391881B2": "2016-07-12"}, dates)
	})

	t.Run("returns an empty table for an empty document", func(t *testing.T) {
		t.Parallel()

		dates, err := yaml.LoadGrantDates(strings.NewReader(""))

		require.NoError(t, err)
		assert.Empty(t, dates)
	})

	t.Run("returns EINVALID naming the line of a bad date", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadGrantDates(strings.NewReader("US9391881B2: 2016-07-12\nUS10154005B2: 20181211\n"))

		require.Error(t, err)
		assert.Equal(t, patentenrich.EINVALID, patentenrich.ErrorCode(err))
		assert.Contains(t, patentenrich.ErrorMessage(err), "line 2")
	})

	t.Run("returns EINVALID for a bad identifier", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadGrantDates(strings.NewReader("9391881: 2016-07-12\n"))

		require.Error(t, err)
		assert.Equal(t, patentenrich.EINVALID, patentenrich.ErrorCode(err))
	})

	t.Run("returns EINVALID for a scalar document", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadGrantDates(strings.NewReader("just text"))

		require.Error(t, err)
		assert.Equal(t, patentenrich.EINVALID, patentenrich.ErrorCode(err))
	})

	t.Run("returns EINVALID for malformed YAML", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadGrantDates(strings.NewReader("a: [b"))

		require.Error(t, err)
		assert.Equal(t, patentenrich.EINVALID, patentenrich.ErrorCode(err))
	})
}
