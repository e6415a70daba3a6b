package patentenrich_test

import (
	"testing"

	"github.com/fwojciec/patentenrich"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatentID(t *testing.T) {
	t.Parallel()

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		t.Parallel()

		id, err := patentenrich.ParsePatentID("  us9391881b2 ")

		require.NoError(t, err)
		assert.Equal(t, patentenrich.PatentID("US9391881B2"), id)
	})

	t.Run("accepts a kind without digit", func(t *testing.T) {
		t.Parallel()

		id, err := patentenrich.ParsePatentID("US10154005B")

		require.NoError(t, err)
		assert.Equal(t, "B", id.Kind())
	})

	for _, s := range []string{"", "9391881B2", "US939188B2", "US9391881", "US9391881B22", "USA9391881B2"} {
		t.Run("rejects "+s, func(t *testing.T) {
			t.Parallel()

			_, err := patentenrich.ParsePatentID(s)

			require.Error(t, err)
			assert.Equal(t, patentenrich.EINVALID, patentenrich.ErrorCode(err))
		})
	}
}

func TestPatentID_Parts(t *testing.T) {
	t.Parallel()

	id := patentenrich.PatentID("US9391881B2")

	assert.Equal(t, "US", id.Country())
	assert.Equal(t, "9391881", id.Number())
	assert.Equal(t, "B2", id.Kind())
	assert.Equal(t, "US9391881B2", id.String())
}

func TestPatentID_ArchiveNumber(t *testing.T) {
	t.Parallel()

	t.Run("pads seven digit numbers", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "09391881", patentenrich.PatentID("US9391881B2").ArchiveNumber())
	})

	t.Run("keeps eight digit numbers", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "10154005", patentenrich.PatentID("US10154005B2").ArchiveNumber())
	})

	t.Run("returns empty for a malformed identifier", func(t *testing.T) {
		t.Parallel()

		id := patentenrich.PatentID("garbage")

		assert.Empty(t, id.Number())
		assert.Empty(t, id.Country())
	})
}
