package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/patentenrich"
	"github.com/fwojciec/patentenrich/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioFile_WritePortfolio(t *testing.T) {
	t.Parallel()

	t.Run("writes the portfolio as JSON", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "acme-enriched.json")
		file := fs.NewPortfolioFile(path)
		record := patentenrich.Merge("US9391881B2", &patentenrich.PrimaryRecord{
			Title:            "Remote & secure access",
			AssigneeOriginal: "Acme Networks, Inc.",
		}, nil)
		p := patentenrich.NewPortfolio("Acme", []*patentenrich.CanonicalRecord{record}, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

		err := file.WritePortfolio(context.Background(), p)

		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"title": "Remote & secure access"`)

		var decoded struct {
			Portfolio struct {
				PatentCount int `json:"patent_count"`
			} `json:"portfolio"`
			Patents []map[string]any `json:"patents"`
		}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, 1, decoded.Portfolio.PatentCount)
		assert.Equal(t, "Acme Networks, Inc.", decoded.Patents[0]["assignee_current"])
		assert.Nil(t, decoded.Patents[0]["expiration"])
	})

	t.Run("replaces an existing file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out.json")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

		err := fs.NewPortfolioFile(path).WritePortfolio(context.Background(), patentenrich.NewPortfolio("Acme", nil, time.Now()))

		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"patents": []`)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
