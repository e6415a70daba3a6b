package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/patentenrich"
	main "github.com/fwojciec/patentenrich/cmd/patentenrich"
	"github.com/fwojciec/patentenrich/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists runs with counts and output path", func(t *testing.T) {
		t.Parallel()

		var gotFilter patentenrich.RunFilter
		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, filter patentenrich.RunFilter) ([]*patentenrich.Run, error) {
				gotFilter = filter
				return []*patentenrich.Run{
					{
						ID:          "run-2",
						Assignee:    "Acme",
						PatentCount: 12,
						Complete:    10,
						Warnings:    []string{"US9876757B2: no data from either source"},
						OutputPath:  "acme_enriched.json",
						CreatedAt:   time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC),
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Runs:   runs,
		}

		cmd := &main.RunsCmd{Assignee: "Acme", Limit: 5}
		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "run-2")
		assert.Contains(t, output, "2026-03-02 08:30")
		assert.Contains(t, output, "10/12 complete")
		assert.Contains(t, output, "1 warnings")
		assert.Contains(t, output, "acme_enriched.json")

		require.NotNil(t, gotFilter.Assignee)
		assert.Equal(t, "Acme", *gotFilter.Assignee)
		assert.Equal(t, 5, gotFilter.Limit)
	})

	t.Run("shows helpful message when no runs exist", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(context.Context, patentenrich.RunFilter) ([]*patentenrich.Run, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.RunsCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No runs found")
	})

	t.Run("returns error when FindRuns fails", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("database connection failed")
		runs := &mock.RunService{
			FindRunsFn: func(context.Context, patentenrich.RunFilter) ([]*patentenrich.Run, error) {
				return nil, dbErr
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Runs: runs}

		err := (&main.RunsCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, dbErr, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
