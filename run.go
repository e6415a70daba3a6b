package patentenrich

import (
	"context"
	"time"
)

// Run records one enrichment of a portfolio.
type Run struct {
	ID          string    `json:"id"`
	Assignee    string    `json:"assignee"`
	PatentCount int       `json:"patentCount"`
	Complete    int       `json:"complete"`
	Warnings    []string  `json:"warnings"`
	OutputPath  string    `json:"outputPath"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.PatentCount < 0 {
		return Errorf(EINVALID, "run patent count must not be negative")
	}
	if r.Complete > r.PatentCount {
		return Errorf(EINVALID, "run complete count exceeds patent count")
	}
	return nil
}

// RunService represents a service for managing run history.
type RunService interface {
	// CreateRun stores a new run, assigning its ID and creation time.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Assignee *string `json:"assignee"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
