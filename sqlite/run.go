package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/patentenrich"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ patentenrich.RunService = (*RunService)(nil)

// RunService implements patentenrich.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores a new run.
func (s *RunService) CreateRun(ctx context.Context, run *patentenrich.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	warnings := run.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	encoded, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("failed to encode warnings: %w", err)
	}

	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, assignee, patent_count, complete, warnings, output_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Assignee, run.PatentCount, run.Complete, string(encoded), run.OutputPath,
		run.CreatedAt.Format(timestampLayout))

	return err
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*patentenrich.Run, error) {
	runs, err := s.findRuns(ctx, " AND id = ?", []any{id}, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, patentenrich.Errorf(patentenrich.ENOTFOUND, "run not found")
	}
	return runs[0], nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter patentenrich.RunFilter) ([]*patentenrich.Run, error) {
	var where strings.Builder
	var args []any

	if filter.Assignee != nil {
		where.WriteString(" AND assignee = ?")
		args = append(args, *filter.Assignee)
	}

	return s.findRuns(ctx, where.String(), args, filter.Limit, filter.Offset)
}

func (s *RunService) findRuns(ctx context.Context, where string, args []any, limit, offset int) ([]*patentenrich.Run, error) {
	var query strings.Builder
	query.WriteString("SELECT id, assignee, patent_count, complete, warnings, output_path, created_at FROM runs WHERE 1=1")
	query.WriteString(where)
	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*patentenrich.Run
	for rows.Next() {
		var run patentenrich.Run
		var warnings, createdAt string

		if err := rows.Scan(&run.ID, &run.Assignee, &run.PatentCount, &run.Complete,
			&warnings, &run.OutputPath, &createdAt); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(warnings), &run.Warnings); err != nil {
			return nil, fmt.Errorf("failed to decode warnings: %w", err)
		}

		run.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}
