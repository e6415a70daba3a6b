package main

import (
	"fmt"

	"github.com/fwojciec/patentenrich"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	if deps.Runs == nil {
		err := patentenrich.Errorf(patentenrich.EINVALID, "no database configured; set --db or PATENTENRICH_DB")
		fmt.Fprintf(deps.Stderr, "error: %s\n", patentenrich.ErrorMessage(err))
		return err
	}

	filter := patentenrich.RunFilter{Limit: c.Limit}
	if c.Assignee != "" {
		filter.Assignee = &c.Assignee
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", patentenrich.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'patentenrich enrich' to create one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d/%d complete  %d warnings  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Assignee,
			r.Complete, r.PatentCount, len(r.Warnings), r.OutputPath)
	}

	return nil
}
