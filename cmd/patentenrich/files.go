package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/patentenrich"
)

// Run executes the files command.
func (c *FilesCmd) Run(deps *Dependencies) error {
	input, err := loadPortfolioInput(c.Template, c.GrantDates)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", patentenrich.ErrorMessage(err))
		return err
	}

	plan := patentenrich.PlanArchives(input.IDs, input.GrantDates, patentenrich.DefaultArchiveNaming)
	filenames := plan.Filenames()

	for _, name := range filenames {
		status := "missing"
		if deps.Archives != nil && deps.Archives.HasArchive(name) {
			status = "present"
		}
		ids := make([]string, len(plan.Files[name]))
		for i, id := range plan.Files[name] {
			ids[i] = id.String()
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", name, status, strings.Join(ids, ","))
	}

	if len(plan.Unplanned) > 0 {
		ids := make([]string, len(plan.Unplanned))
		for i, id := range plan.Unplanned {
			ids[i] = id.String()
		}
		fmt.Fprintf(deps.Stdout, "no grant date  %s\n", strings.Join(ids, ","))
	}

	fmt.Fprintf(deps.Stdout, "%d patents in %d weekly files\n", len(input.IDs), len(filenames))
	return nil
}
