package main

import (
	"fmt"

	"github.com/fwojciec/patentenrich"
	"github.com/fwojciec/patentenrich/enrich"
)

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	input, err := loadPortfolioInput(c.Template, c.GrantDates)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", patentenrich.ErrorMessage(err))
		return err
	}

	plan := patentenrich.PlanArchives(input.IDs, input.GrantDates, patentenrich.DefaultArchiveNaming)
	for _, id := range plan.Unplanned {
		fmt.Fprintf(deps.Stderr, "warning: %s: no grant date\n", id)
	}

	filenames := plan.Filenames()
	if len(filenames) == 0 {
		fmt.Fprintln(deps.Stdout, "No weekly archives to download.")
		return nil
	}

	progress := func(event enrich.ProgressEvent) {
		if event.Type == enrich.ProgressFailed {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.Key, event.Error)
		}
	}
	results := deps.Downloader.EnsureAll(deps.Ctx, filenames, progress)

	var fetched, present, failed int
	for _, name := range filenames {
		r := results[name]
		switch {
		case r.Err != nil:
			failed++
		case r.Value == enrich.DownloadFetched:
			fetched++
			fmt.Fprintf(deps.Stdout, "  downloaded %s\n", name)
		default:
			present++
		}
	}

	fmt.Fprintf(deps.Stdout, "Downloaded %d, already present %d, failed %d\n", fetched, present, failed)

	if err := deps.Ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d weekly archives could not be downloaded", failed, len(filenames))
	}
	return nil
}
