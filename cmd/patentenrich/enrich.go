package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/patentenrich"
	"github.com/fwojciec/patentenrich/enrich"
	"github.com/fwojciec/patentenrich/fs"
)

// Run executes the enrich command.
func (c *EnrichCmd) Run(deps *Dependencies) error {
	if c.ScrapeOnly && c.SkipGoogle {
		err := patentenrich.Errorf(patentenrich.EINVALID, "--scrape-only and --skip-google leave nothing to do")
		fmt.Fprintf(deps.Stderr, "error: %s\n", patentenrich.ErrorMessage(err))
		return err
	}

	input, err := loadPortfolioInput(c.Template, c.GrantDates)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", patentenrich.ErrorMessage(err))
		return err
	}

	deps.Enricher.GrantDates = input.GrantDates

	fmt.Fprintf(deps.Stdout, "Enriching %d patents for %s\n", len(input.IDs), input.Template.Assignee)

	progress := func(event enrich.ProgressEvent) {
		switch event.Type {
		case enrich.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  %s: %d to process\n", event.Stage, event.Total)
		case enrich.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.Key, event.Error)
		}
	}

	report, err := deps.Enricher.Enrich(deps.Ctx, input.IDs, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error enriching: %v\n", err)
		return err
	}

	output := c.Output
	if output == "" {
		output = defaultOutputPath(c.Template)
	}

	portfolio := patentenrich.NewPortfolio(input.Template.Assignee, report.Records, now(deps))
	if err := fs.NewPortfolioFile(output).WritePortfolio(deps.Ctx, portfolio); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", patentenrich.ErrorMessage(err))
		return err
	}

	for _, w := range report.Warnings {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", w)
	}

	fmt.Fprintf(deps.Stdout, "  Wrote %d patents (%d from both sources) to %s\n",
		len(report.Records), report.Complete, output)

	if deps.Runs != nil {
		run := &patentenrich.Run{
			Assignee:    input.Template.Assignee,
			PatentCount: len(report.Records),
			Complete:    report.Complete,
			Warnings:    report.Warnings,
			OutputPath:  output,
		}
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			fmt.Fprintf(deps.Stderr, "error recording run: %s\n", patentenrich.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "  Recorded run %s\n", run.ID)
	}

	return nil
}

func now(deps *Dependencies) time.Time {
	if deps.Now != nil {
		return deps.Now()
	}
	return time.Now()
}
