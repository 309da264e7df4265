package main

import (
	"fmt"
	"time"

	"github.com/IDGORRU/pars"
	"github.com/IDGORRU/pars/fs"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := pars.RunFilter{Limit: c.Limit}
	if c.Mode != "" {
		mode, err := pars.ParseMode(c.Mode)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pars.ErrorMessage(err))
			return err
		}
		filter.Mode = &mode
	}
	if c.Status != "" {
		status := pars.RunStatus(c.Status)
		filter.Status = &status
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pars.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-10s %-9s %4d  %s\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Mode, r.Status, r.ResultCount, r.URL)
	}
	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pars.ErrorMessage(err))
		return err
	}

	views, err := deps.Runs.FindResults(deps.Ctx, run.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pars.ErrorMessage(err))
		return err
	}

	format, err := fs.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	if format == fs.FormatTXT {
		fmt.Fprintf(deps.Stderr, "%s (%s, %s, %d results)\n", run.URL, run.Mode, run.Status, run.ResultCount)
	}
	if err := fs.Export(deps.Stdout, run.Mode, views, format); err != nil {
		return err
	}
	if format == fs.FormatTXT && len(views) > 0 {
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}
