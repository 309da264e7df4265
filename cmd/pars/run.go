package main

import (
	"context"
	"fmt"
	"time"

	"github.com/IDGORRU/pars"
	"github.com/IDGORRU/pars/fs"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	mode, err := pars.ParseMode(c.Mode)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pars.ErrorMessage(err))
		return err
	}

	ctx := deps.Ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	onEvent := func(ev pars.Event) {
		if c.Quiet || ev.Kind != pars.EventLog {
			return
		}
		fmt.Fprintf(deps.Stderr, "[%s] %s\n", deps.Now().Format("15:04:05"), ev.Line)
	}

	res, err := deps.Runner.Run(ctx, c.URL, mode, onEvent)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pars.ErrorMessage(err))
		return err
	}

	views := pars.Views(res.Records)
	for _, v := range views {
		fmt.Fprintln(deps.Stdout, fs.Line(v))
	}

	if res.State != pars.StateCompleted {
		fmt.Fprintf(deps.Stderr, "error: run %s: %s\n", res.State, pars.ErrorMessage(res.Err))
		return res.Err
	}

	fmt.Fprintf(deps.Stderr, "Found %d %s records in %s\n", len(views), mode, res.Duration.Round(time.Millisecond))
	if res.ID != "" {
		fmt.Fprintf(deps.Stderr, "Run ID: %s\n", res.ID)
	}

	if c.Export == "" {
		return nil
	}
	if len(views) == 0 {
		fmt.Fprintf(deps.Stderr, "Nothing to export\n")
		return nil
	}
	format, err := fs.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	path, err := fs.NewExporter(c.Export, fs.WithClock(deps.Now)).ExportRun(ctx, mode, views, format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pars.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stderr, "Exported to %s\n", path)
	return nil
}
