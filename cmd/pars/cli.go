package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/IDGORRU/pars"
	"github.com/IDGORRU/pars/scrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Now     func() time.Time
	Logger  *slog.Logger
	Runner  pars.Runner
	Runs    pars.RunService
	Metrics *scrape.Metrics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"PARS_DB" help:"SQLite database path (default ~/.pars/pars.db)"`
	Verbose bool   `short:"v" help:"Write debug logs to stderr"`

	Run     RunCmd     `cmd:"" help:"Fetch a page and extract records from it"`
	Serve   ServeCmd   `cmd:"" help:"Serve the HTTP API"`
	History HistoryCmd `cmd:"" help:"List previous runs"`
	Show    ShowCmd    `cmd:"" help:"Show the results of a previous run"`
}

// EngineFlags configure the fetch pipeline of commands that execute runs.
type EngineFlags struct {
	Proxy        string        `env:"PARS_PROXY" help:"HTTP proxy for all requests (host:port or URL)"`
	Browser      bool          `help:"Add a headless Chrome fetcher to the fallback pipeline"`
	FetchTimeout time.Duration `default:"10s" help:"Timeout for one fetch attempt"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	EngineFlags `embed:""`

	URL     string        `arg:"" help:"Page URL"`
	Mode    string        `short:"m" default:"email" enum:"${modes}" help:"Extraction mode (${modes})"`
	Timeout time.Duration `short:"t" help:"Stop the run after this long"`
	Export  string        `short:"o" placeholder:"DIR" help:"Write results to a file in DIR"`
	Format  string        `short:"f" default:"txt" enum:"${formats}" help:"Export format (${formats})"`
	Quiet   bool          `short:"q" help:"Do not print the run log"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	EngineFlags `embed:""`

	Addr string `default:"127.0.0.1:8080" help:"Listen address"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Mode   string `short:"m" help:"Only runs of this mode"`
	Status string `short:"s" help:"Only runs with this status (running, completed, failed, stopped)"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of runs"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID     string `arg:"" help:"Run ID"`
	Format string `short:"f" default:"txt" enum:"${formats}" help:"Output format (${formats})"`
}
