package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/IDGORRU/pars"
	"github.com/IDGORRU/pars/fs"
	"github.com/IDGORRU/pars/scrape"
	parsslog "github.com/IDGORRU/pars/slog"
	"github.com/IDGORRU/pars/sqlite"
	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Runs is the run service backed by DB.
	Runs pars.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Now:    time.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pars"),
		kong.Description("Fetch a page through a chain of fallback paths and extract emails, links, structured data, credentials, secrets or gift codes."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{
			"modes":   joinModes(),
			"formats": joinFormats(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pars --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd = strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	if m.DBPath != ":memory:" {
		_ = os.MkdirAll(filepath.Dir(m.DBPath), 0755)
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PARS_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.Runs = parsslog.NewLoggingRunService(sqlite.NewRunService(m.DB), deps.Logger)
	deps.Runs = m.Runs

	var engine *EngineFlags
	switch cmd {
	case "run":
		engine = &cli.Run.EngineFlags
	case "serve":
		engine = &cli.Serve.EngineFlags
		gin.SetMode(gin.ReleaseMode)
	}
	if engine != nil {
		deps.Metrics = scrape.NewMetrics()
		coord, closeFn, err := newCoordinator(*engine, deps.Metrics, deps.Logger, stderr)
		if err != nil {
			return err
		}
		defer closeFn()
		deps.Runner = scrape.NewRecordingRunner(coord, m.Runs, coord.ProxyURL)
	}

	return kongCtx.Run(deps)
}

// newLogger returns a text logger on w when verbose, otherwise a logger
// that discards everything.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func defaultDBPath() string {
	if path := os.Getenv("PARS_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pars.db"
	}
	return filepath.Join(home, ".pars", "pars.db")
}

func joinModes() string {
	modes := make([]string, len(pars.Modes))
	for i, m := range pars.Modes {
		modes[i] = string(m)
	}
	return strings.Join(modes, ",")
}

func joinFormats() string {
	formats := make([]string, len(fs.Formats))
	for i, f := range fs.Formats {
		formats[i] = string(f)
	}
	return strings.Join(formats, ",")
}
