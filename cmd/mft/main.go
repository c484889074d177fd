// Package main is the entry point for the Material Forecast TUI.
// It loads configuration, then either answers a single query on stdout or
// runs the Bubble Tea program.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/j-veylop/material-forecast-tui/internal/app"
	"github.com/j-veylop/material-forecast-tui/internal/config"
	"github.com/j-veylop/material-forecast-tui/internal/dataset"
	"github.com/j-veylop/material-forecast-tui/internal/logger"
	"github.com/j-veylop/material-forecast-tui/internal/query"
	"github.com/j-veylop/material-forecast-tui/internal/services"
	"github.com/j-veylop/material-forecast-tui/internal/ui/tabs/chat"
	"github.com/j-veylop/material-forecast-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/material-forecast-tui/internal/ui/tabs/info"
	"github.com/j-veylop/material-forecast-tui/internal/version"
)

type cliOptions struct {
	file    string
	query   string
	version bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		printUsage(os.Stdout)
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	if opts.version {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if opts.file != "" {
		cfg.DatasetPath = opts.file
	}

	if err := logger.Init(cfg.LogPath, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	if opts.query != "" {
		code := answerOnce(cfg, opts.query, os.Stdout, os.Stderr)
		logger.Sync()
		os.Exit(code)
	}

	err = run(cfg)
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags reads the command line. -h and --help yield flag.ErrHelp.
func parseFlags(args []string, errOut io.Writer) (cliOptions, error) {
	var opts cliOptions

	fs := flag.NewFlagSet("mft", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {}

	fs.StringVar(&opts.file, "file", "", "dataset path (overrides DATASET_PATH)")
	fs.StringVar(&opts.file, "f", "", "dataset path (shorthand)")
	fs.StringVar(&opts.query, "query", "", "answer one query and exit")
	fs.StringVar(&opts.query, "q", "", "answer one query (shorthand)")
	fs.BoolVar(&opts.version, "version", false, "show version information")
	fs.BoolVar(&opts.version, "v", false, "show version information (shorthand)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected argument %q", fs.Arg(0))
		fmt.Fprintln(errOut, err)
		return opts, err
	}
	return opts, nil
}

// answerOnce loads the dataset, prints the answer to q and returns the exit
// code: 1 when no rows could be loaded.
func answerOnce(cfg *config.Config, q string, out, errOut io.Writer) int {
	table, err := dataset.Load(cfg.DatasetPath,
		dataset.WithTable(cfg.DatasetTable),
		dataset.WithSheet(cfg.DatasetSheet),
	)
	if err != nil {
		color.New(color.FgYellow).Fprintf(errOut, "Warning: %v\n", err)
	}

	a := query.New(query.OptionsFromConfig(cfg)).Answer(table, q)
	logger.Info("one-shot query", "query", q, "intent", a.Intent, "kind", a.Kind)
	printAnswer(out, a)

	if table.Empty() {
		return 1
	}
	return 0
}

func printAnswer(out io.Writer, a query.Answer) {
	if a.Text != "" {
		fmt.Fprintln(out, a.Text)
	}
	if !a.HasTable() {
		return
	}

	tw := tablewriter.NewWriter(out)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader(a.Table.Columns)
	tw.AppendBulk(a.Table.Rows)
	tw.Render()
}

// run starts the services and blocks until the TUI exits.
func run(cfg *config.Config) error {
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state, cfg),
		chat.New(state),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Material Forecast TUI - ask questions about predicted shipments and cost

Usage:
  mft [flags]

Flags:
  -f, --file PATH     Dataset to load (CSV, TSV, XLSX or SQLite)
  -q, --query TEXT    Print the answer to one query and exit
  -h, --help          Show this help message
  -v, --version       Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Dashboard, Chat, Info)
  Tab/Shift+Tab   Navigate between tabs
  /               Filter rows (Dashboard) or focus the prompt (Chat)
  e               Export the filtered rows
  y               Copy the last answer
  r               Reload the dataset
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  DATASET_PATH            Dataset file (default: submission_with_cost.csv)
  DATASET_TABLE           SQLite table name (default: predictions)
  DATASET_SHEET           XLSX sheet name (default: first sheet)
  CURRENCY_SYMBOL         Currency marker (default: Rs.; empty for none)
  AVERAGE_MODE            items or rows (default: items)
  MATCH_ROW_LIMIT         Rows shown for threshold queries (default: 10)
  TOP_K_DEFAULT           Default N for top queries (default: 5)
  FUZZY_THRESHOLD         Column name match cutoff (default: 0.6)
  WATCH_DATASET           Reload when the file changes (default: true)
  RELOAD_DEBOUNCE         Delay before reloading (default: 200ms)
  DESKTOP_NOTIFICATIONS   Notify on reload and load failure (default: true)
  LOG_PATH, LOG_LEVEL     Log file and level (default: ~/.config/mft/mft.log, info)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/mft/.env
  - ~/.mft/.env
`)
}
