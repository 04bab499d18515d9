// Package main is the entry point for the keygrid data grid viewer.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/keygrid/internal/app"
	"github.com/dshills/keygrid/internal/config"
	"github.com/dshills/keygrid/internal/render/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cliOptions are the flags that do not map onto app.Options directly.
type cliOptions struct {
	exportPath   string
	exportFormat string
	exportScope  string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, cli := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	if cli.exportPath != "" {
		n, err := application.Export(cli.exportPath, cli.exportFormat, cli.exportScope)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: export failed: %v\n", err)
			return 1
		}
		fmt.Printf("Exported %d rows to %s\n", n, cli.exportPath)
		return 0
	}

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (app.Options, cliOptions) {
	var (
		opts        app.Options
		cli         cliOptions
		noWatch     bool
		seed        uint64
		pageSize    int
		selection   string
		logLevel    string
		logFile     string
		language    string
		showVersion bool
		showHelp    bool
	)

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&noWatch, "no-watch", false, "Do not reload the configuration file on change")
	flag.StringVar(&opts.Format, "format", "", "Data format (csv, tsv, json, jsonl, yaml, parquet); default from extension")
	flag.StringVar(&opts.Format, "f", "", "Data format (shorthand)")
	flag.IntVar(&opts.Generate, "generate", 0, "Show N generated rows instead of a file")
	flag.IntVar(&opts.Generate, "g", 0, "Show N generated rows (shorthand)")
	flag.Uint64Var(&seed, "seed", 1, "Seed for generated rows")
	flag.StringVar(&opts.Query, "query", "", "Initial view, e.g. 'sort=age:desc&q=berlin'")
	flag.StringVar(&opts.Query, "q", "", "Initial view (shorthand)")
	flag.StringVar(&cli.exportPath, "export", "", "Export the view to a file and exit")
	flag.StringVar(&cli.exportPath, "o", "", "Export the view to a file and exit (shorthand)")
	flag.StringVar(&cli.exportFormat, "export-format", "", "Export format; default from the export file extension")
	flag.StringVar(&cli.exportScope, "export-scope", "", "Export scope (view, selection, all)")
	flag.IntVar(&pageSize, "page-size", 0, "Rows per page; 0 disables paging")
	flag.StringVar(&selection, "selection", "", "Selection mode (none, single, multi)")
	flag.StringVar(&language, "lang", "", "Collation language for sorting, e.g. de or sv")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keygrid - terminal data grid\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keygrid [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keygrid people.csv                       View a CSV file\n")
		fmt.Fprintf(os.Stderr, "  keygrid -g 100000                        View generated rows\n")
		fmt.Fprintf(os.Stderr, "  keygrid -q 'sort=age:desc' data.parquet  Open sorted by age\n")
		fmt.Fprintf(os.Stderr, "  keygrid -q 'q=berlin' -o out.json in.csv Export filtered rows\n")
		fmt.Fprintf(os.Stderr, "\nKeys: Ctrl+P command palette, Ctrl+Q quit\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keygrid %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Validate log level
	switch logLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", logLevel)
		os.Exit(1)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: expected one data file, got %d\n", flag.NArg())
		os.Exit(1)
	}
	opts.DataPath = flag.Arg(0)
	if opts.DataPath == "" && opts.Generate <= 0 {
		flag.Usage()
		os.Exit(1)
	}
	opts.Seed = seed

	if opts.ConfigPath == "" {
		if path := config.DefaultFile(); path != "" {
			if _, err := os.Stat(path); err == nil {
				opts.ConfigPath = path
			}
		}
	}
	opts.Watch = !noWatch && cli.exportPath == ""

	// Only flags given on the command line override the configuration.
	overrides := make(map[string]any)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "page-size":
			overrides["grid.pageSize"] = int64(pageSize)
		case "selection":
			overrides["grid.selectionMode"] = selection
		case "lang":
			overrides["grid.language"] = language
		case "log-level":
			overrides["logging.level"] = logLevel
		case "log-file":
			overrides["logging.file"] = logFile
		}
	})
	opts.Overrides = overrides

	return opts, cli
}
