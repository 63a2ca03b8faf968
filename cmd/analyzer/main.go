package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"ecomcli/internal/app"
	"ecomcli/internal/config"
	"ecomcli/internal/infrastructure"
	"ecomcli/internal/operations"
	"ecomcli/internal/storage"
	"ecomcli/pkg/contracts"
	"ecomcli/pkg/contracts/domain"
)

// options holds the command line flags
type options struct {
	input      string
	format     string
	out        string
	reports    string
	mode       string
	configPath string
	version    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one analysis and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		fmt.Fprintf(stderr, "failed to resolve paths: %v\n", err)
		return 1
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(stderr, "failed to create directories: %v\n", err)
		return 1
	}
	if cfg.Logging.FilePath != "" && !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = filepath.Join(paths.BaseDir, cfg.Logging.FilePath)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()
	paths.LogPathResolution(logger)

	if err := analyze(ctx, cfg, paths, logger, stdout); err != nil {
		logger.ErrorContext(ctx, "Analysis failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("analyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.input, "input", "", "transaction file (.csv or .xlsx), or db:<table> to read from the database")
	fs.StringVar(&opts.format, "format", "", "input format: auto, csv, xlsx or db (default from config)")
	fs.StringVar(&opts.out, "out", "", "output directory (defaults to data/reports relative to the base directory)")
	fs.StringVar(&opts.reports, "reports", "", "comma separated reports to compute (default all)")
	fs.StringVar(&opts.mode, "mode", "", "execution mode: sequential or parallel (default from config)")
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: analyzer -input <file|db:table> [flags]\n\nReports: %s\n\nFlags:\n",
			strings.Join(domain.AllReports(), ", "))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 && opts.input == "" {
		opts.input = fs.Arg(0)
	}
	return opts, nil
}

// loadConfig reads the configuration and applies flag overrides on top
func loadConfig(opts options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.input != "" {
		cfg.Input.Path = opts.input
	}
	if table, ok := storage.TableFromInput(cfg.Input.Path); ok {
		cfg.Input.Format = "db"
		cfg.Input.Table = table
	}
	if opts.format != "" {
		cfg.Input.Format = strings.ToLower(opts.format)
	}
	if opts.out != "" {
		cfg.Output.Dir = opts.out
	}
	if opts.reports != "" {
		cfg.Analysis.Reports = splitList(opts.reports)
	}
	if opts.mode != "" {
		cfg.Execution.Mode = strings.ToLower(opts.mode)
	}
	if cfg.Input.Format == "db" {
		cfg.Storage.Enabled = true
	}

	if cfg.Input.Path == "" && cfg.Input.Format != "db" {
		return nil, fmt.Errorf("no input given; use -input")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// analyze builds the application, runs it and reports the outcome on stdout
func analyze(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger, stdout io.Writer) error {
	application, err := app.NewApplication(ctx, cfg, paths, logger, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := application.Stop(ctx); stopErr != nil {
			logger.Warn("Shutdown failed", slog.String("error", stopErr.Error()))
		}
	}()

	result, err := application.Run(ctx)
	if result != nil && result.Response != nil {
		printSteps(stdout, result.Response)
	}
	if err != nil {
		return err
	}

	for _, p := range result.Files {
		fmt.Fprintf(stdout, "wrote %s\n", p)
	}
	if len(result.StoredTables) > 0 {
		fmt.Fprintf(stdout, "stored %d tables\n", len(result.StoredTables))
	}
	return nil
}

// stepBefore orders started steps by start time and steps that never
// started last, falling back to the step id
func stepBefore(a, b *operations.StepState) bool {
	switch {
	case a.StartTime == nil && b.StartTime != nil:
		return false
	case a.StartTime != nil && b.StartTime == nil:
		return true
	case a.StartTime != nil && !a.StartTime.Equal(*b.StartTime):
		return a.StartTime.Before(*b.StartTime)
	}
	return a.ID < b.ID
}

// printSteps writes one line per step in execution order
func printSteps(w io.Writer, resp *operations.OperationResponse) {
	steps := make([]*operations.StepState, 0, len(resp.Steps))
	for _, s := range resp.Steps {
		steps = append(steps, s)
	}
	sort.SliceStable(steps, func(i, j int) bool {
		return stepBefore(steps[i], steps[j])
	})

	for _, s := range steps {
		fmt.Fprintf(w, "%-24s %-10s rows=%-8d %s\n", s.ID, s.GetStatus(), s.GetRows(), s.Duration().Round(time.Millisecond))
	}
	fmt.Fprintf(w, "run %s %s in %s\n", resp.ID, resp.Status, resp.Duration.Round(time.Millisecond))
}
