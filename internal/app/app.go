package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ecomcli/internal/analytics"
	"ecomcli/internal/config"
	"ecomcli/internal/dataprocessing"
	apperrors "ecomcli/internal/errors"
	"ecomcli/internal/exporter"
	"ecomcli/internal/files"
	"ecomcli/internal/infrastructure"
	"ecomcli/internal/operations"
	"ecomcli/internal/storage"
	"ecomcli/internal/validation"
	"ecomcli/pkg/contracts/domain"
)

// Application wires every component of one analyzer process
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Tracer        *operations.OperationTracer
	Manager       *operations.Manager
	Exporter      *exporter.Exporter
	// DB is nil unless storage is enabled
	DB *storage.DB

	runtime *infrastructure.RuntimeMetrics
}

// RunResult describes a finished run
type RunResult struct {
	Response     *operations.OperationResponse
	Rows         int
	OutputDir    string
	Files        []string
	StoredTables []string
}

// NewApplication creates the application for cfg. traceOut receives
// stdout-exported spans and may be nil.
func NewApplication(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger, traceOut io.Writer) (*Application, error) {
	if cfg == nil || paths == nil {
		return nil, fmt.Errorf("application requires configuration and paths")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if traceOut == nil {
		traceOut = os.Stdout
	}

	a := &Application{Config: cfg, Paths: paths, Logger: logger}

	otelCfg := infrastructure.OTelConfigFrom(cfg.Telemetry)
	otelCfg.TraceWriter = traceOut
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	a.OTelProviders = providers

	if a.Tracer, err = operations.NewOperationTracer(providers); err != nil {
		a.Stop(ctx)
		return nil, fmt.Errorf("failed to initialize operation tracer: %w", err)
	}
	if a.runtime, err = infrastructure.NewRuntimeMetrics(providers.Meter); err != nil {
		a.Stop(ctx)
		return nil, fmt.Errorf("failed to initialize runtime metrics: %w", err)
	}

	opts := analytics.OptionsFromConfig(cfg.Analysis)
	if err := opts.Validate(); err != nil {
		a.Stop(ctx)
		return nil, err
	}
	registry, err := operations.NewPipelineRegistry(logger, cfg.Analysis.CancellationMarker, opts, a.Tracer.Metrics())
	if err != nil {
		a.Stop(ctx)
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	a.Manager = operations.NewManager(registry, operations.ConfigFrom(cfg.Execution), a.Tracer, logger)
	a.Exporter = exporter.New(cfg.Output, a.Tracer.Metrics(), logger)

	if cfg.Storage.Enabled {
		if a.DB, err = storage.Open(ctx, cfg.Storage, logger); err != nil {
			a.Stop(ctx)
			return nil, err
		}
	}

	logger.InfoContext(ctx, "Application initialized",
		slog.String("name", config.AppDisplayName),
		slog.String("version", config.AppVersion),
		slog.String("mode", cfg.Execution.Mode),
		slog.Bool("storage", cfg.Storage.Enabled))
	return a, nil
}

// Run loads the dataset, computes the configured reports and writes every
// artifact. The returned result carries the pipeline response even when
// the pipeline failed.
func (a *Application) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	ctx, runID := infrastructure.ContextWithRunID(ctx, "")
	metrics := a.Tracer.Metrics()
	a.runtime.Record(ctx, "start")

	a.Logger.InfoContext(ctx, "Starting analysis",
		slog.String("input", a.Config.Input.Path),
		slog.String("format", a.Config.Input.Format),
		slog.Any("reports", a.Config.Analysis.Reports))

	dataset, err := a.loadDataset(ctx)
	if err != nil {
		return nil, err
	}
	metrics.RecordLoaded(ctx, a.Config.Input.Format, dataset.Len())
	a.runtime.Record(ctx, "loaded")

	result := &RunResult{Rows: dataset.Len()}
	resp, err := a.Manager.Execute(ctx, operations.OperationRequest{
		ID:      runID,
		Reports: a.Config.Analysis.Reports,
		Dataset: dataset,
	})
	result.Response = resp
	if err != nil {
		return result, err
	}
	if resp.Status != operations.OperationStatusCompleted {
		return result, fmt.Errorf("analysis %s: %s", resp.Status, resp.Error)
	}
	a.runtime.Record(ctx, "computed")

	result.OutputDir = a.outputDir(started)
	if err := validation.NewFileValidator(a.Logger).ValidateOutputDirectory(result.OutputDir); err != nil {
		return result, apperrors.NewExportError(result.OutputDir, err)
	}
	if result.Files, err = a.Exporter.Export(ctx, result.OutputDir, resp.Results); err != nil {
		return result, err
	}

	if a.DB != nil {
		if result.StoredTables, err = a.DB.Sink().WriteTables(ctx, exporter.Tables(resp.Results)); err != nil {
			return result, err
		}
	}

	a.runtime.Record(ctx, "done")
	if a.Config.Telemetry.EnableMetrics && a.Config.Telemetry.MetricsFile != "" {
		path := filepath.Join(result.OutputDir, a.Config.Telemetry.MetricsFile)
		if err := a.OTelProviders.WriteMetricsFile(path); err != nil {
			a.Logger.WarnContext(ctx, "Failed to write metrics file", slog.String("error", err.Error()))
		} else {
			result.Files = append(result.Files, path)
		}
	}

	a.Logger.InfoContext(ctx, "Analysis complete",
		slog.Int("rows", result.Rows),
		slog.Int("files", len(result.Files)),
		slog.String("output_dir", result.OutputDir),
		slog.Duration("duration", time.Since(started)))
	return result, nil
}

// Stop releases the database and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, err)
		}
		a.DB = nil
	}

	if a.OTelProviders != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.DefaultShutdownTimeout)
		defer cancel()
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		a.OTelProviders = nil
	}

	return errors.Join(errs...)
}

// loadDataset reads the raw transactions from the configured source
func (a *Application) loadDataset(ctx context.Context) (*domain.Dataset, error) {
	if a.Config.Input.Format == "db" {
		if a.DB == nil {
			return nil, fmt.Errorf("database input requires storage to be enabled")
		}
		return a.DB.Source().LoadRawRecords(ctx, a.Config.Input.Table)
	}

	path, err := files.NewDiscovery(a.Paths.DataDir).ResolveInput(a.Config.Input.Path)
	if err != nil {
		return nil, apperrors.NewNotFoundError(a.Config.Input.Path).WithContext("error", err.Error())
	}
	if path != a.Config.Input.Path {
		a.Logger.InfoContext(ctx, "Resolved input file",
			slog.String("input", a.Config.Input.Path),
			slog.String("path", path))
	}

	parser := dataprocessing.NewParser(a.Logger, dataprocessing.ParserOptions{Sheet: a.Config.Input.Sheet})
	return parser.ParseFile(ctx, path, a.Config.Input.Format)
}

// outputDir returns the directory for the artifacts of a run started at
func (a *Application) outputDir(started time.Time) string {
	dir := a.Config.Output.Dir
	if dir == "" {
		return a.Paths.RunReportsDir(a.Config.Output.Timestamped, started)
	}
	if a.Config.Output.Timestamped {
		return filepath.Join(dir, started.Format("20060102_150405"))
	}
	return dir
}
