package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"ecomcli/internal/config"
	apperrors "ecomcli/internal/errors"
	"ecomcli/internal/infrastructure"
	"ecomcli/pkg/contracts/domain"
)

// Output formats understood by Export
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// Exporter writes the results of a run in every configured format
type Exporter struct {
	cfg     config.OutputConfig
	csv     *CSVWriter
	excel   *ExcelWriter
	json    *JSONWriter
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// New creates an exporter for cfg. metrics may be nil.
func New(cfg config.OutputConfig, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.WorkbookName == "" {
		cfg.WorkbookName = config.DefaultWorkbookName
	}
	if cfg.JSONName == "" {
		cfg.JSONName = config.DefaultJSONName
	}
	logger = infrastructure.WithComponent(logger, "exporter")

	return &Exporter{
		cfg:     cfg,
		csv:     NewCSVWriter(cfg.BOMPrefix, logger),
		excel:   NewExcelWriter(logger),
		json:    NewJSONWriter(true),
		metrics: metrics,
		logger:  logger,
	}
}

// Export writes results into dir and returns the paths of every file
// written. Formats are processed in configuration order; the first
// failure stops the export.
func (e *Exporter) Export(ctx context.Context, dir string, results *domain.AnalyticsResults) ([]string, error) {
	if results == nil {
		return nil, apperrors.NewExportError("results", fmt.Errorf("no results"))
	}

	tables := Tables(results)
	var written []string

	for _, format := range e.cfg.Formats {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		paths, err := e.exportFormat(dir, format, results, tables)
		if err != nil {
			e.logger.ErrorContext(ctx, "Export failed",
				slog.String("format", format),
				slog.String("error", err.Error()))
			return written, err
		}
		written = append(written, paths...)

		for _, t := range tables {
			e.metrics.RecordExported(ctx, t.Name, format, t.Len())
		}
		e.logger.InfoContext(ctx, "Results exported",
			slog.String("format", format),
			slog.String("dir", dir),
			slog.Int("files", len(paths)),
			slog.Int("tables", len(tables)))
	}

	return written, nil
}

func (e *Exporter) exportFormat(dir, format string, results *domain.AnalyticsResults, tables []Table) ([]string, error) {
	switch format {
	case FormatCSV:
		paths, err := e.csv.WriteTables(dir, tables)
		if err != nil {
			return paths, apperrors.NewExportError(FormatCSV, err)
		}
		return paths, nil

	case FormatXLSX:
		path := filepath.Join(dir, e.cfg.WorkbookName)
		if err := e.excel.WriteWorkbook(path, tables); err != nil {
			return nil, apperrors.NewExportError(FormatXLSX, err)
		}
		return []string{path}, nil

	case FormatJSON:
		path := filepath.Join(dir, e.cfg.JSONName)
		if err := e.json.WriteResults(path, results); err != nil {
			return nil, apperrors.NewExportError(FormatJSON, err)
		}
		return []string{path}, nil

	default:
		return nil, apperrors.NewExportError(format, apperrors.ErrUnknownFormat)
	}
}
