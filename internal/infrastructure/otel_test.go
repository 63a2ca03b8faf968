package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomcli/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestOTelInitialization_Disabled tests that disabled telemetry still yields usable providers
func TestOTelInitialization_Disabled(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.Registry)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)

	// no-op instruments must be safe to use
	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordStep(context.Background(), "rfm", time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, providers.WriteMetricsFile(path))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestOTelInitialization_UnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{EnableTracing: true, TraceExporter: "otlp"}, discardLogger())
	assert.Error(t, err)
}

// TestTracing_StdoutExporter tests that spans reach the configured writer
func TestTracing_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:   config.AppName,
		EnableTracing: true,
		TraceExporter: "stdout",
		SampleRatio:   1.0,
		TraceWriter:   &buf,
		SyncExport:    true,
	}, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "step.cleaner")
	AddSpanEvent(ctx, "records.cleaned", map[string]interface{}{"kept": 10, "ratio": 0.5, "source": "csv"})
	RecordError(ctx, errors.New("boom"))
	span.End()

	out := buf.String()
	assert.Contains(t, out, "step.cleaner")
	assert.Contains(t, out, "records.cleaned")
	assert.Contains(t, out, "boom")
}

// TestPipelineMetrics_WriteMetricsFile tests the Prometheus textfile dump
func TestPipelineMetrics_WriteMetricsFile(t *testing.T) {
	providers, err := InitializeOTel(OTelConfigFrom(config.TelemetryConfig{
		ServiceName:   config.AppName,
		Environment:   "test",
		EnableMetrics: true,
		TraceExporter: "none",
	}), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())
	require.NotNil(t, providers.Registry)

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordRun(ctx, "parallel", 2*time.Second, nil)
	metrics.RecordStep(ctx, "rfm", 15*time.Millisecond, nil)
	metrics.RecordStep(ctx, "cohort", 5*time.Millisecond, errors.New("failed"))
	metrics.RecordLoaded(ctx, "csv", 120)
	metrics.RecordDropped(ctx, "cancelled", 7)
	metrics.RecordDropped(ctx, "missing_customer", 0)
	metrics.RecordExported(ctx, "rfm", "csv", 42)

	runtimeMetrics, err := NewRuntimeMetrics(providers.Meter)
	require.NoError(t, err)
	runtimeMetrics.Record(ctx, "end")

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, providers.WriteMetricsFile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "pipeline_steps_total")
	assert.Contains(t, text, `step_id="rfm"`)
	assert.Contains(t, text, `error_type="*errors.errorString"`)
	assert.NotContains(t, text, `"step.id"`)
	assert.NotContains(t, text, `"error.type"`)
	assert.NotContains(t, text, "target_info")
	assert.NotRegexp(t, `[{,]"`, text, "label names must not need quoting")
	assert.Contains(t, text, "pipeline_step_errors_total")
	assert.Contains(t, text, "records_loaded_total")
	assert.Contains(t, text, `reason="cancelled"`)
	assert.NotContains(t, text, `reason="missing_customer"`)
	assert.Contains(t, text, "rows_exported_total")
	assert.Contains(t, text, "runtime_goroutines")
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var m *PipelineMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordRun(ctx, "sequential", time.Second, nil)
		m.RecordStep(ctx, "rfm", time.Second, nil)
		m.RecordLoaded(ctx, "csv", 1)
		m.RecordDropped(ctx, "cancelled", 1)
		m.RecordExported(ctx, "rfm", "csv", 1)
	})

	var r *RuntimeMetrics
	assert.NotPanics(t, func() { r.Record(ctx, "start") })
}
