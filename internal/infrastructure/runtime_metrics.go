package infrastructure

import (
	"context"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics records a snapshot of Go runtime resource usage
type RuntimeMetrics struct {
	goRoutines      metric.Int64Gauge
	memoryAllocated metric.Int64Gauge
	memorySystem    metric.Int64Gauge
	gcCount         metric.Int64Gauge
	cpuCount        metric.Int64Gauge
}

// NewRuntimeMetrics creates the runtime gauges on meter
func NewRuntimeMetrics(meter metric.Meter) (*RuntimeMetrics, error) {
	goRoutines, err := meter.Int64Gauge(
		"runtime_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, err
	}

	memoryAllocated, err := meter.Int64Gauge(
		"runtime_memory_allocated_bytes",
		metric.WithDescription("Heap bytes allocated by the Go runtime"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	memorySystem, err := meter.Int64Gauge(
		"runtime_memory_system_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"runtime_gc_count",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	cpuCount, err := meter.Int64Gauge(
		"runtime_cpu_count",
		metric.WithDescription("Number of logical CPUs"),
	)
	if err != nil {
		return nil, err
	}

	return &RuntimeMetrics{
		goRoutines:      goRoutines,
		memoryAllocated: memoryAllocated,
		memorySystem:    memorySystem,
		gcCount:         gcCount,
		cpuCount:        cpuCount,
	}, nil
}

// Record takes a runtime snapshot labelled with phase
func (m *RuntimeMetrics) Record(ctx context.Context, phase string) {
	if m == nil {
		return
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	attrs := metric.WithAttributes(attribute.String("phase", phase))
	m.goRoutines.Record(ctx, int64(runtime.NumGoroutine()), attrs)
	m.memoryAllocated.Record(ctx, int64(ms.HeapAlloc), attrs)
	m.memorySystem.Record(ctx, int64(ms.Sys), attrs)
	m.gcCount.Record(ctx, int64(ms.NumGC), attrs)
	m.cpuCount.Record(ctx, int64(runtime.NumCPU()), attrs)
}
