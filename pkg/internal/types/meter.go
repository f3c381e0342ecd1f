package types

import (
	"context"
	"time"
)

const (
	MetricCurrentCpuPercentage = "current_cpu_percentage"
	MetricCurrentRamPercentage = "current_ram_percentage"

	MetricPipelineRunningCount  = "pipeline_running_count"
	MetricRecordsEnqueuedTotal  = "records_enqueued_total"
	MetricRecordsDroppedTotal   = "records_dropped_total"
	MetricBatchesFlushedTotal   = "batches_flushed_total"
	MetricRecordsFlushedTotal   = "records_flushed_total"
	MetricSinkWriteSuccessTotal = "sink_write_success_total"
	MetricSinkWriteErrorTotal   = "sink_write_error_total"
	MetricFallbackTotal         = "fallback_total"
	MetricDeliveryFailureTotal  = "delivery_failure_total"
	MetricLifecycleErrorTotal   = "lifecycle_error_total"
	MetricInvalidJSONTotal      = "invalid_json_total"
	MetricRedactedBodiesTotal   = "redacted_bodies_total"
)

// CounterMetrics lists every counter a meter tracks, in report order.
var CounterMetrics = []string{
	MetricPipelineRunningCount,
	MetricRecordsEnqueuedTotal,
	MetricRecordsDroppedTotal,
	MetricBatchesFlushedTotal,
	MetricRecordsFlushedTotal,
	MetricSinkWriteSuccessTotal,
	MetricSinkWriteErrorTotal,
	MetricFallbackTotal,
	MetricDeliveryFailureTotal,
	MetricLifecycleErrorTotal,
	MetricInvalidJSONTotal,
	MetricRedactedBodiesTotal,
}

// Meter aggregates counters fed by sensors and reports them to loggers.
type Meter interface {
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
	ConnectLogger(...Logger)

	IncrementCount(metric string)
	AddCount(metric string, n uint64)
	DecrementCount(metric string)
	GetMetricCount(metric string) uint64
	SetMetricPercentage(metric string, pct float64)
	GetMetricPercentage(metric string) float64
	Snapshot() map[string]uint64

	// ReportData samples host utilisation and logs one snapshot.
	ReportData()
	// Monitor calls ReportData every interval until ctx ends.
	Monitor(ctx context.Context, every time.Duration)
}
