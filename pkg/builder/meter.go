package builder

import (
	"github.com/joeydtaylor/flexlog/pkg/internal/meter"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// MetricName is a type alias for metric names used in the Meter.
type MetricName string

const (
	MetricCurrentCpuPercentage  MetricName = MetricName(types.MetricCurrentCpuPercentage)
	MetricCurrentRamPercentage  MetricName = MetricName(types.MetricCurrentRamPercentage)
	MetricPipelineRunningCount  MetricName = MetricName(types.MetricPipelineRunningCount)
	MetricRecordsEnqueuedTotal  MetricName = MetricName(types.MetricRecordsEnqueuedTotal)
	MetricRecordsDroppedTotal   MetricName = MetricName(types.MetricRecordsDroppedTotal)
	MetricBatchesFlushedTotal   MetricName = MetricName(types.MetricBatchesFlushedTotal)
	MetricRecordsFlushedTotal   MetricName = MetricName(types.MetricRecordsFlushedTotal)
	MetricSinkWriteSuccessTotal MetricName = MetricName(types.MetricSinkWriteSuccessTotal)
	MetricSinkWriteErrorTotal   MetricName = MetricName(types.MetricSinkWriteErrorTotal)
	MetricFallbackTotal         MetricName = MetricName(types.MetricFallbackTotal)
	MetricDeliveryFailureTotal  MetricName = MetricName(types.MetricDeliveryFailureTotal)
	MetricLifecycleErrorTotal   MetricName = MetricName(types.MetricLifecycleErrorTotal)
	MetricInvalidJSONTotal      MetricName = MetricName(types.MetricInvalidJSONTotal)
	MetricRedactedBodiesTotal   MetricName = MetricName(types.MetricRedactedBodiesTotal)
)

// NewMeter creates a counter meter. Start reporting with Monitor.
func NewMeter(options ...types.Option[types.Meter]) types.Meter {
	return meter.NewMeter(options...)
}

func MeterWithLogger(loggers ...types.Logger) types.Option[types.Meter] {
	return meter.WithLogger(loggers...)
}

func MeterWithComponentMetadata(name string, id string) types.Option[types.Meter] {
	return meter.WithComponentMetadata(name, id)
}

// MeterWithInitialMetricCount seeds a counter.
func MeterWithInitialMetricCount(metricName MetricName, count uint64) types.Option[types.Meter] {
	return meter.WithInitialMetricCount(string(metricName), count)
}

// MeterWithoutHostSampling turns off CPU and memory sampling.
func MeterWithoutHostSampling() types.Option[types.Meter] {
	return meter.WithoutHostSampling()
}
