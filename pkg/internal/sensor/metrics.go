package sensor

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

func (s *Sensor) snapshotMeters() []types.Meter {
	s.metersLock.Lock()
	meters := append([]types.Meter(nil), s.meters...)
	s.metersLock.Unlock()
	return meters
}

func (s *Sensor) incrementMeterCounters(metric string) {
	for _, m := range s.snapshotMeters() {
		m.IncrementCount(metric)
	}
}

func (s *Sensor) addMeterCounters(metric string, n int) {
	if n <= 0 {
		return
	}
	for _, m := range s.snapshotMeters() {
		m.AddCount(metric, uint64(n))
	}
}

func (s *Sensor) decrementMeterCounters(metric string) {
	for _, m := range s.snapshotMeters() {
		m.DecrementCount(metric)
	}
}

func (s *Sensor) decorateCallbacks(options ...types.Option[types.Sensor]) []types.Option[types.Sensor] {
	meterHooks := []types.Option[types.Sensor]{
		WithOnStartFunc(func(c types.ComponentMetadata) {
			if c.Type == "PIPELINE" {
				s.incrementMeterCounters(types.MetricPipelineRunningCount)
			}
		}),
		WithOnStopFunc(func(c types.ComponentMetadata) {
			if c.Type == "PIPELINE" {
				s.decrementMeterCounters(types.MetricPipelineRunningCount)
			}
		}),
		WithOnEnqueueFunc(func(types.ComponentMetadata, *types.LogRecord) {
			s.incrementMeterCounters(types.MetricRecordsEnqueuedTotal)
		}),
		WithOnQueueDropFunc(func(types.ComponentMetadata, *types.LogRecord) {
			s.incrementMeterCounters(types.MetricRecordsDroppedTotal)
		}),
		WithOnFlushFunc(func(_ types.ComponentMetadata, size int) {
			s.incrementMeterCounters(types.MetricBatchesFlushedTotal)
			s.addMeterCounters(types.MetricRecordsFlushedTotal, size)
		}),
		WithOnRedactionFunc(func(_ types.ComponentMetadata, valid bool) {
			s.incrementMeterCounters(types.MetricRedactedBodiesTotal)
			if !valid {
				s.incrementMeterCounters(types.MetricInvalidJSONTotal)
			}
		}),
		WithOnSinkWriteSuccessFunc(func(types.ComponentMetadata, string, int, time.Duration) {
			s.incrementMeterCounters(types.MetricSinkWriteSuccessTotal)
		}),
		WithOnSinkWriteErrorFunc(func(types.ComponentMetadata, string, int, error) {
			s.incrementMeterCounters(types.MetricSinkWriteErrorTotal)
		}),
		WithOnFallbackFunc(func(types.ComponentMetadata, int) {
			s.incrementMeterCounters(types.MetricFallbackTotal)
		}),
		WithOnDeliveryFailureFunc(func(types.ComponentMetadata, int, error) {
			s.incrementMeterCounters(types.MetricDeliveryFailureTotal)
		}),
		WithOnLifecycleErrorFunc(func(types.ComponentMetadata, string, string, error) {
			s.incrementMeterCounters(types.MetricLifecycleErrorTotal)
		}),
	}
	return append(meterHooks, options...)
}
