package sensor_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/meter"
	"github.com/joeydtaylor/flexlog/pkg/internal/sensor"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

var pipelineMeta = types.ComponentMetadata{ID: "p1", Type: "PIPELINE"}

func TestSensorCallbacks(t *testing.T) {
	var starts, stops, enqueued, dropped, flushed, fallbacks, failures int64

	s := sensor.NewSensor(
		sensor.WithOnStartFunc(func(types.ComponentMetadata) { atomic.AddInt64(&starts, 1) }),
		sensor.WithOnStopFunc(func(types.ComponentMetadata) { atomic.AddInt64(&stops, 1) }),
		sensor.WithOnEnqueueFunc(func(types.ComponentMetadata, *types.LogRecord) { atomic.AddInt64(&enqueued, 1) }),
		sensor.WithOnQueueDropFunc(func(types.ComponentMetadata, *types.LogRecord) { atomic.AddInt64(&dropped, 1) }),
		sensor.WithOnFlushFunc(func(_ types.ComponentMetadata, n int) { atomic.AddInt64(&flushed, int64(n)) }),
		sensor.WithOnFallbackFunc(func(types.ComponentMetadata, int) { atomic.AddInt64(&fallbacks, 1) }),
		sensor.WithOnDeliveryFailureFunc(func(types.ComponentMetadata, int, error) { atomic.AddInt64(&failures, 1) }),
	)

	r := types.NewLogRecord()
	s.InvokeOnStart(pipelineMeta)
	s.InvokeOnEnqueue(pipelineMeta, r)
	s.InvokeOnEnqueue(pipelineMeta, r)
	s.InvokeOnQueueDrop(pipelineMeta, r)
	s.InvokeOnFlush(pipelineMeta, 2)
	s.InvokeOnFallback(pipelineMeta, 2)
	s.InvokeOnDeliveryFailure(pipelineMeta, 2, errors.New("all sinks failed"))
	s.InvokeOnStop(pipelineMeta)

	if starts != 1 || stops != 1 {
		t.Fatalf("expected one start and stop, got %d/%d", starts, stops)
	}
	if enqueued != 2 || dropped != 1 {
		t.Fatalf("unexpected queue counts enqueued=%d dropped=%d", enqueued, dropped)
	}
	if flushed != 2 {
		t.Fatalf("expected 2 flushed records, got %d", flushed)
	}
	if fallbacks != 1 || failures != 1 {
		t.Fatalf("unexpected delivery counts fallback=%d failure=%d", fallbacks, failures)
	}
}

func TestSensorFeedsMeter(t *testing.T) {
	m := meter.NewMeter(meter.WithoutHostSampling())
	s := sensor.NewSensor(sensor.WithMeter(m))

	r := types.NewLogRecord()
	s.InvokeOnStart(pipelineMeta)
	s.InvokeOnStart(types.ComponentMetadata{Type: "INGEST_QUEUE"})
	s.InvokeOnEnqueue(pipelineMeta, r)
	s.InvokeOnQueueDrop(pipelineMeta, r)
	s.InvokeOnFlush(pipelineMeta, 5)
	s.InvokeOnFlush(pipelineMeta, 3)
	s.InvokeOnRedaction(pipelineMeta, true)
	s.InvokeOnRedaction(pipelineMeta, false)
	s.InvokeOnSinkWriteSuccess(pipelineMeta, "kafka", 5, time.Millisecond)
	s.InvokeOnSinkWriteError(pipelineMeta, "s3", 5, errors.New("denied"))
	s.InvokeOnFallback(pipelineMeta, 5)
	s.InvokeOnDeliveryFailure(pipelineMeta, 5, errors.New("x"))
	s.InvokeOnLifecycleError(pipelineMeta, "file", types.PhaseInitialize, errors.New("x"))

	want := map[string]uint64{
		types.MetricPipelineRunningCount:  1,
		types.MetricRecordsEnqueuedTotal:  1,
		types.MetricRecordsDroppedTotal:   1,
		types.MetricBatchesFlushedTotal:   2,
		types.MetricRecordsFlushedTotal:   8,
		types.MetricRedactedBodiesTotal:   2,
		types.MetricInvalidJSONTotal:      1,
		types.MetricSinkWriteSuccessTotal: 1,
		types.MetricSinkWriteErrorTotal:   1,
		types.MetricFallbackTotal:         1,
		types.MetricDeliveryFailureTotal:  1,
		types.MetricLifecycleErrorTotal:   1,
	}
	for metric, v := range want {
		if got := m.GetMetricCount(metric); got != v {
			t.Fatalf("%s = %d, want %d", metric, got, v)
		}
	}

	s.InvokeOnStop(pipelineMeta)
	if got := m.GetMetricCount(types.MetricPipelineRunningCount); got != 0 {
		t.Fatalf("expected running count back to 0, got %d", got)
	}
}

func TestSensorMetadata(t *testing.T) {
	s := sensor.NewSensor(sensor.WithComponentMetadata("audit", "s-1"))
	meta := s.GetComponentMetadata()
	if meta.Name != "audit" || meta.ID != "s-1" || meta.Type != "SENSOR" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
}

func TestLifecycleErrorArguments(t *testing.T) {
	var gotSink, gotPhase string
	s := sensor.NewSensor(sensor.WithOnLifecycleErrorFunc(func(_ types.ComponentMetadata, sink, phase string, _ error) {
		gotSink, gotPhase = sink, phase
	}))
	s.InvokeOnLifecycleError(pipelineMeta, "webhook", types.PhaseDispose, errors.New("closed"))
	if gotSink != "webhook" || gotPhase != types.PhaseDispose {
		t.Fatalf("unexpected args sink=%q phase=%q", gotSink, gotPhase)
	}
}
