package scheduler

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/ingestqueue"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

func WithLogger(loggers ...types.Logger) types.Option[types.Pipeline] {
	return func(p types.Pipeline) { p.ConnectLogger(loggers...) }
}

func WithSensor(sensors ...types.Sensor) types.Option[types.Pipeline] {
	return func(p types.Pipeline) { p.ConnectSensor(sensors...) }
}

func WithPrimarySink(sinks ...types.Sink) types.Option[types.Pipeline] {
	return func(p types.Pipeline) { p.ConnectPrimarySink(sinks...) }
}

func WithFallbackSink(sinks ...types.Sink) types.Option[types.Pipeline] {
	return func(p types.Pipeline) { p.ConnectFallbackSink(sinks...) }
}

// WithQueue installs a caller-built queue; its loggers and sensors are the caller's concern.
func WithQueue(q types.IngestQueue) types.Option[types.Pipeline] {
	return func(p types.Pipeline) { p.SetQueue(q) }
}

// WithQueueStrategy builds the pipeline's own queue with the given policy.
func WithQueueStrategy(strategy types.QueueStrategy, capacity int) types.Option[types.Pipeline] {
	return func(pp types.Pipeline) {
		p, ok := pp.(*Pipeline)
		if !ok {
			return
		}
		p.SetQueue(ingestqueue.NewIngestQueue(
			ingestqueue.WithStrategy(strategy, capacity),
			ingestqueue.WithLogger(p.snapshotLoggers()...),
			ingestqueue.WithSensor(p.snapshotSensors()...),
		))
		p.ownsQueue = true
	}
}

func WithBufferLimit(n int) types.Option[types.Pipeline] {
	return func(p types.Pipeline) { p.SetBufferLimit(n) }
}

func WithFlushInterval(d time.Duration) types.Option[types.Pipeline] {
	return func(p types.Pipeline) { p.SetFlushInterval(d) }
}

func WithRequestRedactedKeys(keys ...string) types.Option[types.Pipeline] {
	return func(p types.Pipeline) { p.SetRequestRedactedKeys(keys...) }
}

func WithResponseRedactedKeys(keys ...string) types.Option[types.Pipeline] {
	return func(p types.Pipeline) { p.SetResponseRedactedKeys(keys...) }
}

func WithSinkWriteTimeout(d time.Duration) types.Option[types.Pipeline] {
	return func(p types.Pipeline) { p.SetSinkWriteTimeout(d) }
}

// WithConfig applies every non-zero field of cfg.
func WithConfig(cfg types.PipelineConfig) types.Option[types.Pipeline] {
	return func(p types.Pipeline) {
		if cfg.QueueStrategy != "" || cfg.QueueCapacity > 0 {
			WithQueueStrategy(cfg.QueueStrategy, cfg.QueueCapacity)(p)
		}
		p.SetBufferLimit(cfg.BufferLimit)
		p.SetFlushInterval(cfg.FlushInterval)
		if len(cfg.RequestRedactedKeys) > 0 {
			p.SetRequestRedactedKeys(cfg.RequestRedactedKeys...)
		}
		if len(cfg.ResponseRedactedKeys) > 0 {
			p.SetResponseRedactedKeys(cfg.ResponseRedactedKeys...)
		}
		p.SetSinkWriteTimeout(cfg.SinkWriteTimeout)
	}
}

func WithComponentMetadata(name string, id string) types.Option[types.Pipeline] {
	return func(p types.Pipeline) { p.SetComponentMetadata(name, id) }
}
