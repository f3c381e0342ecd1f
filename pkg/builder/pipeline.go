package builder

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/ingestqueue"
	"github.com/joeydtaylor/flexlog/pkg/internal/scheduler"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

type (
	ComponentMetadata = types.ComponentMetadata
	Pipeline          = types.Pipeline
	PipelineConfig    = types.PipelineConfig
	IngestQueue       = types.IngestQueue
	QueueStrategy     = types.QueueStrategy
	Sink              = types.Sink
	SinkAdapter       = types.SinkAdapter
	LogRecord         = types.LogRecord
	LogEntry          = types.LogEntry
	EntryLevel        = types.EntryLevel
	BodyCapture       = types.BodyCapture
	Fields            = types.Fields
	Field             = types.Field
	TLSConfig         = types.TLSConfig
)

const (
	QueueUnbounded        = types.QueueUnbounded
	QueueBoundedDropWrite = types.QueueBoundedDropWrite
	DefaultQueueCapacity  = types.DefaultQueueCapacity
	DefaultBufferLimit    = types.DefaultBufferLimit
	DefaultFlushInterval  = types.DefaultFlushInterval
	TooLargeText          = types.TooLargeText
)

const (
	EntryTrace       = types.EntryTrace
	EntryDebug       = types.EntryDebug
	EntryInformation = types.EntryInformation
	EntryWarning     = types.EntryWarning
	EntryError       = types.EntryError
	EntryCritical    = types.EntryCritical
)

// NewLogRecord returns a record with a fresh id and a UTC timestamp.
func NewLogRecord() *LogRecord { return types.NewLogRecord() }

// NewBodyCapture builds a body capture; too-large bodies keep no raw bytes.
func NewBodyCapture(contentType string, raw []byte, size int64, tooLarge bool) *BodyCapture {
	return types.NewBodyCapture(contentType, raw, size, tooLarge)
}

// ParseQueueStrategy maps a configured name to a strategy.
func ParseQueueStrategy(s string) QueueStrategy { return types.ParseQueueStrategy(s) }

// SinkName returns the diagnostic name of a sink.
func SinkName(s Sink) string { return types.SinkName(s) }

// NewPipeline creates the delivery pipeline.
func NewPipeline(options ...types.Option[types.Pipeline]) types.Pipeline {
	return scheduler.NewPipeline(options...)
}

func PipelineWithLogger(loggers ...types.Logger) types.Option[types.Pipeline] {
	return scheduler.WithLogger(loggers...)
}

func PipelineWithSensor(sensors ...types.Sensor) types.Option[types.Pipeline] {
	return scheduler.WithSensor(sensors...)
}

// PipelineWithPrimarySink appends primary sinks. Every primary receives every batch.
func PipelineWithPrimarySink(sinks ...types.Sink) types.Option[types.Pipeline] {
	return scheduler.WithPrimarySink(sinks...)
}

// PipelineWithFallbackSink appends sinks used only when every primary failed.
func PipelineWithFallbackSink(sinks ...types.Sink) types.Option[types.Pipeline] {
	return scheduler.WithFallbackSink(sinks...)
}

func PipelineWithQueue(q types.IngestQueue) types.Option[types.Pipeline] {
	return scheduler.WithQueue(q)
}

// PipelineWithQueueStrategy builds the pipeline's own queue. Put it after
// PipelineWithLogger and PipelineWithSensor so the queue inherits them.
func PipelineWithQueueStrategy(strategy QueueStrategy, capacity int) types.Option[types.Pipeline] {
	return scheduler.WithQueueStrategy(strategy, capacity)
}

func PipelineWithBufferLimit(n int) types.Option[types.Pipeline] {
	return scheduler.WithBufferLimit(n)
}

func PipelineWithFlushInterval(d time.Duration) types.Option[types.Pipeline] {
	return scheduler.WithFlushInterval(d)
}

func PipelineWithRequestRedactedKeys(keys ...string) types.Option[types.Pipeline] {
	return scheduler.WithRequestRedactedKeys(keys...)
}

func PipelineWithResponseRedactedKeys(keys ...string) types.Option[types.Pipeline] {
	return scheduler.WithResponseRedactedKeys(keys...)
}

func PipelineWithSinkWriteTimeout(d time.Duration) types.Option[types.Pipeline] {
	return scheduler.WithSinkWriteTimeout(d)
}

// PipelineWithConfig applies every non-zero field of cfg.
func PipelineWithConfig(cfg PipelineConfig) types.Option[types.Pipeline] {
	return scheduler.WithConfig(cfg)
}

func PipelineWithComponentMetadata(name string, id string) types.Option[types.Pipeline] {
	return scheduler.WithComponentMetadata(name, id)
}

// NewIngestQueue builds a standalone queue for PipelineWithQueue.
func NewIngestQueue(options ...types.Option[types.IngestQueue]) types.IngestQueue {
	return ingestqueue.NewIngestQueue(options...)
}

func IngestQueueWithStrategy(strategy QueueStrategy, capacity int) types.Option[types.IngestQueue] {
	return ingestqueue.WithStrategy(strategy, capacity)
}

func IngestQueueWithLogger(loggers ...types.Logger) types.Option[types.IngestQueue] {
	return ingestqueue.WithLogger(loggers...)
}

func IngestQueueWithSensor(sensors ...types.Sensor) types.Option[types.IngestQueue] {
	return ingestqueue.WithSensor(sensors...)
}

func IngestQueueWithComponentMetadata(name string, id string) types.Option[types.IngestQueue] {
	return ingestqueue.WithComponentMetadata(name, id)
}
