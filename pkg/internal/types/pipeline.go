package types

import (
	"context"
	"time"
)

const (
	DefaultBufferLimit   = 1000
	DefaultFlushInterval = 5 * time.Second
)

// PipelineConfig carries the tunables of the delivery pipeline.
type PipelineConfig struct {
	QueueStrategy        QueueStrategy
	QueueCapacity        int
	BufferLimit          int
	FlushInterval        time.Duration
	RequestRedactedKeys  []string
	ResponseRedactedKeys []string
	SinkWriteTimeout     time.Duration // 0 disables the per-sink deadline
}

// Pipeline is the asynchronous delivery service: an ingest queue drained by a
// single batching scheduler that dispatches to primary and fallback sinks.
type Pipeline interface {
	// Start initializes every sink (primaries, then fallbacks) and launches the
	// scheduler. Initialize failures are returned joined; the scheduler runs anyway.
	Start(ctx context.Context) error
	// Shutdown drains the queue, performs a final flush and disposes every sink.
	Shutdown(ctx context.Context) error
	// Enqueue hands a record to the ingest queue without blocking.
	Enqueue(*LogRecord)
	IsRunning() bool

	ConnectLogger(...Logger)
	ConnectSensor(...Sensor)
	ConnectPrimarySink(...Sink)
	ConnectFallbackSink(...Sink)
	SetQueue(IngestQueue)
	SetBufferLimit(int)
	SetFlushInterval(time.Duration)
	SetRequestRedactedKeys(...string)
	SetResponseRedactedKeys(...string)
	SetSinkWriteTimeout(time.Duration)

	GetQueue() IngestQueue
	GetPrimarySinks() []Sink
	GetFallbackSinks() []Sink
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
}
