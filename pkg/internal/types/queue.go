package types

import (
	"context"
	"strings"
)

// QueueStrategy selects the ingest queue overflow policy.
type QueueStrategy string

const (
	// QueueUnbounded never rejects a write.
	QueueUnbounded QueueStrategy = "Unbounded"
	// QueueBoundedDropWrite silently drops new writes once capacity is reached.
	QueueBoundedDropWrite QueueStrategy = "DropWrite"
)

// DefaultQueueCapacity applies to bounded queues configured with capacity <= 0.
const DefaultQueueCapacity = 10_000

// ParseQueueStrategy maps a configured name to a strategy. Unknown names
// resolve to QueueUnbounded.
func ParseQueueStrategy(s string) QueueStrategy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dropwrite", "drop-write", "drop_write", "boundeddropwrite", "bounded":
		return QueueBoundedDropWrite
	default:
		return QueueUnbounded
	}
}

// IngestQueue buffers records between producers and the single scheduler.
type IngestQueue interface {
	// Enqueue hands a record over without blocking. It never reports failure.
	Enqueue(*LogRecord)
	// Dequeue removes the oldest record, if any.
	Dequeue() (*LogRecord, bool)
	// WaitForAvailable blocks until a record is queued or ctx ends.
	WaitForAvailable(ctx context.Context) bool
	// Available is signalled after enqueues; callers re-check Len after receiving.
	Available() <-chan struct{}
	Len() int
	Dropped() uint64
	Strategy() QueueStrategy
	Capacity() int

	ConnectLogger(...Logger)
	ConnectSensor(...Sensor)
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
}
