package types

import (
	"context"
	"fmt"
)

// Sink is a destination for batches of records.
//
// Initialize runs once before the first write and Dispose once after the last.
// WriteBatch must not retain batch after it returns; a returned error marks the
// sink as failed for that batch.
type Sink interface {
	Initialize(ctx context.Context) error
	WriteBatch(ctx context.Context, batch []*LogRecord) error
	Dispose(ctx context.Context) error
}

// SinkAdapter is a Sink built by this module with logging and telemetry hooks.
type SinkAdapter interface {
	Sink
	Name() string
	ConnectLogger(...Logger)
	ConnectSensor(...Sensor)
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
}

type namedSink interface {
	Name() string
}

// SinkName returns the identity used for a sink in diagnostics.
func SinkName(s Sink) string {
	if s == nil {
		return "<nil>"
	}
	if n, ok := s.(namedSink); ok {
		if name := n.Name(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("%T", s)
}
