package ingestqueue

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// WithStrategy selects the overflow policy. A capacity <= 0 means the default 10,000.
func WithStrategy(strategy types.QueueStrategy, capacity int) types.Option[types.IngestQueue] {
	return func(iq types.IngestQueue) {
		q, ok := iq.(*IngestQueue)
		if !ok {
			return
		}
		switch strategy {
		case types.QueueBoundedDropWrite:
			q.strategy = types.QueueBoundedDropWrite
		default:
			q.strategy = types.QueueUnbounded
		}
		if capacity <= 0 {
			capacity = types.DefaultQueueCapacity
		}
		q.capacity = capacity
	}
}

// WithLogger attaches diagnostic loggers.
func WithLogger(loggers ...types.Logger) types.Option[types.IngestQueue] {
	return func(q types.IngestQueue) {
		q.ConnectLogger(loggers...)
	}
}

// WithSensor attaches telemetry sensors.
func WithSensor(sensors ...types.Sensor) types.Option[types.IngestQueue] {
	return func(q types.IngestQueue) {
		q.ConnectSensor(sensors...)
	}
}

// WithComponentMetadata overrides name and id.
func WithComponentMetadata(name string, id string) types.Option[types.IngestQueue] {
	return func(q types.IngestQueue) {
		q.SetComponentMetadata(name, id)
	}
}

func withClock(now func() time.Time) types.Option[types.IngestQueue] {
	return func(iq types.IngestQueue) {
		if q, ok := iq.(*IngestQueue); ok && now != nil {
			q.now = now
		}
	}
}
