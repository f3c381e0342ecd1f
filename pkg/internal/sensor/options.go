package sensor

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// apply registers on the concrete *Sensor; other implementations ignore the option.
func apply(fn func(*Sensor)) types.Option[types.Sensor] {
	return func(ss types.Sensor) {
		if s, ok := ss.(*Sensor); ok {
			fn(s)
		}
	}
}

// WithLogger adds loggers to a Sensor.
func WithLogger(logger ...types.Logger) types.Option[types.Sensor] {
	return func(s types.Sensor) {
		s.ConnectLogger(logger...)
	}
}

// WithMeter wires meters that receive the built-in counter updates.
func WithMeter(meter ...types.Meter) types.Option[types.Sensor] {
	return func(s types.Sensor) {
		s.ConnectMeter(meter...)
	}
}

// WithComponentMetadata sets name and id.
func WithComponentMetadata(name string, id string) types.Option[types.Sensor] {
	return func(s types.Sensor) {
		s.SetComponentMetadata(name, id)
	}
}

func WithOnStartFunc(callback ...func(c types.ComponentMetadata)) types.Option[types.Sensor] {
	return apply(func(s *Sensor) { s.RegisterOnStart(callback...) })
}

func WithOnStopFunc(callback ...func(c types.ComponentMetadata)) types.Option[types.Sensor] {
	return apply(func(s *Sensor) { s.RegisterOnStop(callback...) })
}

func WithOnEnqueueFunc(callback ...func(c types.ComponentMetadata, r *types.LogRecord)) types.Option[types.Sensor] {
	return apply(func(s *Sensor) { s.RegisterOnEnqueue(callback...) })
}

// WithOnQueueDropFunc registers callbacks for records rejected by a full bounded queue.
func WithOnQueueDropFunc(callback ...func(c types.ComponentMetadata, r *types.LogRecord)) types.Option[types.Sensor] {
	return apply(func(s *Sensor) { s.RegisterOnQueueDrop(callback...) })
}

func WithOnFlushFunc(callback ...func(c types.ComponentMetadata, size int)) types.Option[types.Sensor] {
	return apply(func(s *Sensor) { s.RegisterOnFlush(callback...) })
}

func WithOnRedactionFunc(callback ...func(c types.ComponentMetadata, valid bool)) types.Option[types.Sensor] {
	return apply(func(s *Sensor) { s.RegisterOnRedaction(callback...) })
}

func WithOnSinkWriteSuccessFunc(callback ...func(c types.ComponentMetadata, sink string, size int, elapsed time.Duration)) types.Option[types.Sensor] {
	return apply(func(s *Sensor) { s.RegisterOnSinkWriteSuccess(callback...) })
}

func WithOnSinkWriteErrorFunc(callback ...func(c types.ComponentMetadata, sink string, size int, err error)) types.Option[types.Sensor] {
	return apply(func(s *Sensor) { s.RegisterOnSinkWriteError(callback...) })
}

// WithOnFallbackFunc registers callbacks for batches routed to fallback sinks.
func WithOnFallbackFunc(callback ...func(c types.ComponentMetadata, size int)) types.Option[types.Sensor] {
	return apply(func(s *Sensor) { s.RegisterOnFallback(callback...) })
}

func WithOnDeliveryFailureFunc(callback ...func(c types.ComponentMetadata, size int, err error)) types.Option[types.Sensor] {
	return apply(func(s *Sensor) { s.RegisterOnDeliveryFailure(callback...) })
}

func WithOnLifecycleErrorFunc(callback ...func(c types.ComponentMetadata, sink string, phase string, err error)) types.Option[types.Sensor] {
	return apply(func(s *Sensor) { s.RegisterOnLifecycleError(callback...) })
}
