package builder

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/sensor"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// NewSensor creates a telemetry sensor. Attached meters are fed before any callback.
func NewSensor(options ...types.Option[types.Sensor]) types.Sensor {
	return sensor.NewSensor(options...)
}

// SensorWithLogger adds a logger to the Sensor.
func SensorWithLogger(logger ...types.Logger) types.Option[types.Sensor] {
	return sensor.WithLogger(logger...)
}

// SensorWithMeter connects meters that count every event.
func SensorWithMeter(meter ...types.Meter) types.Option[types.Sensor] {
	return sensor.WithMeter(meter...)
}

// SensorWithComponentMetadata adds component metadata overrides.
func SensorWithComponentMetadata(name string, id string) types.Option[types.Sensor] {
	return sensor.WithComponentMetadata(name, id)
}

// SensorWithOnStartFunc registers a callback for the OnStart event.
func SensorWithOnStartFunc(callback ...func(c ComponentMetadata)) types.Option[types.Sensor] {
	return sensor.WithOnStartFunc(callback...)
}

// SensorWithOnStopFunc registers a callback for the OnStop event.
func SensorWithOnStopFunc(callback ...func(c ComponentMetadata)) types.Option[types.Sensor] {
	return sensor.WithOnStopFunc(callback...)
}

// SensorWithOnEnqueueFunc registers a callback for accepted records.
func SensorWithOnEnqueueFunc(callback ...func(c ComponentMetadata, r *LogRecord)) types.Option[types.Sensor] {
	return sensor.WithOnEnqueueFunc(callback...)
}

// SensorWithOnQueueDropFunc registers a callback for records dropped by a bounded queue.
func SensorWithOnQueueDropFunc(callback ...func(c ComponentMetadata, r *LogRecord)) types.Option[types.Sensor] {
	return sensor.WithOnQueueDropFunc(callback...)
}

// SensorWithOnFlushFunc registers a callback for every flushed batch.
func SensorWithOnFlushFunc(callback ...func(c ComponentMetadata, size int)) types.Option[types.Sensor] {
	return sensor.WithOnFlushFunc(callback...)
}

// SensorWithOnRedactionFunc registers a callback for every rendered body.
func SensorWithOnRedactionFunc(callback ...func(c ComponentMetadata, valid bool)) types.Option[types.Sensor] {
	return sensor.WithOnRedactionFunc(callback...)
}

// SensorWithOnSinkWriteSuccessFunc registers a callback for successful sink writes.
func SensorWithOnSinkWriteSuccessFunc(callback ...func(c ComponentMetadata, sink string, size int, elapsed time.Duration)) types.Option[types.Sensor] {
	return sensor.WithOnSinkWriteSuccessFunc(callback...)
}

// SensorWithOnSinkWriteErrorFunc registers a callback for failed sink writes.
func SensorWithOnSinkWriteErrorFunc(callback ...func(c ComponentMetadata, sink string, size int, err error)) types.Option[types.Sensor] {
	return sensor.WithOnSinkWriteErrorFunc(callback...)
}

// SensorWithOnFallbackFunc registers a callback for batches routed to fallback sinks.
func SensorWithOnFallbackFunc(callback ...func(c ComponentMetadata, size int)) types.Option[types.Sensor] {
	return sensor.WithOnFallbackFunc(callback...)
}

// SensorWithOnDeliveryFailureFunc registers a callback for batches no sink accepted.
func SensorWithOnDeliveryFailureFunc(callback ...func(c ComponentMetadata, size int, err error)) types.Option[types.Sensor] {
	return sensor.WithOnDeliveryFailureFunc(callback...)
}

// SensorWithOnLifecycleErrorFunc registers a callback for Initialize and Dispose failures.
func SensorWithOnLifecycleErrorFunc(callback ...func(c ComponentMetadata, sink string, phase string, err error)) types.Option[types.Sensor] {
	return sensor.WithOnLifecycleErrorFunc(callback...)
}
