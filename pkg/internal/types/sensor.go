package types

import "time"

// Lifecycle phases reported through OnLifecycleError.
const (
	PhaseInitialize = "Initialize"
	PhaseDispose    = "Dispose"
)

// Sensor receives telemetry callbacks from pipeline components.
type Sensor interface {
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
	ConnectLogger(...Logger)
	ConnectMeter(...Meter)

	InvokeOnStart(c ComponentMetadata)
	InvokeOnStop(c ComponentMetadata)
	InvokeOnEnqueue(c ComponentMetadata, r *LogRecord)
	InvokeOnQueueDrop(c ComponentMetadata, r *LogRecord)
	InvokeOnFlush(c ComponentMetadata, size int)
	InvokeOnRedaction(c ComponentMetadata, valid bool)
	InvokeOnSinkWriteSuccess(c ComponentMetadata, sink string, size int, elapsed time.Duration)
	InvokeOnSinkWriteError(c ComponentMetadata, sink string, size int, err error)
	InvokeOnFallback(c ComponentMetadata, size int)
	InvokeOnDeliveryFailure(c ComponentMetadata, size int, err error)
	InvokeOnLifecycleError(c ComponentMetadata, sink string, phase string, err error)
}
