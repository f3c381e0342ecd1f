package sensor

import (
	"sync"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// snapshotCallbacks copies a callback slice so hooks run without the lock held.
func snapshotCallbacks[T any](mu *sync.Mutex, callbacks []T) []T {
	mu.Lock()
	defer mu.Unlock()
	return append([]T(nil), callbacks...)
}

// ---------- Lifecycle ----------

func (s *Sensor) RegisterOnStart(callback ...func(types.ComponentMetadata)) {
	s.callbackLock.Lock()
	s.OnStart = append(s.OnStart, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnStart(c types.ComponentMetadata) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, s.OnStart) {
		if cb != nil {
			cb(c)
		}
	}
}

func (s *Sensor) RegisterOnStop(callback ...func(types.ComponentMetadata)) {
	s.callbackLock.Lock()
	s.OnStop = append(s.OnStop, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnStop(c types.ComponentMetadata) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, s.OnStop) {
		if cb != nil {
			cb(c)
		}
	}
}

func (s *Sensor) RegisterOnLifecycleError(callback ...func(types.ComponentMetadata, string, string, error)) {
	s.callbackLock.Lock()
	s.OnLifecycleError = append(s.OnLifecycleError, callback...)
	s.callbackLock.Unlock()
}

// InvokeOnLifecycleError reports a sink that failed Initialize or Dispose.
func (s *Sensor) InvokeOnLifecycleError(c types.ComponentMetadata, sink string, phase string, err error) {
	s.NotifyLoggers(types.DebugLevel, "Sensor observed lifecycle error",
		"component", s.GetComponentMetadata(),
		"event", "InvokeOnLifecycleError",
		"source", c,
		"sink", sink,
		"phase", phase,
		"error", err,
	)
	for _, cb := range snapshotCallbacks(&s.callbackLock, s.OnLifecycleError) {
		if cb != nil {
			cb(c, sink, phase, err)
		}
	}
}

// ---------- Queue ----------

func (s *Sensor) RegisterOnEnqueue(callback ...func(types.ComponentMetadata, *types.LogRecord)) {
	s.callbackLock.Lock()
	s.OnEnqueue = append(s.OnEnqueue, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnEnqueue(c types.ComponentMetadata, r *types.LogRecord) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, s.OnEnqueue) {
		if cb != nil {
			cb(c, r)
		}
	}
}

func (s *Sensor) RegisterOnQueueDrop(callback ...func(types.ComponentMetadata, *types.LogRecord)) {
	s.callbackLock.Lock()
	s.OnQueueDrop = append(s.OnQueueDrop, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnQueueDrop(c types.ComponentMetadata, r *types.LogRecord) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, s.OnQueueDrop) {
		if cb != nil {
			cb(c, r)
		}
	}
}

// ---------- Scheduler ----------

func (s *Sensor) RegisterOnFlush(callback ...func(types.ComponentMetadata, int)) {
	s.callbackLock.Lock()
	s.OnFlush = append(s.OnFlush, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnFlush(c types.ComponentMetadata, size int) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, s.OnFlush) {
		if cb != nil {
			cb(c, size)
		}
	}
}

func (s *Sensor) RegisterOnRedaction(callback ...func(types.ComponentMetadata, bool)) {
	s.callbackLock.Lock()
	s.OnRedaction = append(s.OnRedaction, callback...)
	s.callbackLock.Unlock()
}

// InvokeOnRedaction fires once per body run through the redactor; valid is
// false when the body was replaced with the invalid-JSON marker.
func (s *Sensor) InvokeOnRedaction(c types.ComponentMetadata, valid bool) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, s.OnRedaction) {
		if cb != nil {
			cb(c, valid)
		}
	}
}

// ---------- Dispatcher ----------

func (s *Sensor) RegisterOnSinkWriteSuccess(callback ...func(types.ComponentMetadata, string, int, time.Duration)) {
	s.callbackLock.Lock()
	s.OnSinkWriteSuccess = append(s.OnSinkWriteSuccess, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnSinkWriteSuccess(c types.ComponentMetadata, sink string, size int, elapsed time.Duration) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, s.OnSinkWriteSuccess) {
		if cb != nil {
			cb(c, sink, size, elapsed)
		}
	}
}

func (s *Sensor) RegisterOnSinkWriteError(callback ...func(types.ComponentMetadata, string, int, error)) {
	s.callbackLock.Lock()
	s.OnSinkWriteError = append(s.OnSinkWriteError, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnSinkWriteError(c types.ComponentMetadata, sink string, size int, err error) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, s.OnSinkWriteError) {
		if cb != nil {
			cb(c, sink, size, err)
		}
	}
}

func (s *Sensor) RegisterOnFallback(callback ...func(types.ComponentMetadata, int)) {
	s.callbackLock.Lock()
	s.OnFallback = append(s.OnFallback, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor) InvokeOnFallback(c types.ComponentMetadata, size int) {
	for _, cb := range snapshotCallbacks(&s.callbackLock, s.OnFallback) {
		if cb != nil {
			cb(c, size)
		}
	}
}

func (s *Sensor) RegisterOnDeliveryFailure(callback ...func(types.ComponentMetadata, int, error)) {
	s.callbackLock.Lock()
	s.OnDeliveryFailure = append(s.OnDeliveryFailure, callback...)
	s.callbackLock.Unlock()
}

// InvokeOnDeliveryFailure fires when a batch reached no sink at all.
func (s *Sensor) InvokeOnDeliveryFailure(c types.ComponentMetadata, size int, err error) {
	s.NotifyLoggers(types.DebugLevel, "Sensor observed delivery failure",
		"component", s.GetComponentMetadata(),
		"event", "InvokeOnDeliveryFailure",
		"source", c,
		"batch_size", size,
		"error", err,
	)
	for _, cb := range snapshotCallbacks(&s.callbackLock, s.OnDeliveryFailure) {
		if cb != nil {
			cb(c, size, err)
		}
	}
}
