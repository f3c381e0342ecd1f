// Package sensor fans pipeline telemetry out to user callbacks and meters.
//
// A sensor is attached to the ingest queue, the dispatcher and the pipeline.
// Every Invoke method is safe to call from any goroutine; callbacks run on the
// caller's goroutine and must not block for long.
package sensor

import (
	"sync"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

// Sensor provides callback hooks for pipeline telemetry.
type Sensor struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	OnStart            []func(types.ComponentMetadata)
	OnStop             []func(types.ComponentMetadata)
	OnEnqueue          []func(types.ComponentMetadata, *types.LogRecord)
	OnQueueDrop        []func(types.ComponentMetadata, *types.LogRecord)
	OnFlush            []func(types.ComponentMetadata, int)
	OnRedaction        []func(types.ComponentMetadata, bool)
	OnSinkWriteSuccess []func(types.ComponentMetadata, string, int, time.Duration)
	OnSinkWriteError   []func(types.ComponentMetadata, string, int, error)
	OnFallback         []func(types.ComponentMetadata, int)
	OnDeliveryFailure  []func(types.ComponentMetadata, int, error)
	OnLifecycleError   []func(types.ComponentMetadata, string, string, error)

	callbackLock sync.Mutex
	loggers      []types.Logger
	loggersLock  sync.Mutex
	meters       []types.Meter
	metersLock   sync.Mutex
}

// NewSensor constructs a Sensor with optional configuration. Meter counters
// are always wired ahead of user callbacks.
func NewSensor(options ...types.Option[types.Sensor]) types.Sensor {
	s := &Sensor{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "SENSOR",
		},
	}

	for _, opt := range s.decorateCallbacks(options...) {
		if opt == nil {
			continue
		}
		opt(s)
	}

	return s
}
