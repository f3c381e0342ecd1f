// Package circuitbreaker guards a sink so that a destination which keeps
// failing is skipped for a cool-down period instead of being retried on every
// flush. While the breaker is open WriteBatch fails fast with ErrOpen, which
// lets the dispatcher move straight to its fallback sinks.
package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/internal/utils"
)

// ErrOpen is returned by WriteBatch while the breaker is open.
var ErrOpen = errors.New("circuitbreaker: circuit open")

// CircuitBreaker wraps a types.Sink and trips after errorThreshold
// consecutive write failures. It closes again once cooldown has elapsed.
type CircuitBreaker struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	inner          types.Sink
	errorThreshold int
	cooldown       time.Duration
	debounce       time.Duration
	now            func() time.Time

	stateLock     sync.Mutex
	allowed       bool
	errorCount    int
	lastErrorTime time.Time
	lastTripped   time.Time

	loggers     []types.Logger
	loggersLock sync.Mutex
	sensors     []types.Sensor
	sensorLock  sync.Mutex
}

// NewCircuitBreaker guards inner. A threshold below one is treated as one.
func NewCircuitBreaker(inner types.Sink, errorThreshold int, cooldown time.Duration, options ...types.Option[*CircuitBreaker]) *CircuitBreaker {
	if errorThreshold < 1 {
		errorThreshold = 1
	}
	cb := &CircuitBreaker{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "CIRCUIT_BREAKER",
		},
		inner:          inner,
		errorThreshold: errorThreshold,
		cooldown:       cooldown,
		now:            time.Now,
		allowed:        true,
		loggers:        make([]types.Logger, 0),
		sensors:        make([]types.Sensor, 0),
	}
	for _, opt := range options {
		if opt != nil {
			opt(cb)
		}
	}
	return cb
}

// Name reports the guarded sink's name so diagnostics stay attributable.
func (cb *CircuitBreaker) Name() string { return types.SinkName(cb.inner) }

// Inner returns the guarded sink.
func (cb *CircuitBreaker) Inner() types.Sink { return cb.inner }

func (cb *CircuitBreaker) Initialize(ctx context.Context) error {
	if cb.inner == nil {
		return fmt.Errorf("circuitbreaker: no sink to guard")
	}
	return cb.inner.Initialize(ctx)
}

func (cb *CircuitBreaker) WriteBatch(ctx context.Context, batch []*types.LogRecord) error {
	if cb.inner == nil {
		return fmt.Errorf("circuitbreaker: no sink to guard")
	}
	if !cb.Allow() {
		err := fmt.Errorf("%s: %w", cb.Name(), ErrOpen)
		meta := cb.GetComponentMetadata()
		for _, s := range cb.snapshotSensors() {
			s.InvokeOnSinkWriteError(meta, cb.Name(), len(batch), err)
		}
		cb.NotifyLoggers(types.DebugLevel, "Circuit open, batch rejected",
			"component", meta,
			"event", "WriteBatch",
			"result", "REJECTED",
			"records", len(batch),
		)
		return err
	}
	if err := cb.inner.WriteBatch(ctx, batch); err != nil {
		cb.RecordError()
		return err
	}
	cb.RecordSuccess()
	return nil
}

func (cb *CircuitBreaker) Dispose(ctx context.Context) error {
	if cb.inner == nil {
		return nil
	}
	return cb.inner.Dispose(ctx)
}
