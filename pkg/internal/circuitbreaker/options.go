package circuitbreaker

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// WithLogger attaches loggers to the breaker.
func WithLogger(loggers ...types.Logger) types.Option[*CircuitBreaker] {
	return func(cb *CircuitBreaker) { cb.ConnectLogger(loggers...) }
}

// WithSensor attaches sensors; rejected batches are reported as sink write errors.
func WithSensor(sensors ...types.Sensor) types.Option[*CircuitBreaker] {
	return func(cb *CircuitBreaker) { cb.ConnectSensor(sensors...) }
}

// WithDebounce collapses failures that arrive within d of each other.
func WithDebounce(d time.Duration) types.Option[*CircuitBreaker] {
	return func(cb *CircuitBreaker) { cb.debounce = d }
}

func WithComponentMetadata(name string, id string) types.Option[*CircuitBreaker] {
	return func(cb *CircuitBreaker) { cb.SetComponentMetadata(name, id) }
}

func withClock(now func() time.Time) types.Option[*CircuitBreaker] {
	return func(cb *CircuitBreaker) { cb.now = now }
}
