package builder

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/circuitbreaker"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

type CircuitBreaker = circuitbreaker.CircuitBreaker

// ErrCircuitOpen is returned by a guarded sink while its breaker is open.
var ErrCircuitOpen = circuitbreaker.ErrOpen

// NewCircuitBreakerSink guards sink so that after errorThreshold consecutive
// failures it is skipped for cooldown and batches go straight to fallbacks.
func NewCircuitBreakerSink(sink Sink, errorThreshold int, cooldown time.Duration, options ...types.Option[*CircuitBreaker]) *CircuitBreaker {
	return circuitbreaker.NewCircuitBreaker(sink, errorThreshold, cooldown, options...)
}

func CircuitBreakerWithLogger(l ...types.Logger) types.Option[*CircuitBreaker] {
	return circuitbreaker.WithLogger(l...)
}

func CircuitBreakerWithSensor(s ...types.Sensor) types.Option[*CircuitBreaker] {
	return circuitbreaker.WithSensor(s...)
}

func CircuitBreakerWithDebounce(d time.Duration) types.Option[*CircuitBreaker] {
	return circuitbreaker.WithDebounce(d)
}

func CircuitBreakerWithComponentMetadata(name string, id string) types.Option[*CircuitBreaker] {
	return circuitbreaker.WithComponentMetadata(name, id)
}
