package dispatcher

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// WithWriteTimeout bounds each sink's WriteBatch call. Zero disables the deadline.
func WithWriteTimeout(d time.Duration) types.Option[*Dispatcher] {
	return func(dp *Dispatcher) {
		dp.SetWriteTimeout(d)
	}
}

func WithLogger(loggers ...types.Logger) types.Option[*Dispatcher] {
	return func(dp *Dispatcher) {
		dp.ConnectLogger(loggers...)
	}
}

func WithSensor(sensors ...types.Sensor) types.Option[*Dispatcher] {
	return func(dp *Dispatcher) {
		dp.ConnectSensor(sensors...)
	}
}

func WithComponentMetadata(name string, id string) types.Option[*Dispatcher] {
	return func(dp *Dispatcher) {
		dp.SetComponentMetadata(name, id)
	}
}
