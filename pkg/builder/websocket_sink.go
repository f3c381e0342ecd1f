package builder

import (
	"github.com/joeydtaylor/flexlog/pkg/internal/adapter/websocketclient"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

type (
	WebSocketSink       = websocketclient.WebSocketClientAdapter
	WebSocketSinkConfig = types.WebSocketSinkConfig
)

// NewWebSocketSink creates a sink that streams one message per batch.
func NewWebSocketSink(options ...types.Option[*WebSocketSink]) *WebSocketSink {
	return websocketclient.NewWebSocketClientAdapter(options...)
}

func WebSocketSinkWithConfig(cfg WebSocketSinkConfig) types.Option[*WebSocketSink] {
	return websocketclient.WithConfig(cfg)
}

func WebSocketSinkWithLogger(l ...types.Logger) types.Option[*WebSocketSink] {
	return websocketclient.WithLogger(l...)
}

func WebSocketSinkWithSensor(s ...types.Sensor) types.Option[*WebSocketSink] {
	return websocketclient.WithSensor(s...)
}

func WebSocketSinkWithComponentMetadata(name string, id string) types.Option[*WebSocketSink] {
	return websocketclient.WithComponentMetadata(name, id)
}
