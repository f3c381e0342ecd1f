package websocketclient

import "github.com/joeydtaylor/flexlog/pkg/internal/types"

func WithConfig(cfg types.WebSocketSinkConfig) types.Option[*WebSocketClientAdapter] {
	return func(c *WebSocketClientAdapter) { c.SetConfig(cfg) }
}

func WithLogger(loggers ...types.Logger) types.Option[*WebSocketClientAdapter] {
	return func(c *WebSocketClientAdapter) { c.ConnectLogger(loggers...) }
}

func WithSensor(sensors ...types.Sensor) types.Option[*WebSocketClientAdapter] {
	return func(c *WebSocketClientAdapter) { c.ConnectSensor(sensors...) }
}

func WithComponentMetadata(name string, id string) types.Option[*WebSocketClientAdapter] {
	return func(c *WebSocketClientAdapter) { c.SetComponentMetadata(name, id) }
}
