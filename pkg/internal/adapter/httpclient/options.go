package httpclient

import (
	"net/http"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

func WithConfig(cfg types.HTTPSinkConfig) types.Option[*HTTPClientAdapter] {
	return func(hp *HTTPClientAdapter) { hp.SetConfig(cfg) }
}

func WithHTTPClient(c *http.Client) types.Option[*HTTPClientAdapter] {
	return func(hp *HTTPClientAdapter) { hp.SetHTTPClient(c) }
}

func WithLogger(loggers ...types.Logger) types.Option[*HTTPClientAdapter] {
	return func(hp *HTTPClientAdapter) { hp.ConnectLogger(loggers...) }
}

func WithSensor(sensors ...types.Sensor) types.Option[*HTTPClientAdapter] {
	return func(hp *HTTPClientAdapter) { hp.ConnectSensor(sensors...) }
}

func WithComponentMetadata(name string, id string) types.Option[*HTTPClientAdapter] {
	return func(hp *HTTPClientAdapter) { hp.SetComponentMetadata(name, id) }
}

func withBaseBackoff(d time.Duration) types.Option[*HTTPClientAdapter] {
	return func(hp *HTTPClientAdapter) {
		if d > 0 {
			hp.baseBackoff = d
		}
	}
}
