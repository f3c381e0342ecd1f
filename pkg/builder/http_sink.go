package builder

import (
	"net/http"

	"github.com/joeydtaylor/flexlog/pkg/internal/adapter/httpclient"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

type (
	HTTPSink        = httpclient.HTTPClientAdapter
	HTTPSinkConfig  = types.HTTPSinkConfig
	HTTPStatusError = httpclient.StatusError
)

// NewHTTPSink creates a webhook sink that POSTs each batch.
func NewHTTPSink(options ...types.Option[*HTTPSink]) *HTTPSink {
	return httpclient.NewHTTPClientAdapter(options...)
}

func HTTPSinkWithConfig(cfg HTTPSinkConfig) types.Option[*HTTPSink] {
	return httpclient.WithConfig(cfg)
}

// HTTPSinkWithHTTPClient injects a client. TLS settings in the config are then ignored.
func HTTPSinkWithHTTPClient(c *http.Client) types.Option[*HTTPSink] {
	return httpclient.WithHTTPClient(c)
}

func HTTPSinkWithLogger(l ...types.Logger) types.Option[*HTTPSink] {
	return httpclient.WithLogger(l...)
}

func HTTPSinkWithSensor(s ...types.Sensor) types.Option[*HTTPSink] {
	return httpclient.WithSensor(s...)
}

func HTTPSinkWithComponentMetadata(name string, id string) types.Option[*HTTPSink] {
	return httpclient.WithComponentMetadata(name, id)
}
