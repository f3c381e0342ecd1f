package s3client

import (
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

func WithConfig(cfg types.S3SinkConfig) types.Option[*S3Client] {
	return func(a *S3Client) { a.SetConfig(cfg) }
}

func WithClient(cli types.S3ObjectAPI) types.Option[*S3Client] {
	return func(a *S3Client) { a.SetClient(cli) }
}

func WithLogger(loggers ...types.Logger) types.Option[*S3Client] {
	return func(a *S3Client) { a.ConnectLogger(loggers...) }
}

func WithSensor(sensors ...types.Sensor) types.Option[*S3Client] {
	return func(a *S3Client) { a.ConnectSensor(sensors...) }
}

func WithComponentMetadata(name string, id string) types.Option[*S3Client] {
	return func(a *S3Client) { a.SetComponentMetadata(name, id) }
}

func withClock(now func() time.Time) types.Option[*S3Client] {
	return func(a *S3Client) {
		if now != nil {
			a.now = now
		}
	}
}
