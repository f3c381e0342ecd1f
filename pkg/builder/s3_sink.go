package builder

import (
	"github.com/joeydtaylor/flexlog/pkg/internal/adapter/s3client"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

type (
	S3Sink       = s3client.S3Client
	S3SinkConfig = types.S3SinkConfig
	S3ObjectAPI  = types.S3ObjectAPI
)

// NewS3Sink creates a sink that uploads each batch as one object.
func NewS3Sink(options ...types.Option[*S3Sink]) *S3Sink {
	return s3client.NewS3ClientAdapter(options...)
}

func S3SinkWithConfig(cfg S3SinkConfig) types.Option[*S3Sink] {
	return s3client.WithConfig(cfg)
}

// S3SinkWithClient injects the object API, usually an *s3.Client.
func S3SinkWithClient(cli S3ObjectAPI) types.Option[*S3Sink] {
	return s3client.WithClient(cli)
}

func S3SinkWithLogger(l ...types.Logger) types.Option[*S3Sink] {
	return s3client.WithLogger(l...)
}

func S3SinkWithSensor(s ...types.Sensor) types.Option[*S3Sink] {
	return s3client.WithSensor(s...)
}

func S3SinkWithComponentMetadata(name string, id string) types.Option[*S3Sink] {
	return s3client.WithComponentMetadata(name, id)
}
