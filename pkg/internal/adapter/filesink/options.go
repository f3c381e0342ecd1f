package filesink

import (
	"io"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

func WithConfig(cfg types.FileSinkConfig) types.Option[*FileSink] {
	return func(f *FileSink) { f.SetConfig(cfg) }
}

func WithWriter(w io.Writer) types.Option[*FileSink] {
	return func(f *FileSink) { f.SetWriter(w) }
}

func WithLogger(loggers ...types.Logger) types.Option[*FileSink] {
	return func(f *FileSink) { f.ConnectLogger(loggers...) }
}

func WithSensor(sensors ...types.Sensor) types.Option[*FileSink] {
	return func(f *FileSink) { f.ConnectSensor(sensors...) }
}

func WithComponentMetadata(name string, id string) types.Option[*FileSink] {
	return func(f *FileSink) { f.SetComponentMetadata(name, id) }
}
