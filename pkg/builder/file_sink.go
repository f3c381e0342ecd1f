package builder

import (
	"io"

	"github.com/joeydtaylor/flexlog/pkg/internal/adapter/filesink"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

type (
	FileSinkAdapter = filesink.FileSink
	FileSinkConfig  = types.FileSinkConfig
)

// NewFileSink creates an NDJSON sink over a file or any io.Writer.
func NewFileSink(options ...types.Option[*FileSinkAdapter]) *FileSinkAdapter {
	return filesink.NewFileSink(options...)
}

func FileSinkWithConfig(cfg FileSinkConfig) types.Option[*FileSinkAdapter] {
	return filesink.WithConfig(cfg)
}

// FileSinkWithWriter directs output to w, e.g. os.Stdout. The sink never closes w.
func FileSinkWithWriter(w io.Writer) types.Option[*FileSinkAdapter] {
	return filesink.WithWriter(w)
}

func FileSinkWithLogger(l ...types.Logger) types.Option[*FileSinkAdapter] {
	return filesink.WithLogger(l...)
}

func FileSinkWithSensor(s ...types.Sensor) types.Option[*FileSinkAdapter] {
	return filesink.WithSensor(s...)
}

func FileSinkWithComponentMetadata(name string, id string) types.Option[*FileSinkAdapter] {
	return filesink.WithComponentMetadata(name, id)
}
