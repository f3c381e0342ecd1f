// Package codec turns batches of log records into wire payloads: NDJSON,
// JSON arrays or Parquet files, optionally compressed or sealed with AES-GCM.
package codec

import (
	"fmt"
	"io"
	"strings"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

const (
	FormatNDJSON  = "ndjson"
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

// BatchEncoder writes a whole batch as one payload.
type BatchEncoder interface {
	Encode(w io.Writer, batch []*types.LogRecord) error
	ContentType() string
	Extension() string
}

// NewBatchEncoder resolves a format name. An empty name means NDJSON.
// parquetCompression is only consulted for FormatParquet.
func NewBatchEncoder(format string, parquetCompression string) (BatchEncoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatNDJSON:
		return NDJSONEncoder{}, nil
	case FormatJSON:
		return JSONArrayEncoder{}, nil
	case FormatParquet:
		return NewParquetEncoder(parquetCompression), nil
	default:
		return nil, fmt.Errorf("codec: unsupported format %q", format)
	}
}
