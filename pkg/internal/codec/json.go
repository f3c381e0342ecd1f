package codec

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

// NDJSONEncoder writes one JSON object per line.
type NDJSONEncoder struct{}

func (NDJSONEncoder) ContentType() string { return "application/x-ndjson" }
func (NDJSONEncoder) Extension() string   { return ".ndjson" }

func (NDJSONEncoder) Encode(w io.Writer, batch []*types.LogRecord) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, r := range batch {
		if r == nil {
			continue
		}
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// JSONArrayEncoder writes the batch as a single JSON array.
type JSONArrayEncoder struct{}

func (JSONArrayEncoder) ContentType() string { return "application/json" }
func (JSONArrayEncoder) Extension() string   { return ".json" }

func (JSONArrayEncoder) Encode(w io.Writer, batch []*types.LogRecord) error {
	out := make([]*types.LogRecord, 0, len(batch))
	for _, r := range batch {
		if r != nil {
			out = append(out, r)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// MarshalRecord is the single-record JSON form used by message-per-record sinks.
func MarshalRecord(r *types.LogRecord) ([]byte, error) {
	return json.Marshal(r)
}
