package codec

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	parquet "github.com/parquet-go/parquet-go"
)

// RecordRow is the flat Parquet shape of a LogRecord. Nested parts are kept
// as JSON text so the schema stays stable as capture options change.
type RecordRow struct {
	ID                  string  `parquet:"id"`
	TraceID             string  `parquet:"trace_id"`
	TimestampMillis     int64   `parquet:"timestamp_ms"`
	ElapsedMilliseconds float64 `parquet:"elapsed_ms"`
	Protocol            string  `parquet:"protocol"`
	Endpoint            string  `parquet:"endpoint"`
	QueryString         string  `parquet:"query_string"`
	ResponseStatusCode  int32   `parquet:"response_status_code"`
	Claims              string  `parquet:"claims_json"`
	Headers             string  `parquet:"headers_json"`
	RequestBody         string  `parquet:"request_body"`
	ResponseBody        string  `parquet:"response_body"`
	EntryCount          int32   `parquet:"entry_count"`
	HighestLevel        string  `parquet:"highest_level"`
	Entries             string  `parquet:"entries_json"`
}

// RowFromRecord flattens r. Bodies use their rendered (redacted) text.
func RowFromRecord(r *types.LogRecord) (RecordRow, error) {
	row := RecordRow{
		ID:                  r.ID,
		TraceID:             r.TraceID,
		TimestampMillis:     r.Timestamp.UnixMilli(),
		ElapsedMilliseconds: r.ElapsedMilliseconds,
		Protocol:            r.Protocol,
		Endpoint:            r.Endpoint,
		QueryString:         r.QueryString,
		ResponseStatusCode:  int32(r.ResponseStatusCode),
		EntryCount:          int32(len(r.Entries)),
	}
	if r.RequestBody != nil {
		row.RequestBody = r.RequestBody.Rendered
	}
	if r.ResponseBody != nil {
		row.ResponseBody = r.ResponseBody.Rendered
	}

	var err error
	if row.Claims, err = jsonText(r.Claims, len(r.Claims) > 0); err != nil {
		return row, err
	}
	if row.Headers, err = jsonText(r.Headers, len(r.Headers) > 0); err != nil {
		return row, err
	}
	if row.Entries, err = jsonText(r.Entries, len(r.Entries) > 0); err != nil {
		return row, err
	}
	if len(r.Entries) > 0 {
		highest := r.Entries[0].Level
		for _, e := range r.Entries[1:] {
			if e.Level > highest {
				highest = e.Level
			}
		}
		row.HighestLevel = highest.String()
	}
	return row, nil
}

func jsonText(v any, present bool) (string, error) {
	if !present {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParquetEncoder writes one Parquet file per batch.
type ParquetEncoder struct {
	compression parquet.WriterOption
}

// NewParquetEncoder accepts "snappy" (default), "zstd", "gzip" or "none".
func NewParquetEncoder(compression string) *ParquetEncoder {
	return &ParquetEncoder{compression: parquetCompression(compression)}
}

func parquetCompression(name string) parquet.WriterOption {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "zstd":
		return parquet.Compression(&parquet.Zstd)
	case "gzip", "gz":
		return parquet.Compression(&parquet.Gzip)
	case "none", "uncompressed":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		return parquet.Compression(&parquet.Snappy)
	}
}

func (*ParquetEncoder) ContentType() string { return "application/vnd.apache.parquet" }
func (*ParquetEncoder) Extension() string   { return ".parquet" }

func (e *ParquetEncoder) Encode(w io.Writer, batch []*types.LogRecord) error {
	rows := make([]RecordRow, 0, len(batch))
	for _, r := range batch {
		if r == nil {
			continue
		}
		row, err := RowFromRecord(r)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	var buf bytes.Buffer
	pw := parquet.NewGenericWriter[RecordRow](&buf, e.compression)
	if _, err := pw.Write(rows); err != nil {
		return err
	}
	if err := pw.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
