package codec_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/joeydtaylor/flexlog/pkg/internal/codec"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	parquet "github.com/parquet-go/parquet-go"
)

func sampleBatch() []*types.LogRecord {
	a := types.NewLogRecord()
	a.Endpoint = "POST /orders"
	a.ResponseStatusCode = 201
	a.Headers.Set("Content-Type", "application/json")
	a.RequestBody = types.NewBodyCapture("application/json", []byte(`{}`), 2, false)
	a.RequestBody.Rendered = `{"card":"REDACTED"}`
	a.AddEntry(types.LogEntry{Level: types.EntryInformation, Message: "created"})
	a.AddEntry(types.LogEntry{Level: types.EntryWarning, Message: "slow", Err: errors.New("db latency")})

	b := types.NewLogRecord()
	b.Endpoint = "GET /health"
	return []*types.LogRecord{a, nil, b}
}

func TestNDJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := (codec.NDJSONEncoder{}).Encode(&buf, sampleBatch()); err != nil {
		t.Fatalf("encode: %v", err)
	}

	sc := bufio.NewScanner(&buf)
	var lines []map[string]any
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("line is not JSON: %v", err)
		}
		lines = append(lines, m)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines (nil skipped), got %d", len(lines))
	}
	if lines[0]["endpoint"] != "POST /orders" {
		t.Fatalf("unexpected endpoint %v", lines[0]["endpoint"])
	}
	body := lines[0]["requestBody"].(map[string]any)
	if body["body"] != `{"card":"REDACTED"}` {
		t.Fatalf("expected rendered body, got %v", body["body"])
	}
	if _, ok := body["Raw"]; ok {
		t.Fatalf("raw body must not be serialised")
	}
}

func TestJSONArrayEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := (codec.JSONArrayEncoder{}).Encode(&buf, sampleBatch()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var arr []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &arr); err != nil {
		t.Fatalf("not a JSON array: %v", err)
	}
	if len(arr) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(arr))
	}
}

func TestNewBatchEncoder(t *testing.T) {
	cases := map[string]string{
		"":        ".ndjson",
		"NDJSON":  ".ndjson",
		"json":    ".json",
		"parquet": ".parquet",
	}
	for format, ext := range cases {
		enc, err := codec.NewBatchEncoder(format, "")
		if err != nil {
			t.Fatalf("%q: %v", format, err)
		}
		if enc.Extension() != ext {
			t.Fatalf("%q: extension %q, want %q", format, enc.Extension(), ext)
		}
	}
	if _, err := codec.NewBatchEncoder("avro", ""); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestCompressionRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte(`{"endpoint":"GET /","elapsedMilliseconds":1.5}`+"\n"), 200)
	for _, name := range []string{"none", "gzip", "zstd", "snappy", "brotli", "lz4"} {
		c, err := codec.ParseCompression(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		packed, err := codec.Compress(payload, c)
		if err != nil {
			t.Fatalf("%s compress: %v", name, err)
		}
		if c != codec.CompressNone && len(packed) >= len(payload) {
			t.Fatalf("%s did not shrink a repetitive payload", name)
		}
		unpacked, err := codec.Decompress(packed, c)
		if err != nil {
			t.Fatalf("%s decompress: %v", name, err)
		}
		if !bytes.Equal(unpacked, payload) {
			t.Fatalf("%s round trip mismatch", name)
		}
	}
	if _, err := codec.ParseCompression("xz"); err == nil {
		t.Fatalf("expected error for unknown compression")
	}
}

func TestCompressionTokens(t *testing.T) {
	if codec.CompressGzip.ContentEncoding() != "gzip" || codec.CompressGzip.Extension() != ".gz" {
		t.Fatalf("unexpected gzip tokens")
	}
	if codec.CompressNone.ContentEncoding() != "" || codec.CompressNone.Extension() != "" {
		t.Fatalf("none must have empty tokens")
	}
}

func TestParquetEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := codec.NewParquetEncoder("zstd")
	if err := enc.Encode(&buf, sampleBatch()); err != nil {
		t.Fatalf("encode: %v", err)
	}

	rows, err := parquet.Read[codec.RecordRow](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Endpoint != "POST /orders" || rows[0].ResponseStatusCode != 201 {
		t.Fatalf("unexpected row %+v", rows[0])
	}
	if rows[0].EntryCount != 2 || rows[0].HighestLevel != "Warning" {
		t.Fatalf("unexpected entry summary %d/%s", rows[0].EntryCount, rows[0].HighestLevel)
	}
	if rows[0].Headers != `{"Content-Type":"application/json"}` {
		t.Fatalf("unexpected headers json %s", rows[0].Headers)
	}
	if rows[1].Entries != "" {
		t.Fatalf("expected empty entries json for a record without entries")
	}
}

func TestAESGCMRoundTrip(t *testing.T) {
	key, err := codec.ParseAESKey("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	if err != nil {
		t.Fatalf("parse key: %v", err)
	}
	sealed, err := codec.SealAESGCM([]byte("secret batch"), key)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	plain, err := codec.OpenAESGCM(sealed, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if string(plain) != "secret batch" {
		t.Fatalf("unexpected plaintext %q", plain)
	}
	if _, err := codec.ParseAESKey("short"); err == nil {
		t.Fatalf("expected invalid key length error")
	}
}
