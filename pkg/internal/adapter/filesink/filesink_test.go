package filesink_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/adapter/filesink"
	"github.com/joeydtaylor/flexlog/pkg/internal/sensor"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
)

func batchOf(n int) []*types.LogRecord {
	out := make([]*types.LogRecord, n)
	for i := range out {
		out[i] = types.NewLogRecord()
	}
	return out
}

func countLines(t *testing.T, data []byte) int {
	t.Helper()
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var doc map[string]any
		if err := json.Unmarshal(sc.Bytes(), &doc); err != nil {
			t.Fatalf("line %d is not JSON: %v", n, err)
		}
		n++
	}
	return n
}

func TestAppendsToFileAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "records.ndjson")
	ctx := context.Background()

	for round := 0; round < 2; round++ {
		f := filesink.NewFileSink(filesink.WithConfig(types.FileSinkConfig{Path: path, SyncEveryBatch: true}))
		if err := f.Initialize(ctx); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		if err := f.WriteBatch(ctx, batchOf(3)); err != nil {
			t.Fatalf("WriteBatch: %v", err)
		}
		if err := f.Dispose(ctx); err != nil {
			t.Fatalf("Dispose: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if n := countLines(t, data); n != 6 {
		t.Fatalf("expected 6 lines, got %d", n)
	}
}

func TestInjectedWriter(t *testing.T) {
	var buf bytes.Buffer
	var reported []string
	s := sensor.NewSensor(sensor.WithOnSinkWriteSuccessFunc(func(_ types.ComponentMetadata, sink string, size int, _ time.Duration) {
		reported = append(reported, sink)
	}))
	f := filesink.NewFileSink(
		filesink.WithWriter(&buf),
		filesink.WithComponentMetadata("stdout", "fs-1"),
		filesink.WithSensor(s),
	)
	ctx := context.Background()
	if err := f.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := f.WriteBatch(ctx, batchOf(2)); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if n := countLines(t, buf.Bytes()); n != 2 {
		t.Fatalf("expected 2 lines, got %d", n)
	}
	if err := f.Dispose(ctx); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if err := f.WriteBatch(ctx, batchOf(1)); err != nil {
		t.Fatalf("injected writer must survive Dispose: %v", err)
	}
	if len(reported) != 2 || reported[0] != "stdout" {
		t.Fatalf("unexpected sensor reports %v", reported)
	}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteErrorsSurface(t *testing.T) {
	f := filesink.NewFileSink(filesink.WithWriter(brokenWriter{}))
	if err := f.WriteBatch(context.Background(), batchOf(1)); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestNoDestination(t *testing.T) {
	f := filesink.NewFileSink()
	if err := f.Initialize(context.Background()); !errors.Is(err, filesink.ErrNoDestination) {
		t.Fatalf("expected ErrNoDestination, got %v", err)
	}
	if err := f.WriteBatch(context.Background(), batchOf(1)); !errors.Is(err, filesink.ErrNoDestination) {
		t.Fatalf("expected ErrNoDestination, got %v", err)
	}
}
