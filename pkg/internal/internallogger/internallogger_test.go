package internallogger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeydtaylor/flexlog/pkg/internal/internallogger"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"github.com/joeydtaylor/flexlog/pkg/logschema"
)

func TestNewLogger_DefaultLevel(t *testing.T) {
	logger := internallogger.NewLogger()
	if got := logger.GetLevel(); got != types.InfoLevel {
		t.Fatalf("expected InfoLevel, got %v", got)
	}
}

func TestNewLogger_WithLevel(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithLevel("debug"))
	if got := logger.GetLevel(); got != types.DebugLevel {
		t.Fatalf("expected DebugLevel, got %v", got)
	}

	logger = internallogger.NewLogger(internallogger.LoggerWithLevel("unknown"))
	if got := logger.GetLevel(); got != types.InfoLevel {
		t.Fatalf("expected InfoLevel on unknown level, got %v", got)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	logger := internallogger.NewLogger()
	logger.SetLevel(types.ErrorLevel)
	if got := logger.GetLevel(); got != types.ErrorLevel {
		t.Fatalf("expected ErrorLevel, got %v", got)
	}
}

func TestLogger_WritesSchemaAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := internallogger.NewLogger(internallogger.LoggerWithOutput(&buf))

	meta := types.ComponentMetadata{ID: "p-1", Type: "PIPELINE", Name: "orders"}
	logger.Info("flush", "component", meta, "event", "Flush", "error", errors.New("boom"))
	if err := logger.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}

	var line map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line[logschema.FieldSchema] != logschema.SchemaID {
		t.Fatalf("expected schema %q, got %v", logschema.SchemaID, line[logschema.FieldSchema])
	}
	comp, ok := line["component"].(map[string]interface{})
	if !ok || comp["type"] != "PIPELINE" || comp["name"] != "orders" {
		t.Fatalf("unexpected component field: %v", line["component"])
	}
	if line["error"] != "boom" {
		t.Fatalf("expected error field, got %v", line["error"])
	}
}

func TestLogger_AddRemoveListSinks(t *testing.T) {
	var buf bytes.Buffer
	logger := internallogger.NewLogger(internallogger.LoggerWithLevel("debug"), internallogger.LoggerWithOutput(&buf))

	path := filepath.Join(t.TempDir(), "nested", "app.log")
	if err := logger.AddSink("file", types.SinkConfig{Type: "file", Config: map[string]interface{}{"path": path}}); err != nil {
		t.Fatalf("AddSink(file) error: %v", err)
	}
	if err := logger.AddSink("stdout", types.SinkConfig{Type: "stdout"}); err != nil {
		t.Fatalf("AddSink(stdout) error: %v", err)
	}
	if err := logger.AddSink("file", types.SinkConfig{Type: "stdout"}); err == nil {
		t.Fatalf("expected duplicate identifier to fail")
	}

	sinks, err := logger.ListSinks()
	if err != nil {
		t.Fatalf("ListSinks error: %v", err)
	}
	if len(sinks) != 2 || sinks[0] != "file" || sinks[1] != "stdout" {
		t.Fatalf("unexpected sinks %v", sinks)
	}

	if err := logger.RemoveSink("stdout"); err != nil {
		t.Fatalf("RemoveSink error: %v", err)
	}
	logger.Debug("to file")
	_ = logger.Flush()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Fatalf("expected message in file sink, got %q", data)
	}
	if err := logger.RemoveSink("missing"); err == nil {
		t.Fatalf("expected error removing missing sink")
	}
}

func TestLogger_AddSinkInvalidConfig(t *testing.T) {
	logger := internallogger.NewLogger()

	if err := logger.AddSink("file", types.SinkConfig{Type: "file", Config: map[string]interface{}{}}); err == nil {
		t.Fatalf("expected error for missing file path")
	}
	if err := logger.AddSink("network", types.SinkConfig{Type: "network"}); err == nil {
		t.Fatalf("expected error for unsupported sink type")
	}
}

func TestLogger_OptionsCoverage(t *testing.T) {
	var buf bytes.Buffer
	logger := internallogger.NewLogger(
		internallogger.LoggerWithOutput(&buf),
		internallogger.LoggerWithDevelopment(true),
		internallogger.ZapAdapterWithCallerSkip(1),
		internallogger.LoggerWithFields(map[string]interface{}{"service": "orders", "": "skipped"}),
		internallogger.LoggerWithSchema("custom.v2"),
		internallogger.LoggerWithoutCaller(),
	)
	logger.Info("options")
	_ = logger.Flush()

	out := buf.String()
	if !strings.Contains(out, `"service":"orders"`) || !strings.Contains(out, `"log_schema":"custom.v2"`) {
		t.Fatalf("expected custom fields in %q", out)
	}
	if strings.Contains(out, `"caller"`) {
		t.Fatalf("caller should be disabled: %q", out)
	}
}
