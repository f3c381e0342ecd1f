package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/internal/codec"
	"github.com/joeydtaylor/flexlog/pkg/internal/internallogger"
	"github.com/joeydtaylor/flexlog/pkg/internal/types"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func batchOf(n int) []*types.LogRecord {
	out := make([]*types.LogRecord, n)
	for i := range out {
		out[i] = types.NewLogRecord()
	}
	return out
}

func newSink(t *testing.T, cfg types.HTTPSinkConfig, opts ...types.Option[*HTTPClientAdapter]) *HTTPClientAdapter {
	t.Helper()
	opts = append([]types.Option[*HTTPClientAdapter]{WithConfig(cfg), withBaseBackoff(time.Millisecond)}, opts...)
	hp := NewHTTPClientAdapter(opts...)
	if err := hp.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = hp.Dispose(context.Background()) })
	return hp
}

func TestPostsJSONArrayWithHeaders(t *testing.T) {
	var got []map[string]any
	var hdr http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr = r.Header.Clone()
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	hp := newSink(t, types.HTTPSinkConfig{
		URL:         srv.URL + "/ingest",
		Headers:     map[string]string{"X-Tenant": "acme"},
		BearerToken: "tok",
	})
	if err := hp.WriteBatch(context.Background(), batchOf(3)); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if hdr.Get("Content-Type") != "application/json" || hdr.Get("X-Tenant") != "acme" || hdr.Get("Authorization") != "Bearer tok" {
		t.Fatalf("unexpected headers %v", hdr)
	}
	if hdr.Get("Content-Encoding") != "" {
		t.Fatalf("unexpected content encoding")
	}
}

func TestPostsCompressedNDJSON(t *testing.T) {
	var lines int
	var encoding string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoding = r.Header.Get("Content-Encoding")
		raw, _ := io.ReadAll(r.Body)
		plain, err := codec.Decompress(raw, codec.CompressZstd)
		if err != nil {
			t.Errorf("Decompress: %v", err)
		}
		lines = strings.Count(string(plain), "\n")
	}))
	defer srv.Close()

	hp := newSink(t, types.HTTPSinkConfig{URL: srv.URL, Format: "ndjson", Compression: "zstd"})
	if err := hp.WriteBatch(context.Background(), batchOf(5)); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if encoding != "zstd" || lines != 5 {
		t.Fatalf("encoding %q lines %d", encoding, lines)
	}
}

func TestRetriesServerErrorsThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	core, obs := observer.New(zapcore.DebugLevel)
	logger := internallogger.NewLogger(internallogger.LoggerWithCore(core), internallogger.LoggerWithLevel("debug"))

	hp := newSink(t, types.HTTPSinkConfig{URL: srv.URL, MaxAttempts: 3}, WithLogger(logger))
	if err := hp.WriteBatch(context.Background(), batchOf(1)); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
	if n := obs.FilterMessage("Webhook retry").Len(); n != 2 {
		t.Fatalf("expected 2 retry warnings, got %d", n)
	}
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	hp := newSink(t, types.HTTPSinkConfig{URL: srv.URL})
	err := hp.WriteBatch(context.Background(), batchOf(1))
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest || se.Body != "bad payload" {
		t.Fatalf("expected 400 StatusError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestExhaustedRetriesFail(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	hp := newSink(t, types.HTTPSinkConfig{URL: srv.URL, MaxAttempts: 2})
	if err := hp.WriteBatch(context.Background(), batchOf(1)); err == nil {
		t.Fatalf("expected failure after retries")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestPerAttemptTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	hp := newSink(t, types.HTTPSinkConfig{URL: srv.URL, Timeout: 50 * time.Millisecond, MaxAttempts: 1})
	if err := hp.WriteBatch(context.Background(), batchOf(1)); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestInitializeValidation(t *testing.T) {
	for _, cfg := range []types.HTTPSinkConfig{
		{URL: ""},
		{URL: "ftp://host/x"},
		{URL: "http://host", Format: "xml"},
		{URL: "http://host", Compression: "rar"},
	} {
		if err := NewHTTPClientAdapter(WithConfig(cfg)).Initialize(context.Background()); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	if parseRetryAfter("2") != 2*time.Second || parseRetryAfter("soon") != 0 || parseRetryAfter("") != 0 {
		t.Fatalf("unexpected Retry-After parsing")
	}
}

func TestName(t *testing.T) {
	hp := NewHTTPClientAdapter(WithConfig(types.HTTPSinkConfig{URL: "https://hooks.example.com/a"}))
	if hp.Name() != "http:hooks.example.com" {
		t.Fatalf("unexpected name %q", hp.Name())
	}
}
