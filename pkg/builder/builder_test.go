package builder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type capturedLine struct {
	ID          string `json:"id"`
	Endpoint    string `json:"endpoint"`
	RequestBody struct {
		Body string `json:"body"`
	} `json:"requestBody"`
	ResponseStatusCode int `json:"responseStatusCode"`
	Entries            []struct {
		Level    string `json:"level"`
		Category string `json:"category"`
		Message  string `json:"message"`
	} `json:"entries"`
}

func TestCaptureThroughPipelineToFileSink(t *testing.T) {
	var out bytes.Buffer
	meter := NewMeter(MeterWithoutHostSampling())
	sink := NewFileSink(FileSinkWithWriter(&out), FileSinkWithComponentMetadata("stdout", "file-1"))
	p := NewPipeline(
		PipelineWithSensor(NewSensor(SensorWithMeter(meter))),
		PipelineWithQueueStrategy(QueueBoundedDropWrite, 100),
		PipelineWithPrimarySink(sink),
		PipelineWithRequestRedactedKeys("Password"),
		PipelineWithFlushInterval(time.Hour),
	)
	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		LoggerFromContext(r.Context(), "accounts").Information("login attempt", nil)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	srv := httptest.NewServer(NewCaptureMiddleware(p, CaptureWithCorrelationIDHeader("X-Correlation-Id"))(app))
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/login", strings.NewReader(`{"user":"ada","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Correlation-Id", "c-1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	_ = resp.Body.Close()
	srv.Close()

	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	sc := bufio.NewScanner(&out)
	var lines []capturedLine
	for sc.Scan() {
		var l capturedLine
		if err := json.Unmarshal(sc.Bytes(), &l); err != nil {
			t.Fatalf("bad line %s: %v", sc.Text(), err)
		}
		lines = append(lines, l)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d", len(lines))
	}
	got := lines[0]
	if got.ID != "c-1" || got.Endpoint != "POST /login" || got.ResponseStatusCode != http.StatusOK {
		t.Fatalf("unexpected record %+v", got)
	}
	if got.RequestBody.Body != `{"user":"ada","password":"REDACTED"}` {
		t.Fatalf("request body not redacted: %q", got.RequestBody.Body)
	}
	if len(got.Entries) != 1 || got.Entries[0].Category != "accounts" || got.Entries[0].Level != "Information" {
		t.Fatalf("unexpected entries %+v", got.Entries)
	}
	if meter.GetMetricCount(string(MetricRecordsFlushedTotal)) != 1 {
		t.Fatalf("meter saw %d flushed records", meter.GetMetricCount(string(MetricRecordsFlushedTotal)))
	}
}
