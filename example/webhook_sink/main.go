package main

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/builder"
)

// receiver stands in for a log collector: it accepts gzip ndjson batches and
// prints one line per record.
func receiver(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer demo-token" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var body io.Reader = r.Body
	if r.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer zr.Close()
		body = zr
	}
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		fmt.Printf("[collector] %s\n", sc.Text())
	}
	fmt.Printf("[collector] batch of %d records\n", n)
	w.WriteHeader(http.StatusAccepted)
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Fprintf(os.Stderr, "listen: %v\n", err)
		return
	}
	collector := &http.Server{Handler: http.HandlerFunc(receiver)}
	go func() { _ = collector.Serve(ln) }()
	defer collector.Close()

	logger := builder.NewLogger(builder.LoggerWithLevel("info"))

	sink := builder.NewHTTPSink(
		builder.HTTPSinkWithConfig(builder.HTTPSinkConfig{
			URL:         "http://" + ln.Addr().String() + "/ingest",
			Format:      "ndjson",
			Compression: "gzip",
			BearerToken: "demo-token",
			Headers:     map[string]string{"X-Source": "flexlog-example"},
			Timeout:     5 * time.Second,
			MaxAttempts: 3,
		}),
		builder.HTTPSinkWithLogger(logger),
		builder.HTTPSinkWithComponentMetadata("collector", "http-1"),
	)

	pipeline := builder.NewPipeline(
		builder.PipelineWithLogger(logger),
		builder.PipelineWithPrimarySink(sink),
		builder.PipelineWithBufferLimit(10),
		builder.PipelineWithFlushInterval(500*time.Millisecond),
		builder.PipelineWithRequestRedactedKeys("apiKey"),
	)
	if err := pipeline.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "start: %v\n", err)
	}

	for i := 0; i < 25; i++ {
		rec := builder.NewLogRecord()
		rec.Endpoint = "POST /keys"
		rec.ResponseStatusCode = 201
		body := fmt.Sprintf(`{"name":"key-%d","apiKey":"sk_live_%d"}`, i, i)
		rec.RequestBody = builder.NewBodyCapture("application/json", []byte(body), int64(len(body)), false)
		pipeline.Enqueue(rec)
		time.Sleep(50 * time.Millisecond)
	}

	if err := pipeline.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}
