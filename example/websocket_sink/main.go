package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/builder"
	"nhooyr.io/websocket"
)

// tail accepts a websocket and prints the endpoint of every record it is sent.
func tail(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")
	for {
		_, payload, err := conn.Read(r.Context())
		if err != nil {
			return
		}
		var batch []struct {
			ID       string `json:"id"`
			Endpoint string `json:"endpoint"`
		}
		if err := json.Unmarshal(payload, &batch); err != nil {
			fmt.Printf("[tail] undecodable frame: %v\n", err)
			continue
		}
		for _, rec := range batch {
			fmt.Printf("[tail] %s %s\n", rec.ID, rec.Endpoint)
		}
	}
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Fprintf(os.Stderr, "listen: %v\n", err)
		return
	}
	srv := &http.Server{Handler: http.HandlerFunc(tail)}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	logger := builder.NewLogger(builder.LoggerWithDevelopment(true))

	sink := builder.NewWebSocketSink(
		builder.WebSocketSinkWithConfig(builder.WebSocketSinkConfig{
			URL:          "ws://" + ln.Addr().String() + "/tail",
			Headers:      map[string]string{"X-Source": "flexlog-example"},
			WriteTimeout: 5 * time.Second,
		}),
		builder.WebSocketSinkWithLogger(logger),
	)

	pipeline := builder.NewPipeline(
		builder.PipelineWithLogger(logger),
		builder.PipelineWithPrimarySink(sink),
		builder.PipelineWithFallbackSink(builder.NewFileSink(builder.FileSinkWithWriter(os.Stderr))),
		builder.PipelineWithBufferLimit(5),
		builder.PipelineWithFlushInterval(time.Second),
	)
	if err := pipeline.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "start: %v\n", err)
	}

	for i := 0; i < 12; i++ {
		rec := builder.NewLogRecord()
		rec.Endpoint = fmt.Sprintf("GET /items/%d", i)
		rec.ResponseStatusCode = 200
		pipeline.Enqueue(rec)
	}

	if err := pipeline.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}
