package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/builder"
)

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

func login(w http.ResponseWriter, r *http.Request) {
	log := builder.LoggerFromContext(r.Context(), "accounts")

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warning("malformed login body", map[string]string{"error": err.Error()})
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		log.Error("empty password", errors.New("missing credential"), map[string]string{"user": req.User})
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	log.Information("login accepted", map[string]string{"user": req.User})
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"user": req.User, "token": "t-" + req.User})
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := builder.NewLogger(builder.LoggerWithDevelopment(true), builder.LoggerWithLevel("info"))

	stdout := builder.NewFileSink(
		builder.FileSinkWithWriter(os.Stdout),
		builder.FileSinkWithLogger(logger),
		builder.FileSinkWithComponentMetadata("stdout", "stdout-1"),
	)

	pipeline := builder.NewPipeline(
		builder.PipelineWithLogger(logger),
		builder.PipelineWithPrimarySink(stdout),
		builder.PipelineWithQueueStrategy(builder.QueueBoundedDropWrite, 10000),
		builder.PipelineWithBufferLimit(100),
		builder.PipelineWithFlushInterval(2*time.Second),
		builder.PipelineWithRequestRedactedKeys("password"),
		builder.PipelineWithResponseRedactedKeys("token"),
	)
	if err := pipeline.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pipeline start: %v\n", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/login", login)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	capture := builder.NewCaptureMiddleware(pipeline,
		builder.CaptureWithIgnoredRoutes("/health"),
		builder.CaptureWithCorrelationIDHeader("X-Correlation-Id"),
		builder.CaptureWithIgnoredHeaders("Authorization", "Cookie"),
		builder.CaptureWithLogger(logger),
	)

	srv := &http.Server{Addr: builder.EnvOr("FLEXLOG_ADDR", ":8080"), Handler: capture(mux)}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "listen: %v\n", err)
			cancel()
		}
	}()
	fmt.Printf("listening on %s; try:\n  curl -XPOST localhost%s/login -H 'Content-Type: application/json' -d '{\"user\":\"ada\",\"password\":\"hunter2\"}'\n", srv.Addr, srv.Addr)

	<-ctx.Done()

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	_ = srv.Shutdown(shutdownCtx)
	if err := pipeline.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "pipeline shutdown: %v\n", err)
	}
}
