package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/builder"
)

// The primary webhook points at a port nothing listens on, so every batch
// falls through to the local file. A circuit breaker stops the dead webhook
// from being dialled on every flush. The meter reports what happened.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := builder.NewLogger(builder.LoggerWithLevel("info"), builder.LoggerWithFields(map[string]interface{}{"app": "fallback-demo"}))

	meter := builder.NewMeter(builder.MeterWithLogger(logger))
	go meter.Monitor(ctx, 2*time.Second)

	sensor := builder.NewSensor(
		builder.SensorWithMeter(meter),
		builder.SensorWithOnFallbackFunc(func(_ builder.ComponentMetadata, n int) {
			fmt.Printf("[sensor] primaries failed, %d records routed to fallback\n", n)
		}),
		builder.SensorWithOnDeliveryFailureFunc(func(_ builder.ComponentMetadata, n int, err error) {
			fmt.Printf("[sensor] %d records lost: %v\n", n, err)
		}),
		builder.SensorWithOnQueueDropFunc(func(_ builder.ComponentMetadata, r *builder.LogRecord) {
			fmt.Printf("[sensor] queue full, dropped %s\n", r.ID)
		}),
	)

	webhook := builder.NewHTTPSink(
		builder.HTTPSinkWithConfig(builder.HTTPSinkConfig{
			URL:         "http://127.0.0.1:9/unreachable",
			Timeout:     300 * time.Millisecond,
			MaxAttempts: 1,
		}),
		builder.HTTPSinkWithSensor(sensor),
	)
	// After two failed batches the webhook is skipped for ten seconds.
	primary := builder.NewCircuitBreakerSink(webhook, 2, 10*time.Second,
		builder.CircuitBreakerWithLogger(logger),
		builder.CircuitBreakerWithSensor(sensor),
	)
	fallback := builder.NewFileSink(
		builder.FileSinkWithConfig(builder.FileSinkConfig{Path: "fallback.ndjson"}),
		builder.FileSinkWithSensor(sensor),
	)

	cfg := builder.PipelineConfigFromEnv("FLEXLOG")
	pipeline := builder.NewPipeline(
		builder.PipelineWithConfig(cfg),
		builder.PipelineWithLogger(logger),
		builder.PipelineWithSensor(sensor),
		builder.PipelineWithQueueStrategy(builder.QueueBoundedDropWrite, 200),
		builder.PipelineWithPrimarySink(primary),
		builder.PipelineWithFallbackSink(fallback),
		builder.PipelineWithBufferLimit(100),
		builder.PipelineWithFlushInterval(time.Second),
	)
	if err := pipeline.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "start: %v\n", err)
	}

	// A burst larger than the queue to show DropWrite shedding.
	for i := 0; i < 500; i++ {
		rec := builder.NewLogRecord()
		rec.Endpoint = "GET /burst"
		pipeline.Enqueue(rec)
	}
	time.Sleep(3 * time.Second)

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := pipeline.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
	cancel()

	for _, m := range []builder.MetricName{
		builder.MetricRecordsEnqueuedTotal,
		builder.MetricRecordsDroppedTotal,
		builder.MetricBatchesFlushedTotal,
		builder.MetricFallbackTotal,
		builder.MetricDeliveryFailureTotal,
		builder.MetricSinkWriteErrorTotal,
	} {
		fmt.Printf("%-28s %d\n", m, meter.GetMetricCount(string(m)))
	}
}
