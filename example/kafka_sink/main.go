package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joeydtaylor/flexlog/pkg/builder"
)

// Point FLEXLOG_KAFKA_BROKERS at a local broker. TLS and SASL are enabled
// only when their variables are set.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := builder.NewLogger(builder.LoggerWithDevelopment(true))

	var secOpts []builder.KafkaSecurityOption
	secOpts = append(secOpts, builder.WithClientID("flexlog-example"))
	if ca := builder.EnvOr("FLEXLOG_KAFKA_CA", ""); ca != "" {
		tlsCfg, err := builder.TLSFromCAPathCSV(ca, builder.EnvOr("FLEXLOG_KAFKA_SERVER_NAME", "localhost"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "tls: %v\n", err)
			return
		}
		secOpts = append(secOpts, builder.WithTLS(tlsCfg))
	}
	if user := builder.EnvOr("FLEXLOG_KAFKA_USER", ""); user != "" {
		mech, err := builder.SASLMechanism(user, builder.EnvOr("FLEXLOG_KAFKA_PASS", ""), builder.EnvOr("FLEXLOG_KAFKA_MECH", "SCRAM-SHA-256"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "sasl: %v\n", err)
			return
		}
		secOpts = append(secOpts, builder.WithSASL(mech))
	}

	sink := builder.NewKafkaSink(
		builder.KafkaSinkWithConfig(builder.KafkaSinkConfig{
			Brokers:     builder.EnvListOr("FLEXLOG_KAFKA_BROKERS", []string{"127.0.0.1:9092"}),
			Topic:       builder.EnvOr("FLEXLOG_KAFKA_TOPIC", "flexlog-records"),
			KeyTemplate: "{traceId}",
			HeaderTemplates: map[string]string{
				"endpoint": "{endpoint}",
				"source":   "flexlog-example",
			},
			Compression:  "snappy",
			BatchTimeout: 200 * time.Millisecond,
			Security:     builder.NewKafkaSecurity(secOpts...),
		}),
		builder.KafkaSinkWithLogger(logger),
		builder.KafkaSinkWithSensor(builder.NewSensor(
			builder.SensorWithOnSinkWriteSuccessFunc(func(_ builder.ComponentMetadata, sink string, n int, elapsed time.Duration) {
				fmt.Printf("[sensor] %s wrote %d records in %s\n", sink, n, elapsed)
			}),
			builder.SensorWithOnSinkWriteErrorFunc(func(_ builder.ComponentMetadata, sink string, n int, err error) {
				fmt.Printf("[sensor] %s failed %d records: %v\n", sink, n, err)
			}),
		)),
	)

	fallback := builder.NewFileSink(
		builder.FileSinkWithConfig(builder.FileSinkConfig{Path: "kafka-fallback.ndjson", SyncEveryBatch: true}),
		builder.FileSinkWithLogger(logger),
	)

	pipeline := builder.NewPipeline(
		builder.PipelineWithLogger(logger),
		builder.PipelineWithPrimarySink(sink),
		builder.PipelineWithFallbackSink(fallback),
		builder.PipelineWithBufferLimit(50),
		builder.PipelineWithFlushInterval(time.Second),
		builder.PipelineWithSinkWriteTimeout(10*time.Second),
		builder.PipelineWithRequestRedactedKeys("cardNumber"),
	)
	if err := pipeline.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "start: %v\n", err)
	}

	for i := 0; i < 120; i++ {
		rec := builder.NewLogRecord()
		rec.Protocol = "HTTP/1.1"
		rec.Endpoint = fmt.Sprintf("POST /orders/%d", i)
		rec.ResponseStatusCode = 201
		body := fmt.Sprintf(`{"order":%d,"cardNumber":"4111-1111-1111-%04d"}`, i, i)
		rec.RequestBody = builder.NewBodyCapture("application/json", []byte(body), int64(len(body)), false)
		rec.AddEntry(builder.LogEntry{
			Level:    builder.EntryInformation,
			Category: "orders",
			Message:  "order accepted",
		})
		pipeline.Enqueue(rec)
	}

	if err := pipeline.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}
